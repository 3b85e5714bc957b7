package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"texhub/api/errs"
	"texhub/api/types"
	"texhub/models"
	"texhub/services"
)

// Share management is owner-only; listing degrades to empty for everyone
// else.

func MemberList(c *gin.Context) {
	project, ok := loadProject(c, c.Params.ByName("id"))
	if !ok {
		return
	}
	userID := currentUser(c)
	if userID == "" || project.OwnerID != userID {
		c.JSON(http.StatusOK, types.Response{Status: "success", Data: []models.Membership{}})
		return
	}

	var members []models.Membership
	models.DB.Find(&members, "project_id = ?", project.ID)
	c.JSON(http.StatusOK, types.Response{Status: "success", Data: members})
}

func MemberDelete(c *gin.Context) {
	var member models.Membership
	if err := models.DB.First(&member, "id = ?", c.Params.ByName("id")).Error; err != nil {
		c.Error(errs.ErrMemberNotFound)
		return
	}
	project, ok := loadProject(c, member.ProjectID)
	if !ok {
		return
	}
	if !requireOwner(c, project) {
		return
	}

	models.DB.Delete(&models.Membership{}, "id = ?", member.ID)
	c.JSON(http.StatusOK, types.Response{Status: "success", Message: "removed"})
}

func InviteCreate(c *gin.Context) {
	project, ok := loadProject(c, c.Params.ByName("id"))
	if !ok {
		return
	}
	if !requireOwner(c, project) {
		return
	}

	var request types.InviteRequest
	if err := c.MustBindWith(&request, binding.JSON); err != nil {
		return
	}

	invite, err := services.AddInvite(project.ID, request.Email, models.MemberRole(request.Role), currentUser(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.Response{Status: "success", Data: invite})
}

func InviteList(c *gin.Context) {
	project, ok := loadProject(c, c.Params.ByName("id"))
	if !ok {
		return
	}
	userID := currentUser(c)
	if userID == "" || project.OwnerID != userID {
		c.JSON(http.StatusOK, types.Response{Status: "success", Data: []models.PendingInvite{}})
		return
	}

	var invites []models.PendingInvite
	models.DB.Find(&invites, "project_id = ?", project.ID)
	c.JSON(http.StatusOK, types.Response{Status: "success", Data: invites})
}

func InviteDelete(c *gin.Context) {
	var invite models.PendingInvite
	if err := models.DB.First(&invite, "id = ?", c.Params.ByName("id")).Error; err != nil {
		c.Error(errs.ErrInviteNotFound)
		return
	}
	project, ok := loadProject(c, invite.ProjectID)
	if !ok {
		return
	}
	if !requireOwner(c, project) {
		return
	}

	models.DB.Delete(&models.PendingInvite{}, "id = ?", invite.ID)
	c.JSON(http.StatusOK, types.Response{Status: "success", Message: "removed"})
}

// SessionResolveInvites runs on first authenticated contact: pending
// invites matching the caller's email become memberships.
func SessionResolveInvites(c *gin.Context) {
	userID := currentUser(c)
	if userID == "" {
		c.Error(errs.ErrNotAuthenticated)
		return
	}

	if err := services.ResolvePendingInvites(userID, currentEmail(c)); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Response{Status: "success", Message: "resolved"})
}
