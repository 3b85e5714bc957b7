package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"texhub/api/errs"
	"texhub/api/types"
	"texhub/models"
	"texhub/services"
)

func ProjectCreate(c *gin.Context) {
	userID := currentUser(c)
	if userID == "" {
		c.Error(errs.ErrNotAuthenticated)
		return
	}

	var request types.ProjectCreateRequest
	if err := c.ShouldBindWith(&request, binding.JSON); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, types.Response{Status: "error", Message: err.Error()})
		return
	}

	project, err := services.CreateProject(userID, request.Name, request.SkipDefaultFile)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.Response{
		Status: "success",
		Data:   project,
	})
}

func ProjectList(c *gin.Context) {
	c.JSON(http.StatusOK, types.Response{
		Status: "success",
		Data:   services.ListProjects(currentUser(c)),
	})
}

// ProjectGet looks projects up by their public short id.
func ProjectGet(c *gin.Context) {
	var project models.Project
	if err := models.DB.First(&project, "short_id = ?", c.Params.ByName("id")).Error; err != nil {
		c.Error(errs.ErrProjectNotFound)
		return
	}

	role, err := services.ResolveAccess(currentUser(c), &project, false)
	if err != nil {
		// Existence is not disclosed to callers without access.
		c.Error(errs.ErrProjectNotFound)
		return
	}

	c.JSON(http.StatusOK, types.Response{
		Status: "success",
		Data: gin.H{
			"project":      project,
			"access_level": role,
			"is_owned":     role == services.RoleOwner,
		},
	})
}

func ProjectUpdate(c *gin.Context) {
	project, ok := loadProject(c, c.Params.ByName("id"))
	if !ok {
		return
	}
	if !requireOwner(c, project) {
		return
	}

	var request types.ProjectUpdateRequest
	if err := c.MustBindWith(&request, binding.JSON); err != nil {
		return
	}

	patch := map[string]any{"updated_at": time.Now()}
	if request.Name != nil {
		patch["name"] = *request.Name
	}
	if request.Compiler != nil {
		patch["compiler"] = models.Compiler(*request.Compiler)
	}
	if request.HaltOnError != nil {
		patch["halt_on_error"] = *request.HaltOnError
	}
	if request.PublicAccess != nil {
		patch["public_access"] = models.PublicAccess(*request.PublicAccess)
	}
	if err := models.DB.Model(project).Updates(patch).Error; err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Response{Status: "success", Message: "updated"})
}

func ProjectDelete(c *gin.Context) {
	project, ok := loadProject(c, c.Params.ByName("id"))
	if !ok {
		return
	}
	if !requireOwner(c, project) {
		return
	}

	if err := services.DeleteProject(c.Request.Context(), Store, project); err != nil {
		c.Error(err)
		return
	}
	Cache.Invalidate(project.ID)
	c.JSON(http.StatusOK, types.Response{Status: "success", Message: "deleted"})
}

func ProjectSetEntrypoint(c *gin.Context) {
	project, ok := loadProject(c, c.Params.ByName("id"))
	if !ok {
		return
	}
	if !requireOwner(c, project) {
		return
	}

	var request types.EntrypointRequest
	if err := c.MustBindWith(&request, binding.JSON); err != nil {
		return
	}

	var file models.ProjectFile
	if err := models.DB.First(&file, "id = ? AND project_id = ?", request.FileID, project.ID).Error; err != nil {
		c.Error(errs.ErrFileNotFound)
		return
	}
	if !strings.HasSuffix(file.Name, ".tex") {
		c.Error(errs.ErrEntrypointNotTex)
		return
	}

	if err := models.DB.Model(project).Update("entrypoint_file_id", file.ID).Error; err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Response{Status: "success", Message: "entrypoint set"})
}
