package controllers

import (
	"github.com/gin-gonic/gin"

	"texhub/api/errs"
	"texhub/models"
	"texhub/services"
)

var (
	Store    services.BlobStore
	Cache    *services.CompileCache
	Compiler *services.CompilerClient
	Uploader *services.Uploader
)

func Setup(store services.BlobStore, cache *services.CompileCache, compiler *services.CompilerClient, uploader *services.Uploader) {
	Store = store
	Cache = cache
	Compiler = compiler
	Uploader = uploader
}

// Identity provisioning is external; the authenticated caller arrives in
// headers set by the auth proxy. Empty means anonymous.
func currentUser(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}

func currentEmail(c *gin.Context) string {
	return c.GetHeader("X-User-Email")
}

func loadProject(c *gin.Context, id string) (*models.Project, bool) {
	var project models.Project
	if err := models.DB.First(&project, "id = ?", id).Error; err != nil {
		c.Error(errs.ErrProjectNotFound)
		return nil, false
	}
	return &project, true
}

func loadFile(c *gin.Context, id string) (*models.ProjectFile, bool) {
	var file models.ProjectFile
	if err := models.DB.First(&file, "id = ?", id).Error; err != nil {
		c.Error(errs.ErrFileNotFound)
		return nil, false
	}
	return &file, true
}

// requireOwner guards admin operations: project settings, deletion,
// entrypoint, share management.
func requireOwner(c *gin.Context, project *models.Project) bool {
	userID := currentUser(c)
	if userID == "" {
		c.Error(errs.ErrNotAuthenticated)
		return false
	}
	if project.OwnerID != userID {
		c.Error(errs.ErrNotAuthorized)
		return false
	}
	return true
}

func requireEditor(c *gin.Context, project *models.Project) bool {
	if _, err := services.ResolveAccess(currentUser(c), project, true); err != nil {
		c.Error(err)
		return false
	}
	return true
}
