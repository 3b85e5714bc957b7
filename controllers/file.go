package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog/log"

	"texhub/api/types"
	"texhub/models"
	"texhub/services"
)

type fileView struct {
	models.ProjectFile
	StorageURL string `json:"storage_url,omitempty"`
}

// FileList returns the project's flat file list plus the projected
// directory tree. Callers without access see an empty listing, not an
// error.
func FileList(c *gin.Context) {
	project, ok := loadProject(c, c.Params.ByName("id"))
	if !ok {
		return
	}
	if !services.CanRead(currentUser(c), project) {
		c.JSON(http.StatusOK, types.Response{
			Status: "success",
			Data:   gin.H{"files": []fileView{}, "directories": []string{}, "children": gin.H{}},
		})
		return
	}

	var files []models.ProjectFile
	models.DB.Find(&files, "project_id = ?", project.ID)

	tree := services.ProjectTree(files)

	views := make([]fileView, 0, len(files))
	for _, f := range files {
		if services.IsPlaceholder(f.Name) {
			continue
		}
		view := fileView{ProjectFile: f}
		if f.StorageRef != nil {
			url, err := Store.RetrievableURL(c.Request.Context(), *f.StorageRef)
			if err != nil {
				log.Warn().Err(err).Str("file", f.ID).Msg("failed to resolve storage url")
			} else {
				view.StorageURL = url
			}
		}
		views = append(views, view)
	}

	dirs := make([]string, 0, len(tree.Dirs))
	for dir := range tree.Dirs {
		dirs = append(dirs, dir)
	}

	c.JSON(http.StatusOK, types.Response{
		Status: "success",
		Data: gin.H{
			"files":       views,
			"directories": dirs,
			"children":    tree.Children,
		},
	})
}

func FileCreate(c *gin.Context) {
	project, ok := loadProject(c, c.Params.ByName("id"))
	if !ok {
		return
	}
	if !requireEditor(c, project) {
		return
	}

	var request types.FileCreateRequest
	if err := c.MustBindWith(&request, binding.JSON); err != nil {
		return
	}

	file, err := services.CreateTextFile(project.ID, request.Name, request.Content)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.Response{Status: "success", Data: file})
}

func DirectoryCreate(c *gin.Context) {
	project, ok := loadProject(c, c.Params.ByName("id"))
	if !ok {
		return
	}
	if !requireEditor(c, project) {
		return
	}

	var request types.DirectoryCreateRequest
	if err := c.MustBindWith(&request, binding.JSON); err != nil {
		return
	}

	if _, err := services.CreateDirectory(project.ID, request.Path); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.Response{Status: "success", Message: "created"})
}

func FileUpdateContent(c *gin.Context) {
	file, ok := loadFile(c, c.Params.ByName("id"))
	if !ok {
		return
	}
	project, ok := loadProject(c, file.ProjectID)
	if !ok {
		return
	}
	if !requireEditor(c, project) {
		return
	}

	var request types.FileContentRequest
	if err := c.MustBindWith(&request, binding.JSON); err != nil {
		return
	}

	if err := services.UpdateFileContent(file, request.Content); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Response{Status: "success", Message: "updated"})
}

func FileRename(c *gin.Context) {
	file, ok := loadFile(c, c.Params.ByName("id"))
	if !ok {
		return
	}
	project, ok := loadProject(c, file.ProjectID)
	if !ok {
		return
	}
	if !requireEditor(c, project) {
		return
	}

	var request types.FileRenameRequest
	if err := c.MustBindWith(&request, binding.JSON); err != nil {
		return
	}

	if err := services.RenameFile(file, request.Name); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Response{Status: "success", Message: "renamed"})
}

func FileDelete(c *gin.Context) {
	file, ok := loadFile(c, c.Params.ByName("id"))
	if !ok {
		return
	}
	project, ok := loadProject(c, file.ProjectID)
	if !ok {
		return
	}
	if !requireEditor(c, project) {
		return
	}

	if err := services.DeleteFile(c.Request.Context(), Store, file); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Response{Status: "success", Message: "deleted"})
}
