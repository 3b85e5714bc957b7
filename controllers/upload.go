package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"texhub/api/types"
	"texhub/services"
)

// ProjectUpload ingests a multipart batch through the upload pipeline. Each
// part's filename is its logical path; an optional "prefix" field nests the
// whole batch under a directory.
func ProjectUpload(c *gin.Context) {
	project, ok := loadProject(c, c.Params.ByName("id"))
	if !ok {
		return
	}
	if !requireEditor(c, project) {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.Response{Status: "error", Message: err.Error()})
		return
	}
	prefix := strings.Trim(c.PostForm("prefix"), "/")

	var items []services.NamedBlob
	for _, header := range form.File["files"] {
		part, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, types.Response{Status: "error", Message: err.Error()})
			return
		}
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, types.Response{Status: "error", Message: err.Error()})
			return
		}

		name := strings.TrimLeft(header.Filename, "/")
		if prefix != "" {
			name = prefix + "/" + name
		}
		items = append(items, services.NamedBlob{
			Name:        name,
			Data:        data,
			ContentType: header.Header.Get("Content-Type"),
		})
	}

	result := Uploader.UploadBatch(c.Request.Context(), project.ID, items, services.UploadOptions{})
	c.JSON(http.StatusOK, types.Response{Status: "success", Data: result})
}
