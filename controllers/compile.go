package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog/log"

	"texhub/api/errs"
	"texhub/api/types"
	"texhub/models"
	"texhub/services"
)

// ProjectCompile runs the compile protocol: fingerprint the current file
// set (with any draft override), consult the session slot, then the
// persistent cache, and only then delegate to the compiler service. Cache
// hits answer with a retrievable artifact URL; a fresh compile streams the
// PDF through and saves it best-effort.
func ProjectCompile(c *gin.Context) {
	project, ok := loadProject(c, c.Params.ByName("id"))
	if !ok {
		return
	}
	if _, err := services.ResolveAccess(currentUser(c), project, false); err != nil {
		c.Error(err)
		return
	}

	var request types.CompileRequest
	if err := c.ShouldBindWith(&request, binding.JSON); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, types.Response{Status: "error", Message: err.Error()})
		return
	}

	var all []models.ProjectFile
	models.DB.Find(&all, "project_id = ?", project.ID)

	// Placeholder sentinels never reach the compiler, so they must not
	// contribute to the fingerprint either.
	files := make([]models.ProjectFile, 0, len(all))
	for _, f := range all {
		if services.IsPlaceholder(f.Name) {
			continue
		}
		files = append(files, f)
	}

	var draft *services.DraftOverride
	if request.DraftID != "" {
		draft = &services.DraftOverride{FileID: request.DraftID, Content: request.Draft}
	}
	fingerprint := services.Fingerprint(files, draft)

	if !request.Force {
		if url, hit := Cache.SessionLookup(project.ID, fingerprint); hit {
			c.JSON(http.StatusOK, types.Response{
				Status: "success",
				Data:   gin.H{"pdf_url": url, "cached": true},
			})
			return
		}
		if url, hit := Cache.Lookup(c.Request.Context(), project.ID, fingerprint); hit {
			c.JSON(http.StatusOK, types.Response{
				Status: "success",
				Data:   gin.H{"pdf_url": url, "cached": true},
			})
			return
		}
	}

	job := services.CompileJob{
		Entrypoint:  services.ResolveEntrypoint(project, files),
		Compiler:    project.Compiler,
		HaltOnError: project.HaltOnError,
		Timeout:     request.Timeout,
		Files:       compileFiles(c, files),
	}
	artifact, err := Compiler.Compile(c.Request.Context(), job)
	if err != nil {
		var cerr *services.CompileError
		if errors.As(err, &cerr) {
			c.Data(cerr.StatusCode, "application/json", cerr.Payload)
			return
		}
		c.Error(fmt.Errorf("%w: %v", errs.ErrCompileFailed, err))
		return
	}

	if err := Cache.Save(c.Request.Context(), project.ID, fingerprint, artifact); err != nil {
		log.Warn().
			Err(err).
			Str("project", project.ID).
			Msg("failed to cache compiled artifact")
	}

	c.Header("Content-Disposition", "inline; filename=output.pdf")
	c.Data(http.StatusOK, "application/pdf", artifact)
}

// compileFiles builds the compiler's file set: text content inline, binary
// payloads as retrievable URLs. A binary file whose URL cannot be resolved
// is still included, with no URL, so the compiler sees the same file set the
// fingerprint covers and fails honestly instead of emitting a partial PDF.
func compileFiles(c *gin.Context, files []models.ProjectFile) []services.CompileFile {
	out := make([]services.CompileFile, 0, len(files))
	for _, f := range files {
		cf := services.CompileFile{Name: f.Name, Content: f.Content}
		if f.StorageRef != nil {
			cf.Content = ""
			url, err := Store.RetrievableURL(c.Request.Context(), *f.StorageRef)
			if err != nil {
				log.Warn().Err(err).Str("file", f.ID).Msg("failed to resolve storage url")
			} else {
				cf.URL = url
			}
		}
		out = append(out, cf)
	}
	return out
}
