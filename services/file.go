package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"texhub/api/errs"
	"texhub/models"
)

type TextEntry struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type BinaryEntry struct {
	Name       string `json:"name"`
	StorageRef string `json:"storage_ref"`
}

// nameTaken is advisory: checked at write time only, so two concurrent
// writers can still race. The loser gets a name collision on its next try.
func nameTaken(projectID, name, excludeFileID string) bool {
	var count int64
	q := models.DB.Model(&models.ProjectFile{}).Where("project_id = ? AND name = ?", projectID, name)
	if excludeFileID != "" {
		q = q.Where("id <> ?", excludeFileID)
	}
	q.Count(&count)
	return count > 0
}

func CreateTextFile(projectID, name, content string) (*models.ProjectFile, error) {
	if nameTaken(projectID, name, "") {
		return nil, errs.ErrNameConflict
	}
	if err := CheckProjectSize(projectID, int64(len(content)), ""); err != nil {
		return nil, err
	}
	now := time.Now()
	file := models.ProjectFile{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Name:      name,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := models.DB.Create(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// CreateDirectory makes an otherwise-empty directory representable by
// inserting its placeholder sentinel file.
func CreateDirectory(projectID, path string) (*models.ProjectFile, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, errs.ErrNameConflict
	}
	return CreateTextFile(projectID, path+PlaceholderSuffix, "")
}

func UpdateFileContent(file *models.ProjectFile, content string) error {
	if err := CheckProjectSize(file.ProjectID, int64(len(content)), file.ID); err != nil {
		return err
	}
	return models.DB.Model(file).Updates(map[string]any{
		"content":    content,
		"updated_at": time.Now(),
	}).Error
}

// RenameFile also expresses moves: a new parent prefix relocates the file.
// Renaming the entrypoint to a non-.tex name clears the project's
// entrypoint reference.
func RenameFile(file *models.ProjectFile, name string) error {
	if nameTaken(file.ProjectID, name, file.ID) {
		return errs.ErrNameConflict
	}
	if err := models.DB.Model(file).Updates(map[string]any{
		"name":       name,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return err
	}

	if !strings.HasSuffix(name, ".tex") {
		var project models.Project
		if err := models.DB.First(&project, "id = ?", file.ProjectID).Error; err == nil {
			if project.EntrypointFileID != nil && *project.EntrypointFileID == file.ID {
				models.DB.Model(&project).Update("entrypoint_file_id", nil)
			}
		}
	}
	return nil
}

func DeleteFile(ctx context.Context, store BlobStore, file *models.ProjectFile) error {
	var project models.Project
	if err := models.DB.First(&project, "id = ?", file.ProjectID).Error; err == nil {
		if project.EntrypointFileID != nil && *project.EntrypointFileID == file.ID {
			models.DB.Model(&project).Update("entrypoint_file_id", nil)
		}
	}

	if err := models.DB.Delete(&models.ProjectFile{}, "id = ?", file.ID).Error; err != nil {
		return err
	}

	if file.StorageRef != nil && store != nil {
		if err := store.Delete(ctx, *file.StorageRef); err != nil {
			log.Warn().
				Err(err).
				Str("ref", *file.StorageRef).
				Msg("failed to release file blob")
		}
	}
	return nil
}

// CreateManyText registers all text items of an upload batch in one call.
// Batch registration skips the per-name collision check: an upload may
// duplicate an existing name, and the listing shows both rows.
func CreateManyText(projectID string, entries []TextEntry) error {
	var total int64
	for _, e := range entries {
		total += int64(len(e.Content))
	}
	if err := CheckProjectSize(projectID, total, ""); err != nil {
		return err
	}

	now := time.Now()
	files := make([]models.ProjectFile, 0, len(entries))
	for _, e := range entries {
		files = append(files, models.ProjectFile{
			ID:        uuid.NewString(),
			ProjectID: projectID,
			Name:      e.Name,
			Content:   e.Content,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return models.DB.Create(&files).Error
}

// CreateManyBinary registers all uploaded binary items of a batch in one call.
func CreateManyBinary(projectID string, entries []BinaryEntry) error {
	now := time.Now()
	files := make([]models.ProjectFile, 0, len(entries))
	for _, e := range entries {
		ref := e.StorageRef
		files = append(files, models.ProjectFile{
			ID:         uuid.NewString(),
			ProjectID:  projectID,
			Name:       e.Name,
			StorageRef: &ref,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	return models.DB.Create(&files).Error
}
