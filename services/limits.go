package services

import (
	"texhub/api/errs"
	"texhub/models"
)

const (
	MaxProjectsPerUser  = 20
	MaxProjectSizeBytes = 40 * 1024 * 1024
)

func CheckProjectCount(ownerID string) error {
	var count int64
	models.DB.Model(&models.Project{}).Where("owner_id = ?", ownerID).Count(&count)
	if count >= MaxProjectsPerUser {
		return errs.ErrProjectLimit
	}
	return nil
}

// CheckProjectSize verifies the aggregate text content stays under the
// project cap after adding newContentBytes. excludeFileID discounts the
// file whose content is being replaced.
func CheckProjectSize(projectID string, newContentBytes int64, excludeFileID string) error {
	var files []models.ProjectFile
	models.DB.Find(&files, "project_id = ?", projectID)

	total := newContentBytes
	for _, f := range files {
		if excludeFileID != "" && f.ID == excludeFileID {
			continue
		}
		total += int64(len(f.Content))
	}
	if total > MaxProjectSizeBytes {
		return errs.ErrProjectSizeLimit
	}
	return nil
}
