package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"texhub/models"
)

// AddInvite records a share grant for an email that may not have an account
// yet. Emails are stored lowercased so later resolution matches regardless
// of casing.
func AddInvite(projectID, email string, role models.MemberRole, inviterID string) (*models.PendingInvite, error) {
	invite := models.PendingInvite{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Email:     strings.ToLower(email),
		Role:      role,
		InvitedBy: inviterID,
		CreatedAt: time.Now(),
	}
	if err := models.DB.Create(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// ResolvePendingInvites converts every invite matching the authenticated
// email into a membership and deletes the invite. A user already holding a
// membership on the project keeps it; no duplicate is created either way.
func ResolvePendingInvites(userID, email string) error {
	if userID == "" || email == "" {
		return nil
	}

	var invites []models.PendingInvite
	if err := models.DB.Find(&invites, "email = ?", strings.ToLower(email)).Error; err != nil {
		return err
	}

	for _, invite := range invites {
		var count int64
		models.DB.Model(&models.Membership{}).
			Where("project_id = ? AND user_id = ?", invite.ProjectID, userID).
			Count(&count)
		if count == 0 {
			member := models.Membership{
				ID:        uuid.NewString(),
				ProjectID: invite.ProjectID,
				UserID:    userID,
				Role:      invite.Role,
				CreatedAt: time.Now(),
			}
			if err := models.DB.Create(&member).Error; err != nil {
				return err
			}
		}
		if err := models.DB.Delete(&models.PendingInvite{}, "id = ?", invite.ID).Error; err != nil {
			return err
		}
	}
	return nil
}
