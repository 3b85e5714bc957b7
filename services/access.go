package services

import (
	"texhub/api/errs"
	"texhub/models"
)

// Role is the effective access level for a (user, project) pair.
type Role string

const (
	RoleOwner        Role = "owner"
	RoleEditor       Role = "editor"
	RoleViewer       Role = "viewer"
	RolePublicEditor Role = "public-editor"
	RolePublicViewer Role = "public-viewer"
	RoleDenied       Role = "denied"
)

func (r Role) CanEdit() bool {
	return r == RoleOwner || r == RoleEditor || r == RolePublicEditor
}

// ResolveAccess is the single source of truth for permission decisions.
// Resolution order: ownership, then membership, then the project's public
// access level. With requireEditor set, viewer-grade roles are denied.
// An empty userID means the caller is unauthenticated.
func ResolveAccess(userID string, project *models.Project, requireEditor bool) (Role, error) {
	if userID != "" && project.OwnerID == userID {
		return RoleOwner, nil
	}

	if userID != "" {
		var member models.Membership
		err := models.DB.First(&member, "project_id = ? AND user_id = ?", project.ID, userID).Error
		if err == nil {
			if member.Role == models.MemberViewer {
				if requireEditor {
					return RoleDenied, errs.ErrNotAuthorized
				}
				return RoleViewer, nil
			}
			return RoleEditor, nil
		}
	}

	switch project.PublicAccess {
	case models.PublicEdit:
		return RolePublicEditor, nil
	case models.PublicRead:
		if requireEditor {
			return RoleDenied, errs.ErrNotAuthorized
		}
		return RolePublicViewer, nil
	}

	return RoleDenied, errs.ErrNotAuthorized
}

// CanRead is the permissive variant used by listing operations: callers
// without access see empty results instead of an error.
func CanRead(userID string, project *models.Project) bool {
	_, err := ResolveAccess(userID, project, false)
	return err == nil
}
