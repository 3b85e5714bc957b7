package models

import "time"

type MemberRole string

const (
	MemberEditor MemberRole = "editor"
	MemberViewer MemberRole = "viewer"
)

type Membership struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	ProjectID string     `gorm:"not null;uniqueIndex:idx_project_user" json:"project_id"`
	UserID    string     `gorm:"not null;uniqueIndex:idx_project_user;index" json:"user_id"`
	Role      MemberRole `gorm:"not null" json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}
