package models

import "time"

// ProjectFile holds a flat path-named file. Name is "/"-delimited with no
// leading slash; directories exist only as common prefixes of file names.
// Name must stay unique within a project; the check happens at write time.
type ProjectFile struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	ProjectID  string    `gorm:"index;not null" json:"project_id"`
	Name       string    `gorm:"not null" json:"name"`
	Content    string    `json:"content"`
	StorageRef *string   `json:"storage_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
