package models

import "time"

// CompilationOutput caches one compiled artifact per (project, fingerprint).
// A new save for the same fingerprint replaces StorageRef and CreatedAt; the
// replaced blob is deleted, not retained.
type CompilationOutput struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	ProjectID   string    `gorm:"not null;index;uniqueIndex:idx_project_fingerprint" json:"project_id"`
	Fingerprint string    `gorm:"not null;uniqueIndex:idx_project_fingerprint" json:"fingerprint"`
	StorageRef  string    `gorm:"not null" json:"storage_ref"`
	CreatedAt   time.Time `json:"created_at"`
}
