package models

import "time"

type Compiler string

const (
	CompilerPDFLaTeX Compiler = "pdflatex"
	CompilerXeLaTeX  Compiler = "xelatex"
	CompilerLuaLaTeX Compiler = "lualatex"
)

type PublicAccess string

const (
	PublicNone PublicAccess = "none"
	PublicRead PublicAccess = "read"
	PublicEdit PublicAccess = "edit"
)

type Project struct {
	ID               string       `gorm:"primaryKey" json:"id"`
	ShortID          string       `gorm:"uniqueIndex" json:"short_id"`
	Name             string       `json:"name"`
	OwnerID          string       `gorm:"index" json:"owner_id"`
	EntrypointFileID *string      `json:"entrypoint_file_id"`
	Compiler         Compiler     `gorm:"default:pdflatex" json:"compiler"`
	HaltOnError      bool         `json:"halt_on_error"`
	PublicAccess     PublicAccess `gorm:"default:none" json:"public_access"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}
