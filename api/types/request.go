package types

type ProjectCreateRequest struct {
	Name            string `json:"name"`
	SkipDefaultFile bool   `json:"skip_default_file"`
}

type ProjectUpdateRequest struct {
	Name         *string `json:"name"`
	Compiler     *string `json:"compiler" binding:"omitempty,oneof=pdflatex xelatex lualatex"`
	HaltOnError  *bool   `json:"halt_on_error"`
	PublicAccess *string `json:"public_access" binding:"omitempty,oneof=none read edit"`
}

type EntrypointRequest struct {
	FileID string `json:"file_id" binding:"required"`
}

type FileCreateRequest struct {
	Name    string `json:"name" binding:"required"`
	Content string `json:"content"`
}

type FileContentRequest struct {
	Content string `json:"content"`
}

type FileRenameRequest struct {
	Name string `json:"name" binding:"required"`
}

type DirectoryCreateRequest struct {
	Path string `json:"path" binding:"required"`
}

type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=editor viewer"`
}

type CompileRequest struct {
	Force   bool   `json:"force"`
	Timeout int    `json:"timeout"`
	DraftID string `json:"draft_file_id"`
	Draft   string `json:"draft_content"`
}
