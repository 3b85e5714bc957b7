package errs

import (
	"errors"
	"net/http"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrProjectNotFound  = errors.New("project not found")
	ErrFileNotFound     = errors.New("file not found")
	ErrMemberNotFound   = errors.New("member not found")
	ErrInviteNotFound   = errors.New("invite not found")
	ErrNameConflict     = errors.New("a file with that name already exists in the project")
	ErrEntrypointNotTex = errors.New("entrypoint must be a .tex file")
	ErrProjectLimit     = errors.New("project limit reached: you can have at most 20 projects")
	ErrProjectSizeLimit = errors.New("project size limit exceeded: total content cannot exceed 40 MB")
	ErrCompileFailed    = errors.New("compilation failed")
)

var ErrStatusMap = map[error]int{
	ErrNotAuthenticated: http.StatusUnauthorized,
	ErrNotAuthorized:    http.StatusForbidden,
	ErrProjectNotFound:  http.StatusNotFound,
	ErrFileNotFound:     http.StatusNotFound,
	ErrMemberNotFound:   http.StatusNotFound,
	ErrInviteNotFound:   http.StatusNotFound,
	ErrNameConflict:     http.StatusConflict,
	ErrEntrypointNotTex: http.StatusUnprocessableEntity,
	ErrProjectLimit:     http.StatusUnprocessableEntity,
	ErrProjectSizeLimit: http.StatusUnprocessableEntity,
	ErrCompileFailed:    http.StatusBadGateway,
}
