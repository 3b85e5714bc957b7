package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"texhub/api/errs"
	"texhub/api/types"
	"texhub/models"
	"texhub/services"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Project{},
		&models.ProjectFile{},
		&models.Membership{},
		&models.PendingInvite{},
		&models.CompilationOutput{},
	))
	models.DB = db
}

// errMiddleware mirrors the error mapping the service installs in main.
func errMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		for knownErr, statusCode := range errs.ErrStatusMap {
			if errors.Is(err, knownErr) {
				c.AbortWithStatusJSON(statusCode, types.Response{Status: "error", Message: knownErr.Error()})
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, types.Response{Status: "error", Message: err.Error()})
	}
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(errMiddleware())

	router.POST("/projects", ProjectCreate)
	router.GET("/projects", ProjectList)
	router.GET("/projects/:id", ProjectGet)
	router.DELETE("/projects/:id", ProjectDelete)
	router.GET("/projects/:id/files", FileList)
	router.POST("/projects/:id/files", FileCreate)
	router.POST("/projects/:id/compile", ProjectCompile)
	return router
}

type memStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{blobs: map[string][]byte{}}
}

func (s *memStore) GenerateUploadURL(ctx context.Context) (string, string, error) {
	ref := uuid.NewString()
	return "http://127.0.0.1:1/" + ref, ref, nil
}

func (s *memStore) RetrievableURL(ctx context.Context, ref string) (string, error) {
	return "https://blobs.test/" + ref, nil
}

func (s *memStore) Put(ctx context.Context, ref string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[ref] = data
	return nil
}

func (s *memStore) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, ref)
	return nil
}

// fakeCompiler is the external LaTeX service: records the jobs it receives
// and returns either a PDF or a structured error payload.
type fakeCompiler struct {
	mu    sync.Mutex
	calls int
	jobs  []services.CompileJob
	fail  bool
}

func (f *fakeCompiler) serve() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var job services.CompileJob
		_ = json.NewDecoder(r.Body).Decode(&job)

		f.mu.Lock()
		f.calls++
		f.jobs = append(f.jobs, job)
		n := f.calls
		f.mu.Unlock()

		if f.fail {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"error":"LaTeX Error: Undefined control sequence"}`)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprintf(w, "PDF-%d", n)
	}))
}

func (f *fakeCompiler) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeCompiler) lastJob() services.CompileJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jobs[len(f.jobs)-1]
}

// brokenURLStore refuses retrieval URL resolution, as when the blob backend
// is unreachable.
type brokenURLStore struct {
	*memStore
}

func (s *brokenURLStore) RetrievableURL(ctx context.Context, ref string) (string, error) {
	return "", errors.New("storage unreachable")
}

func setupControllers(t *testing.T, compilerURL string) *memStore {
	t.Helper()
	store := newMemStore()
	Setup(
		store,
		services.NewCompileCache(store),
		services.NewCompilerClient(compilerURL, "secret"),
		services.NewUploader(store),
	)
	return store
}
