package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"texhub/models"
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

func makeProject(t *testing.T, ownerID string) *models.Project {
	t.Helper()
	project, err := CreateProject(ownerID, "Test Project", true)
	require.NoError(t, err)
	return project
}

func makeFile(t *testing.T, projectID, name, content string) *models.ProjectFile {
	t.Helper()
	file, err := CreateTextFile(projectID, name, content)
	require.NoError(t, err)
	return file
}

// fakeBlobStore keeps blobs in memory. Upload URLs point at uploadBase when
// set (a test server), else at an unreachable host.
type fakeBlobStore struct {
	mu         sync.Mutex
	blobs      map[string][]byte
	uploadBase string
	urlCalls   int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (s *fakeBlobStore) GenerateUploadURL(ctx context.Context) (string, string, error) {
	ref := uuid.NewString()
	base := s.uploadBase
	if base == "" {
		base = "http://127.0.0.1:1"
	}
	return fmt.Sprintf("%s/%s", base, ref), ref, nil
}

func (s *fakeBlobStore) RetrievableURL(ctx context.Context, ref string) (string, error) {
	s.mu.Lock()
	s.urlCalls++
	s.mu.Unlock()
	return "https://blobs.test/" + ref + "?expires=" + time.Now().Format("150405"), nil
}

func (s *fakeBlobStore) Put(ctx context.Context, ref string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[ref] = data
	return nil
}

func (s *fakeBlobStore) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, ref)
	return nil
}

func (s *fakeBlobStore) store(ref string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[ref] = data
}

func (s *fakeBlobStore) refs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.blobs))
	for ref := range s.blobs {
		out = append(out, ref)
	}
	return out
}
