package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"texhub/models"
)

// CompileCache serves compiled artifacts by content fingerprint. Lookup
// order on a compile request: the session-local last-successful-compile
// slot, then the persistent CompilationOutput table. Saving is best effort;
// a failed save never fails the compile it was caching.
type CompileCache struct {
	store BlobStore
	slots *lru.Cache[string, cacheSlot]
}

type cacheSlot struct {
	Fingerprint string
	ArtifactURL string
}

func NewCompileCache(store BlobStore) *CompileCache {
	slots, _ := lru.New[string, cacheSlot](128)
	return &CompileCache{
		store: store,
		slots: slots,
	}
}

// SessionLookup checks the in-process slot for the project. A hit returns
// the held artifact URL with zero I/O.
func (c *CompileCache) SessionLookup(projectID, fingerprint string) (string, bool) {
	slot, ok := c.slots.Get(projectID)
	if !ok || slot.Fingerprint != fingerprint {
		return "", false
	}
	return slot.ArtifactURL, true
}

// Lookup checks the persistent table and, on a hit, resolves the stored
// blob to a retrievable URL and populates the session slot.
func (c *CompileCache) Lookup(ctx context.Context, projectID, fingerprint string) (string, bool) {
	var output models.CompilationOutput
	err := models.DB.First(&output, "project_id = ? AND fingerprint = ?", projectID, fingerprint).Error
	if err != nil {
		return "", false
	}
	url, err := c.store.RetrievableURL(ctx, output.StorageRef)
	if err != nil {
		log.Error().
			Err(err).
			Str("project", projectID).
			Str("ref", output.StorageRef).
			Msg("failed to resolve cached artifact")
		return "", false
	}
	c.slots.Add(projectID, cacheSlot{Fingerprint: fingerprint, ArtifactURL: url})
	return url, true
}

// Save stores a freshly compiled artifact under (project, fingerprint),
// replacing any stale row for the same fingerprint and deleting its old
// blob. Callers may ignore the returned error: caching is an optimization,
// not a correctness requirement.
func (c *CompileCache) Save(ctx context.Context, projectID, fingerprint string, artifact []byte) error {
	ref := uuid.NewString()
	if err := c.store.Put(ctx, ref, artifact, "application/pdf"); err != nil {
		return err
	}

	var existing models.CompilationOutput
	err := models.DB.First(&existing, "project_id = ? AND fingerprint = ?", projectID, fingerprint).Error
	switch {
	case err == nil:
		if derr := c.store.Delete(ctx, existing.StorageRef); derr != nil {
			log.Warn().
				Err(derr).
				Str("ref", existing.StorageRef).
				Msg("failed to delete replaced artifact blob")
		}
		err = models.DB.Model(&existing).Updates(map[string]any{
			"storage_ref": ref,
			"created_at":  time.Now(),
		}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = models.DB.Create(&models.CompilationOutput{
			ID:          uuid.NewString(),
			ProjectID:   projectID,
			Fingerprint: fingerprint,
			StorageRef:  ref,
			CreatedAt:   time.Now(),
		}).Error
	}
	if err != nil {
		return err
	}

	if url, uerr := c.store.RetrievableURL(ctx, ref); uerr == nil {
		c.slots.Add(projectID, cacheSlot{Fingerprint: fingerprint, ArtifactURL: url})
	}
	return nil
}

// Invalidate drops the session slot for a project.
func (c *CompileCache) Invalidate(projectID string) {
	c.slots.Remove(projectID)
}
