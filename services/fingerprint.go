package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"texhub/models"
)

// DraftOverride substitutes not-yet-persisted editor content for one file
// when fingerprinting, so the digest reflects what will actually compile.
type DraftOverride struct {
	FileID  string
	Content string
}

// Fingerprint computes the content address of a project's full file set.
// Files are sorted by name; each contributes a (name, representative) pair
// where the representative is the text content, or the storage reference for
// binary payloads (stable because blobs are never replaced in place). The
// ordered pairs are JSON-serialized and hashed with SHA-256.
func Fingerprint(files []models.ProjectFile, draft *DraftOverride) string {
	sorted := make([]models.ProjectFile, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	pairs := make([][2]string, 0, len(sorted))
	for _, file := range sorted {
		if file.StorageRef != nil {
			pairs = append(pairs, [2]string{file.Name, *file.StorageRef})
			continue
		}
		content := file.Content
		if draft != nil && draft.FileID == file.ID {
			content = draft.Content
		}
		pairs = append(pairs, [2]string{file.Name, content})
	}

	canonical, _ := json.Marshal(pairs)
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
