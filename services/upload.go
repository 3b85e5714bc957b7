package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	DefaultUploadWorkers = 5

	uploadMaxRetries  = 2
	uploadBackoffBase = 200 * time.Millisecond
)

// Extensions whose payloads go to the blob store instead of the entity
// store. Everything else is decoded as text.
var binaryExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true,
	"pdf": true, "bmp": true, "eps": true, "svg": true, "zip": true,
}

func IsBinaryName(name string) bool {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return false
	}
	return binaryExtensions[strings.ToLower(name[idx+1:])]
}

// NamedBlob is one batch-upload input: a resolved logical path name (archive
// or directory structure already flattened into the name) plus the payload.
type NamedBlob struct {
	Name        string
	Data        []byte
	ContentType string
}

type UploadFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type UploadResult struct {
	Succeeded int             `json:"succeeded"`
	Failed    []UploadFailure `json:"failed"`
}

type UploadOptions struct {
	Workers    int
	OnProgress func(processed, total int)
}

// Uploader ingests file batches: binary items stream to the blob store
// through single-use upload URLs, text items decode in place, and both are
// batch-registered after the fan-out settles.
type Uploader struct {
	Store  BlobStore
	Client *http.Client
}

func NewUploader(store BlobStore) *Uploader {
	return &Uploader{
		Store:  store,
		Client: &http.Client{Timeout: 60 * time.Second},
	}
}

// UploadBatch processes every item independently under a bounded worker
// pool: one item's failure never aborts the others. Successfully processed
// text and binary items are each registered in one batched insert; if a
// batch insert fails, every item in that batch is reported failed even
// though its individual upload succeeded.
func (u *Uploader) UploadBatch(ctx context.Context, projectID string, items []NamedBlob, opts UploadOptions) UploadResult {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultUploadWorkers
	}

	var (
		mu        sync.Mutex
		texts     []TextEntry
		binaries  []BinaryEntry
		failed    []UploadFailure
		processed int
	)
	total := len(items)

	if opts.OnProgress != nil {
		opts.OnProgress(0, total)
	}

	tasks := make(chan NamedBlob)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range tasks {
				entryErr := u.processOne(ctx, item, &mu, &texts, &binaries)
				mu.Lock()
				if entryErr != nil {
					failed = append(failed, UploadFailure{Name: item.Name, Error: entryErr.Error()})
				}
				processed++
				if opts.OnProgress != nil {
					// Serialized so callers see a monotonic count.
					opts.OnProgress(processed, total)
				}
				mu.Unlock()
			}
		}()
	}
	for _, item := range items {
		tasks <- item
	}
	close(tasks)
	wg.Wait()

	succeeded := 0
	if len(texts) > 0 {
		if err := CreateManyText(projectID, texts); err != nil {
			for _, t := range texts {
				failed = append(failed, UploadFailure{Name: t.Name, Error: err.Error()})
			}
		} else {
			succeeded += len(texts)
		}
	}
	if len(binaries) > 0 {
		if err := CreateManyBinary(projectID, binaries); err != nil {
			for _, b := range binaries {
				failed = append(failed, UploadFailure{Name: b.Name, Error: err.Error()})
			}
		} else {
			succeeded += len(binaries)
		}
	}

	return UploadResult{Succeeded: succeeded, Failed: failed}
}

func (u *Uploader) processOne(ctx context.Context, item NamedBlob, mu *sync.Mutex, texts *[]TextEntry, binaries *[]BinaryEntry) error {
	if !IsBinaryName(item.Name) {
		mu.Lock()
		*texts = append(*texts, TextEntry{Name: item.Name, Content: string(item.Data)})
		mu.Unlock()
		return nil
	}

	uploadURL, ref, err := u.Store.GenerateUploadURL(ctx)
	if err != nil {
		return err
	}
	if err := u.putWithRetry(ctx, uploadURL, item.Data, item.ContentType); err != nil {
		return err
	}
	mu.Lock()
	*binaries = append(*binaries, BinaryEntry{Name: item.Name, StorageRef: ref})
	mu.Unlock()
	return nil
}

// putWithRetry uploads to a single-use URL, retrying transient failures
// (network error, 429, 5xx) up to two extra attempts with exponential
// backoff. Other client errors are not retried.
func (u *Uploader) putWithRetry(ctx context.Context, url string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", contentType)

		resp, err := u.Client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode < 300 {
				return nil
			}
			retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
			if !retryable || attempt >= uploadMaxRetries {
				return fmt.Errorf("storage upload failed: %d", resp.StatusCode)
			}
		} else if attempt >= uploadMaxRetries {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(uploadBackoffBase << attempt):
		}
	}
}
