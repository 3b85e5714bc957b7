package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"texhub/models"
)

const defaultCompileTimeout = 130 * time.Second

type CompileFile struct {
	Name    string `json:"name"`
	Content string `json:"content,omitempty"`
	URL     string `json:"url,omitempty"`
}

type CompileJob struct {
	Entrypoint  string          `json:"entrypoint"`
	Compiler    models.Compiler `json:"compiler"`
	HaltOnError bool            `json:"halt_on_error"`
	Timeout     int             `json:"timeout,omitempty"`
	Files       []CompileFile   `json:"files"`
}

// CompileError carries the compiler service's structured error payload so it
// can be forwarded to the caller with the original status.
type CompileError struct {
	StatusCode int
	Payload    []byte
}

func (e *CompileError) Error() string {
	msg := string(e.Payload)
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return fmt.Sprintf("compiler returned %d: %s", e.StatusCode, msg)
}

// CompilerClient delegates compilation to the external LaTeX service in a
// single blocking round trip bounded by a hard client-side timeout.
type CompilerClient struct {
	BaseURL   string
	APISecret string
	Client    *http.Client
}

func NewCompilerClient(baseURL, apiSecret string) *CompilerClient {
	return &CompilerClient{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		APISecret: apiSecret,
		Client:    &http.Client{Timeout: defaultCompileTimeout},
	}
}

func NewCompilerClientFromEnv() *CompilerClient {
	return NewCompilerClient(os.Getenv("LATEX_SERVICE_URL"), os.Getenv("LATEX_API_SECRET"))
}

// Compile returns the artifact bytes on success. A structured failure comes
// back as *CompileError; transport errors and unparseable responses are
// returned as-is and must not touch the cache.
func (cc *CompilerClient) Compile(ctx context.Context, job CompileJob) ([]byte, error) {
	body, err := json.Marshal(job)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cc.BaseURL+"/compile-project", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if cc.APISecret != "" {
		req.Header.Set("Authorization", "Bearer "+cc.APISecret)
	}

	resp, err := cc.Client.Do(req)
	if err != nil {
		log.Error().
			Err(err).
			Str("service", cc.BaseURL).
			Msg("compile delegation failed")
		return nil, err
	}
	defer resp.Body.Close()

	if strings.Contains(resp.Header.Get("Content-Type"), "application/pdf") {
		return io.ReadAll(resp.Body)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	cerr := &CompileError{StatusCode: resp.StatusCode, Payload: payload}
	log.Error().
		Int("status", resp.StatusCode).
		Str("service", cc.BaseURL).
		Msg(cerr.Error())
	return nil, cerr
}

// ResolveEntrypoint picks the file the compiler starts from: the project's
// designated entrypoint, else the lexicographically first root-level .tex
// file so the pick does not depend on row order, else main.tex.
func ResolveEntrypoint(project *models.Project, files []models.ProjectFile) string {
	if project.EntrypointFileID != nil {
		for _, f := range files {
			if f.ID == *project.EntrypointFileID {
				return f.Name
			}
		}
	}
	fallback := ""
	for _, f := range files {
		if !strings.HasSuffix(f.Name, ".tex") || strings.Contains(f.Name, "/") {
			continue
		}
		if fallback == "" || f.Name < fallback {
			fallback = f.Name
		}
	}
	if fallback != "" {
		return fallback
	}
	return "main.tex"
}
