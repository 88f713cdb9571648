// Package manifest records what a parse run read, how it was configured and
// what it wrote.
package manifest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/gutenkjv/core/cas"
	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
	"github.com/FocuswithJustin/gutenkjv/core/gutenberg"
	"github.com/FocuswithJustin/gutenkjv/core/scripture"
	"github.com/FocuswithJustin/gutenkjv/internal/archive"
)

// Status represents the state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Source describes the input text.
type Source struct {
	Path string `json:"path"`
	cas.Digests
}

// Output describes one written file.
type Output struct {
	Path        string `json:"path"`
	Format      string `json:"format"`
	Compression string `json:"compression"`

	// Size and SHA256 describe the encoded bytes before compression.
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// Suppressed records a book header the assembler refused.
type Suppressed struct {
	Line   int    `json:"line"`
	Book   string `json:"book"`
	Reason string `json:"reason"`
}

// Manifest is the JSON record of one run.
type Manifest struct {
	RunID       string          `json:"run_id"`
	Tool        string          `json:"tool"`
	Version     string          `json:"version"`
	Status      Status          `json:"status"`
	CreatedAt   string          `json:"created_at"`
	CompletedAt string          `json:"completed_at,omitempty"`
	Source      Source          `json:"source"`
	Cached      bool            `json:"cached"`
	Stats       scripture.Stats `json:"stats"`
	Events      map[string]int  `json:"events,omitempty"`
	Suppressed  []Suppressed    `json:"suppressed,omitempty"`
	Outputs     []Output        `json:"outputs"`
	Error       string          `json:"error,omitempty"`

	now func() time.Time
}

// New starts a manifest with a fresh run ID.
func New(tool, version string) *Manifest {
	return newWithClock(tool, version, time.Now)
}

func newWithClock(tool, version string, now func() time.Time) *Manifest {
	return &Manifest{
		RunID:     uuid.New().String(),
		Tool:      tool,
		Version:   version,
		Status:    StatusRunning,
		CreatedAt: now().UTC().Format(time.RFC3339),
		Outputs:   []Output{},
		now:       now,
	}
}

// SetSource records the input path and its digests.
func (m *Manifest) SetSource(path string, d cas.Digests) {
	m.Source = Source{Path: path, Digests: d}
}

// SetResult records document statistics and, when events is non-nil, the
// parse diagnostics.
func (m *Manifest) SetResult(doc *scripture.Document, events *gutenberg.Stats) {
	m.Stats = doc.Stats()
	if events == nil {
		return
	}
	m.Events = events.Counts()
	m.Suppressed = m.Suppressed[:0]
	for _, e := range events.Suppressed {
		m.Suppressed = append(m.Suppressed, Suppressed{Line: e.Line, Book: e.Book, Reason: e.Reason})
	}
}

// AddOutput records a written file. data is the encoded content before
// compression.
func (m *Manifest) AddOutput(path, format string, data []byte) {
	m.Outputs = append(m.Outputs, Output{
		Path:        path,
		Format:      format,
		Compression: archive.DetectCompression(path).String(),
		Size:        int64(len(data)),
		SHA256:      cas.Hash(data),
	})
}

// Complete marks the run finished. A non-nil err marks it failed.
func (m *Manifest) Complete(err error) {
	m.CompletedAt = m.now().UTC().Format(time.RFC3339)
	if err != nil {
		m.Status = StatusFailed
		m.Error = err.Error()
		return
	}
	m.Status = StatusCompleted
}

// Marshal returns the indented JSON form.
func (m *Manifest) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile writes the manifest to path, compressing by suffix.
func (m *Manifest) WriteFile(path string) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	return archive.WriteFile(path, data)
}

// Parse decodes a manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, gkerrors.NewParse("manifest", "", "", err)
	}
	if _, err := uuid.Parse(m.RunID); err != nil {
		return nil, gkerrors.NewParse("manifest", "", "invalid run_id", err)
	}
	m.now = time.Now
	return &m, nil
}

// ReadFile reads a manifest written by WriteFile.
func ReadFile(path string) (*Manifest, error) {
	data, err := archive.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
