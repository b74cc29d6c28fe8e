// Package artifact persists validated pipeline output. Every write is
// idempotent and atomic: serialize deterministically, write a sibling
// temp file, rename over the final path. A crash mid-write leaves the
// previous artifact intact at the final path, never a partial one.
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Outcome classifies a write against the previous artifact content.
// Purely for operator reporting; it never blocks or alters the write.
type Outcome string

const (
	Created   Outcome = "created"
	Updated   Outcome = "updated"
	Unchanged Outcome = "unchanged"
)

// Writer performs atomic JSON writes and accumulates the run report.
type Writer struct {
	log   *zap.Logger
	runID string
}

// NewWriter creates a writer. Each run gets a ulid so log lines and the
// report can be correlated.
func NewWriter(log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{log: log, runID: ulid.Make().String()}
}

// RunID returns this run's identifier.
func (w *Writer) RunID() string { return w.runID }

// WriteJSON serializes v with stable key order and a trailing newline,
// then atomically replaces path with it. The returned outcome compares
// against whatever was at path before.
func (w *Writer) WriteJSON(path string, v any) (Outcome, error) {
	data, err := Encode(v)
	if err != nil {
		return "", fmt.Errorf("serialize %s: %w", path, err)
	}

	prev, readErr := os.ReadFile(path)
	outcome := Created
	switch {
	case readErr == nil && bytes.Equal(prev, data):
		outcome = Unchanged
	case readErr == nil:
		outcome = Updated
	case !os.IsNotExist(readErr):
		return "", fmt.Errorf("read previous %s: %w", path, readErr)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	// Temp path scoped by pid and timestamp so concurrent or crashed
	// runs cannot collide on it.
	tmp := fmt.Sprintf("%s.%d.%d.tmp", path, os.Getpid(), time.Now().UnixNano())
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("write temp %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename %s: %w", path, err)
	}

	if outcome == Updated {
		w.log.Info("artifact updated",
			zap.String("run", w.runID),
			zap.String("path", path),
			zap.String("diff", diffJSON(prev, data)))
	} else {
		w.log.Info("artifact written",
			zap.String("run", w.runID),
			zap.String("path", path),
			zap.String("outcome", string(outcome)))
	}
	return outcome, nil
}

// Encode is the canonical artifact serialization: two-space indent,
// struct field order, unescaped multibyte text, trailing newline.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// diffJSON renders a structural diff between two serialized artifacts
// for the change report.
func diffJSON(prev, next []byte) string {
	var a, b any
	if err := json.Unmarshal(prev, &a); err != nil {
		return "previous artifact unreadable"
	}
	if err := json.Unmarshal(next, &b); err != nil {
		return "new artifact unreadable"
	}
	return cmp.Diff(a, b)
}

// Report tallies write outcomes for the run's operator summary.
type Report struct {
	Created   int
	Updated   int
	Unchanged int
}

// Add records one outcome.
func (r *Report) Add(o Outcome) {
	switch o {
	case Created:
		r.Created++
	case Updated:
		r.Updated++
	case Unchanged:
		r.Unchanged++
	}
}

// Log emits the summary line.
func (r *Report) Log(log *zap.Logger, runID string) {
	log.Info("run complete",
		zap.String("run", runID),
		zap.Int("created", r.Created),
		zap.Int("updated", r.Updated),
		zap.Int("unchanged", r.Unchanged))
}
