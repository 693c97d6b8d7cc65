package core

import (
	"time"

	"github.com/xtractor/xtractor/internal/media"
	"github.com/xtractor/xtractor/internal/metadata"
)

// Status is the outcome of processing one document.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// MediaItem is a located media entry with its optional probe result.
type MediaItem struct {
	Name  string
	Size  uint64
	Image *media.ImageInfo
}

// FileResult reports what happened to one document.
type FileResult struct {
	Path   string
	Status Status
	Reason string
	Err    error

	// Parts holds the parsed property parts keyed by part name.
	Parts map[string]*metadata.Mapping

	Media     []MediaItem
	OutputDir string
	Extracted []string
}

// Part returns the mapping parsed from the given part, or nil.
func (r *FileResult) Part(name string) *metadata.Mapping {
	if r == nil || r.Parts == nil {
		return nil
	}
	return r.Parts[name]
}

// BatchReport collects the outcome of one run.
type BatchReport struct {
	ID         string
	Root       string
	Directory  bool
	StartedAt  time.Time
	FinishedAt time.Time
	Files      []*FileResult
	// Aborted is set when fail-fast stopped the batch or the context was
	// cancelled before every document was attempted.
	Aborted bool
}

// Count returns how many files ended with status s.
func (b *BatchReport) Count(s Status) int {
	if b == nil {
		return 0
	}
	n := 0
	for _, f := range b.Files {
		if f != nil && f.Status == s {
			n++
		}
	}
	return n
}

// Failed reports whether any document failed.
func (b *BatchReport) Failed() bool {
	return b.Count(StatusFailed) > 0
}

// Duration returns the wall time of the run.
func (b *BatchReport) Duration() time.Duration {
	if b == nil || b.FinishedAt.IsZero() {
		return 0
	}
	return b.FinishedAt.Sub(b.StartedAt)
}
