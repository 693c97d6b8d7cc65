package core

import (
	"github.com/xtractor/xtractor/internal/media"
	"github.com/xtractor/xtractor/internal/metadata"
)

// Reporter receives the human-readable progress of a run as it happens.
type Reporter interface {
	media.Notifier

	Directory(dir string)
	Document(path string)
	Part(part string, m *metadata.Mapping)
	MediaCount(n int)
	MediaList(items []MediaItem)
	Failure(path string, err error)
	Skipped(path, reason string)
}

type discardReporter struct{}

func (discardReporter) DirectoryExists(string) {}
func (discardReporter) CreatingDirectory(string) {}
func (discardReporter) Extracting(int, string) {}
func (discardReporter) Directory(string) {}
func (discardReporter) Document(string) {}
func (discardReporter) Part(string, *metadata.Mapping) {}
func (discardReporter) MediaCount(int) {}
func (discardReporter) MediaList([]MediaItem) {}
func (discardReporter) Failure(string, error) {}
func (discardReporter) Skipped(string, string) {}

// DiscardReporter drops every progress event.
var DiscardReporter Reporter = discardReporter{}
