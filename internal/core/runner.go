package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xtractor/xtractor/internal/archive"
	"github.com/xtractor/xtractor/internal/media"
	"github.com/xtractor/xtractor/internal/metadata"
	"github.com/xtractor/xtractor/internal/walker"
)

// ErrUnsupportedInput is returned for an input that is neither a regular
// file nor a directory.
var ErrUnsupportedInput = errors.New("input is neither a file nor a directory")

// Options configures a run. Building Options has no side effects.
type Options struct {
	// ExtractMedia copies located media to disk; otherwise media is only counted.
	ExtractMedia bool
	// MediaDir is the explicit output directory. Empty derives one per
	// document from its file name.
	MediaDir string
	// ListMedia reports each located media entry with its probed format.
	ListMedia     bool
	PreservePaths bool
	// FailFast stops a directory batch at the first failed document.
	FailFast bool

	MediaPrefix     string
	MediaExtensions []string
	MaxEntryBytes   int64
}

// Runner executes the extraction pipeline.
type Runner struct {
	Options  Options
	Reporter Reporter
	Logger   *logging.Logger
	Clock    func() time.Time
	NewID    func() string

	locator *media.Locator
}

// NewRunner returns a runner for opts. Nothing is read or written until Run.
func NewRunner(opts Options, reporter Reporter, logger *logging.Logger) *Runner {
	if reporter == nil {
		reporter = DiscardReporter
	}
	return &Runner{
		Options:  opts,
		Reporter: reporter,
		Logger:   logger,
		Clock:    time.Now,
		NewID:    uuid.NewString,
		locator:  media.NewLocator(opts.MediaPrefix, opts.MediaExtensions),
	}
}

// Run processes path, a single document or a directory of documents. The
// returned error covers only problems with the input itself; per-document
// failures are recorded in the report.
func (r *Runner) Run(ctx context.Context, path string) (*BatchReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("input %s: %w", path, err)
	}

	report := &BatchReport{
		ID:        r.NewID(),
		Root:      path,
		Directory: info.IsDir(),
		StartedAt: r.Clock().UTC(),
	}
	defer func() { report.FinishedAt = r.Clock().UTC() }()

	switch {
	case info.IsDir():
		if err := r.runDirectory(ctx, path, report); err != nil {
			return nil, err
		}
	case info.Mode().IsRegular():
		if err := ctx.Err(); err != nil {
			report.Aborted = true
			return report, nil
		}
		report.Files = append(report.Files, r.ProcessFile(ctx, path))
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedInput)
	}

	return report, nil
}

func (r *Runner) runDirectory(ctx context.Context, dir string, report *BatchReport) error {
	r.Reporter.Directory(dir)

	candidates, err := walker.List(dir)
	if err != nil {
		return err
	}
	r.debug("directory listed", zap.String("dir", dir), zap.Int("documents", len(candidates)))

	for _, c := range candidates {
		if ctx.Err() != nil {
			report.Aborted = true
			return nil
		}

		if c.Skip != "" {
			r.Reporter.Skipped(c.Path, c.Skip)
			report.Files = append(report.Files, &FileResult{Path: c.Path, Status: StatusSkipped, Reason: c.Skip})
			continue
		}

		result := r.ProcessFile(ctx, c.Path)
		report.Files = append(report.Files, result)
		if result.Status == StatusFailed && r.Options.FailFast {
			r.warn("aborting batch after failure", zap.String("path", c.Path), zap.Error(result.Err))
			report.Aborted = true
			return nil
		}
	}
	return nil
}

// ProcessFile runs the single-document pipeline: open the package, report
// both property parts, locate media and extract it when requested.
func (r *Runner) ProcessFile(_ context.Context, path string) *FileResult {
	result := &FileResult{Path: path, Parts: make(map[string]*metadata.Mapping, len(metadata.Parts))}

	a, err := archive.Open(path)
	if err != nil {
		return r.fail(result, err)
	}
	defer a.Close() // nolint:errcheck // read-only archive

	r.Reporter.Document(path)

	for _, part := range metadata.Parts {
		m, err := metadata.ReadPart(a, part)
		if err != nil {
			return r.fail(result, err)
		}
		result.Parts[part] = m
		r.Reporter.Part(part, m)
	}

	entries := r.locator.Locate(a.Files())
	result.Media = r.describe(entries)
	r.Reporter.MediaCount(len(entries))
	if r.Options.ListMedia && len(entries) > 0 {
		r.Reporter.MediaList(result.Media)
	}

	if r.Options.ExtractMedia && len(entries) > 0 {
		extractor := &media.Extractor{
			PreservePaths: r.Options.PreservePaths,
			MaxEntryBytes: r.Options.MaxEntryBytes,
			Notifier:      r.Reporter,
		}
		dir := media.ResolveDir(path, r.Options.MediaDir)
		extraction, err := extractor.Extract(entries, dir)
		if extraction != nil {
			result.OutputDir = extraction.Dir
			result.Extracted = extraction.Files
		}
		if err != nil {
			return r.fail(result, err)
		}
	}

	result.Status = StatusSuccess
	r.debug("document processed",
		zap.String("path", path),
		zap.Int("media", len(entries)),
		zap.Int("extracted", len(result.Extracted)))
	return result
}

func (r *Runner) describe(entries []media.Entry) []MediaItem {
	items := make([]MediaItem, 0, len(entries))
	for _, e := range entries {
		item := MediaItem{Name: e.Name, Size: e.Size}
		if r.Options.ListMedia {
			info, err := media.Probe(e)
			if err != nil {
				r.debug("media probe failed", zap.String("entry", e.Name), zap.Error(err))
			} else {
				item.Image = info
			}
		}
		items = append(items, item)
	}
	return items
}

func (r *Runner) fail(result *FileResult, err error) *FileResult {
	result.Status = StatusFailed
	result.Err = err
	result.Reason = err.Error()
	r.Reporter.Failure(result.Path, err)
	r.debug("document failed", zap.String("path", result.Path), zap.Error(err))
	return result
}

func (r *Runner) debug(msg string, fields ...zap.Field) {
	if r.Logger != nil {
		r.Logger.Debug(msg, fields...)
	}
}

func (r *Runner) warn(msg string, fields ...zap.Field) {
	if r.Logger != nil {
		r.Logger.Warn(msg, fields...)
	}
}
