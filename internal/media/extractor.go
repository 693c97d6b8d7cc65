package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxEntryBytes caps a single extracted entry.
const DefaultMaxEntryBytes int64 = 512 << 20

var (
	// ErrNotDirectory is returned when the output path exists but is not a directory.
	ErrNotDirectory = errors.New("output path exists and is not a directory")
	// ErrUnsafePath is returned when an entry would be written outside the output directory.
	ErrUnsafePath = errors.New("entry path escapes output directory")
	// ErrEntryTooLarge is returned when an entry exceeds the configured size cap.
	ErrEntryTooLarge = errors.New("entry exceeds size limit")
)

// Notifier receives the progress lines of an extraction.
type Notifier interface {
	DirectoryExists(dir string)
	CreatingDirectory(dir string)
	Extracting(count int, dir string)
}

// Extraction describes what an extraction wrote.
type Extraction struct {
	Dir     string
	Created bool
	Files   []string
}

// Extractor writes located media entries to disk.
type Extractor struct {
	// PreservePaths keeps the archive-internal folders below the output
	// directory instead of writing every file flat.
	PreservePaths bool
	// MaxEntryBytes caps the uncompressed size of one entry. Zero or less
	// disables the cap.
	MaxEntryBytes int64
	Notifier      Notifier
}

// ResolveDir returns the output directory for a source document. An explicit
// directory is used verbatim; otherwise it is the source path without its
// extension, i.e. a folder named after the document next to it.
func ResolveDir(source, explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	return strings.TrimSuffix(source, filepath.Ext(source))
}

// Extract writes entries into dir. Nothing touches the filesystem when
// entries is empty. An existing directory is reused as-is; a missing one is
// created (one level only). Files with colliding names are overwritten and
// other files already present are left alone.
func (x *Extractor) Extract(entries []Entry, dir string) (*Extraction, error) {
	result := &Extraction{Dir: dir}
	if len(entries) == 0 {
		return result, nil
	}

	info, err := os.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	case err == nil:
		x.notify(func(n Notifier) { n.DirectoryExists(dir) })
	case errors.Is(err, os.ErrNotExist):
		x.notify(func(n Notifier) { n.CreatingDirectory(dir) })
		// #nosec G301 -- extracted media is meant to be browsable
		if err := os.Mkdir(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
		result.Created = true
	default:
		return nil, fmt.Errorf("stat output directory: %w", err)
	}

	x.notify(func(n Notifier) { n.Extracting(len(entries), dir) })

	for _, entry := range entries {
		target, err := x.targetPath(dir, entry)
		if err != nil {
			return result, err
		}
		if err := x.writeEntry(entry, target); err != nil {
			return result, fmt.Errorf("extract %s: %w", entry.Name, err)
		}
		result.Files = append(result.Files, target)
	}

	return result, nil
}

func (x *Extractor) notify(fn func(Notifier)) {
	if x.Notifier != nil {
		fn(x.Notifier)
	}
}

func (x *Extractor) targetPath(dir string, entry Entry) (string, error) {
	if !x.PreservePaths {
		return filepath.Join(dir, entry.BaseName()), nil
	}

	target := filepath.Join(dir, filepath.FromSlash(entry.Name))
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(entry.Name) {
		return "", fmt.Errorf("%s: %w", entry.Name, ErrUnsafePath)
	}
	// #nosec G301 -- mirrors the package layout below the output directory
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", filepath.Dir(target), err)
	}
	return target, nil
}

func (x *Extractor) writeEntry(entry Entry, target string) error {
	if entry.file == nil {
		return errors.New("entry is not backed by an archive")
	}

	limit := x.MaxEntryBytes
	if limit > 0 && entry.Size > uint64(limit) {
		return fmt.Errorf("%w (%d > %d bytes)", ErrEntryTooLarge, entry.Size, limit)
	}

	rc, err := entry.file.Open()
	if err != nil {
		return err
	}
	defer rc.Close() // nolint:errcheck // read-only entry stream

	// #nosec G304 -- target is built from the output directory and a cleaned entry name
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	var src io.Reader = rc
	if limit > 0 {
		src = io.LimitReader(rc, limit+1)
	}
	n, copyErr := io.Copy(out, src)
	closeErr := out.Close()
	if copyErr != nil {
		return copyErr
	}
	if limit > 0 && n > limit {
		return fmt.Errorf("%w (more than %d bytes)", ErrEntryTooLarge, limit)
	}
	return closeErr
}
