// Package archive opens Office Open XML packages as read-only ZIP containers.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
)

// Signature is the two-byte marker every ZIP container starts with.
var Signature = []byte("PK")

var (
	// ErrNotOffice means the file does not even carry the ZIP signature.
	ErrNotOffice = errors.New("not a valid office file")
	// ErrCorruptZip means the signature is present but the ZIP structure is unreadable.
	ErrCorruptZip = errors.New("corrupt zip structure")
	// ErrEntryNotFound is returned when a named entry is absent.
	ErrEntryNotFound = errors.New("entry not found")
)

// OpenError describes why a candidate file could not be opened as a container.
type OpenError struct {
	Path   string
	Reason error // ErrNotOffice or ErrCorruptZip
	Err    error // underlying zip/os error
}

func (e *OpenError) Error() string {
	if errors.Is(e.Reason, ErrNotOffice) {
		return fmt.Sprintf("%s is not a valid zip file: %s", e.Path, ErrNotOffice)
	}
	return fmt.Sprintf("%s is not a valid zip file", e.Path)
}

// Unwrap exposes both the classification and the underlying cause.
func (e *OpenError) Unwrap() []error {
	return []error{e.Reason, e.Err}
}

// Archive is an open, read-only package.
type Archive struct {
	path   string
	reader *zip.ReadCloser
	index  map[string]*zip.File
}

// Open opens path as a ZIP container. When the ZIP structure cannot be read
// the file's first bytes are checked so callers can tell a non-ZIP file from
// a damaged one.
func Open(filePath string) (*Archive, error) {
	r, err := zip.OpenReader(filePath)
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return nil, fmt.Errorf("open %s: %w", filePath, err)
		}

		reason := ErrCorruptZip
		ok, sigErr := HasSignature(filePath)
		if sigErr != nil {
			return nil, fmt.Errorf("read signature of %s: %w", filePath, sigErr)
		}
		if !ok {
			reason = ErrNotOffice
		}
		return nil, &OpenError{Path: filePath, Reason: reason, Err: err}
	}

	index := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		index[f.Name] = f
	}

	return &Archive{path: filePath, reader: r, index: index}, nil
}

// HasSignature reports whether the file starts with the ZIP signature.
// Files shorter than two bytes have no signature.
func HasSignature(filePath string) (bool, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer f.Close() // nolint:errcheck // read-only

	buf := make([]byte, len(Signature))
	if _, err := io.ReadFull(f, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, err
	}
	return buf[0] == Signature[0] && buf[1] == Signature[1], nil
}

// Path returns the filesystem path the archive was opened from.
func (a *Archive) Path() string {
	return a.path
}

// Files returns the entries in archive order.
func (a *Archive) Files() []*zip.File {
	return a.reader.File
}

// File looks up an entry by its exact internal path.
func (a *Archive) File(name string) (*zip.File, error) {
	f, ok := a.index[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrEntryNotFound)
	}
	return f, nil
}

// Open returns a stream over the decompressed entry. Callers close it.
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	f, err := a.File(name)
	if err != nil {
		return nil, err
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %s: %w", name, err)
	}
	return rc, nil
}

// BaseName returns the last element of an internal entry path.
func BaseName(name string) string {
	return path.Base(name)
}

// Close releases the underlying file.
func (a *Archive) Close() error {
	if a == nil || a.reader == nil {
		return nil
	}
	return a.reader.Close()
}
