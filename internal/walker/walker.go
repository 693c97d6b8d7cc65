// Package walker enumerates the documents of a directory.
package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DocumentExtension is the suffix a directory entry must carry, compared
// case-insensitively.
const DocumentExtension = ".docx"

// Candidate is one directory entry considered for processing.
type Candidate struct {
	Path string
	// Skip is set when the entry matched by name but cannot be processed.
	Skip string
}

// IsDocumentName reports whether name has a non-empty stem and ends with
// DocumentExtension in any letter case.
func IsDocumentName(name string) bool {
	if len(name) <= len(DocumentExtension) {
		return false
	}
	return strings.EqualFold(name[len(name)-len(DocumentExtension):], DocumentExtension)
}

// List returns the immediate children of dir whose names look like
// documents, in os.ReadDir (name) order. Subdirectories are not descended into; a
// matching name that is a directory or another non-regular file is returned
// with Skip set.
func List(dir string) ([]Candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var out []Candidate
	for _, entry := range entries {
		name := entry.Name()
		if !IsDocumentName(name) {
			continue
		}

		c := Candidate{Path: filepath.Join(dir, name)}
		info, err := os.Stat(c.Path)
		switch {
		case err != nil:
			c.Skip = fmt.Sprintf("stat failed: %v", err)
		case info.IsDir():
			c.Skip = "is a directory"
		case !info.Mode().IsRegular():
			c.Skip = "not a regular file"
		}
		out = append(out, c)
	}
	return out, nil
}
