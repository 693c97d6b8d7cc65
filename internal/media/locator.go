// Package media finds embedded images in a package and copies them to disk.
package media

import (
	"archive/zip"
	"path"
	"strings"
)

// DefaultPrefix is the conventional folder for Word media parts.
const DefaultPrefix = "word/media/"

// DefaultExtensions are the image extensions reported by default.
var DefaultExtensions = []string{"jpeg", "gif", "png"}

// Entry is a located media part. Only its name and size are known until it
// is extracted or probed.
type Entry struct {
	Name string
	Size uint64
	file *zip.File
}

// BaseName returns the entry's file name without its internal folder.
func (e Entry) BaseName() string {
	return path.Base(e.Name)
}

// Locator selects media entries. An entry matches when its name starts with
// Prefix (exact case, as zip names are case-sensitive and extraction is flat),
// the rest is a single non-empty file name, and the
// file extension is one of Extensions (case-insensitive, without the dot).
type Locator struct {
	Prefix     string
	Extensions []string
}

// NewLocator returns a locator with the given rule, filling in defaults for
// empty values.
func NewLocator(prefix string, extensions []string) *Locator {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	if len(exts) == 0 {
		exts = append(exts, DefaultExtensions...)
	}

	return &Locator{Prefix: prefix, Extensions: exts}
}

// Match reports whether name is a media entry under the locator's rule.
func (l *Locator) Match(name string) bool {
	if len(name) <= len(l.Prefix) || !strings.HasPrefix(name, l.Prefix) {
		return false
	}
	rest := name[len(l.Prefix):]
	if strings.Contains(rest, "/") {
		return false
	}

	dot := strings.LastIndexByte(rest, '.')
	if dot <= 0 || dot == len(rest)-1 {
		return false
	}
	ext := strings.ToLower(rest[dot+1:])
	for _, allowed := range l.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Locate returns the matching entries in archive order.
func (l *Locator) Locate(files []*zip.File) []Entry {
	var entries []Entry
	for _, f := range files {
		if f.FileInfo().IsDir() || !l.Match(f.Name) {
			continue
		}
		entries = append(entries, Entry{Name: f.Name, Size: f.UncompressedSize64, file: f})
	}
	return entries
}
