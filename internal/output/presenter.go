// Package output renders run progress and summaries for the console.
package output

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/xtractor/xtractor/internal/archive"
	"github.com/xtractor/xtractor/internal/core"
	"github.com/xtractor/xtractor/internal/metadata"
)

// Presenter prints a run as plain text lines. It implements core.Reporter.
type Presenter struct {
	w     io.Writer
	title cases.Caser
}

var _ core.Reporter = (*Presenter)(nil)

// NewPresenter writes to w.
func NewPresenter(w io.Writer) *Presenter {
	return &Presenter{w: w, title: cases.Title(language.Und)}
}

// TitleKey upper-cases the first letter of each word in key and lower-cases
// the rest ("lastModifiedBy" -> "Lastmodifiedby"). Digits do not start a new
// word, so "dc2x" stays "Dc2x"; no OOXML property name contains a digit.
func (p *Presenter) TitleKey(key string) string {
	return p.title.String(key)
}

func (p *Presenter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format, args...)
}

// PrintMapping prints one line per entry. An empty mapping prints nothing.
func (p *Presenter) PrintMapping(m *metadata.Mapping) {
	m.Each(func(key, value string) {
		p.printf("\t[-] %s: %s\n", p.TitleKey(key), value)
	})
}

func (p *Presenter) Directory(dir string) {
	p.printf("[*] Parsing directory: %s\n", dir)
}

func (p *Presenter) Document(path string) {
	p.printf("\n\n[*] Parsing metadata from %s\n", path)
}

func (p *Presenter) Part(part string, m *metadata.Mapping) {
	p.printf("\n[+] Parsing %s.\n", part)
	p.PrintMapping(m)
}

func (p *Presenter) MediaCount(n int) {
	if n < 1 {
		p.printf("[!] No media detected.\n")
		return
	}
	p.printf("[*] %d media file(s) detected.\n", n)
}

func (p *Presenter) MediaList(items []core.MediaItem) {
	for _, item := range items {
		if item.Image != nil {
			p.printf("\t[-] %s (%s, %d bytes)\n", item.Name, item.Image, item.Size)
			continue
		}
		p.printf("\t[-] %s (%d bytes)\n", item.Name, item.Size)
	}
}

func (p *Presenter) DirectoryExists(dir string) {
	p.printf("\n[!] Directory %s exists.\n", dir)
}

func (p *Presenter) CreatingDirectory(dir string) {
	p.printf("[*] Creating directory %s\n", dir)
}

func (p *Presenter) Extracting(count int, dir string) {
	p.printf("[*] Extracting %d files in %s\n", count, dir)
}

// Failure prints the diagnostic for a document that could not be processed.
// A file without the ZIP signature gets a second line so it is not confused
// with a damaged ZIP.
func (p *Presenter) Failure(path string, err error) {
	var openErr *archive.OpenError
	if errors.As(err, &openErr) {
		p.printf("%s is not a valid zip file.\n", path)
		if errors.Is(err, archive.ErrNotOffice) {
			p.printf("%s is not a valid office file.\n", path)
		}
		return
	}
	p.printf("[!] %s: %v\n", path, err)
}

func (p *Presenter) Skipped(path, reason string) {
	p.printf("[!] Skipping %s: %s\n", path, reason)
}
