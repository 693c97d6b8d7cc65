// Package docxfixture writes small Office Open XML packages for tests.
package docxfixture

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// CoreXML is a typical docProps/core.xml body.
const CoreXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"><dc:title>Quarterly Report</dc:title><dc:creator>Jane Doe</dc:creator><cp:lastModifiedBy>John Roe</cp:lastModifiedBy><cp:revision>3</cp:revision><dcterms:created xsi:type="dcterms:W3CDTF">2021-03-01T10:00:00Z</dcterms:created><dcterms:modified xsi:type="dcterms:W3CDTF">2021-03-02T11:30:00Z</dcterms:modified></cp:coreProperties>`

// AppXML is a typical docProps/app.xml body.
const AppXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"><Template>Normal.dotm</Template><TotalTime>12</TotalTime><Pages>2</Pages><Words>345</Words><Application>Microsoft Office Word</Application><Company>Acme</Company><AppVersion>16.0000</AppVersion></Properties>`

// Entry is one archive member.
type Entry struct {
	Name string
	Data []byte
}

// Package describes the members of a fixture, written in order.
type Package struct {
	Entries []Entry
}

// Standard returns a package with both metadata parts plus the given extra entries.
func Standard(extra ...Entry) Package {
	entries := []Entry{
		{Name: "[Content_Types].xml", Data: []byte(`<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`)},
		{Name: "docProps/core.xml", Data: []byte(CoreXML)},
		{Name: "docProps/app.xml", Data: []byte(AppXML)},
		{Name: "word/document.xml", Data: []byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body/></w:document>`)},
	}
	return Package{Entries: append(entries, extra...)}
}

// Bytes encodes the package as a ZIP archive.
func (p Package) Bytes(t testing.TB) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range p.Entries {
		fw, err := w.Create(e.Name)
		if err != nil {
			t.Fatalf("create %s: %v", e.Name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			t.Fatalf("write %s: %v", e.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// Write stores the package at dir/name and returns the full path.
func (p Package) Write(t testing.TB, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, p.Bytes(t), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// PNG returns a small encoded PNG of the given size.
func PNG(t testing.TB, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
