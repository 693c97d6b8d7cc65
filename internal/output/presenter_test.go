package output

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xtractor/xtractor/internal/archive"
	"github.com/xtractor/xtractor/internal/core"
	"github.com/xtractor/xtractor/internal/media"
	"github.com/xtractor/xtractor/internal/metadata"
	"github.com/xtractor/xtractor/internal/testutil/docxfixture"
)

func TestTitleKey(t *testing.T) {
	p := NewPresenter(&bytes.Buffer{})

	cases := map[string]string{
		"title":          "Title",
		"lastModifiedBy": "Lastmodifiedby",
		"TotalTime":      "Totaltime",
		"AppVersion":     "Appversion",
		"dc2x":           "Dc2x",
		"":               "",
	}
	for in, want := range cases {
		require.Equal(t, want, p.TitleKey(in), in)
	}
}

func TestPrintMapping(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf)

	m := metadata.NewMapping()
	m.Set("creator", "Jane Doe")
	m.Set("revision", "3")
	p.PrintMapping(m)
	require.Equal(t, "\t[-] Creator: Jane Doe\n\t[-] Revision: 3\n", buf.String())

	buf.Reset()
	p.PrintMapping(metadata.NewMapping())
	p.PrintMapping(nil)
	require.Empty(t, buf.String())
}

func TestMediaCountLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf)

	p.MediaCount(0)
	p.MediaCount(3)
	require.Equal(t, "[!] No media detected.\n[*] 3 media file(s) detected.\n", buf.String())
}

func TestMediaList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf)

	p.MediaList([]core.MediaItem{
		{Name: "word/media/image1.png", Size: 120, Image: &media.ImageInfo{Format: "png", Width: 7, Height: 5}},
		{Name: "word/media/image2.gif", Size: 64},
	})
	require.Equal(t,
		"\t[-] word/media/image1.png (png, 7x5, 120 bytes)\n\t[-] word/media/image2.gif (64 bytes)\n",
		buf.String())
}

func TestFailureDistinguishesNotOfficeFromCorrupt(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf)

	p.Failure("a.docx", &archive.OpenError{Path: "a.docx", Reason: archive.ErrNotOffice})
	require.Equal(t, "a.docx is not a valid zip file.\na.docx is not a valid office file.\n", buf.String())

	buf.Reset()
	p.Failure("b.docx", &archive.OpenError{Path: "b.docx", Reason: archive.ErrCorruptZip})
	require.Equal(t, "b.docx is not a valid zip file.\n", buf.String())

	buf.Reset()
	p.Failure("c.docx", fmt.Errorf("parse: %w", metadata.ErrPartMissing))
	require.True(t, strings.HasPrefix(buf.String(), "[!] c.docx: "))
}

func TestExtractionLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf)

	p.DirectoryExists("out")
	p.CreatingDirectory("out")
	p.Extracting(2, "out")
	require.Equal(t, "\n[!] Directory out exists.\n[*] Creating directory out\n[*] Extracting 2 files in out\n", buf.String())
}

func TestDirectoryScenarioOutput(t *testing.T) {
	dir := t.TempDir()
	docxfixture.Standard(
		docxfixture.Entry{Name: "word/media/image1.png", Data: docxfixture.PNG(t, 4, 3)},
		docxfixture.Entry{Name: "word/media/image2.png", Data: docxfixture.PNG(t, 2, 2)},
	).Write(t, dir, "a.docx")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("notes"), 0o644))

	var buf bytes.Buffer
	runner := core.NewRunner(core.Options{}, NewPresenter(&buf), nil)
	report, err := runner.Run(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, report.Files, 1)

	want := "[*] Parsing directory: " + dir + "\n" +
		"\n\n[*] Parsing metadata from " + filepath.Join(dir, "a.docx") + "\n" +
		"\n[+] Parsing docProps/core.xml.\n" +
		"\t[-] Title: Quarterly Report\n" +
		"\t[-] Creator: Jane Doe\n" +
		"\t[-] Lastmodifiedby: John Roe\n" +
		"\t[-] Revision: 3\n" +
		"\t[-] Created: 2021-03-01T10:00:00Z\n" +
		"\t[-] Modified: 2021-03-02T11:30:00Z\n" +
		"\n[+] Parsing docProps/app.xml.\n" +
		"\t[-] Template: Normal.dotm\n" +
		"\t[-] Totaltime: 12\n" +
		"\t[-] Pages: 2\n" +
		"\t[-] Words: 345\n" +
		"\t[-] Application: Microsoft Office Word\n" +
		"\t[-] Company: Acme\n" +
		"\t[-] Appversion: 16.0000\n" +
		"[*] 2 media file(s) detected.\n"
	require.Equal(t, want, buf.String())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestSummary(t *testing.T) {
	report := &core.BatchReport{
		ID: "run-7",
		Files: []*core.FileResult{
			{Path: "a.docx", Status: core.StatusSuccess, Media: []core.MediaItem{{Name: "x"}}},
			{Path: "b.docx", Status: core.StatusFailed, Reason: "b.docx is not a valid zip file"},
			{Path: "c.docx", Status: core.StatusSkipped, Reason: "is a directory"},
		},
		Aborted: true,
	}

	lines := SummaryLines(report)
	require.Equal(t, "Run run-7", lines[0])
	require.Contains(t, lines, "success a.docx (media 1, extracted 0)")
	require.Contains(t, lines, "failed  b.docx: b.docx is not a valid zip file")
	require.Contains(t, lines, "skipped c.docx: is a directory")
	require.Contains(t, lines, "3 document(s): 1 ok, 1 skipped, 1 failed")
	require.Equal(t, "batch aborted before all documents were processed", lines[len(lines)-1])

	var buf bytes.Buffer
	NewPresenter(&buf).Summary(report)
	require.Contains(t, buf.String(), "3 document(s): 1 ok, 1 skipped, 1 failed")

	require.Nil(t, SummaryLines(nil))
}
