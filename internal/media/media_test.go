package media

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xtractor/xtractor/internal/archive"
	"github.com/xtractor/xtractor/internal/testutil/docxfixture"
)

type recordingNotifier struct {
	lines []string
}

func (r *recordingNotifier) DirectoryExists(dir string) { r.lines = append(r.lines, "exists "+dir) }
func (r *recordingNotifier) CreatingDirectory(dir string) { r.lines = append(r.lines, "create "+dir) }
func (r *recordingNotifier) Extracting(count int, dir string) {
	r.lines = append(r.lines, "extract "+dir)
}

func TestLocatorMatch(t *testing.T) {
	l := NewLocator("", nil)

	tests := []struct {
		name string
		want bool
	}{
		{"word/media/image1.png", true},
		{"word/media/IMAGE2.JPEG", true},
		{"word/media/photo_final-v2.gif", true},
		{"WORD/Media/photo_final-v2.gif", false},
		{"word/media/image1.jpg", false},
		{"word/media/image1.emf", false},
		{"word/media/.png", false},
		{"word/media/noext", false},
		{"word/media/sub/image1.png", false},
		{"word/media/", false},
		{"xl/media/image1.png", false},
		{"word/document.xml", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, l.Match(tt.name))
		})
	}
}

func TestLocateIgnoresCaseVariantPrefix(t *testing.T) {
	a := openFixture(t,
		docxfixture.Entry{Name: "word/media/a.png", Data: []byte("lower")},
		docxfixture.Entry{Name: "WORD/media/a.png", Data: []byte("upper")},
	)
	entries := NewLocator("", nil).Locate(a.Files())
	require.Len(t, entries, 1)
	require.Equal(t, "word/media/a.png", entries[0].Name)
}

func TestNewLocatorNormalizes(t *testing.T) {
	l := NewLocator("ppt/media", []string{".PNG", " jpg ", ""})
	require.Equal(t, "ppt/media/", l.Prefix)
	require.Equal(t, []string{"png", "jpg"}, l.Extensions)
	require.True(t, l.Match("ppt/media/image1.jpg"))
	require.False(t, l.Match("word/media/image1.png"))
}

func openFixture(t *testing.T, extra ...docxfixture.Entry) *archive.Archive {
	t.Helper()
	path := docxfixture.Standard(extra...).Write(t, t.TempDir(), "doc.docx")
	a, err := archive.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestLocatePreservesArchiveOrder(t *testing.T) {
	a := openFixture(t,
		docxfixture.Entry{Name: "word/media/image2.png", Data: []byte("b")},
		docxfixture.Entry{Name: "word/media/readme.txt", Data: []byte("x")},
		docxfixture.Entry{Name: "word/media/image1.gif", Data: []byte("aa")},
	)

	entries := NewLocator("", nil).Locate(a.Files())
	require.Len(t, entries, 2)
	require.Equal(t, "word/media/image2.png", entries[0].Name)
	require.Equal(t, "word/media/image1.gif", entries[1].Name)
	require.Equal(t, uint64(2), entries[1].Size)
	require.Equal(t, "image1.gif", entries[1].BaseName())
}

func TestResolveDir(t *testing.T) {
	require.Equal(t, filepath.Join("docs", "report"), ResolveDir(filepath.Join("docs", "report.docx"), ""))
	require.Equal(t, "report", ResolveDir("report.docx", "  "))
	require.Equal(t, "out", ResolveDir("report.docx", "out"))
	require.Equal(t, ".", ResolveDir("report.docx", "."))
}

func TestExtractNoEntriesCreatesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	n := &recordingNotifier{}
	x := &Extractor{Notifier: n}

	res, err := x.Extract(nil, dir)
	require.NoError(t, err)
	require.Empty(t, res.Files)
	require.False(t, res.Created)
	require.Empty(t, n.lines)

	_, err = os.Stat(dir)
	require.True(t, os.IsNotExist(err))
}

func TestExtractWritesByteIdenticalFlatFiles(t *testing.T) {
	first := docxfixture.PNG(t, 4, 3)
	second := []byte("GIF89a-not-really")
	a := openFixture(t,
		docxfixture.Entry{Name: "word/media/image1.png", Data: first},
		docxfixture.Entry{Name: "word/media/image2.gif", Data: second},
	)
	entries := NewLocator("", nil).Locate(a.Files())

	dir := filepath.Join(t.TempDir(), "doc")
	n := &recordingNotifier{}
	res, err := (&Extractor{Notifier: n}).Extract(entries, dir)
	require.NoError(t, err)
	require.True(t, res.Created)
	require.Equal(t, []string{"create " + dir, "extract " + dir}, n.lines)

	listing, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, listing, 2)

	got, err := os.ReadFile(filepath.Join(dir, "image1.png"))
	require.NoError(t, err)
	require.True(t, bytes.Equal(first, got))
	got, err = os.ReadFile(filepath.Join(dir, "image2.gif"))
	require.NoError(t, err)
	require.Equal(t, second, got)
}

func TestExtractReusesExistingDirectory(t *testing.T) {
	a := openFixture(t, docxfixture.Entry{Name: "word/media/image1.png", Data: []byte("new")})
	entries := NewLocator("", nil).Locate(a.Files())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("keep"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image1.png"), []byte("old"), 0o644))

	n := &recordingNotifier{}
	res, err := (&Extractor{Notifier: n}).Extract(entries, dir)
	require.NoError(t, err)
	require.False(t, res.Created)
	require.Equal(t, "exists "+dir, n.lines[0])

	keep, err := os.ReadFile(filepath.Join(dir, "keep.txt"))
	require.NoError(t, err)
	require.Equal(t, "keep", string(keep))
	img, err := os.ReadFile(filepath.Join(dir, "image1.png"))
	require.NoError(t, err)
	require.Equal(t, "new", string(img))
}

func TestExtractSingleLevelOnly(t *testing.T) {
	a := openFixture(t, docxfixture.Entry{Name: "word/media/image1.png", Data: []byte("x")})
	entries := NewLocator("", nil).Locate(a.Files())

	dir := filepath.Join(t.TempDir(), "missing", "nested")
	_, err := (&Extractor{}).Extract(entries, dir)
	require.Error(t, err)
}

func TestExtractOutputIsFile(t *testing.T) {
	a := openFixture(t, docxfixture.Entry{Name: "word/media/image1.png", Data: []byte("x")})
	entries := NewLocator("", nil).Locate(a.Files())

	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, err := (&Extractor{}).Extract(entries, path)
	require.ErrorIs(t, err, ErrNotDirectory)
}

func TestExtractPreservePaths(t *testing.T) {
	a := openFixture(t, docxfixture.Entry{Name: "word/media/image1.png", Data: []byte("x")})
	entries := NewLocator("", nil).Locate(a.Files())

	dir := filepath.Join(t.TempDir(), "out")
	res, err := (&Extractor{PreservePaths: true}).Extract(entries, dir)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "word", "media", "image1.png")}, res.Files)
	_, err = os.Stat(res.Files[0])
	require.NoError(t, err)
}

func TestExtractSizeLimit(t *testing.T) {
	a := openFixture(t, docxfixture.Entry{Name: "word/media/image1.png", Data: bytes.Repeat([]byte("x"), 64)})
	entries := NewLocator("", nil).Locate(a.Files())

	_, err := (&Extractor{MaxEntryBytes: 16}).Extract(entries, filepath.Join(t.TempDir(), "out"))
	require.ErrorIs(t, err, ErrEntryTooLarge)
}

func TestExtractZeroLimitDisablesCap(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 64)
	a := openFixture(t, docxfixture.Entry{Name: "word/media/image1.png", Data: data})
	entries := NewLocator("", nil).Locate(a.Files())
	require.Len(t, entries, 1)
	// Report a size above the default cap; with the cap off it must not matter.
	entries[0].Size = uint64(DefaultMaxEntryBytes) + 1

	res, err := (&Extractor{MaxEntryBytes: 0}).Extract(entries, filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	got, err := os.ReadFile(res.Files[0])
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestProbe(t *testing.T) {
	a := openFixture(t,
		docxfixture.Entry{Name: "word/media/image1.png", Data: docxfixture.PNG(t, 7, 5)},
		docxfixture.Entry{Name: "word/media/image2.png", Data: []byte("not an image")},
	)
	entries := NewLocator("", nil).Locate(a.Files())
	require.Len(t, entries, 2)

	info, err := Probe(entries[0])
	require.NoError(t, err)
	require.Equal(t, ImageInfo{Format: "png", Width: 7, Height: 5}, *info)
	require.Equal(t, "png, 7x5", info.String())

	_, err = Probe(entries[1])
	require.Error(t, err)
}
