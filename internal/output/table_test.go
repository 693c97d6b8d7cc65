package output

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xtractor/xtractor/internal/core"
	"github.com/xtractor/xtractor/internal/core/store"
	"github.com/xtractor/xtractor/internal/metadata"
)

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
		err  bool
	}{
		{in: "", want: FormatTable},
		{in: "TABLE", want: FormatTable},
		{in: "markdown", want: FormatMarkdown},
		{in: "md", want: FormatMarkdown},
		{in: "json", err: true},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.in)
		if tc.err {
			require.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got)
	}
}

func TestFormatRuns(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	runs := []store.RunRecord{
		{ID: "run-1", Root: "/docs", Directory: true, StartedAt: start, FinishedAt: start.Add(1500 * time.Millisecond), Files: 3, Failed: 1},
	}

	rendered := FormatRuns(FormatTable, runs)
	require.Contains(t, rendered, "run-1")
	require.Contains(t, rendered, "/docs")
	require.Contains(t, rendered, "1.5s")

	md := FormatRuns(FormatMarkdown, runs)
	require.True(t, strings.HasPrefix(md, "|"))
	require.Contains(t, md, "run-1")

	require.Contains(t, strings.ToLower(FormatRuns(FormatTable, nil)), "no runs recorded")
}

func TestFormatRunFiles(t *testing.T) {
	props := metadata.NewMapping()
	props.Set("title", "Quarterly Report")
	props.Set("creator", "Jane Doe")

	run := &store.RunRecord{ID: "run-1", Root: "/docs", Files: 2, Failed: 1, Aborted: true}
	files := []store.FileRecord{
		{Path: "/docs/a.docx", Status: core.StatusSuccess, Core: props, MediaCount: 2, ExtractedCount: 2, OutputDir: "/docs/a"},
		{Path: "/docs/b.docx", Status: core.StatusFailed, Reason: "not a valid zip file"},
	}

	rendered := FormatRunFiles(FormatTable, run, files)
	require.Contains(t, rendered, "Quarterly Report")
	require.Contains(t, rendered, "Jane Doe")
	require.Contains(t, rendered, "-> /docs/a")
	require.Contains(t, rendered, "not a valid zip file")
	// Footers are upper-cased by the table style.
	footer := strings.ToLower(rendered)
	require.Contains(t, footer, "1/2 failed")
	require.Contains(t, footer, "aborted")
}
