package output

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/xtractor/xtractor/internal/core"
	"github.com/xtractor/xtractor/internal/core/store"
	"github.com/xtractor/xtractor/internal/metadata"
)

const timeLayout = "2006-01-02 15:04:05"

// FormatRuns renders recorded runs, one row each.
func FormatRuns(format Format, runs []store.RunRecord) string {
	t := newTable()
	t.AppendHeader(table.Row{"Run", "Started", "Duration", "Root", "Files", "Failed", "Aborted"})

	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID,
			r.StartedAt.Local().Format(timeLayout),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
			r.Root,
			r.Files,
			r.Failed,
			yesNo(r.Aborted),
		})
	}
	if len(runs) == 0 {
		t.AppendFooter(table.Row{"no runs recorded", "", "", "", "", "", ""})
	}
	return render(t, format)
}

// FormatRunFiles renders the documents of one run.
func FormatRunFiles(format Format, run *store.RunRecord, files []store.FileRecord) string {
	t := newTable()
	t.AppendHeader(table.Row{"Path", "Status", "Title", "Creator", "Media", "Extracted", "Notes"})

	for _, f := range files {
		notes := f.Reason
		if f.Status == core.StatusSuccess && f.OutputDir != "" {
			notes = "-> " + f.OutputDir
		}
		t.AppendRow(table.Row{
			f.Path,
			string(f.Status),
			value(f.Core, "title"),
			value(f.Core, "creator"),
			f.MediaCount,
			f.ExtractedCount,
			notes,
		})
	}

	if run != nil {
		t.SetTitle(fmt.Sprintf("%s  %s", run.ID, run.Root))
		t.AppendFooter(table.Row{
			"",
			fmt.Sprintf("%d/%d failed", run.Failed, run.Files),
			"", "", "", "",
			abortedNote(run.Aborted),
		})
	}
	return render(t, format)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func render(t table.Writer, format Format) string {
	if format == FormatMarkdown {
		return t.RenderMarkdown()
	}
	return t.Render()
}

func value(m *metadata.Mapping, key string) string {
	v, _ := m.Get(key)
	return v
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func abortedNote(aborted bool) string {
	if aborted {
		return "aborted"
	}
	return ""
}
