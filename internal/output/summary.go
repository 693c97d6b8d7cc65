package output

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/gofulmen/ascii"

	"github.com/xtractor/xtractor/internal/core"
)

// SummaryLines renders the batch outcome, one line per document plus totals.
func SummaryLines(report *core.BatchReport) []string {
	if report == nil {
		return nil
	}

	lines := []string{
		fmt.Sprintf("Run %s", report.ID),
		"",
	}
	for _, f := range report.Files {
		if f == nil {
			continue
		}
		line := fmt.Sprintf("%-7s %s", f.Status, f.Path)
		switch f.Status {
		case core.StatusSuccess:
			line += fmt.Sprintf(" (media %d, extracted %d)", len(f.Media), len(f.Extracted))
		default:
			if f.Reason != "" {
				line += ": " + f.Reason
			}
		}
		lines = append(lines, line)
	}

	lines = append(lines, "", fmt.Sprintf("%d document(s): %d ok, %d skipped, %d failed",
		len(report.Files),
		report.Count(core.StatusSuccess),
		report.Count(core.StatusSkipped),
		report.Count(core.StatusFailed)))
	if report.Aborted {
		lines = append(lines, "batch aborted before all documents were processed")
	}
	return lines
}

// Summary draws SummaryLines in a box.
func (p *Presenter) Summary(report *core.BatchReport) {
	lines := SummaryLines(report)
	if len(lines) == 0 {
		return
	}
	p.printf("\n%s", ascii.DrawBox(strings.Join(lines, "\n"), 0))
}
