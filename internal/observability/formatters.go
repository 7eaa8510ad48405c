// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4)))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to max runes, ending with "..." when cut.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}

// pad right-fills s with spaces to the inner box width. Widths are counted
// in runes so accented text lines up.
func pad(s string) string {
	n := boxWidth - 4 - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}

// PrintRecordSummary outputs a human-readable summary of a résumé record.
func (p *Printer) PrintRecordSummary(rec *types.ResumeRecord) {
	if rec == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Title:      %s\n", rec.DisplayTitle()))
	if rec.PersonalInfo.FullName != "" {
		sb.WriteString(fmt.Sprintf("Name:       %s\n", rec.PersonalInfo.FullName))
	}
	if rec.PersonalInfo.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:      %s\n", rec.PersonalInfo.Email))
	}
	sb.WriteString(fmt.Sprintf("Experience: %d\n", len(rec.Experience)))
	sb.WriteString(fmt.Sprintf("Education:  %d\n", len(rec.Education)))

	if len(rec.Skills) > 0 {
		sb.WriteString("\nSkills:\n")
		count := min(len(rec.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", rec.Skills[i]))
		}
		if len(rec.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(rec.Skills)-maxItemsToShow))
		}
	}

	p.printBox("RESUME RECORD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDocumentOutline outputs the sections a rendered document contains.
func (p *Printer) PrintDocumentOutline(doc *rendering.Document) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Locale: %s   Page: %s\n", doc.Locale, doc.Page.Name))
	if len(doc.Sections) == 0 {
		sb.WriteString("\n(no sections)\n")
	}
	for _, section := range doc.Sections {
		switch section.Kind {
		case rendering.SectionSkills:
			sb.WriteString(fmt.Sprintf("\n%s (%d)\n", section.Title, len(section.Chips)))
		default:
			sb.WriteString(fmt.Sprintf("\n%s (%d)\n", section.Title, len(section.Entries)))
			for _, entry := range section.Entries {
				sb.WriteString(fmt.Sprintf("  • %s\n", entry.Heading))
			}
		}
	}

	p.printBox("RENDERED DOCUMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// ExportResult describes one written export file.
type ExportResult struct {
	Format   rendering.Format
	Path     string
	Bytes    int
	Pages    int // PDF only; zero when unknown
	Duration time.Duration
	Err      error
}

// PrintExportResults outputs one line per export, failures included.
func (p *Printer) PrintExportResults(results []ExportResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	for _, r := range results {
		if r.Err != nil {
			sb.WriteString(fmt.Sprintf("✗ %-4s %s\n", r.Format, r.Err))
			continue
		}
		sb.WriteString(fmt.Sprintf("✓ %-4s %s\n", r.Format, r.Path))
		sb.WriteString(fmt.Sprintf("       %s in %s", formatBytes(r.Bytes), r.Duration.Round(time.Millisecond)))
		if r.Pages > 0 {
			sb.WriteString(fmt.Sprintf(", %d page(s)", r.Pages))
		}
		sb.WriteString("\n")
	}

	p.printBox("EXPORTS", strings.TrimSuffix(sb.String(), "\n"))
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
