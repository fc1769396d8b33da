// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-layout/internal/ingestion"
	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/rendering"
	"github.com/jonathan/resume-layout/internal/sanitize"
	"github.com/jonathan/resume-layout/internal/types"
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

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

// pad right-pads s with spaces to n runes.
func pad(s string, n int) string {
	if gap := n - utf8.RuneCountInString(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(title, inner), inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRecord outputs what the layout will see of a record: visible custom
// fields and the sections that are not empty.
func (p *Printer) PrintRecord(rec *types.ResumeRecord, src *ingestion.Source) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", rec.Basics.Name))
	if src != nil {
		sb.WriteString(fmt.Sprintf("Source:   %s (%d bytes)\n", src.Path, src.Bytes))
		sb.WriteString(fmt.Sprintf("SHA-256:  %s\n", src.Hash[:min(16, len(src.Hash))]))
	}
	sb.WriteString(fmt.Sprintf("Fields:   %d of %d visible\n", len(rec.CustomFields.Visible()), len(rec.CustomFields)))

	visible := rec.VisibleSections()
	sb.WriteString(fmt.Sprintf("Sections: %d of %d non-empty\n", len(visible), len(rec.Sections)))
	for i, s := range visible {
		if i == maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(visible)-maxItemsToShow))
			break
		}
		sb.WriteString(fmt.Sprintf("  • %s [%s]\n", s.Title, s.Kind()))
	}

	p.printBox("RESUME RECORD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLayout outputs a summary of a rendered document: its size, page
// count and how many blocks each section produced.
func (p *Printer) PrintLayout(result *rendering.Result) {
	if result == nil || result.Document == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Format:   %s (%d bytes)\n", result.Format, len(result.Bytes)))
	sb.WriteString(fmt.Sprintf("Style:    %s\n", result.Document.Profile.Name))
	if result.Pages != nil {
		sb.WriteString(fmt.Sprintf("Pages:    %d\n", result.PageCount()))
		for _, page := range result.Pages.Pages {
			sb.WriteString(fmt.Sprintf("  page %d: %d draw ops\n", page.Number, len(page.Ops)))
		}
	} else {
		sb.WriteString("Pages:    paginated by the host application\n")
	}

	sb.WriteString(fmt.Sprintf("Blocks:   %d\n", len(result.Document.Blocks)))
	for _, s := range sectionBlocks(result.Document) {
		sb.WriteString(fmt.Sprintf("  %-28s %3d\n", truncate(s.title, 28), s.blocks))
	}

	p.printBox("LAYOUT", strings.TrimSuffix(sb.String(), "\n"))
}

type sectionCount struct {
	title  string
	blocks int
}

// sectionBlocks counts the non-spacer blocks under each heading. Blocks
// before the first heading are counted as the header.
func sectionBlocks(doc *layout.Document) []sectionCount {
	counts := []sectionCount{{title: "(header)"}}
	for _, b := range doc.Blocks {
		switch b := b.(type) {
		case *layout.SpacerBlock:
			continue
		case *layout.SectionHeadingBlock:
			counts = append(counts, sectionCount{title: b.Title})
		}
		counts[len(counts)-1].blocks++
	}
	return counts
}

// PrintDrops lists characters the sanitizer removed because no font could
// draw them.
func (p *Printer) PrintDrops(drops []sanitize.Drop) {
	if len(drops) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d strings lost characters:\n\n", len(drops)))
	for i, d := range drops {
		if i == maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(drops)-maxItemsToShow))
			break
		}
		codes := make([]string, len(d.Dropped))
		for j, r := range d.Dropped {
			codes[j] = fmt.Sprintf("%U", r)
		}
		sb.WriteString(fmt.Sprintf("• %q\n", truncate(d.Input, 40)))
		sb.WriteString(fmt.Sprintf("  %s (%s)\n", truncate(strings.Join(codes, " "), 40), d.Font))
	}

	p.printBox("DROPPED CHARACTERS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBatch outputs one line per batch job.
func (p *Printer) PrintBatch(results []rendering.BatchResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			sb.WriteString(fmt.Sprintf("✗ %s: %s\n", r.Job.Name, truncate(r.Err.Error(), 40)))
		case r.Result.Pages != nil:
			sb.WriteString(fmt.Sprintf("✓ %s (%d pages)\n", r.Job.Name, r.Result.PageCount()))
		default:
			sb.WriteString(fmt.Sprintf("✓ %s\n", r.Job.Name))
		}
	}
	sb.WriteString(fmt.Sprintf("\n%d rendered, %d failed", len(results)-failed, failed))

	p.printBox("BATCH", sb.String())
}

// PrintViolations outputs any layout violations found.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintViolations(violations *types.Violations) {
	if violations == nil || len(violations.Violations) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %s │\n", pad("✅ NO VIOLATIONS FOUND", boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d violations:\n\n", len(violations.Violations)))

	for i, v := range violations.Violations {
		marker := "⚠"
		if v.Severity == types.SeverityError {
			marker = "✗"
		}
		where := ""
		if v.PageNumber != nil {
			where = fmt.Sprintf(" (page %d)", *v.PageNumber)
		}
		sb.WriteString(fmt.Sprintf("%s %s%s\n", marker, v.Type, where))
		sb.WriteString(fmt.Sprintf("  %s\n", truncate(v.Details, 50)))
		if i < len(violations.Violations)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("LAYOUT VIOLATIONS", strings.TrimSuffix(sb.String(), "\n"))
}
