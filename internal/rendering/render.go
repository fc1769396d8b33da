// Package rendering turns a résumé record into document bytes.
//
// Every format shares one layout pass: the record is built into blocks once,
// and each emitter interprets those blocks in its own primitives. The PDF
// emitter places them onto fixed pages; DOCX and LaTeX hand them to a host
// that paginates.
package rendering

import (
	"strings"
	"time"

	"github.com/jonathan/resume-layout/internal/fonts"
	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/sanitize"
	"github.com/jonathan/resume-layout/internal/style"
	"github.com/jonathan/resume-layout/internal/types"
)

// Format selects the output encoding
type Format string

// Output formats
const (
	FormatPDF   Format = "pdf"
	FormatDOCX  Format = "docx"
	FormatLaTeX Format = "tex"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatPDF, FormatDOCX, FormatLaTeX}
}

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "pdf":
		return FormatPDF, nil
	case "docx", "word":
		return FormatDOCX, nil
	case "tex", "latex":
		return FormatLaTeX, nil
	default:
		return "", &FormatError{Format: s}
	}
}

// Extension is the file extension for the format, with the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatLaTeX:
		return "application/x-tex"
	default:
		return "application/pdf"
	}
}

// Fixed reports whether the format is paginated by this package.
func (f Format) Fixed() bool {
	return f == FormatPDF
}

// Result is a rendered document
type Result struct {
	Format Format
	Bytes  []byte
	// Document is the shared block list every format was derived from
	Document *layout.Document
	// Pages is the fixed-page placement; nil for flowing formats
	Pages *layout.PageSet
	// Drops lists the strings that lost characters
	Drops []sanitize.Drop
}

// PageCount returns the number of pages of a fixed-page result, or 0 when the
// host paginates.
func (r *Result) PageCount() int {
	if r.Pages == nil {
		return 0
	}
	return r.Pages.PageCount()
}

type options struct {
	metrics  fonts.Metrics
	reporter sanitize.Reporter
	created  time.Time
	template string
}

// Option configures Render
type Option func(*options)

// WithMetrics measures with m instead of the shared Go font provider.
func WithMetrics(m fonts.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithReporter forwards sanitizer drops to r as they happen.
func WithReporter(r sanitize.Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithCreationDate stamps documents with t instead of a fixed epoch.
func WithCreationDate(t time.Time) Option {
	return func(o *options) {
		o.created = t
	}
}

// WithTemplate sets LaTeX output through the template file at path instead of
// the built-in one.
func WithTemplate(path string) Option {
	return func(o *options) {
		o.template = path
	}
}

// epoch is the default document date; a fixed value keeps output stable
// for identical input.
var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Render lays out rec with profile p and encodes it as format. It fails only
// for a record without a name or when the writer itself fails.
func Render(rec *types.ResumeRecord, p *style.Profile, format Format, opts ...Option) (*Result, error) {
	o := options{metrics: fonts.Default(), created: epoch}
	for _, opt := range opts {
		opt(&o)
	}

	var builderOpts []layout.Option
	if o.reporter != nil {
		builderOpts = append(builderOpts, layout.WithReporter(o.reporter))
	}
	doc, err := layout.NewBuilder(p, o.metrics, builderOpts...).Build(rec)
	if err != nil {
		return nil, err
	}

	result := &Result{Format: format, Document: doc, Drops: doc.Drops}

	switch format {
	case FormatPDF:
		result.Pages = layout.Paginate(doc, o.metrics)
		result.Bytes, err = writePDF(doc, result.Pages, o.created)
	case FormatDOCX:
		result.Bytes, err = writeDOCX(doc, o.created)
	case FormatLaTeX:
		result.Bytes, err = writeLaTeX(doc, o.template)
	default:
		return nil, &FormatError{Format: string(format)}
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

// face maps a font id onto a family name and style flags for formats that
// reference fonts by name.
func face(id fonts.FontID) (family string, bold, italic bool) {
	switch id {
	case fonts.Bold:
		return "Go", true, false
	case fonts.Italic:
		return "Go", false, true
	case fonts.BoldItalic:
		return "Go", true, true
	case fonts.Medium:
		return "Go Medium", false, false
	case fonts.Mono:
		return "Go Mono", false, false
	case fonts.MonoBold:
		return "Go Mono", true, false
	default:
		return "Go", false, false
	}
}

// documentTitle is the metadata title of a rendered record.
func documentTitle(doc *layout.Document) string {
	for _, b := range doc.Blocks {
		if name, ok := b.(*layout.NameBlock); ok {
			return strings.Join(strings.Fields(name.Run.Text), " ") + " - Résumé"
		}
	}
	return "Résumé"
}
