// Package layout turns a résumé record into a format-agnostic block list and
// places that list onto fixed-size pages.
//
// The Builder decides what is drawn, in which order and with which grouping:
// emptiness skipping, sanitizing, wrapping and field packing happen once,
// there. Emitters interpret the blocks in their own primitives. Paginate is
// the fixed-page interpretation: it owns the Cursor and produces absolute
// draw operations.
package layout

import (
	"github.com/jonathan/resume-layout/internal/fonts"
	"github.com/jonathan/resume-layout/internal/sanitize"
	"github.com/jonathan/resume-layout/internal/style"
	"github.com/jonathan/resume-layout/internal/types"
)

// Document is the laid-out form of one record
type Document struct {
	Profile *style.Profile
	Blocks  []Block
	// Drops lists every string that lost characters while sanitizing
	Drops []sanitize.Drop
}

// TextStyle is the face, size and color of a run of text
type TextStyle struct {
	Font  fonts.FontID
	Size  float64
	Color style.Color
}

// Run is a sanitized text wrapped to a fixed width
type Run struct {
	// Text is the sanitized, unwrapped text; flowing emitters use it
	Text string
	// Lines is Text wrapped to Width
	Lines []string
	Style TextStyle
	// Indent is measured from the left margin
	Indent     float64
	Width      float64
	LineHeight float64
}

// Height is the vertical space taken by every line of the run.
func (r Run) Height() float64 {
	return float64(len(r.Lines)) * r.LineHeight
}

// Span is a piece of a span line. X is relative to the start of its line.
type Span struct {
	Text  string
	URL   string
	X     float64
	Width float64
	// Separator marks joiner text between parts
	Separator bool
}

// SpanLine is one visual line of spans
type SpanLine struct {
	Spans []Span
	Width float64
}

// Spans is a list of short parts flowed onto lines with a separator
type Spans struct {
	// Parts holds the unflowed parts in order
	Parts      []Span
	Separator  string
	Lines      []SpanLine
	Style      TextStyle
	LinkColor  style.Color
	Indent     float64
	LineHeight float64
}

// Block is one unit of the intermediate representation. The set of blocks is
// closed; emitters switch over it exhaustively.
type Block interface {
	block()
}

// NameBlock is the candidate's name
type NameBlock struct {
	Run   Run
	Align style.Alignment
}

// ContactBlock is the row of contact details under the name
type ContactBlock struct {
	Spans Spans
	Align style.Alignment
}

// RuleBlock is a horizontal rule across the column
type RuleBlock struct {
	Color     style.Color
	Thickness float64
	Height    float64
}

// FieldGridBlock is the packed grid of custom fields
type FieldGridBlock struct {
	Rows       []FieldRow
	LabelStyle TextStyle
	ValueStyle TextStyle
	LinkColor  style.Color
	LineHeight float64
	RowGap     float64
	LabelGap   float64
}

// SectionHeadingBlock opens a section
type SectionHeadingBlock struct {
	Kind      types.SectionKind
	Title     string
	Style     TextStyle
	Band      bool
	BandColor style.Color
	Height    float64
	Gap       float64
	// Underline draws a rule under an unbanded heading
	Underline bool
	RuleColor style.Color
	// KeepWithNext keeps the heading on the page of the first content line
	KeepWithNext bool
}

// EntryHeaderBlock is the title line of an education, experience or project
// entry with its dates right-aligned.
type EntryHeaderBlock struct {
	Kind      types.SectionKind
	Title     Run
	Dates     string
	DateStyle TextStyle
	DateWidth float64
	// DatesBelow puts the dates on their own lines when the title needs the
	// full column
	DatesBelow bool
	// DateLines is Dates wrapped to the column; set only with DatesBelow
	DateLines []string
	Rail       bool
	RailColor  style.Color
}

// LineBlock is a wrapped paragraph: a summary, location, inline list or
// custom paragraph.
type LineBlock struct {
	Role LineRole
	Run  Run
	Rail bool
}

// LineRole tells flowing emitters what a LineBlock carries
type LineRole string

// Line roles
const (
	RoleSummary   LineRole = "summary"
	RoleLocation  LineRole = "location"
	RoleList      LineRole = "list"
	RoleParagraph LineRole = "paragraph"
)

// BulletBlock is one bulleted item: an achievement, highlight, description
// line or list entry.
type BulletBlock struct {
	Glyph      string
	GlyphStyle TextStyle
	// GlyphIndent is measured from the left margin; Run.Indent places the text
	GlyphIndent float64
	Run         Run
	Rail        bool
}

// LinkLineBlock lists the links of a project
type LinkLineBlock struct {
	Spans Spans
	Rail  bool
}

// SpacerBlock is vertical whitespace
type SpacerBlock struct {
	Height float64
}

func (*NameBlock) block()           {}
func (*ContactBlock) block()        {}
func (*RuleBlock) block()           {}
func (*FieldGridBlock) block()      {}
func (*SectionHeadingBlock) block() {}
func (*EntryHeaderBlock) block()    {}
func (*LineBlock) block()           {}
func (*BulletBlock) block()         {}
func (*LinkLineBlock) block()       {}
func (*SpacerBlock) block()         {}

// firstLineHeight is the height of the first atomic line of b, used to keep
// headings with their content.
func firstLineHeight(b Block) float64 {
	switch v := b.(type) {
	case *NameBlock:
		return v.Run.LineHeight
	case *ContactBlock:
		return v.Spans.LineHeight
	case *RuleBlock:
		return v.Height
	case *FieldGridBlock:
		if len(v.Rows) > 0 {
			return v.Rows[0].Height
		}
	case *SectionHeadingBlock:
		return v.Height
	case *EntryHeaderBlock:
		return v.Title.LineHeight
	case *LineBlock:
		return v.Run.LineHeight
	case *BulletBlock:
		return v.Run.LineHeight
	case *LinkLineBlock:
		return v.Spans.LineHeight
	}
	return 0
}
