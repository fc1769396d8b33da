package layout

import (
	"github.com/jonathan/resume-layout/internal/fonts"
	"github.com/jonathan/resume-layout/internal/style"
)

// ascentRatio places the baseline within a line box
const ascentRatio = 0.8

// markerRadius is the radius of a timeline dot
const markerRadius = 2.5

// OpKind names a drawing primitive
type OpKind string

// Drawing primitives
const (
	OpText   OpKind = "text"
	OpRect   OpKind = "rect"
	OpCircle OpKind = "circle"
	OpLine   OpKind = "line"
	OpLink   OpKind = "link"
)

// Op is one absolute drawing call. Coordinates are in points from the
// top-left corner of the page.
type Op struct {
	Kind OpKind
	// X, Y is the top-left corner for text, rects and links, the center for
	// circles and the start for lines
	X, Y float64
	// W, H is the box size; W is the radius for circles
	W, H float64
	// X2, Y2 is the end of a line
	X2, Y2    float64
	Thickness float64
	Baseline  float64
	Text      string
	Font      fonts.FontID
	Size      float64
	Color     style.Color
	URL       string
	// Limit is the widest the text was allowed to be
	Limit float64
}

// Page is the ordered drawing calls of one page
type Page struct {
	Number int
	Ops    []Op
}

// Placement records where the cursor put one atomic line
type Placement struct {
	Page   int
	Y      float64
	Height float64
}

// PageSet is a document placed onto fixed-size pages
type PageSet struct {
	Geometry   Geometry
	Pages      []*Page
	Placements []Placement
}

// PageCount returns the number of pages.
func (s *PageSet) PageCount() int {
	return len(s.Pages)
}

// PlacedText is a text op with its page number
type PlacedText struct {
	Page int
	Op
}

// Texts returns every text op in drawing order.
func (s *PageSet) Texts() []PlacedText {
	var out []PlacedText
	for _, page := range s.Pages {
		for _, op := range page.Ops {
			if op.Kind == OpText {
				out = append(out, PlacedText{Page: page.Number, Op: op})
			}
		}
	}
	return out
}

// paginator interprets blocks with a cursor.
type paginator struct {
	doc   *Document
	m     fonts.Metrics
	cur   *Cursor
	geom  Geometry
	set   *PageSet
	railX float64
}

// Paginate places a document onto pages. Space is checked before every
// atomic line, so a line is never split across pages while a multi-line
// block may continue on the next page. Headings are kept with the first line
// of what follows them.
func Paginate(doc *Document, m fonts.Metrics) *PageSet {
	geom := GeometryOf(doc.Profile)
	p := &paginator{
		doc:   doc,
		m:     m,
		cur:   NewCursor(geom),
		geom:  geom,
		set:   &PageSet{Geometry: geom},
		railX: geom.Left + doc.Profile.Spacing.TimelineIndent/2,
	}
	p.page()

	for i, block := range doc.Blocks {
		var next Block
		if i+1 < len(doc.Blocks) {
			next = doc.Blocks[i+1]
		}
		p.block(block, next)
	}

	return p.set
}

func (p *paginator) block(block Block, next Block) {
	switch b := block.(type) {
	case *NameBlock:
		p.name(b)
	case *ContactBlock:
		p.spans(&b.Spans, b.Align, false)
	case *RuleBlock:
		p.rule(b)
	case *FieldGridBlock:
		p.fieldGrid(b)
	case *SectionHeadingBlock:
		p.heading(b, next)
	case *EntryHeaderBlock:
		p.entryHeader(b)
	case *LineBlock:
		p.run(&b.Run, style.AlignLeft, b.Rail)
	case *BulletBlock:
		p.bullet(b)
	case *LinkLineBlock:
		p.spans(&b.Spans, style.AlignLeft, b.Rail)
	case *SpacerBlock:
		p.cur.Skip(b.Height)
	}
}

// page returns the page the cursor is on, opening it if needed.
func (p *paginator) page() *Page {
	for len(p.set.Pages) < p.cur.Page() {
		p.set.Pages = append(p.set.Pages, &Page{Number: len(p.set.Pages) + 1})
	}
	return p.set.Pages[p.cur.Page()-1]
}

// place makes room for one atomic line and returns its top offset.
func (p *paginator) place(height float64) float64 {
	p.cur.EnsureSpace(height)
	p.page()
	y := p.cur.Y()
	p.set.Placements = append(p.set.Placements, Placement{Page: p.cur.Page(), Y: y, Height: height})
	return y
}

func (p *paginator) emit(op Op) {
	page := p.page()
	page.Ops = append(page.Ops, op)
}

// text draws one line of text in a line box of height lh.
func (p *paginator) text(x, y, lh float64, text string, ts TextStyle, limit float64, url string) {
	if text == "" {
		return
	}
	width := p.m.WidthOf(text, ts.Font, ts.Size)
	p.emit(Op{
		Kind:     OpText,
		X:        x,
		Y:        y,
		W:        width,
		H:        lh,
		Baseline: y + (lh-ts.Size)/2 + ts.Size*ascentRatio,
		Text:     text,
		Font:     ts.Font,
		Size:     ts.Size,
		Color:    ts.Color,
		Limit:    limit,
	})
	if url != "" {
		p.emit(Op{Kind: OpLink, X: x, Y: y, W: width, H: lh, URL: url})
	}
}

func (p *paginator) rail(y0, y1 float64) {
	p.emit(Op{
		Kind:      OpLine,
		X:         p.railX,
		Y:         y0,
		X2:        p.railX,
		Y2:        y1,
		Thickness: 1,
		Color:     p.doc.Profile.Colors.Accent,
	})
}

func (p *paginator) alignOffset(align style.Alignment, width, avail float64) float64 {
	if align == style.AlignCenter && width < avail {
		return (avail - width) / 2
	}
	return 0
}

func (p *paginator) name(b *NameBlock) {
	r := &b.Run
	for _, line := range r.Lines {
		y := p.place(r.LineHeight)
		width := p.m.WidthOf(line, r.Style.Font, r.Style.Size)
		x := p.geom.Left + r.Indent + p.alignOffset(b.Align, width, r.Width)
		p.text(x, y, r.LineHeight, line, r.Style, r.Width, "")
		p.cur.Advance(r.LineHeight)
	}
}

func (p *paginator) run(r *Run, align style.Alignment, rail bool) {
	for _, line := range r.Lines {
		y := p.place(r.LineHeight)
		width := p.m.WidthOf(line, r.Style.Font, r.Style.Size)
		x := p.geom.Left + r.Indent + p.alignOffset(align, width, r.Width)
		p.text(x, y, r.LineHeight, line, r.Style, r.Width, "")
		if rail {
			p.rail(y, y+r.LineHeight)
		}
		p.cur.Advance(r.LineHeight)
	}
}

func (p *paginator) spans(s *Spans, align style.Alignment, rail bool) {
	avail := p.geom.ColumnWidth() - s.Indent
	for _, line := range s.Lines {
		y := p.place(s.LineHeight)
		x := p.geom.Left + s.Indent + p.alignOffset(align, line.Width, avail)
		for _, span := range line.Spans {
			ts := s.Style
			if span.URL != "" {
				ts.Color = s.LinkColor
			}
			p.text(x+span.X, y, s.LineHeight, span.Text, ts, avail-span.X, span.URL)
		}
		if rail {
			p.rail(y, y+s.LineHeight)
		}
		p.cur.Advance(s.LineHeight)
	}
}

func (p *paginator) rule(b *RuleBlock) {
	y := p.place(b.Height) + b.Height/2
	p.emit(Op{
		Kind:      OpLine,
		X:         p.geom.Left,
		Y:         y,
		X2:        p.geom.Right,
		Y2:        y,
		Thickness: b.Thickness,
		Color:     b.Color,
	})
	p.cur.Advance(b.Height)
}

// fieldGrid checks space once per row; a row is an atomic line.
func (p *paginator) fieldGrid(b *FieldGridBlock) {
	column := p.geom.ColumnWidth()
	lh := b.LineHeight

	for _, row := range b.Rows {
		y := p.place(row.Height)
		for _, item := range row.Items {
			x := p.geom.Left + item.X

			valueStyle := b.ValueStyle
			if item.URL != "" {
				valueStyle.Color = b.LinkColor
			}

			valueX, valueY := x, y
			if item.Stacked {
				for i, line := range item.LabelLines {
					p.text(x, y+float64(i)*lh, lh, line, b.LabelStyle, column-item.X, "")
				}
				valueY = y + float64(len(item.LabelLines))*lh
			} else {
				p.text(x, y, lh, item.Label, b.LabelStyle, column-item.X, "")
				if item.Label != "" {
					valueX = x + item.LabelWidth + b.LabelGap
				}
			}

			for i, line := range item.ValueLines {
				p.text(valueX, valueY+float64(i)*lh, lh, line, valueStyle, p.geom.Right-valueX, item.URL)
			}
		}
		p.cur.Advance(row.Height)
		p.cur.Skip(b.RowGap)
	}
}

func (p *paginator) heading(b *SectionHeadingBlock, next Block) {
	required := b.Height + b.Gap
	if b.KeepWithNext && next != nil {
		required += firstLineHeight(next)
	}
	p.cur.EnsureSpace(required)
	y := p.place(b.Height)

	column := p.geom.ColumnWidth()
	x := p.geom.Left
	if b.Band {
		p.emit(Op{Kind: OpRect, X: p.geom.Left, Y: y, W: column, H: b.Height, Color: b.BandColor})
		x += bandPadding
	}
	p.text(x, y, b.Height, b.Title, b.Style, p.geom.Right-x, "")
	if b.Underline {
		p.emit(Op{
			Kind:      OpLine,
			X:         p.geom.Left,
			Y:         y + b.Height - 1,
			X2:        p.geom.Right,
			Y2:        y + b.Height - 1,
			Thickness: 0.5,
			Color:     b.RuleColor,
		})
	}

	p.cur.Advance(b.Height + b.Gap)
}

func (p *paginator) entryHeader(b *EntryHeaderBlock) {
	r := &b.Title
	lh := r.LineHeight
	datesX := p.geom.Right - b.DateWidth
	dateLimit := p.geom.ColumnWidth() - r.Indent

	for i, line := range r.Lines {
		y := p.place(lh)
		p.text(p.geom.Left+r.Indent, y, lh, line, r.Style, r.Width, "")

		if i == 0 {
			if b.Dates != "" && !b.DatesBelow {
				p.text(datesX, y, lh, b.Dates, b.DateStyle, dateLimit, "")
			}
			if b.Rail {
				p.emit(Op{Kind: OpCircle, X: p.railX, Y: y + lh/2, W: markerRadius, Color: b.RailColor})
				p.rail(y+lh/2, y+lh)
			}
		} else if b.Rail {
			p.rail(y, y+lh)
		}
		p.cur.Advance(lh)
	}

	for _, line := range b.DateLines {
		y := p.place(lh)
		x := p.geom.Right - p.m.WidthOf(line, b.DateStyle.Font, b.DateStyle.Size)
		p.text(x, y, lh, line, b.DateStyle, dateLimit, "")
		if b.Rail {
			p.rail(y, y+lh)
		}
		p.cur.Advance(lh)
	}
}

func (p *paginator) bullet(b *BulletBlock) {
	r := &b.Run
	for i, line := range r.Lines {
		y := p.place(r.LineHeight)
		if i == 0 && b.Glyph != "" {
			p.text(p.geom.Left+b.GlyphIndent, y, r.LineHeight, b.Glyph, b.GlyphStyle, r.Indent-b.GlyphIndent+r.Width, "")
		}
		p.text(p.geom.Left+r.Indent, y, r.LineHeight, line, r.Style, r.Width, "")
		if b.Rail {
			p.rail(y, y+r.LineHeight)
		}
		p.cur.Advance(r.LineHeight)
	}
}
