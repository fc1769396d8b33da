package layout

import "github.com/jonathan/resume-layout/internal/style"

// Geometry is the fixed page box a Cursor moves through, in points with the
// origin at the top-left corner.
type Geometry struct {
	Width  float64
	Height float64
	Top    float64
	Left   float64
	Right  float64
	// Bottom is the lowest offset a line may reach: the bottom margin less
	// the safety buffer
	Bottom float64
}

// GeometryOf derives page geometry from a profile.
func GeometryOf(p *style.Profile) Geometry {
	return Geometry{
		Width:  p.Page.Width,
		Height: p.Page.Height,
		Top:    p.Page.MarginTop,
		Left:   p.Page.MarginLeft,
		Right:  p.Page.Width - p.Page.MarginRight,
		Bottom: p.ContentBottom(),
	}
}

// ColumnWidth is the horizontal space between the side margins.
func (g Geometry) ColumnWidth() float64 {
	return g.Right - g.Left
}

// Cursor tracks the current page and the vertical write position of one
// document. It is created per call and never shared.
type Cursor struct {
	geom  Geometry
	page  int
	y     float64
	moved bool
}

// NewCursor starts at the top margin of page 1.
func NewCursor(g Geometry) *Cursor {
	return &Cursor{geom: g, page: 1, y: g.Top}
}

// EnsureSpace starts a new page when a line of the given height would cross
// the bottom of the content box. It reports whether a page was allocated.
// A page on which nothing has been placed is never abandoned, so content
// taller than a whole page is drawn from the top margin rather than looping.
func (c *Cursor) EnsureSpace(height float64) bool {
	if c.y+height <= c.geom.Bottom || !c.moved {
		return false
	}
	c.page++
	c.y = c.geom.Top
	c.moved = false
	return true
}

// Advance moves the write position down after a line has been placed.
// Negative distances are ignored; the cursor never rewinds.
func (c *Cursor) Advance(dy float64) {
	if dy <= 0 {
		return
	}
	c.y += dy
	c.moved = true
}

// Skip inserts vertical whitespace. Whitespace is dropped at the top of a
// page and clamped at the bottom so it never causes a page break by itself.
func (c *Cursor) Skip(dy float64) {
	if dy <= 0 || !c.moved {
		return
	}
	c.y += dy
	if c.y > c.geom.Bottom {
		c.y = c.geom.Bottom
	}
}

// Page returns the 1-based current page number.
func (c *Cursor) Page() int {
	return c.page
}

// Y returns the current offset from the top of the page.
func (c *Cursor) Y() float64 {
	return c.y
}

// Remaining returns the height left before the bottom of the content box.
func (c *Cursor) Remaining() float64 {
	if c.y >= c.geom.Bottom {
		return 0
	}
	return c.geom.Bottom - c.y
}

// AtTop reports whether nothing has been placed on the current page yet.
func (c *Cursor) AtTop() bool {
	return !c.moved
}

// Geometry returns the page box.
func (c *Cursor) Geometry() Geometry {
	return c.geom
}
