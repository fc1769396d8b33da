// Package fonts measures text set in the small fixed family of fonts the
// layout engine can embed.
//
// Widths come from the TrueType advance tables of the Go fonts, measured once
// per face into a rune-indexed table. After construction a Provider is
// read-only and safe for concurrent use.
package fonts

import (
	"fmt"
	"sort"
	"sync"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// FontID names one embeddable face
type FontID string

// Available faces
const (
	Regular    FontID = "go-regular"
	Bold       FontID = "go-bold"
	Italic     FontID = "go-italic"
	BoldItalic FontID = "go-bolditalic"
	Medium     FontID = "go-medium"
	Mono       FontID = "go-mono"
	MonoBold   FontID = "go-mono-bold"
)

// Metrics measures strings and reports glyph coverage.
type Metrics interface {
	// WidthOf returns the advance width of text in points.
	WidthOf(text string, id FontID, size float64) float64
	// IsRepresentable reports whether the face can draw r.
	IsRepresentable(r rune, id FontID) bool
}

var sources = map[FontID][]byte{
	Regular:    goregular.TTF,
	Bold:       gobold.TTF,
	Italic:     goitalic.TTF,
	BoldItalic: gobolditalic.TTF,
	Medium:     gomedium.TTF,
	Mono:       gomono.TTF,
	MonoBold:   gomonobold.TTF,
}

// coverage lists the rune ranges probed when building width tables. Runes
// outside these ranges are treated as unrepresentable.
var coverage = []struct{ lo, hi rune }{
	{0x0020, 0x007E}, // Basic Latin
	{0x00A0, 0x024F}, // Latin-1 Supplement, Latin Extended-A/B
	{0x0370, 0x03FF}, // Greek
	{0x0400, 0x04FF}, // Cyrillic
	{0x1E00, 0x1EFF}, // Latin Extended Additional
	{0x2000, 0x206F}, // General Punctuation
	{0x20A0, 0x20CF}, // Currency Symbols
	{0x2100, 0x214F}, // Letterlike Symbols
	{0x2190, 0x21FF}, // Arrows
	{0x2200, 0x22FF}, // Mathematical Operators
	{0x25A0, 0x25FF}, // Geometric Shapes
}

// face is the measured form of one font.
type face struct {
	unitsPerEm float64
	widths     map[rune]int
}

// Provider implements Metrics over the Go font family.
type Provider struct {
	faces map[FontID]*face
}

var (
	defaultOnce     sync.Once
	defaultProvider *Provider
	defaultErr      error
)

// Default returns the shared provider, building it on first use.
// The embedded fonts always parse, so an error here means a broken build.
func Default() *Provider {
	defaultOnce.Do(func() {
		defaultProvider, defaultErr = NewProvider()
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("fonts: failed to load embedded fonts: %v", defaultErr))
	}
	return defaultProvider
}

// NewProvider parses and measures every available face.
func NewProvider() (*Provider, error) {
	p := &Provider{faces: make(map[FontID]*face, len(sources))}
	for id, data := range sources {
		f, err := measure(data)
		if err != nil {
			return nil, &FontError{Font: id, Message: "failed to measure font", Cause: err}
		}
		p.faces[id] = f
	}
	return p, nil
}

// measure builds the advance table of one TrueType font, in font units.
func measure(data []byte) (*face, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	unitsPerEm := f.UnitsPerEm()
	// ppem equal to unitsPerEm yields advances in font units
	ppem := fixed.I(int(unitsPerEm))

	var buf sfnt.Buffer
	widths := make(map[rune]int, 1024)
	for _, span := range coverage {
		for r := span.lo; r <= span.hi; r++ {
			idx, err := f.GlyphIndex(&buf, r)
			if err != nil || idx == 0 {
				continue
			}
			advance, err := f.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
			if err != nil {
				continue
			}
			widths[r] = advance.Round()
		}
	}

	return &face{unitsPerEm: float64(unitsPerEm), widths: widths}, nil
}

// lookup returns the face for id, falling back to Regular for unknown ids.
func (p *Provider) lookup(id FontID) *face {
	if f, ok := p.faces[id]; ok {
		return f
	}
	return p.faces[Regular]
}

// WidthOf returns the width of text in points. Unrepresentable runes
// contribute nothing; callers sanitize before measuring.
func (p *Provider) WidthOf(text string, id FontID, size float64) float64 {
	f := p.lookup(id)
	units := 0
	for _, r := range text {
		units += f.widths[r]
	}
	return float64(units) / f.unitsPerEm * size
}

// IsRepresentable reports whether the face has a glyph for r.
func (p *Provider) IsRepresentable(r rune, id FontID) bool {
	if unicode.IsControl(r) {
		return false
	}
	_, ok := p.lookup(id).widths[r]
	return ok
}

// Has reports whether id names an available face.
func (p *Provider) Has(id FontID) bool {
	_, ok := p.faces[id]
	return ok
}

// TTF returns the raw font program for embedding.
func TTF(id FontID) ([]byte, error) {
	data, ok := sources[id]
	if !ok {
		return nil, &FontError{Font: id, Message: "unknown font"}
	}
	return data, nil
}

// IDs returns every available face id, sorted.
func IDs() []FontID {
	ids := make([]FontID, 0, len(sources))
	for id := range sources {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Valid reports whether id names an available face.
func Valid(id FontID) bool {
	_, ok := sources[id]
	return ok
}
