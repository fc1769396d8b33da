// Package wrap breaks text into lines that fit a measured column width.
package wrap

import (
	"math"
	"strings"

	"github.com/jonathan/resume-layout/internal/fonts"
)

// Wrapper breaks text into lines using font metrics.
type Wrapper struct {
	metrics fonts.Metrics
}

// New creates a Wrapper measuring with m.
func New(m fonts.Metrics) *Wrapper {
	return &Wrapper{metrics: m}
}

// Wrap breaks text into lines no wider than maxWidth points when set in the
// given font and size.
//
// Explicit newlines split the text into paragraphs that are wrapped
// independently; an empty paragraph yields one empty line. Words are
// accumulated greedily. A word wider than the column on its own is split
// between characters. The result always holds at least one line.
func (w *Wrapper) Wrap(text string, maxWidth float64, id fonts.FontID, size float64) ([]string, error) {
	if math.IsNaN(maxWidth) || maxWidth <= 0 {
		return nil, &WidthError{Width: maxWidth}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, w.wrapParagraph(paragraph, maxWidth, id, size)...)
	}
	return lines, nil
}

// wrapParagraph wraps a single paragraph without explicit breaks.
func (w *Wrapper) wrapParagraph(paragraph string, maxWidth float64, id fonts.FontID, size float64) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""

	for _, word := range words {
		if current != "" {
			candidate := current + " " + word
			if w.metrics.WidthOf(candidate, id, size) <= maxWidth {
				current = candidate
				continue
			}
			lines = append(lines, current)
		}

		if w.metrics.WidthOf(word, id, size) <= maxWidth {
			current = word
			continue
		}

		chunks := w.splitWord(word, maxWidth, id, size)
		lines = append(lines, chunks[:len(chunks)-1]...)
		current = chunks[len(chunks)-1]
	}

	return append(lines, current)
}

// splitWord breaks an over-long word into chunks that each fit maxWidth.
// A single glyph wider than the column becomes a chunk of its own.
func (w *Wrapper) splitWord(word string, maxWidth float64, id fonts.FontID, size float64) []string {
	var chunks []string
	chunk := ""

	for _, r := range word {
		candidate := chunk + string(r)
		if chunk != "" && w.metrics.WidthOf(candidate, id, size) > maxWidth {
			chunks = append(chunks, chunk)
			candidate = string(r)
		}
		chunk = candidate
	}
	if chunk != "" {
		chunks = append(chunks, chunk)
	}

	return chunks
}

// MaxWidth returns the widest of lines when set in the given font and size.
func (w *Wrapper) MaxWidth(lines []string, id fonts.FontID, size float64) float64 {
	widest := 0.0
	for _, line := range lines {
		widest = math.Max(widest, w.metrics.WidthOf(line, id, size))
	}
	return widest
}
