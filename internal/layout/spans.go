package layout

import (
	"strings"

	"github.com/jonathan/resume-layout/internal/fonts"
	"github.com/jonathan/resume-layout/internal/wrap"
)

// flowSpans places parts left to right with sep between them, opening a new
// line when the next part would pass avail. A part wider than avail on its
// own is wrapped across lines of its own.
func flowSpans(parts []Span, sep string, avail float64, id fonts.FontID, size float64, m fonts.Metrics) ([]SpanLine, error) {
	w := wrap.New(m)
	sepWidth := m.WidthOf(sep, id, size)

	var lines []SpanLine
	var current SpanLine

	push := func(s Span) {
		if len(current.Spans) > 0 {
			current.Spans = append(current.Spans, Span{Text: sep, X: current.Width, Width: sepWidth, Separator: true})
			current.Width += sepWidth
		}
		s.X = current.Width
		current.Spans = append(current.Spans, s)
		current.Width += s.Width
	}
	flush := func() {
		if len(current.Spans) > 0 {
			lines = append(lines, current)
			current = SpanLine{}
		}
	}

	for _, part := range parts {
		part.Width = m.WidthOf(part.Text, id, size)

		if part.Width > avail {
			chunks, err := w.Wrap(part.Text, avail, id, size)
			if err != nil {
				return nil, &LayoutError{Message: "failed to wrap span", Cause: err}
			}
			flush()
			for _, chunk := range chunks {
				width := m.WidthOf(chunk, id, size)
				lines = append(lines, SpanLine{
					Spans: []Span{{Text: chunk, URL: part.URL, Width: width}},
					Width: width,
				})
			}
			continue
		}

		if len(current.Spans) > 0 && current.Width+sepWidth+part.Width > avail {
			flush()
		}
		push(part)
	}
	flush()

	return lines, nil
}

// DisplayURL shortens a URL for display: the scheme, a leading "www." and a
// trailing slash are dropped.
func DisplayURL(raw string) string {
	s := strings.TrimSpace(raw)
	for _, prefix := range []string{"https://", "http://", "mailto:"} {
		if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			s = s[len(prefix):]
			break
		}
	}
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimSuffix(s, "/")
}

// LinkTarget turns a user-supplied link into an absolute URL for link
// annotations. Bare hosts get https.
func LinkTarget(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") {
		return s
	}
	return "https://" + s
}
