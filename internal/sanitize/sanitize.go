// Package sanitize filters text down to what the active font can draw.
//
// The policy is best effort: unrepresentable characters are dropped, never
// reported as errors. A Reporter can observe what was dropped.
package sanitize

import (
	"strings"

	"github.com/jonathan/resume-layout/internal/fonts"
	"golang.org/x/text/unicode/norm"
)

// Drop describes characters removed from one input string
type Drop struct {
	Font    fonts.FontID
	Input   string
	Dropped []rune
}

// Reporter receives every string that lost characters.
type Reporter func(Drop)

// substitutions map characters that have a close representable stand-in.
var substitutions = map[rune]string{
	'\t':     " ",
	'\r':     "",
	'\u00A0': " ",  // no-break space
	'\u00AD': "",   // soft hyphen
	'\u200B': "",   // zero width space
	'\u200C': "",   // zero width non-joiner
	'\u200D': "",   // zero width joiner
	'\u2011': "-",  // non-breaking hyphen
	'\u2028': "\n", // line separator
	'\u2029': "\n", // paragraph separator
	'\u202F': " ",  // narrow no-break space
	'\u2212': "-",  // minus sign
	'\uFEFF': "",   // byte order mark
}

// Sanitizer removes characters a font cannot represent. Newlines are kept
// because the line wrapper treats them as explicit breaks.
type Sanitizer struct {
	metrics  fonts.Metrics
	reporter Reporter
}

// Option configures a Sanitizer
type Option func(*Sanitizer)

// WithReporter installs a hook called for every string that lost characters.
func WithReporter(r Reporter) Option {
	return func(s *Sanitizer) {
		s.reporter = r
	}
}

// New creates a Sanitizer measuring coverage with m.
func New(m fonts.Metrics, opts ...Option) *Sanitizer {
	s := &Sanitizer{metrics: m}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clean returns text restricted to runes the font can draw, plus newlines.
// Clean is idempotent.
func (s *Sanitizer) Clean(text string, id fonts.FontID) string {
	if text == "" {
		return ""
	}

	text = norm.NFC.String(text)
	if s.encodable(text, id) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	var dropped []rune
	for _, r := range text {
		if r == '\n' {
			b.WriteRune(r)
			continue
		}
		if sub, ok := substitutions[r]; ok {
			if s.encodable(sub, id) {
				b.WriteString(sub)
			}
			continue
		}
		if s.metrics.IsRepresentable(r, id) {
			b.WriteRune(r)
			continue
		}
		dropped = append(dropped, r)
	}

	if len(dropped) > 0 && s.reporter != nil {
		s.reporter(Drop{Font: id, Input: text, Dropped: dropped})
	}

	return b.String()
}

// encodable reports whether every rune of text survives as-is.
func (s *Sanitizer) encodable(text string, id fonts.FontID) bool {
	for _, r := range text {
		if r == '\n' {
			continue
		}
		if _, ok := substitutions[r]; ok {
			return false
		}
		if !s.metrics.IsRepresentable(r, id) {
			return false
		}
	}
	return true
}

// Collector gathers drops for later reporting.
type Collector struct {
	Drops []Drop
}

// Report implements Reporter.
func (c *Collector) Report(d Drop) {
	c.Drops = append(c.Drops, d)
}

// Runes returns every distinct dropped rune in first-seen order.
func (c *Collector) Runes() []rune {
	seen := make(map[rune]bool)
	var out []rune
	for _, d := range c.Drops {
		for _, r := range d.Dropped {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	return out
}
