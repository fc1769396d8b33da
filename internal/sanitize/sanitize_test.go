package sanitize

import (
	"testing"

	"github.com/jonathan/resume-layout/internal/fonts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSanitizer(opts ...Option) *Sanitizer {
	return New(fonts.Default(), opts...)
}

func TestClean_EmptyString(t *testing.T) {
	assert.Equal(t, "", newTestSanitizer().Clean("", fonts.Regular))
}

func TestClean_ASCIIUnchanged(t *testing.T) {
	text := "Built a $1M+ pipeline (99.9% uptime) - see https://example.com/a_b?c=d#e"
	assert.Equal(t, text, newTestSanitizer().Clean(text, fonts.Regular))
}

func TestClean_Idempotent(t *testing.T) {
	s := newTestSanitizer()
	inputs := []string{
		"plain ascii",
		"tabs\tand\r\nwindows lines",
		"emoji 🚀 rocket and 中文",
		"zero\u200bwidth and soft\u00adhyphen",
	}
	for _, in := range inputs {
		once := s.Clean(in, fonts.Regular)
		assert.Equal(t, once, s.Clean(once, fonts.Regular), "input %q", in)
	}
}

func TestClean_KeepsLatinAccents(t *testing.T) {
	assert.Equal(t, "Résumé – Zoë Ångström", newTestSanitizer().Clean("Résumé – Zoë Ångström", fonts.Regular))
}

func TestClean_ComposesDecomposedAccents(t *testing.T) {
	decomposed := "Re\u0301sume\u0301"
	assert.Equal(t, "Résumé", newTestSanitizer().Clean(decomposed, fonts.Regular))
}

func TestClean_DropsUnrepresentable(t *testing.T) {
	assert.Equal(t, "Launch  day", newTestSanitizer().Clean("Launch 🚀 day", fonts.Regular))
}

func TestClean_PreservesNewlines(t *testing.T) {
	assert.Equal(t, "A\n\nB", newTestSanitizer().Clean("A\n\nB", fonts.Regular))
}

func TestClean_Substitutions(t *testing.T) {
	s := newTestSanitizer()
	assert.Equal(t, "a b", s.Clean("a\tb", fonts.Regular))
	assert.Equal(t, "a\nb", s.Clean("a\r\nb", fonts.Regular))
	assert.Equal(t, "ab", s.Clean("a\u200bb", fonts.Regular))
	assert.Equal(t, "x-y", s.Clean("x\u2212y", fonts.Regular))
	assert.Equal(t, "one\ntwo", s.Clean("one\u2028two", fonts.Regular))
}

func TestClean_ReporterReceivesDrops(t *testing.T) {
	collector := &Collector{}
	s := newTestSanitizer(WithReporter(collector.Report))

	s.Clean("ok", fonts.Regular)
	assert.Empty(t, collector.Drops)

	s.Clean("a😀b中c😀", fonts.Bold)
	require.Len(t, collector.Drops, 1)
	assert.Equal(t, fonts.Bold, collector.Drops[0].Font)
	assert.Equal(t, []rune{'😀', '中', '😀'}, collector.Drops[0].Dropped)
	assert.Equal(t, []rune{'😀', '中'}, collector.Runes())
}

func TestClean_SubstitutionsAreNotReported(t *testing.T) {
	collector := &Collector{}
	s := newTestSanitizer(WithReporter(collector.Report))
	s.Clean("a\tb c", fonts.Regular)
	assert.Empty(t, collector.Drops)
}
