package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only whitespace", " \n\t \n", ""},
		{"collapses spaces", "Go   and\t\tPostgreSQL", "Go and PostgreSQL"},
		{"line endings", "a\r\nb\rc", "a\nb\nc"},
		{"blank lines", "a\n\n\n\n b", "a\n\nb"},
		{"non-breaking space", "Go  developer", "Go developer"},
		{"keeps unicode", "Zoë — café", "Zoë — café"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestCleanText_Deterministic(t *testing.T) {
	input := "  Lead  engineer \r\n\r\n\r\n  shipped things  "
	assert.Equal(t, CleanText(input), CleanText(input))
	assert.Equal(t, CleanText(input), CleanText(CleanText(input)))
}

func TestParagraphs(t *testing.T) {
	assert.Equal(t, []string{"one", "two", "three"}, Paragraphs("one\n\n two \nthree\n"))
	assert.Nil(t, Paragraphs("  \n "))
}
