package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   string
	}{
		{"Jane Doe", FormatPDF, "jane-doe.pdf"},
		{"  Zoë  Brontë-Smith ", FormatDOCX, "zoe-bronte-smith.docx"},
		{"José O'Neil Jr.", FormatLaTeX, "jose-o-neil-jr.tex"},
		{"李小龙", FormatPDF, "resume.pdf"},
		{"", FormatPDF, "resume.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.name, tt.format))
		})
	}
}
