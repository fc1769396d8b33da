package validation

import (
	"fmt"

	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/types"
)

// CheckLineWidths reports every drawn line wider than the width it was
// wrapped to, or running past the right margin.
func CheckLineWidths(set *layout.PageSet) []types.Violation {
	var violations []types.Violation
	right := set.Geometry.Right

	for _, text := range set.Texts() {
		overLimit := text.Limit > 0 && text.W > text.Limit+tolerance
		overMargin := text.X+text.W > right+tolerance
		if !overLimit && !overMargin {
			continue
		}

		details := fmt.Sprintf("Line is %.2fpt wide, limit is %.2fpt", text.W, text.Limit)
		if !overLimit {
			details = fmt.Sprintf("Line ends at %.2fpt, past the right margin at %.2fpt", text.X+text.W, right)
		}
		violations = append(violations, types.Violation{
			Type:       types.ViolationLineTooWide,
			Severity:   types.SeverityError,
			Details:    details,
			PageNumber: intPtr(text.Page),
			LineText:   stringPtr(text.Text),
			Width:      floatPtr(text.W),
		})
	}

	return violations
}

// intPtr returns a pointer to an integer
func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}
