package validation

import (
	"fmt"

	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/types"
)

// CheckOffsets verifies the cursor only moved forward: pages never go back,
// offsets never decrease within a page, and every line starts inside the
// content box. A line taller than the page is allowed past the bottom only
// when it starts at the top margin.
func CheckOffsets(set *layout.PageSet) []types.Violation {
	var violations []types.Violation
	geom := set.Geometry

	for i, pl := range set.Placements {
		if i > 0 {
			prev := set.Placements[i-1]
			if pl.Page < prev.Page || (pl.Page == prev.Page && pl.Y < prev.Y-tolerance) {
				violations = append(violations, types.Violation{
					Type:       types.ViolationOffsetRewound,
					Severity:   types.SeverityError,
					Details:    fmt.Sprintf("Line %d placed at page %d offset %.2f, before page %d offset %.2f", i, pl.Page, pl.Y, prev.Page, prev.Y),
					PageNumber: intPtr(pl.Page),
				})
			}
		}

		atTop := pl.Y <= geom.Top+tolerance
		if pl.Y < geom.Top-tolerance || (!atTop && pl.Y+pl.Height > geom.Bottom+tolerance) {
			violations = append(violations, types.Violation{
				Type:       types.ViolationOutsideContent,
				Severity:   types.SeverityError,
				Details:    fmt.Sprintf("Line %d spans %.2f to %.2f, content box is %.2f to %.2f", i, pl.Y, pl.Y+pl.Height, geom.Top, geom.Bottom),
				PageNumber: intPtr(pl.Page),
			})
		}
	}

	return violations
}
