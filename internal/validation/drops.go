package validation

import (
	"fmt"

	"github.com/jonathan/resume-layout/internal/sanitize"
	"github.com/jonathan/resume-layout/internal/types"
)

// CheckDrops turns each string that lost characters into a warning.
func CheckDrops(drops []sanitize.Drop) []types.Violation {
	violations := make([]types.Violation, 0, len(drops))
	for _, d := range drops {
		violations = append(violations, types.Violation{
			Type:     types.ViolationDroppedCharacter,
			Severity: types.SeverityWarning,
			Details:  fmt.Sprintf("Dropped %q from %q: not in font %s", string(d.Dropped), d.Input, d.Font),
			LineText: stringPtr(d.Input),
		})
	}
	return violations
}
