// Package validation checks rendered résumés for layout defects: lines wider
// than their column, offsets that move backwards, content outside the page
// box, page budgets and characters lost to the font.
package validation

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/rendering"
	"github.com/jonathan/resume-layout/internal/sanitize"
	"github.com/jonathan/resume-layout/internal/types"
)

// tolerance absorbs float rounding when comparing widths and offsets
const tolerance = 0.01

// Options configures which checks run
type Options struct {
	// MaxPages is the page budget; 0 disables the check
	MaxPages int
	// Compile runs pdflatex over LaTeX output and counts the pages it makes
	Compile bool
}

// ValidateLayout runs every layout check over a placed page set.
func ValidateLayout(set *layout.PageSet, drops []sanitize.Drop, opts Options) *types.Violations {
	all := []types.Violation{}
	all = append(all, CheckLineWidths(set)...)
	all = append(all, CheckOffsets(set)...)
	all = append(all, CheckPageBudget(set.PageCount(), opts.MaxPages)...)
	all = append(all, CheckDrops(drops)...)
	return &types.Violations{Violations: all}
}

// ValidateResult checks a rendered document. Fixed-page results are checked
// from their placement; LaTeX output is compiled when opts.Compile is set so
// its page count can be checked too. Flowing formats are otherwise only
// checked for dropped characters.
func ValidateResult(ctx context.Context, result *rendering.Result, opts Options) (*types.Violations, error) {
	if result.Pages != nil {
		return ValidateLayout(result.Pages, result.Drops, opts), nil
	}

	violations := &types.Violations{Violations: append([]types.Violation{}, CheckDrops(result.Drops)...)}
	if result.Format != rendering.FormatLaTeX || !opts.Compile {
		return violations, nil
	}

	compiled, err := ValidateLaTeX(ctx, result.Bytes, opts.MaxPages)
	if err != nil {
		return nil, fmt.Errorf("failed to validate LaTeX output: %w", err)
	}
	violations.Violations = append(violations.Violations, compiled...)
	return violations, nil
}
