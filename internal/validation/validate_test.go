package validation

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/jonathan/resume-layout/internal/fonts"
	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/rendering"
	"github.com/jonathan/resume-layout/internal/sanitize"
	"github.com/jonathan/resume-layout/internal/style"
	"github.com/jonathan/resume-layout/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func longRecord(jobs int) *types.ResumeRecord {
	achievement := "Led the migration of a monolithic billing platform to event-driven services, cutting invoice latency by 43% in two quarters."
	var items []types.ExperienceItem
	for i := 0; i < jobs; i++ {
		items = append(items, types.ExperienceItem{
			Company:      "Acme Corp",
			Role:         "Staff Engineer",
			StartDate:    "2019",
			EndDate:      "Present",
			Achievements: []string{achievement, achievement, achievement},
		})
	}
	return &types.ResumeRecord{
		Basics:   types.Basics{Name: "Jane Doe", Email: "jane@example.com"},
		Sections: []types.Section{{Title: "Experience", Body: &types.Experience{Items: items}}},
	}
}

func renderPDF(t *testing.T, rec *types.ResumeRecord) *rendering.Result {
	t.Helper()
	result, err := rendering.Render(rec, style.Default(), rendering.FormatPDF)
	require.NoError(t, err)
	return result
}

func countType(v *types.Violations, typ string) int {
	n := 0
	for _, violation := range v.Violations {
		if violation.Type == typ {
			n++
		}
	}
	return n
}

func TestValidateLayout_CleanDocument(t *testing.T) {
	result := renderPDF(t, longRecord(12))
	require.Greater(t, result.PageCount(), 1)

	violations := ValidateLayout(result.Pages, result.Drops, Options{})
	assert.Empty(t, violations.Violations)
}

func TestValidateLayout_AllBuiltinProfiles(t *testing.T) {
	for _, name := range style.Names() {
		p, err := style.Builtin(name)
		require.NoError(t, err)
		result, err := rendering.Render(longRecord(8), p, rendering.FormatPDF)
		require.NoError(t, err)

		violations := ValidateLayout(result.Pages, nil, Options{})
		assert.False(t, violations.HasErrors(), "profile %s: %+v", name, violations.Violations)
	}
}

func TestValidateLayout_PageBudget(t *testing.T) {
	result := renderPDF(t, longRecord(12))

	violations := ValidateLayout(result.Pages, nil, Options{MaxPages: 1})
	require.Equal(t, 1, countType(violations, types.ViolationPageBudget))
	assert.True(t, violations.HasErrors())
	assert.Contains(t, violations.Violations[0].Details, "maximum allowed is 1")
}

func TestCheckPageBudget(t *testing.T) {
	assert.Empty(t, CheckPageBudget(3, 0))
	assert.Empty(t, CheckPageBudget(2, 2))
	require.Len(t, CheckPageBudget(3, 2), 1)
	assert.Equal(t, 3, *CheckPageBudget(3, 2)[0].PageNumber)
}

func TestCheckLineWidths_FlagsOverLimit(t *testing.T) {
	set := &layout.PageSet{
		Geometry: layout.Geometry{Width: 600, Height: 800, Top: 50, Left: 50, Right: 550, Bottom: 750},
		Pages: []*layout.Page{{Number: 1, Ops: []layout.Op{
			{Kind: layout.OpText, X: 50, W: 100, Limit: 120, Text: "fits"},
			{Kind: layout.OpText, X: 50, W: 130, Limit: 120, Text: "too wide"},
			{Kind: layout.OpText, X: 500, W: 80, Text: "past margin"},
			{Kind: layout.OpRect, X: 0, W: 600},
		}}},
	}

	violations := CheckLineWidths(set)
	require.Len(t, violations, 2)
	assert.Equal(t, "too wide", *violations[0].LineText)
	assert.Equal(t, 130.0, *violations[0].Width)
	assert.Contains(t, violations[1].Details, "past the right margin")
	assert.Equal(t, 1, *violations[1].PageNumber)
}

func TestCheckOffsets(t *testing.T) {
	geom := layout.Geometry{Width: 600, Height: 800, Top: 50, Left: 50, Right: 550, Bottom: 750}

	t.Run("forward", func(t *testing.T) {
		set := &layout.PageSet{Geometry: geom, Placements: []layout.Placement{
			{Page: 1, Y: 50, Height: 12}, {Page: 1, Y: 62, Height: 12}, {Page: 2, Y: 50, Height: 12},
		}}
		assert.Empty(t, CheckOffsets(set))
	})

	t.Run("rewound", func(t *testing.T) {
		set := &layout.PageSet{Geometry: geom, Placements: []layout.Placement{
			{Page: 1, Y: 100, Height: 12}, {Page: 1, Y: 80, Height: 12},
		}}
		violations := CheckOffsets(set)
		require.Len(t, violations, 1)
		assert.Equal(t, types.ViolationOffsetRewound, violations[0].Type)
	})

	t.Run("page went back", func(t *testing.T) {
		set := &layout.PageSet{Geometry: geom, Placements: []layout.Placement{
			{Page: 2, Y: 50, Height: 12}, {Page: 1, Y: 300, Height: 12},
		}}
		assert.Len(t, CheckOffsets(set), 1)
	})

	t.Run("past bottom", func(t *testing.T) {
		set := &layout.PageSet{Geometry: geom, Placements: []layout.Placement{{Page: 1, Y: 745, Height: 12}}}
		violations := CheckOffsets(set)
		require.Len(t, violations, 1)
		assert.Equal(t, types.ViolationOutsideContent, violations[0].Type)
	})

	t.Run("oversized at top", func(t *testing.T) {
		set := &layout.PageSet{Geometry: geom, Placements: []layout.Placement{{Page: 1, Y: 50, Height: 900}}}
		assert.Empty(t, CheckOffsets(set))
	})
}

func TestCheckDrops(t *testing.T) {
	violations := CheckDrops([]sanitize.Drop{{Font: fonts.Regular, Input: "Ships 🚀 fast", Dropped: []rune{'🚀'}}})
	require.Len(t, violations, 1)
	assert.Equal(t, types.SeverityWarning, violations[0].Severity)
	assert.Equal(t, "Ships 🚀 fast", *violations[0].LineText)
	assert.True(t, strings.Contains(violations[0].Details, "go-regular"))
}

func TestValidateResult_FlowingFormatReportsDrops(t *testing.T) {
	rec := longRecord(1)
	rec.Basics.Summary = "Ships 🚀 fast"
	result, err := rendering.Render(rec, style.Default(), rendering.FormatDOCX)
	require.NoError(t, err)

	violations, err := ValidateResult(context.Background(), result, Options{MaxPages: 1})
	require.NoError(t, err)
	require.Len(t, violations.Violations, 1)
	assert.Equal(t, types.ViolationDroppedCharacter, violations.Violations[0].Type)
}

func TestValidateResult_FixedFormat(t *testing.T) {
	violations, err := ValidateResult(context.Background(), renderPDF(t, longRecord(12)), Options{MaxPages: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, countType(violations, types.ViolationPageBudget))
}

func TestValidateResult_CompilesLaTeX(t *testing.T) {
	if _, err := exec.LookPath("pdflatex"); err != nil {
		t.Skip("pdflatex not available, skipping compilation test")
	}

	result, err := rendering.Render(longRecord(1), style.Default(), rendering.FormatLaTeX)
	require.NoError(t, err)

	violations, err := ValidateResult(context.Background(), result, Options{MaxPages: 1, Compile: true})
	require.NoError(t, err)
	assert.Zero(t, countType(violations, types.ViolationLaTeX))
}

func TestParsePdfinfoPages(t *testing.T) {
	output := "Title:          Jane Doe - Résumé\nCreator:        resume-layout\nPages:          2\nEncrypted:      no\n"
	pages, err := parsePdfinfoPages(output)
	require.NoError(t, err)
	assert.Equal(t, 2, pages)

	_, err = parsePdfinfoPages("Title: x\n")
	assert.Error(t, err)
}
