package types

// Violation represents a single layout check failure
type Violation struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Details  string `json:"details"`

	// Where the violation was found, when it maps to a drawn line
	Section    string   `json:"section,omitempty"`
	PageNumber *int     `json:"page_number,omitempty"`
	LineText   *string  `json:"line_text,omitempty"`
	Width      *float64 `json:"width,omitempty"`
}

// Violations represents a collection of layout check failures
type Violations struct {
	Violations []Violation `json:"violations"`
}

// Violation types
const (
	ViolationLineTooWide      = "line_too_wide"
	ViolationPageBudget       = "page_budget_exceeded"
	ViolationOffsetRewound    = "offset_rewound"
	ViolationDroppedCharacter = "dropped_characters"
	ViolationOutsideContent   = "outside_content_box"
	ViolationLaTeX            = "latex_error"
)

// Severities
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// HasErrors reports whether any violation is an error.
func (v *Violations) HasErrors() bool {
	for _, violation := range v.Violations {
		if violation.Severity == SeverityError {
			return true
		}
	}
	return false
}
