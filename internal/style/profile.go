// Package style defines the visual profile threaded through every renderer:
// page geometry, fonts, sizes, colors and spacing. Profiles are supplied by
// the caller and never mutated during layout.
package style

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-layout/internal/fonts"
	"github.com/jonathan/resume-layout/internal/types"
	"gopkg.in/yaml.v3"
)

// Profile is an immutable set of visual constants
type Profile struct {
	Name    string  `yaml:"name" json:"name" validate:"required"`
	Page    Page    `yaml:"page" json:"page"`
	Fonts   Fonts   `yaml:"fonts" json:"fonts"`
	Sizes   Sizes   `yaml:"sizes" json:"sizes"`
	Colors  Colors  `yaml:"colors" json:"colors"`
	Spacing Spacing `yaml:"spacing" json:"spacing"`
	Header  Header  `yaml:"header" json:"header"`
	Lists   Lists   `yaml:"lists" json:"lists"`

	// HeaderBand draws a colored band behind section titles
	HeaderBand bool `yaml:"header_band" json:"header_band"`
	// Timeline draws a connector dot and line down the left of entries
	Timeline TimelineMode `yaml:"timeline" json:"timeline" validate:"omitempty,oneof=none projects entries"`
	// BulletGlyph prefixes bulleted lines
	BulletGlyph string `yaml:"bullet_glyph" json:"bullet_glyph"`
	// CustomBullets bullets the paragraphs of custom sections
	CustomBullets bool `yaml:"custom_bullets" json:"custom_bullets"`
	// SummaryTitle, when set, puts the summary under its own section heading
	SummaryTitle string `yaml:"summary_title" json:"summary_title"`
}

// Page holds the page size and margins in points
type Page struct {
	Width        float64 `yaml:"width" json:"width" validate:"gt=0"`
	Height       float64 `yaml:"height" json:"height" validate:"gt=0"`
	MarginTop    float64 `yaml:"margin_top" json:"margin_top" validate:"gte=0"`
	MarginRight  float64 `yaml:"margin_right" json:"margin_right" validate:"gte=0"`
	MarginBottom float64 `yaml:"margin_bottom" json:"margin_bottom" validate:"gte=0"`
	MarginLeft   float64 `yaml:"margin_left" json:"margin_left" validate:"gte=0"`
	// SafetyBuffer is kept free above the bottom margin
	SafetyBuffer float64 `yaml:"safety_buffer" json:"safety_buffer" validate:"gte=0"`
}

// Fonts selects a face per text role
type Fonts struct {
	Name     fonts.FontID `yaml:"name" json:"name"`
	Heading  fonts.FontID `yaml:"heading" json:"heading"`
	Body     fonts.FontID `yaml:"body" json:"body"`
	Strong   fonts.FontID `yaml:"strong" json:"strong"`
	Emphasis fonts.FontID `yaml:"emphasis" json:"emphasis"`
}

// Sizes holds font sizes per text role, in points
type Sizes struct {
	Name    float64 `yaml:"name" json:"name" validate:"gt=0"`
	Heading float64 `yaml:"heading" json:"heading" validate:"gt=0"`
	Body    float64 `yaml:"body" json:"body" validate:"gt=0"`
	Small   float64 `yaml:"small" json:"small" validate:"gt=0"`
}

// Colors holds a color per text role
type Colors struct {
	Name        Color `yaml:"name" json:"name"`
	Text        Color `yaml:"text" json:"text"`
	Muted       Color `yaml:"muted" json:"muted"`
	Heading     Color `yaml:"heading" json:"heading"`
	HeadingBand Color `yaml:"heading_band" json:"heading_band"`
	Link        Color `yaml:"link" json:"link"`
	Accent      Color `yaml:"accent" json:"accent"`
	Rule        Color `yaml:"rule" json:"rule"`
}

// Spacing holds vertical and horizontal spacing constants, in points
type Spacing struct {
	AfterName        float64 `yaml:"after_name" json:"after_name" validate:"gte=0"`
	AfterContact     float64 `yaml:"after_contact" json:"after_contact" validate:"gte=0"`
	BetweenSections  float64 `yaml:"between_sections" json:"between_sections" validate:"gte=0"`
	BetweenItems     float64 `yaml:"between_items" json:"between_items" validate:"gte=0"`
	LineHeight       float64 `yaml:"line_height" json:"line_height" validate:"gt=0"`
	BulletLineHeight float64 `yaml:"bullet_line_height" json:"bullet_line_height" validate:"gt=0"`
	HeaderHeight     float64 `yaml:"header_height" json:"header_height" validate:"gt=0"`
	HeaderGap        float64 `yaml:"header_gap" json:"header_gap" validate:"gte=0"`
	BulletIndent     float64 `yaml:"bullet_indent" json:"bullet_indent" validate:"gte=0"`
	TimelineIndent   float64 `yaml:"timeline_indent" json:"timeline_indent" validate:"gte=0"`
	DateGap          float64 `yaml:"date_gap" json:"date_gap" validate:"gte=0"`

	FieldRowGap   float64 `yaml:"field_row_gap" json:"field_row_gap" validate:"gte=0"`
	FieldMinGap   float64 `yaml:"field_min_gap" json:"field_min_gap" validate:"gte=0"`
	FieldLabelGap float64 `yaml:"field_label_gap" json:"field_label_gap" validate:"gte=0"`
	FieldValueMax float64 `yaml:"field_value_max" json:"field_value_max" validate:"gt=0"`
	FieldValueMin float64 `yaml:"field_value_min" json:"field_value_min" validate:"gt=0"`
}

// Alignment of the name and contact block
type Alignment string

// Alignments
const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
)

// Header configures the name and contact block
type Header struct {
	Align Alignment `yaml:"align" json:"align" validate:"omitempty,oneof=left center"`
	// ContactSeparator joins the contact parts on one line
	ContactSeparator string `yaml:"contact_separator" json:"contact_separator"`
	// Rule draws a horizontal rule under the contact block
	Rule bool `yaml:"rule" json:"rule"`
}

// ListStyle selects how a flat string list is drawn
type ListStyle string

// List styles
const (
	ListInline   ListStyle = "inline"
	ListBulleted ListStyle = "bulleted"
)

// Lists selects a style per flat list kind
type Lists struct {
	Skills         ListStyle `yaml:"skills" json:"skills" validate:"omitempty,oneof=inline bulleted"`
	Languages      ListStyle `yaml:"languages" json:"languages" validate:"omitempty,oneof=inline bulleted"`
	Certifications ListStyle `yaml:"certifications" json:"certifications" validate:"omitempty,oneof=inline bulleted"`
	Separator      string    `yaml:"separator" json:"separator"`
}

// TimelineMode selects which entries get timeline connectors
type TimelineMode string

// Timeline modes
const (
	TimelineNone     TimelineMode = "none"
	TimelineProjects TimelineMode = "projects"
	TimelineEntries  TimelineMode = "entries"
)

// ColumnWidth is the usable text width between the side margins.
func (p *Profile) ColumnWidth() float64 {
	return p.Page.Width - p.Page.MarginLeft - p.Page.MarginRight
}

// ContentBottom is the lowest offset text may reach.
func (p *Profile) ContentBottom() float64 {
	return p.Page.Height - p.Page.MarginBottom - p.Page.SafetyBuffer
}

// ListStyleFor returns the list style for a flat list kind.
func (p *Profile) ListStyleFor(kind types.SectionKind) ListStyle {
	var ls ListStyle
	switch kind {
	case types.KindSkills:
		ls = p.Lists.Skills
	case types.KindLanguages:
		ls = p.Lists.Languages
	case types.KindCertifications:
		ls = p.Lists.Certifications
	}
	if ls == "" {
		return ListInline
	}
	return ls
}

// TimelineFor reports whether entries of kind get timeline connectors.
func (p *Profile) TimelineFor(kind types.SectionKind) bool {
	switch p.Timeline {
	case TimelineProjects:
		return kind == types.KindProjects
	case TimelineEntries:
		return kind == types.KindProjects || kind == types.KindExperience || kind == types.KindEducation
	default:
		return false
	}
}

// Validate checks the profile for values no layout can work with.
func (p *Profile) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return &ProfileError{Profile: p.Name, Message: "invalid profile", Cause: err}
	}

	if p.ColumnWidth() <= 0 {
		return &ProfileError{Profile: p.Name, Message: "margins leave no column width"}
	}
	if p.ColumnWidth()-p.Spacing.TimelineIndent-p.Spacing.BulletIndent <= 0 {
		return &ProfileError{Profile: p.Name, Message: "timeline and bullet indents leave no column width"}
	}
	if p.ContentBottom() <= p.Page.MarginTop {
		return &ProfileError{Profile: p.Name, Message: "margins leave no content height"}
	}

	for role, id := range map[string]fonts.FontID{
		"name":     p.Fonts.Name,
		"heading":  p.Fonts.Heading,
		"body":     p.Fonts.Body,
		"strong":   p.Fonts.Strong,
		"emphasis": p.Fonts.Emphasis,
	} {
		if !fonts.Valid(id) {
			return &ProfileError{Profile: p.Name, Message: fmt.Sprintf("unknown %s font %q", role, id)}
		}
	}

	return nil
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	c := *p
	return &c
}

// Parse decodes a profile from YAML (JSON is valid YAML) and validates it.
// Values missing from data are taken from base when base is not nil.
func Parse(data []byte, base *Profile) (*Profile, error) {
	var p Profile
	if base != nil {
		p = *base.Clone()
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, &ProfileError{Profile: p.Name, Message: "failed to parse profile", Cause: err}
	}
	p.BulletGlyph = strings.TrimSpace(p.BulletGlyph)
	if p.Timeline == "" {
		p.Timeline = TimelineNone
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
