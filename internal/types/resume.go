// Package types provides type definitions for structured data used throughout the resume-layout system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ResumeRecord is the normalized résumé handed to the layout engine.
// The engine treats it as read-only.
type ResumeRecord struct {
	Basics       Basics       `json:"basics"`
	CustomFields CustomFields `json:"customFields,omitempty"`
	Sections     []Section    `json:"sections"`
}

// Basics holds the top-of-page identity and contact details
type Basics struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Link     string `json:"link,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

// CustomField is an arbitrary label:value pair shown in the header grid
type CustomField struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
	IsLink  bool   `json:"isLink,omitempty"`
	Hidden  bool   `json:"hidden,omitempty"`
}

// IsEmpty reports whether the field has nothing to show.
func (f CustomField) IsEmpty() bool {
	return strings.TrimSpace(f.Title) == "" && strings.TrimSpace(f.Content) == ""
}

// Visible reports whether the field takes part in layout at all.
func (f CustomField) Visible() bool {
	return !f.Hidden && !f.IsEmpty()
}

// CustomFields is an ordered list of custom fields. In JSON it may be
// written either as an array or as an object keyed by field id; the object
// form keeps its key order.
type CustomFields []CustomField

// UnmarshalJSON accepts both the array and the object form.
func (c *CustomFields) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = nil
		return nil
	}

	if trimmed[0] == '[' {
		var list []CustomField
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("failed to decode custom fields: %w", err)
		}
		*c = list
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to decode custom fields: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("custom fields must be an array or an object")
	}

	var fields CustomFields
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to decode custom field key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("custom field key is not a string")
		}

		var field CustomField
		if err := dec.Decode(&field); err != nil {
			return fmt.Errorf("failed to decode custom field %q: %w", key, err)
		}
		if field.ID == "" {
			field.ID = key
		}
		fields = append(fields, field)
	}

	*c = fields
	return nil
}

// Visible returns the fields that take part in layout, in order.
func (c CustomFields) Visible() []CustomField {
	visible := make([]CustomField, 0, len(c))
	for _, f := range c {
		if f.Visible() {
			visible = append(visible, f)
		}
	}
	return visible
}

// InputError is returned when a record cannot be laid out at all.
type InputError struct {
	Field   string
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid resume record: %s: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid resume record: %s: %s", e.Field, e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// Validate checks the only hard input requirement: a non-blank name.
// Everything else degrades visually instead of failing.
func (r *ResumeRecord) Validate() error {
	if r == nil {
		return &InputError{Field: "record", Message: "record is nil"}
	}

	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return &InputError{Field: "basics.name", Message: "name is required", Cause: err}
	}
	if strings.TrimSpace(r.Basics.Name) == "" {
		return &InputError{Field: "basics.name", Message: "name is blank"}
	}

	return nil
}

// VisibleSections returns the sections that produce output, in order.
func (r *ResumeRecord) VisibleSections() []Section {
	sections := make([]Section, 0, len(r.Sections))
	for _, s := range r.Sections {
		if !s.IsEmpty() {
			sections = append(sections, s)
		}
	}
	return sections
}

// isBlank reports whether every string is empty after trimming.
func isBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// NonBlank returns the trimmed values that are not blank, in order.
func NonBlank(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
