package types

import (
	"encoding/json"
	"fmt"
)

// SectionKind identifies the payload carried by a Section
type SectionKind string

// Section kinds
const (
	KindEducation      SectionKind = "education"
	KindExperience     SectionKind = "experience"
	KindSkills         SectionKind = "skills"
	KindLanguages      SectionKind = "languages"
	KindCertifications SectionKind = "certifications"
	KindProjects       SectionKind = "projects"
	KindCustom         SectionKind = "custom"
)

// Section is a titled block of résumé content
type Section struct {
	Title string
	Body  SectionBody
}

// SectionBody is the kind-specific payload of a section. The set of
// implementations is closed; renderers dispatch through SectionVisitor so a
// new kind cannot be added without every renderer handling it.
type SectionBody interface {
	Kind() SectionKind
	IsEmpty() bool
	Accept(title string, v SectionVisitor) error
}

// SectionVisitor handles every section kind.
type SectionVisitor interface {
	VisitEducation(title string, body *Education) error
	VisitExperience(title string, body *Experience) error
	VisitList(title string, body *StringList) error
	VisitProjects(title string, body *Projects) error
	VisitCustom(title string, body *Custom) error
}

// Kind returns the section kind, or "" for a section without a body.
func (s Section) Kind() SectionKind {
	if s.Body == nil {
		return ""
	}
	return s.Body.Kind()
}

// IsEmpty reports whether the section would render nothing.
func (s Section) IsEmpty() bool {
	return s.Body == nil || s.Body.IsEmpty()
}

// Accept dispatches the section to the visitor. Empty sections are skipped.
func (s Section) Accept(v SectionVisitor) error {
	if s.IsEmpty() {
		return nil
	}
	return s.Body.Accept(s.Title, v)
}

// EducationItem is one school entry
type EducationItem struct {
	Institution string   `json:"institution,omitempty"`
	Degree      string   `json:"degree,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	Location    string   `json:"location,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

// IsEmpty reports whether the item has no visible content.
func (i EducationItem) IsEmpty() bool {
	return isBlank(i.Institution, i.Degree, i.StartDate, i.EndDate, i.Location) && isBlank(i.Highlights...)
}

// ExperienceItem is one position entry
type ExperienceItem struct {
	Company      string   `json:"company,omitempty"`
	Role         string   `json:"role,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Location     string   `json:"location,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// IsEmpty reports whether the item has no visible content.
func (i ExperienceItem) IsEmpty() bool {
	return isBlank(i.Company, i.Role, i.StartDate, i.EndDate, i.Location) && isBlank(i.Achievements...)
}

// ProjectItem is one project entry
type ProjectItem struct {
	Name        string   `json:"name,omitempty"`
	Link        string   `json:"link,omitempty"`
	Repository  string   `json:"repository,omitempty"`
	Description []string `json:"description,omitempty"`
}

// IsEmpty reports whether the item has no visible content.
func (i ProjectItem) IsEmpty() bool {
	return isBlank(i.Name, i.Link, i.Repository) && isBlank(i.Description...)
}

// Education is the payload of an education section
type Education struct {
	Items []EducationItem
}

// Kind implements SectionBody.
func (*Education) Kind() SectionKind { return KindEducation }

// IsEmpty implements SectionBody.
func (b *Education) IsEmpty() bool {
	for _, item := range b.Items {
		if !item.IsEmpty() {
			return false
		}
	}
	return true
}

// Accept implements SectionBody.
func (b *Education) Accept(title string, v SectionVisitor) error { return v.VisitEducation(title, b) }

// Experience is the payload of an experience section
type Experience struct {
	Items []ExperienceItem
}

// Kind implements SectionBody.
func (*Experience) Kind() SectionKind { return KindExperience }

// IsEmpty implements SectionBody.
func (b *Experience) IsEmpty() bool {
	for _, item := range b.Items {
		if !item.IsEmpty() {
			return false
		}
	}
	return true
}

// Accept implements SectionBody.
func (b *Experience) Accept(title string, v SectionVisitor) error { return v.VisitExperience(title, b) }

// StringList is the payload shared by skills, languages and certifications.
type StringList struct {
	Of    SectionKind
	Items []string
}

// Kind implements SectionBody.
func (b *StringList) Kind() SectionKind { return b.Of }

// IsEmpty implements SectionBody.
func (b *StringList) IsEmpty() bool { return isBlank(b.Items...) }

// Accept implements SectionBody.
func (b *StringList) Accept(title string, v SectionVisitor) error { return v.VisitList(title, b) }

// Projects is the payload of a projects section
type Projects struct {
	Items []ProjectItem
}

// Kind implements SectionBody.
func (*Projects) Kind() SectionKind { return KindProjects }

// IsEmpty implements SectionBody.
func (b *Projects) IsEmpty() bool {
	for _, item := range b.Items {
		if !item.IsEmpty() {
			return false
		}
	}
	return true
}

// Accept implements SectionBody.
func (b *Projects) Accept(title string, v SectionVisitor) error { return v.VisitProjects(title, b) }

// Custom is a free-form list of paragraphs
type Custom struct {
	Paragraphs []string
}

// Kind implements SectionBody.
func (*Custom) Kind() SectionKind { return KindCustom }

// IsEmpty implements SectionBody.
func (b *Custom) IsEmpty() bool { return isBlank(b.Paragraphs...) }

// Accept implements SectionBody.
func (b *Custom) Accept(title string, v SectionVisitor) error { return v.VisitCustom(title, b) }

// sectionJSON is the wire form: {"kind": "...", "title": "...", "items": [...]}.
// Custom sections carry "paragraphs" (or "items").
type sectionJSON struct {
	Kind       SectionKind     `json:"kind"`
	Title      string          `json:"title"`
	Items      json.RawMessage `json:"items,omitempty"`
	Paragraphs json.RawMessage `json:"paragraphs,omitempty"`
}

// UnmarshalJSON decodes the kind-tagged wire form.
func (s *Section) UnmarshalJSON(data []byte) error {
	var raw sectionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode section: %w", err)
	}

	items := raw.Items
	decode := func(dst any) error {
		if len(items) == 0 || string(items) == "null" {
			return nil
		}
		if err := json.Unmarshal(items, dst); err != nil {
			return fmt.Errorf("failed to decode %s section items: %w", raw.Kind, err)
		}
		return nil
	}

	var body SectionBody
	switch raw.Kind {
	case KindEducation:
		b := &Education{}
		if err := decode(&b.Items); err != nil {
			return err
		}
		body = b
	case KindExperience:
		b := &Experience{}
		if err := decode(&b.Items); err != nil {
			return err
		}
		body = b
	case KindSkills, KindLanguages, KindCertifications:
		b := &StringList{Of: raw.Kind}
		if err := decode(&b.Items); err != nil {
			return err
		}
		body = b
	case KindProjects:
		b := &Projects{}
		if err := decode(&b.Items); err != nil {
			return err
		}
		body = b
	case KindCustom:
		if len(raw.Paragraphs) > 0 {
			items = raw.Paragraphs
		}
		b := &Custom{}
		if err := decode(&b.Paragraphs); err != nil {
			return err
		}
		body = b
	default:
		return fmt.Errorf("unknown section kind %q", raw.Kind)
	}

	s.Title = raw.Title
	s.Body = body
	return nil
}

// MarshalJSON encodes the kind-tagged wire form.
func (s Section) MarshalJSON() ([]byte, error) {
	raw := sectionJSON{Kind: s.Kind(), Title: s.Title}

	var payload any
	switch b := s.Body.(type) {
	case *Education:
		payload = b.Items
	case *Experience:
		payload = b.Items
	case *StringList:
		payload = b.Items
	case *Projects:
		payload = b.Items
	case *Custom:
		p, err := json.Marshal(b.Paragraphs)
		if err != nil {
			return nil, err
		}
		raw.Paragraphs = p
	case nil:
	default:
		return nil, fmt.Errorf("unsupported section body %T", s.Body)
	}

	if payload != nil {
		items, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw.Items = items
	}

	return json.Marshal(raw)
}
