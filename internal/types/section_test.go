package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingVisitor records which visit method ran for each section.
type recordingVisitor struct {
	calls []string
}

func (v *recordingVisitor) VisitEducation(title string, _ *Education) error {
	v.calls = append(v.calls, "education:"+title)
	return nil
}

func (v *recordingVisitor) VisitExperience(title string, _ *Experience) error {
	v.calls = append(v.calls, "experience:"+title)
	return nil
}

func (v *recordingVisitor) VisitList(title string, body *StringList) error {
	v.calls = append(v.calls, string(body.Of)+":"+title)
	return nil
}

func (v *recordingVisitor) VisitProjects(title string, _ *Projects) error {
	v.calls = append(v.calls, "projects:"+title)
	return nil
}

func (v *recordingVisitor) VisitCustom(title string, _ *Custom) error {
	v.calls = append(v.calls, "custom:"+title)
	return nil
}

func TestSection_AcceptDispatchesByKind(t *testing.T) {
	sections := []Section{
		{Title: "School", Body: &Education{Items: []EducationItem{{Institution: "MIT"}}}},
		{Title: "Work", Body: &Experience{Items: []ExperienceItem{{Company: "Acme"}}}},
		{Title: "Langs", Body: &StringList{Of: KindLanguages, Items: []string{"French"}}},
		{Title: "Side", Body: &Projects{Items: []ProjectItem{{Name: "CLI"}}}},
		{Title: "More", Body: &Custom{Paragraphs: []string{"Text"}}},
	}

	v := &recordingVisitor{}
	for _, s := range sections {
		require.NoError(t, s.Accept(v))
	}

	assert.Equal(t, []string{
		"education:School",
		"experience:Work",
		"languages:Langs",
		"projects:Side",
		"custom:More",
	}, v.calls)
}

func TestSection_AcceptSkipsEmpty(t *testing.T) {
	v := &recordingVisitor{}
	empty := Section{Title: "Work", Body: &Experience{Items: []ExperienceItem{{Company: "  ", Achievements: []string{""}}}}}

	require.NoError(t, empty.Accept(v))
	assert.Empty(t, v.calls)
	assert.True(t, empty.IsEmpty())
}

func TestItems_IsEmpty(t *testing.T) {
	assert.True(t, EducationItem{}.IsEmpty())
	assert.False(t, EducationItem{EndDate: "2020"}.IsEmpty())
	assert.True(t, ExperienceItem{Achievements: []string{" "}}.IsEmpty())
	assert.False(t, ExperienceItem{Achievements: []string{"Did it"}}.IsEmpty())
	assert.True(t, ProjectItem{}.IsEmpty())
	assert.False(t, ProjectItem{Repository: "github.com/x/y"}.IsEmpty())
}

func TestSection_UnknownKind(t *testing.T) {
	var s Section
	err := json.Unmarshal([]byte(`{"kind":"awards","title":"Awards","items":[]}`), &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown section kind")
}

func TestSection_MissingItemsIsEmpty(t *testing.T) {
	var s Section
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"projects","title":"Projects"}`), &s))
	assert.Equal(t, KindProjects, s.Kind())
	assert.True(t, s.IsEmpty())
}

func TestSection_MarshalRoundTripKeepsKind(t *testing.T) {
	original := Section{Title: "Certs", Body: &StringList{Of: KindCertifications, Items: []string{"CKA"}}}

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"certifications"`)

	var decoded Section
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestSection_MarshalCustomUsesParagraphs(t *testing.T) {
	data, err := json.Marshal(Section{Title: "About", Body: &Custom{Paragraphs: []string{"One", "Two"}}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"paragraphs":["One","Two"]`)
}

func TestSection_CustomAcceptsItems(t *testing.T) {
	var s Section
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"custom","title":"About","items":["A"]}`), &s))
	custom, ok := s.Body.(*Custom)
	require.True(t, ok)
	assert.Equal(t, []string{"A"}, custom.Paragraphs)
}
