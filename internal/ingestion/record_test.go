package ingestion

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-layout/internal/schemas"
	"github.com/jonathan/resume-layout/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recordJSON = `{
	"basics": {"name": "Jane Doe", "summary": "<p>Builds <b>reliable</b> systems.</p><p>Mentors.</p>"},
	"customFields": {"gh": {"title": "GitHub", "content": "https://github.com/jane", "isLink": true}},
	"sections": [
		{"kind": "experience", "title": "Experience", "items": [
			{"company": "Acme", "role": "Engineer", "achievements": ["<ul><li>Cut latency</li><li>Shipped v2</li></ul>", "latency < 5ms"]}
		]},
		{"kind": "custom", "title": "Interests", "paragraphs": ["Climbing<br>Chess"]}
	]
}`

func writeRecord(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "record.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadRecord(t *testing.T) {
	path := writeRecord(t, recordJSON)

	rec, src, err := LoadRecord(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", rec.Basics.Name)
	require.Len(t, rec.Sections, 2)
	assert.Equal(t, path, src.Path)
	assert.Len(t, src.Hash, 64)
	assert.Equal(t, len(recordJSON), src.Bytes)

	_, again, err := LoadRecord(path)
	require.NoError(t, err)
	assert.Equal(t, src.Hash, again.Hash)
}

func TestLoadRecord_NotFound(t *testing.T) {
	_, _, err := LoadRecord(filepath.Join(t.TempDir(), "missing.json"))
	var ingestErr *Error
	require.ErrorAs(t, err, &ingestErr)
	assert.Contains(t, err.Error(), "file not found")
}

func TestDecodeRecord_SchemaFailure(t *testing.T) {
	_, err := DecodeRecord([]byte(`{"basics": {}, "sections": [{"kind": "hobbies"}]}`))
	var schemaErr *schemas.ValidationError
	require.True(t, errors.As(err, &schemaErr), "got %v", err)
	assert.NotEmpty(t, schemaErr.Errors)
}

func TestConvertHTML(t *testing.T) {
	rec, err := DecodeRecord([]byte(recordJSON))
	require.NoError(t, err)

	require.NoError(t, ConvertHTML(rec))

	assert.Equal(t, "Builds reliable systems. Mentors.", rec.Basics.Summary)
	assert.Equal(t, "https://github.com/jane", rec.CustomFields[0].Content)

	exp := rec.Sections[0].Body.(*types.Experience)
	assert.Equal(t, []string{"Cut latency", "Shipped v2", "latency < 5ms"}, exp.Items[0].Achievements)

	custom := rec.Sections[1].Body.(*types.Custom)
	assert.Equal(t, []string{"Climbing", "Chess"}, custom.Paragraphs)
}

func TestConvertHTML_PlainRecordUnchanged(t *testing.T) {
	rec := &types.ResumeRecord{
		Basics: types.Basics{Name: "A", Summary: "Plain  summary"},
		Sections: []types.Section{
			{Title: "Skills", Body: &types.StringList{Of: types.KindSkills, Items: []string{"Go", "C++"}}},
		},
	}
	require.NoError(t, ConvertHTML(rec))
	assert.Equal(t, "Plain  summary", rec.Basics.Summary)
	assert.Equal(t, []string{"Go", "C++"}, rec.Sections[0].Body.(*types.StringList).Items)
}
