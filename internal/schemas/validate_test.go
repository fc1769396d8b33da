package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"}
	}
}`

const validRecord = `{
	"basics": {"name": "Jane Doe", "email": "jane@example.com"},
	"customFields": {
		"github": {"title": "GitHub", "content": "github.com/janedoe", "isLink": true}
	},
	"sections": [
		{"kind": "experience", "title": "Experience", "items": [
			{"company": "Acme", "role": "Engineer", "startDate": "2019", "achievements": ["Shipped."]}
		]},
		{"kind": "skills", "title": "Skills", "items": ["Go", "SQL"]},
		{"kind": "custom", "title": "Volunteering", "paragraphs": ["Mentor."]}
	]
}`

func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr), "error should be ValidationError type, got %T: %v", err, err)
	require.NotEmpty(t, validationErr.Errors)
	return validationErr.Errors
}

func validateString(schema, doc string) error {
	return validate("(string schema)", gojsonschema.NewStringLoader(schema), gojsonschema.NewStringLoader(doc))
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validateString(personSchema, `{"name": "test"}`))
}

func TestValidate_MissingField(t *testing.T) {
	errs := fieldErrors(t, validateString(personSchema, `{"age": 30}`))
	assert.Equal(t, "(root)", errs[0].Field)
}

func TestValidate_MalformedJSON(t *testing.T) {
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, validateString(personSchema, "{ invalid json }"), &loadErr)
}

func TestValidate_BadSchema(t *testing.T) {
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, validateString(`{"type": 12}`, `{}`), &loadErr)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "1. name: is required")
	assert.Contains(t, errorMsg, "2. age")
}

func TestValidateRecord_Valid(t *testing.T) {
	assert.NoError(t, ValidateRecord([]byte(validRecord)))
}

func TestValidateRecord_CustomFieldsArray(t *testing.T) {
	doc := `{"basics": {"name": "Jane"}, "customFields": [{"title": "Visa", "content": "EU"}]}`
	assert.NoError(t, ValidateRecord([]byte(doc)))
}

func TestValidateRecord_MissingName(t *testing.T) {
	errs := fieldErrors(t, ValidateRecord([]byte(`{"basics": {"email": "x@y.z"}}`)))
	assert.Contains(t, errs[0].Field, "basics")
}

func TestValidateRecord_BlankName(t *testing.T) {
	fieldErrors(t, ValidateRecord([]byte(`{"basics": {"name": "   "}}`)))
}

func TestValidateRecord_UnknownKind(t *testing.T) {
	doc := `{"basics": {"name": "Jane"}, "sections": [{"kind": "hobbies", "items": []}]}`
	fieldErrors(t, ValidateRecord([]byte(doc)))
}

func TestValidateRecord_ItemShapeFollowsKind(t *testing.T) {
	doc := `{"basics": {"name": "Jane"}, "sections": [{"kind": "skills", "items": [{"company": "Acme"}]}]}`
	fieldErrors(t, ValidateRecord([]byte(doc)))

	doc = `{"basics": {"name": "Jane"}, "sections": [{"kind": "experience", "items": [{"employer": "Acme"}]}]}`
	fieldErrors(t, ValidateRecord([]byte(doc)))
}

func TestValidateEmbedded_UnknownSchema(t *testing.T) {
	err := ValidateEmbedded("missing.schema.json", []byte(`{}`))
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateEmbedded_Violations(t *testing.T) {
	doc := `{"violations": [{"type": "line_too_wide", "severity": "error", "details": "x", "page_number": 1}]}`
	assert.NoError(t, ValidateEmbedded("violations.schema.json", []byte(doc)))
}
