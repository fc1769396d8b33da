package db

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentFilters_Where(t *testing.T) {
	owner := uuid.New()

	where, args := DocumentFilters{OwnerID: owner}.where()
	assert.Equal(t, " WHERE owner_id IS NOT DISTINCT FROM $1", where)
	require.Len(t, args, 1)
	assert.Equal(t, &owner, args[0])

	where, args = DocumentFilters{OwnerID: owner, Format: "pdf", Style: "compact"}.where()
	assert.Equal(t, " WHERE owner_id IS NOT DISTINCT FROM $1 AND format = $2 AND style = $3", where)
	assert.Equal(t, []any{&owner, "pdf", "compact"}, args)
}

func TestDocumentFilters_WhereAnonymous(t *testing.T) {
	_, args := DocumentFilters{}.where()
	require.Len(t, args, 1)
	assert.Nil(t, args[0].(*uuid.UUID))
}

func TestDocumentFilters_Page(t *testing.T) {
	tests := []struct {
		name           string
		filters        DocumentFilters
		limit, offset int
	}{
		{"defaults", DocumentFilters{}, DefaultListLimit, 0},
		{"explicit", DocumentFilters{Limit: 10, Offset: 20}, 10, 20},
		{"clamped", DocumentFilters{Limit: 5000, Offset: -3}, MaxListLimit, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := tt.filters.page()
			assert.Equal(t, tt.limit, limit)
			assert.Equal(t, tt.offset, offset)
		})
	}
}

func TestOwnerParam(t *testing.T) {
	assert.Nil(t, ownerParam(uuid.Nil))

	owner := uuid.New()
	got := ownerParam(owner)
	require.NotNil(t, got)
	assert.Equal(t, owner, *got)
}

func TestMigrationNames(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_documents.sql", names[0])

	sql, err := migrations.ReadFile("migrations/" + names[0])
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(sql), "CREATE TABLE IF NOT EXISTS documents"))
}
