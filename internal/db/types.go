package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Document is a stored rendering, without its content bytes
type Document struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     *uuid.UUID      `json:"owner_id,omitempty"`
	Name        string          `json:"name"`
	Style       string          `json:"style"`
	Format      string          `json:"format"`
	ContentType string          `json:"content_type"`
	PageCount   int             `json:"page_count"`
	SizeBytes   int             `json:"size_bytes"`
	Record      json.RawMessage `json:"record,omitempty"`
	Violations  json.RawMessage `json:"violations,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// DocumentInput is what SaveDocument stores
type DocumentInput struct {
	OwnerID     uuid.UUID
	Name        string
	Style       string
	Format      string
	ContentType string
	PageCount   int
	Content     []byte
	// Record and Violations are stored as JSON
	Record     any
	Violations any
}

// DocumentFilters holds optional filters for listing documents
type DocumentFilters struct {
	OwnerID uuid.UUID
	Format  string
	Style   string
	Limit   int
	Offset  int
}

// Listing defaults
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)
