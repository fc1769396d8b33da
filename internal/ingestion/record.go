package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"

	"github.com/jonathan/resume-layout/internal/schemas"
	"github.com/jonathan/resume-layout/internal/types"
)

// Source describes where a record was read from
type Source struct {
	Path string `json:"path"`
	// Hash is the SHA-256 of the raw input, hex encoded
	Hash  string `json:"hash"`
	Bytes int    `json:"bytes"`
}

// LoadRecord reads a record from path, or from stdin when path is "-".
// The document is checked against the record schema before decoding.
func LoadRecord(path string) (*types.ResumeRecord, *Source, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, &Error{Message: "file not found: " + path, Cause: err}
		}
		return nil, nil, &Error{Message: "failed to read " + path, Cause: err}
	}

	rec, err := DecodeRecord(data)
	if err != nil {
		return nil, nil, err
	}

	sum := sha256.Sum256(data)
	return rec, &Source{Path: path, Hash: hex.EncodeToString(sum[:]), Bytes: len(data)}, nil
}

// DecodeRecord validates data against the record schema and decodes it.
// Schema failures are returned as *schemas.ValidationError.
func DecodeRecord(data []byte) (*types.ResumeRecord, error) {
	if err := schemas.ValidateRecord(data); err != nil {
		return nil, err
	}

	var rec types.ResumeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &Error{Message: "failed to decode record", Cause: err}
	}
	return &rec, nil
}

// ConvertHTML rewrites, in place, every free-text field of rec that holds
// HTML markup as plain text. List entries and custom paragraphs that contain
// several blocks are split into several entries; single-line fields have
// their blocks joined with spaces. Names, dates and links are left as they
// are.
func ConvertHTML(rec *types.ResumeRecord) error {
	c := &htmlConverter{}

	rec.Basics.Summary = c.line(rec.Basics.Summary)
	for i, f := range rec.CustomFields {
		if !f.IsLink {
			rec.CustomFields[i].Content = c.line(f.Content)
		}
	}

	for _, s := range rec.Sections {
		switch body := s.Body.(type) {
		case *types.Experience:
			for i := range body.Items {
				body.Items[i].Achievements = c.list(body.Items[i].Achievements)
			}
		case *types.Education:
			for i := range body.Items {
				body.Items[i].Highlights = c.list(body.Items[i].Highlights)
			}
		case *types.Projects:
			for i := range body.Items {
				body.Items[i].Description = c.list(body.Items[i].Description)
			}
		case *types.StringList:
			body.Items = c.list(body.Items)
		case *types.Custom:
			body.Paragraphs = c.list(body.Paragraphs)
		}
	}

	return c.err
}
