// Package schemas holds the JSON Schemas for the documents the tools read
// and write.
package schemas

import "embed"

// Schema file names
const (
	ResumeRecord = "resume_record.schema.json"
	Violations   = "violations.schema.json"
)

// FS holds every schema file.
//
//go:embed *.schema.json
var FS embed.FS
