// Package ingestion reads résumé records from JSON and converts rich-text
// HTML fields to the plain text the layout engine expects.
package ingestion

import "fmt"

// Error represents a failure reading or converting a record
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ingestion error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("ingestion error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
