package layout

import "fmt"

// LayoutError represents a failure to lay out a record
type LayoutError struct {
	Message string
	Cause   error
}

func (e *LayoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("layout error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("layout error: %s", e.Message)
}

func (e *LayoutError) Unwrap() error {
	return e.Cause
}
