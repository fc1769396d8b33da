package fonts

import "fmt"

// FontError represents a failure loading or resolving a font
type FontError struct {
	Font    FontID
	Message string
	Cause   error
}

func (e *FontError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("font error: %s: %s: %v", e.Font, e.Message, e.Cause)
	}
	return fmt.Sprintf("font error: %s: %s", e.Font, e.Message)
}

func (e *FontError) Unwrap() error {
	return e.Cause
}
