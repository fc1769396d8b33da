package style

import "fmt"

// ProfileError represents an unusable or unknown style profile
type ProfileError struct {
	Profile string
	Message string
	Cause   error
}

func (e *ProfileError) Error() string {
	name := e.Profile
	if name == "" {
		name = "<unnamed>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("style error: %s: %s: %v", name, e.Message, e.Cause)
	}
	return fmt.Sprintf("style error: %s: %s", name, e.Message)
}

func (e *ProfileError) Unwrap() error {
	return e.Cause
}
