package wrap

import "fmt"

// WidthError is returned for a column width that cannot hold any text
type WidthError struct {
	Width float64
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("wrap error: column width must be positive, got %v", e.Width)
}
