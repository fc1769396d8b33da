// Package server provides the HTTP API for rendering résumés and storing the
// results.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-layout/internal/db"
	"github.com/jonathan/resume-layout/internal/rendering"
	"github.com/jonathan/resume-layout/internal/schemas"
	"github.com/jonathan/resume-layout/internal/style"
	"github.com/jonathan/resume-layout/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrStoreDisabled is returned by document routes when no database is
// configured.
var ErrStoreDisabled = errors.New("document storage is not configured")

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		schemaErr     *schemas.ValidationError
		inputErr      *types.InputError
		formatErr     *rendering.FormatError
		profileErr    *style.ProfileError
		templateErr   *rendering.TemplateError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &formatErr), errors.As(err, &profileErr):
		return http.StatusBadRequest
	case errors.As(err, &schemaErr), errors.As(err, &inputErr), errors.As(err, &templateErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrStoreDisabled):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
