package webpage

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTemplateNotFound is returned when rendering a template name that
	// was not part of the parsed set.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrNoTemplates is returned when the template directory contains no
	// files matching the configured extension.
	ErrNoTemplates = errors.New("no templates found")
)

// HTTPError is an error carrying an HTTP status code and a detail value that
// is safe to show to clients. It mirrors the JSON shape {"detail": ...} used
// by the error responder.
type HTTPError struct {
	Status int
	Detail any
}

// NewHTTPError returns an HTTPError with the given status and detail. A nil
// detail defaults to the standard status text.
func NewHTTPError(status int, detail any) *HTTPError {
	if detail == nil {
		detail = http.StatusText(status)
	}
	return &HTTPError{Status: status, Detail: detail}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error %d: %v", e.Status, e.Detail)
}
