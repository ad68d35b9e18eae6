package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/anshulm/webpage"
)

// DefaultErrorTemplate is the error template name used when none is
// configured.
const DefaultErrorTemplate = "error.html"

// FieldError is the JSON form of a single validation failure.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

func fieldErrors(verrs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// ErrorResponder turns errors into HTTP responses, negotiating between JSON
// and HTML on the request's Accept header. JSON clients get the
// {"detail": ...} envelope; everyone else gets the error template rendered
// with {"status_code": ..., "detail": ...}.
type ErrorResponder struct {
	renderer *webpage.Renderer
	template string
	routes   *Routes
	logger   *slog.Logger
}

// NewErrorResponder creates an ErrorResponder rendering HTML errors through
// the given renderer. Template defaults to DefaultErrorTemplate, routes may
// be nil when error templates do not use urlFor.
func NewErrorResponder(renderer *webpage.Renderer, template string, routes *Routes, logger *slog.Logger) *ErrorResponder {
	if template == "" {
		template = DefaultErrorTemplate
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorResponder{
		renderer: renderer,
		template: template,
		routes:   routes,
		logger:   logger,
	}
}

// Respond writes the negotiated error response for err.
//
// Classification:
//   - *webpage.HTTPError: its status and detail
//   - validator.ValidationErrors: 422 with the field errors
//   - anything else: 500, the real error is logged and never sent to the
//     client
func (er *ErrorResponder) Respond(w http.ResponseWriter, r *http.Request, err error) {
	logger := er.logger
	if l, ok := r.Context().Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		logger = l
	}

	var (
		status     int
		detail     any // JSON form
		htmlDetail any // template form
	)

	var httpErr *webpage.HTTPError
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Status
		detail = httpErr.Detail
		htmlDetail = httpErr.Detail
	case errors.As(err, &verrs):
		status = http.StatusUnprocessableEntity
		detail = fieldErrors(verrs)
		htmlDetail = verrs.Error()
	default:
		status = http.StatusInternalServerError
		detail = "Internal Server Error"
		htmlDetail = detail
		logger.Error("unhandled request error", "error", err)
	}

	if WantsJSON(r) {
		WriteError(w, status, detail)
		return
	}

	ctx := webpage.Context{
		"status_code": status,
		"detail":      htmlDetail,
	}
	opts := &webpage.RenderOptions{Status: status}
	if er.routes != nil {
		opts.Funcs = er.routes.TemplateFuncs(r)
	}
	if rerr := er.renderer.Render(w, r, er.template, ctx, opts); rerr != nil {
		logger.Error("failed to render error template", "template", er.template, "error", rerr)
		writeFallbackErrorPage(w, status)
	}
}

// NotFound is an http.HandlerFunc for unmatched routes.
func (er *ErrorResponder) NotFound(w http.ResponseWriter, r *http.Request) {
	er.Respond(w, r, webpage.NewHTTPError(http.StatusNotFound, nil))
}

// MethodNotAllowed is an http.HandlerFunc for matched routes with the wrong
// method.
func (er *ErrorResponder) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	er.Respond(w, r, webpage.NewHTTPError(http.StatusMethodNotAllowed, nil))
}
