package http

import (
	"net/http"

	"github.com/anshulm/webpage"
)

// PageFunc is a route handler that returns template context instead of
// writing a body. Returning (nil, nil) means the handler wrote the response
// itself (a redirect, a file download) and no template is rendered.
// Returning an error delegates to the ErrorResponder.
type PageFunc func(w http.ResponseWriter, r *http.Request) (webpage.Context, error)

// Page wraps a PageFunc into an http.HandlerFunc that renders templateFile
// with the page merge order (handler context, injected keys, pre-context).
// Status zero means 200. The routes registry binds urlFor for the render;
// it may be nil when the template does not use urlFor.
func Page(renderer *webpage.Renderer, routes *Routes, responder *ErrorResponder, templateFile string, status int) func(PageFunc) http.HandlerFunc {
	return func(fn PageFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctx, err := fn(w, r)
			if err != nil {
				responder.Respond(w, r, err)
				return
			}
			if ctx == nil {
				// Handler produced its own response.
				return
			}

			opts := &webpage.RenderOptions{Status: status}
			if routes != nil {
				opts.Funcs = routes.TemplateFuncs(r)
			}
			if err := renderer.RenderPage(w, r, templateFile, ctx, opts); err != nil {
				// Rendering buffers before writing, so nothing reached the
				// client yet and the error response is still clean.
				responder.Respond(w, r, err)
			}
		}
	}
}
