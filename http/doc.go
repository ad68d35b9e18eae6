// Package http binds webpage template rendering to chi route handlers.
//
// This package supplies the HTTP-facing half of the library: a handler
// adapter that renders a handler's returned context through a template,
// named-route URL generation, reverse-proxy scheme correction, and error
// responses negotiated between JSON and HTML.
//
// # Features
//
//   - Page adapter: handlers return webpage.Context, the adapter renders it
//   - Named routes with urlFor in templates and URLFor/RequestURLFor in Go
//   - X-Forwarded-Proto aware scheme correction for generated URLs and
//     Location redirect headers
//   - Error responses negotiated on the Accept header: JSON envelope
//     {"detail": ...} for JSON clients, a rendered error template otherwise
//   - Request id, request logging, and panic recovery middleware
//   - Configurable CORS support
//
// # Page Handlers
//
// A PageFunc returns the template context instead of writing a body:
//
//	handler.Page("home", "/", "index.html", func(w http.ResponseWriter, r *http.Request) (webpage.Context, error) {
//	    return webpage.Context{"title": "Home"}, nil
//	})
//
// Returning (nil, nil) means the handler wrote the response itself, so
// redirects and downloads stay ordinary:
//
//	func(w http.ResponseWriter, r *http.Request) (webpage.Context, error) {
//	    http.Redirect(w, r, "/", http.StatusSeeOther)
//	    return nil, nil
//	}
//
// Returning an error produces a negotiated error response. Use
// webpage.NewHTTPError for a specific status, or return
// validator.ValidationErrors for a 422.
//
// # URL Generation
//
// Route names registered through Handler.Page and Handler.Handle are
// available to templates as urlFor:
//
//	<a href="{{ urlFor "user" "id" .UserID }}">profile</a>
//
// The generated URL is absolute, built from the request host, with the
// scheme corrected from X-Forwarded-Proto when the server sits behind a
// TLS-terminating reverse proxy.
//
// # Usage
//
// Create a Handler with HandlerConfig:
//
//	renderer, _ := webpage.New("./templates", webpage.Context{"site_name": "example"})
//	handler := http.NewHandler(&http.HandlerConfig{
//	    ErrorTemplate: "error.html",
//	    StaticDir:     "./static",
//	}, renderer)
//
//	_ = handler.Page("home", "/", "index.html", homePage)
//	http.ListenAndServe(":8080", handler.Router())
package http
