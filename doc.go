// Package webpage binds chi route handlers to html/template rendering with a
// small amount of shared template context.
//
// The package does not implement a template engine, an HTTP server, or a
// router; it glues html/template and go-chi together for server-rendered
// sites that also expose JSON endpoints.
//
// # Key Components
//
//   - Renderer: parses a template directory and renders pages, merging the
//     handler's context with a mutable global context and pre-context
//   - Context: the map type passed to templates, with fixed merge orders
//   - HTTPError: an error carrying an HTTP status and a client-safe detail
//
// # Context Layers
//
// Three context layers feed every rendered page:
//
//   - the handler's per-request context (whatever the page handler returns)
//   - the global context, shared by all pages (site name, navigation, ...)
//   - the pre-context, a second shared layer that overrides page values
//
// Page rendering injects three reserved keys on top of the handler's
// context: "request" (the *http.Request), "webpage" (the global context),
// and "css_timestamp" (a Unix-time cache-busting stamp for static assets).
//
// # Example Usage
//
//	renderer, err := webpage.New("./templates", webpage.Context{
//	    "site_name": "example",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Render a page directly
//	err = renderer.Render(w, r, "index.html", webpage.Context{"title": "Home"}, nil)
//
// See the http package for the handler adapter, named-route URL generation,
// reverse-proxy scheme correction, and content-negotiating error responses.
package webpage
