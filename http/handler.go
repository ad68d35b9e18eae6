package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/anshulm/webpage"
)

type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type HandlerConfig struct {
	// ErrorTemplate is the template rendered for HTML error responses.
	// Defaults to DefaultErrorTemplate.
	ErrorTemplate string

	// StaticDir serves files under StaticRoute when non-empty.
	StaticDir string

	// StaticRoute is the URL prefix for static files. Defaults to /static.
	StaticRoute string

	CORS CORSConfig

	// Logger for request logging. Defaults to slog.Default().
	Logger *slog.Logger
}

type pageRoute struct {
	name     string
	pattern  string
	template string
	status   int
	fn       PageFunc
}

// Handler assembles pages, static files, middleware, and error handling
// into a chi router.
type Handler struct {
	config    HandlerConfig
	renderer  *webpage.Renderer
	routes    *Routes
	responder *ErrorResponder
	pages     []pageRoute
	raw       []rawRoute
}

type rawRoute struct {
	name    string
	method  string
	pattern string
	fn      http.HandlerFunc
}

// NewHandler creates a Handler rendering through the given renderer.
func NewHandler(config *HandlerConfig, renderer *webpage.Renderer) *Handler {
	cfg := *config
	if cfg.StaticRoute == "" {
		cfg.StaticRoute = "/static"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	routes := NewRoutes()
	return &Handler{
		config:    cfg,
		renderer:  renderer,
		routes:    routes,
		responder: NewErrorResponder(renderer, cfg.ErrorTemplate, routes, cfg.Logger),
	}
}

// Routes returns the named route registry.
func (h *Handler) Routes() *Routes {
	return h.routes
}

// Responder returns the error responder, for use by handlers mounted
// outside this Handler.
func (h *Handler) Responder() *ErrorResponder {
	return h.responder
}

// Page registers a GET page: the PageFunc's context renders templateFile
// with status 200. The name is registered for urlFor.
func (h *Handler) Page(name, pattern, templateFile string, fn PageFunc) error {
	return h.PageStatus(name, pattern, templateFile, http.StatusOK, fn)
}

// PageStatus is Page with an explicit response status.
func (h *Handler) PageStatus(name, pattern, templateFile string, status int, fn PageFunc) error {
	if err := h.routes.Add(name, pattern); err != nil {
		return err
	}
	h.pages = append(h.pages, pageRoute{
		name:     name,
		pattern:  pattern,
		template: templateFile,
		status:   status,
		fn:       fn,
	})
	return nil
}

// Handle registers a plain http.HandlerFunc under a route name, for JSON
// endpoints and other non-template routes that still want urlFor coverage.
func (h *Handler) Handle(name, method, pattern string, fn http.HandlerFunc) error {
	if err := h.routes.Add(name, pattern); err != nil {
		return err
	}
	h.raw = append(h.raw, rawRoute{name: name, method: method, pattern: pattern, fn: fn})
	return nil
}

// Router returns a chi router with all registered pages, static file
// serving, and the middleware stack wired in.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogger(h.config.Logger))
	r.Use(ProxyScheme)
	r.Use(Recoverer(h.responder))

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.NotFound(h.responder.NotFound)
	r.MethodNotAllowed(h.responder.MethodNotAllowed)

	if h.config.StaticDir != "" {
		fileServer := http.StripPrefix(h.config.StaticRoute, http.FileServer(http.Dir(h.config.StaticDir)))
		r.Get(h.config.StaticRoute+"/*", fileServer.ServeHTTP)
	}

	for _, page := range h.pages {
		wrap := Page(h.renderer, h.routes, h.responder, page.template, page.status)
		r.Get(page.pattern, wrap(page.fn))
	}

	for _, route := range h.raw {
		r.Method(route.method, route.pattern, route.fn)
	}

	return r
}
