package http

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"
)

// HeaderForwardedProto carries the original URL scheme through a
// TLS-terminating reverse proxy (Cloudflare, Traefik, nginx).
const HeaderForwardedProto = "X-Forwarded-Proto"

// Routes maps route names to chi route patterns so templates and handlers
// can build URLs without hard-coding paths. Safe for concurrent use.
type Routes struct {
	mu       sync.RWMutex
	patterns map[string]string
}

// NewRoutes returns an empty route registry.
func NewRoutes() *Routes {
	return &Routes{patterns: make(map[string]string)}
}

// Add registers pattern under name. Registering the same name twice with a
// different pattern is an error.
func (rt *Routes) Add(name, pattern string) error {
	if name == "" {
		return fmt.Errorf("route name cannot be empty")
	}
	if !strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("route pattern must start with /: %q", pattern)
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()
	if existing, ok := rt.patterns[name]; ok && existing != pattern {
		return fmt.Errorf("route %q already registered as %q", name, existing)
	}
	rt.patterns[name] = pattern
	return nil
}

// Pattern returns the chi pattern registered under name.
func (rt *Routes) Pattern(name string) (string, bool) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	pattern, ok := rt.patterns[name]
	return pattern, ok
}

// URLFor builds the path for a named route. Params are given as
// alternating key/value pairs filling the pattern's {placeholders}:
//
//	rt.URLFor("user", "id", "42")  // "/users/{id}" -> "/users/42"
//
// Every placeholder must be covered and every pair must be used.
func (rt *Routes) URLFor(name string, pairs ...string) (string, error) {
	pattern, ok := rt.Pattern(name)
	if !ok {
		return "", fmt.Errorf("urlFor: unknown route %q", name)
	}
	if len(pairs)%2 != 0 {
		return "", fmt.Errorf("urlFor %q: odd number of params", name)
	}

	params := make(map[string]string, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		params[pairs[i]] = pairs[i+1]
	}

	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "}") {
			continue
		}
		key := seg[1 : len(seg)-1]
		// chi patterns may carry a regex: {id:[0-9]+}
		if idx := strings.Index(key, ":"); idx >= 0 {
			key = key[:idx]
		}
		value, ok := params[key]
		if !ok {
			return "", fmt.Errorf("urlFor %q: missing param %q", name, key)
		}
		segments[i] = value
		delete(params, key)
	}
	if len(params) > 0 {
		for key := range params {
			return "", fmt.Errorf("urlFor %q: unknown param %q", name, key)
		}
	}
	return strings.Join(segments, "/"), nil
}

// RequestURLFor builds an absolute URL for a named route, using the host of
// the incoming request. The scheme is taken from X-Forwarded-Proto when a
// reverse proxy set it, so links generated behind a TLS-terminating proxy
// do not downgrade to http.
func (rt *Routes) RequestURLFor(r *http.Request, name string, pairs ...string) (string, error) {
	path, err := rt.URLFor(name, pairs...)
	if err != nil {
		return "", err
	}
	return RequestScheme(r) + "://" + r.Host + path, nil
}

// TemplateFuncs returns the per-request function map binding urlFor to this
// registry and the given request. Passed to the renderer on every render.
func (rt *Routes) TemplateFuncs(r *http.Request) template.FuncMap {
	return template.FuncMap{
		"urlFor": func(name string, pairs ...string) (string, error) {
			return rt.RequestURLFor(r, name, pairs...)
		},
	}
}

// RequestScheme returns the effective URL scheme of a request: the value a
// reverse proxy reported in X-Forwarded-Proto, otherwise the scheme of the
// connection itself.
func RequestScheme(r *http.Request) string {
	if scheme, ok := SchemeFromContext(r.Context()); ok && scheme != "" {
		return scheme
	}
	if proto := forwardedProto(r); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// forwardedProto returns the first scheme listed in X-Forwarded-Proto.
// Chained proxies may append values: "https, http".
func forwardedProto(r *http.Request) string {
	proto := r.Header.Get(HeaderForwardedProto)
	if proto == "" {
		return ""
	}
	if idx := strings.IndexByte(proto, ','); idx >= 0 {
		proto = proto[:idx]
	}
	return strings.ToLower(strings.TrimSpace(proto))
}
