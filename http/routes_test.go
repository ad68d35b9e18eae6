package http_test

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	webhttp "github.com/anshulm/webpage/http"
)

func TestRoutes_Add(t *testing.T) {
	routes := webhttp.NewRoutes()

	require.NoError(t, routes.Add("home", "/"))
	require.NoError(t, routes.Add("user", "/users/{id}"))

	pattern, ok := routes.Pattern("user")
	assert.True(t, ok)
	assert.Equal(t, "/users/{id}", pattern)
}

func TestRoutes_Add_DuplicateSamePattern(t *testing.T) {
	routes := webhttp.NewRoutes()

	require.NoError(t, routes.Add("home", "/"))
	assert.NoError(t, routes.Add("home", "/"))
}

func TestRoutes_Add_DuplicateDifferentPattern(t *testing.T) {
	routes := webhttp.NewRoutes()

	require.NoError(t, routes.Add("home", "/"))
	assert.Error(t, routes.Add("home", "/other"))
}

func TestRoutes_Add_Invalid(t *testing.T) {
	routes := webhttp.NewRoutes()

	assert.Error(t, routes.Add("", "/x"))
	assert.Error(t, routes.Add("x", "no-slash"))
}

func TestRoutes_URLFor(t *testing.T) {
	routes := webhttp.NewRoutes()
	require.NoError(t, routes.Add("home", "/"))
	require.NoError(t, routes.Add("user", "/users/{id}"))
	require.NoError(t, routes.Add("article", "/blog/{year:[0-9]+}/{slug}"))

	tests := []struct {
		name    string
		route   string
		pairs   []string
		want    string
		wantErr bool
	}{
		{name: "no params", route: "home", want: "/"},
		{name: "single param", route: "user", pairs: []string{"id", "42"}, want: "/users/42"},
		{name: "regex param", route: "article", pairs: []string{"year", "2024", "slug", "hello"}, want: "/blog/2024/hello"},
		{name: "unknown route", route: "missing", wantErr: true},
		{name: "missing param", route: "user", wantErr: true},
		{name: "unknown param", route: "user", pairs: []string{"id", "42", "extra", "x"}, wantErr: true},
		{name: "odd pairs", route: "user", pairs: []string{"id"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := routes.URLFor(tt.route, tt.pairs...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoutes_RequestURLFor_PlainHTTP(t *testing.T) {
	routes := webhttp.NewRoutes()
	require.NoError(t, routes.Add("user", "/users/{id}"))

	req := httptest.NewRequest("GET", "http://example.com/", nil)

	url, err := routes.RequestURLFor(req, "user", "id", "7")

	require.NoError(t, err)
	assert.Equal(t, "http://example.com/users/7", url)
}

func TestRoutes_RequestURLFor_TLS(t *testing.T) {
	routes := webhttp.NewRoutes()
	require.NoError(t, routes.Add("home", "/"))

	req := httptest.NewRequest("GET", "https://example.com/", nil)
	req.TLS = &tls.ConnectionState{}

	url, err := routes.RequestURLFor(req, "home")

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", url)
}

func TestRoutes_RequestURLFor_ForwardedProto(t *testing.T) {
	routes := webhttp.NewRoutes()
	require.NoError(t, routes.Add("home", "/"))

	// Plain HTTP connection from the proxy, HTTPS at the edge.
	req := httptest.NewRequest("GET", "http://example.com/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")

	url, err := routes.RequestURLFor(req, "home")

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", url)
}

func TestRequestScheme(t *testing.T) {
	tests := []struct {
		name  string
		proto string
		tls   bool
		want  string
	}{
		{name: "plain", want: "http"},
		{name: "tls", tls: true, want: "https"},
		{name: "forwarded https", proto: "https", want: "https"},
		{name: "forwarded http over tls", proto: "http", tls: true, want: "http"},
		{name: "forwarded chain", proto: "https, http", want: "https"},
		{name: "forwarded mixed case", proto: "HTTPS", want: "https"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "http://example.com/", nil)
			if tt.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			if tt.tls {
				req.TLS = &tls.ConnectionState{}
			}

			assert.Equal(t, tt.want, webhttp.RequestScheme(req))
		})
	}
}

func TestRoutes_TemplateFuncs(t *testing.T) {
	routes := webhttp.NewRoutes()
	require.NoError(t, routes.Add("user", "/users/{id}"))

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")

	funcs := routes.TemplateFuncs(req)
	urlFor, ok := funcs["urlFor"].(func(string, ...string) (string, error))
	require.True(t, ok)

	url, err := urlFor("user", "id", "9")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/users/9", url)
}
