package http_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anshulm/webpage"
	webhttp "github.com/anshulm/webpage/http"
)

func newTestHandler(t *testing.T) *webhttp.Handler {
	t.Helper()

	renderer := newPageRenderer(t, map[string]string{
		"index.html": `home of {{ .webpage.site_name }}`,
		"user.html":  `user {{ .user_id }} at {{ urlFor "user" "id" .user_id }}`,
		"error.html": `error {{ .status_code }}: {{ .detail }}`,
	})

	handler := webhttp.NewHandler(&webhttp.HandlerConfig{
		ErrorTemplate: "error.html",
	}, renderer)

	require.NoError(t, handler.Page("home", "/", "index.html",
		func(w http.ResponseWriter, r *http.Request) (webpage.Context, error) {
			return webpage.Context{}, nil
		}))
	require.NoError(t, handler.Page("user", "/users/{id}", "user.html",
		func(w http.ResponseWriter, r *http.Request) (webpage.Context, error) {
			return webpage.Context{"user_id": chi.URLParam(r, "id")}, nil
		}))
	return handler
}

func TestHandler_ServesPage(t *testing.T) {
	router := newTestHandler(t).Router()

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "home of example", rec.Body.String())
}

func TestHandler_PathParamsAndURLFor(t *testing.T) {
	router := newTestHandler(t).Router()

	req := httptest.NewRequest("GET", "http://example.com/users/7", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user 7 at https://example.com/users/7", rec.Body.String())
}

func TestHandler_NotFound_HTML(t *testing.T) {
	router := newTestHandler(t).Router()

	req := httptest.NewRequest("GET", "http://example.com/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error 404: Not Found", rec.Body.String())
}

func TestHandler_NotFound_JSON(t *testing.T) {
	router := newTestHandler(t).Router()

	req := httptest.NewRequest("GET", "http://example.com/missing", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Not Found"}`, rec.Body.String())
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	router := newTestHandler(t).Router()

	req := httptest.NewRequest("POST", "http://example.com/", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"detail":"Method Not Allowed"}`, rec.Body.String())
}

func TestHandler_RawRoute(t *testing.T) {
	handler := newTestHandler(t)
	require.NoError(t, handler.Handle("api_health", "GET", "/api/health",
		func(w http.ResponseWriter, r *http.Request) {
			_ = webhttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		}))
	router := handler.Router()

	req := httptest.NewRequest("GET", "http://example.com/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	// Raw routes join the registry for URL generation.
	url, err := handler.Routes().URLFor("api_health")
	require.NoError(t, err)
	assert.Equal(t, "/api/health", url)
}

func TestHandler_DuplicateRouteName(t *testing.T) {
	handler := newTestHandler(t)

	err := handler.Page("home", "/other", "index.html",
		func(w http.ResponseWriter, r *http.Request) (webpage.Context, error) {
			return webpage.Context{}, nil
		})

	assert.Error(t, err)
}

func TestHandler_StaticFiles(t *testing.T) {
	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "style.css"), []byte("body{}"), 0o644))

	renderer := newPageRenderer(t, map[string]string{
		"index.html": `home`,
		"error.html": `error {{ .status_code }}`,
	})
	handler := webhttp.NewHandler(&webhttp.HandlerConfig{
		ErrorTemplate: "error.html",
		StaticDir:     staticDir,
	}, renderer)
	router := handler.Router()

	req := httptest.NewRequest("GET", "http://example.com/static/style.css", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())
}

func TestHandler_RequestIDOnResponses(t *testing.T) {
	router := newTestHandler(t).Router()

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHandler_CORSPreflight(t *testing.T) {
	renderer := newPageRenderer(t, map[string]string{
		"index.html": `home`,
		"error.html": `error {{ .status_code }}`,
	})
	handler := webhttp.NewHandler(&webhttp.HandlerConfig{
		ErrorTemplate: "error.html",
		CORS: webhttp.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"https://app.example.com"},
			AllowedMethods: []string{"GET"},
		},
	}, renderer)
	require.NoError(t, handler.Page("home", "/", "index.html",
		func(w http.ResponseWriter, r *http.Request) (webpage.Context, error) {
			return webpage.Context{}, nil
		}))
	router := handler.Router()

	req := httptest.NewRequest("OPTIONS", "http://example.com/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
