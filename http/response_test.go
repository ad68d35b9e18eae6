package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	webhttp "github.com/anshulm/webpage/http"
)

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		name   string
		accept string
		want   bool
	}{
		{name: "no header", accept: "", want: false},
		{name: "html", accept: "text/html", want: false},
		{name: "json", accept: "application/json", want: true},
		{name: "json with params", accept: "application/json;q=0.9", want: true},
		{name: "json in list", accept: "text/html, application/json", want: true},
		{name: "wildcard", accept: "*/*", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			assert.Equal(t, tt.want, webhttp.WantsJSON(req))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	err := webhttp.WriteJSON(rec, http.StatusOK, map[string]string{"key": "value"})

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"key":"value"}`, rec.Body.String())
}

func TestWriteJSON_EncodingError(t *testing.T) {
	rec := httptest.NewRecorder()

	// Channels cannot be JSON encoded
	err := webhttp.WriteJSON(rec, http.StatusOK, make(chan int))

	assert.Error(t, err)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	webhttp.WriteError(rec, http.StatusBadRequest, "bad request body")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"bad request body"}`, rec.Body.String())
}
