package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// ErrorResponse is the JSON error envelope: {"detail": ...}. Detail is a
// string for plain errors and a list of field errors for validation errors.
type ErrorResponse struct {
	Detail any `json:"detail"`
}

// WantsJSON reports whether the client asked for a JSON response. The rule
// is a substring test: any Accept header mentioning application/json gets
// JSON, everything else (including an absent header) gets HTML.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response with the {"detail": ...} envelope.
func WriteError(w http.ResponseWriter, code int, detail any) {
	if err := WriteJSON(w, code, ErrorResponse{Detail: detail}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
