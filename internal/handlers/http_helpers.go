package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type errorResponse struct {
	Message string `json:"message"`
}

// writeJSON encodes v with the provided status code and a JSON content-type.
// Encode errors are ignored; by then the status line is already written.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(v)
}

// writeError returns a JSON error body. Internal detail never goes to the
// client; callers log it and pass a generic message here.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

// pathVar returns the mux path var value (or empty string if missing).
func pathVar(r *http.Request, key string) string {
	return mux.Vars(r)[key]
}

// decodeJSON decodes JSON request bodies with default decoder settings
// (unknown fields are ignored).
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
