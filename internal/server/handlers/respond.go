// internal/server/handlers/respond.go

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses. Server-side failures are logged with the request ID.
func respondWithError(w http.ResponseWriter, r *http.Request, code int, body ErrorResponse, err error) {
	if err != nil && code >= 500 {
		slog.Error("HTTP error",
			"request_id", middleware.GetReqID(r.Context()),
			"code", code,
			"message", body.Error,
			"error", err)
	}
	respondWithJSON(w, code, body)
}
