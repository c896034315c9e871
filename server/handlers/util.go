package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is returned when an error occurs.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse is returned when a roster change succeeds.
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}
