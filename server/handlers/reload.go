package handlers

import (
	"log/slog"
	"net/http"

	"github.com/nomis52/mergington/logging"
)

const reloadedMessage = "configuration reloaded"

// ReloadHandler re-reads the server config file on POST /reload.
type ReloadHandler struct {
	logger   *slog.Logger
	reloader Reloader
}

// NewReloadHandler creates a new ReloadHandler.
func NewReloadHandler(logger *slog.Logger, reloader Reloader) *ReloadHandler {
	return &ReloadHandler{
		logger:   logger,
		reloader: reloader,
	}
}

// ServeHTTP implements http.Handler. A failed reload leaves the running
// configuration untouched and answers 500 with the cause.
func (h *ReloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	if err := h.reloader.Reload(); err != nil {
		logger.Error("config reload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reload configuration: "+err.Error())
		return
	}

	logger.Info(reloadedMessage)
	writeJSON(w, http.StatusOK, MessageResponse{Message: reloadedMessage})
}
