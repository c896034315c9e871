package handlers

import (
	"log/slog"
	"net/http"

	"gopkg.in/yaml.v3"
)

// ConfigHandler handles requests for the current configuration.
type ConfigHandler struct {
	logger         *slog.Logger
	configProvider ConfigProvider
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(logger *slog.Logger, provider ConfigProvider) *ConfigHandler {
	return &ConfigHandler{
		logger:         logger,
		configProvider: provider,
	}
}

// ServeHTTP implements http.Handler.
func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	redacted := h.configProvider.Config().Redacted()

	w.Header().Set("Content-Type", "text/yaml")
	w.WriteHeader(http.StatusOK)
	if err := yaml.NewEncoder(w).Encode(redacted); err != nil {
		h.logger.Error("failed to encode YAML response", "error", err)
	}
}
