package handlers

import (
	"net/http"
	"time"

	"github.com/nomis52/mergington/buildinfo"
)

// ReportStatus describes the scheduled enrollment report.
type ReportStatus struct {
	Scheduled bool       `json:"scheduled"`
	NextRun   *time.Time `json:"next_run,omitempty"`
	LastRun   *time.Time `json:"last_run,omitempty"`
}

// APIStatusResponse is the response for /api/status.
type APIStatusResponse struct {
	Build             buildinfo.Properties `json:"build"`
	StartedAt         time.Time            `json:"started_at"`
	Activities        int                  `json:"activities"`
	TotalParticipants int                  `json:"total_participants"`
	Report            ReportStatus         `json:"report"`
}

// APIStatusHandler handles requests for the consolidated status endpoint.
type APIStatusHandler struct {
	roster   Roster
	provider StatusProvider
}

// NewAPIStatusHandler creates a new APIStatusHandler.
func NewAPIStatusHandler(roster Roster, provider StatusProvider) *APIStatusHandler {
	return &APIStatusHandler{
		roster:   roster,
		provider: provider,
	}
}

// ServeHTTP implements http.Handler.
func (h *APIStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	activities := h.roster.List()
	total := 0
	for _, a := range activities {
		total += len(a.Participants)
	}

	nextRun := h.provider.NextReport()
	resp := APIStatusResponse{
		Build:             h.provider.BuildInfo(),
		StartedAt:         h.provider.StartedAt(),
		Activities:        len(activities),
		TotalParticipants: total,
		Report: ReportStatus{
			Scheduled: nextRun != nil,
			NextRun:   nextRun,
			LastRun:   h.provider.LastReport(),
		},
	}

	writeJSON(w, http.StatusOK, resp)
}
