package handlers

import "net/http"

// ActivityView is the JSON representation of a single activity.
type ActivityView struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// ActivitiesHandler handles GET /activities.
type ActivitiesHandler struct {
	roster Roster
}

// NewActivitiesHandler creates a new ActivitiesHandler.
func NewActivitiesHandler(roster Roster) *ActivitiesHandler {
	return &ActivitiesHandler{
		roster: roster,
	}
}

// ServeHTTP implements http.Handler.
// The response is an object keyed by activity name.
func (h *ActivitiesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	activities := h.roster.List()

	resp := make(map[string]ActivityView, len(activities))
	for _, a := range activities {
		resp[a.Name] = ActivityView{
			Description:     a.Description,
			Schedule:        a.Schedule,
			MaxParticipants: a.MaxParticipants,
			Participants:    a.Participants,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
