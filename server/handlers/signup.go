package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nomis52/mergington/catalog"
	"github.com/nomis52/mergington/logging"
	"github.com/nomis52/mergington/metrics"
)

// Error details returned to clients.
const (
	detailActivityNotFound = "Activity not found"
	detailAlreadySignedUp  = "Student already signed up for this activity"
	detailNotSignedUp      = "Student is not signed up for this activity"
	detailEmailRequired    = "email query parameter is required"
)

// rosterChange describes one of the two roster mutations.
type rosterChange struct {
	operation string
	apply     func(name, email string) (catalog.Activity, error)
	message   func(name, email string) string
}

// SignupHandler handles POST /activities/{activity_name}/signup.
type SignupHandler struct {
	logger   *slog.Logger
	recorder Recorder
	change   rosterChange
}

// NewSignupHandler creates a new SignupHandler.
func NewSignupHandler(logger *slog.Logger, roster Roster, recorder Recorder) *SignupHandler {
	return &SignupHandler{
		logger:   logger,
		recorder: recorder,
		change: rosterChange{
			operation: metrics.OperationSignup,
			apply:     roster.Signup,
			message: func(name, email string) string {
				return fmt.Sprintf("Signed up %s for %s", email, name)
			},
		},
	}
}

// ServeHTTP implements http.Handler.
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	serveRosterChange(w, r, h.logger, h.recorder, h.change)
}

// UnregisterHandler handles DELETE /activities/{activity_name}/signup.
type UnregisterHandler struct {
	logger   *slog.Logger
	recorder Recorder
	change   rosterChange
}

// NewUnregisterHandler creates a new UnregisterHandler.
func NewUnregisterHandler(logger *slog.Logger, roster Roster, recorder Recorder) *UnregisterHandler {
	return &UnregisterHandler{
		logger:   logger,
		recorder: recorder,
		change: rosterChange{
			operation: metrics.OperationUnregister,
			apply:     roster.Unregister,
			message: func(name, email string) string {
				return fmt.Sprintf("Unregistered %s from %s", email, name)
			},
		},
	}
}

// ServeHTTP implements http.Handler.
func (h *UnregisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	serveRosterChange(w, r, h.logger, h.recorder, h.change)
}

// serveRosterChange validates the request, applies the change and maps
// catalog errors onto HTTP responses.
func serveRosterChange(w http.ResponseWriter, r *http.Request, fallback *slog.Logger, recorder Recorder, change rosterChange) {
	logger := logging.FromContext(r.Context(), fallback)
	name := r.PathValue("activity_name")

	// An empty email= value is accepted; only a missing parameter is rejected.
	query := r.URL.Query()
	if !query.Has("email") {
		recorder.RecordRequest(change.operation, metrics.ResultInvalid)
		writeError(w, http.StatusUnprocessableEntity, detailEmailRequired)
		return
	}
	email := query.Get("email")

	activity, err := change.apply(name, email)
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrActivityNotFound):
		logger.Debug("roster change rejected", "operation", change.operation, "activity", name, "error", err)
		recorder.RecordRequest(change.operation, metrics.ResultNotFound)
		writeError(w, http.StatusNotFound, detailActivityNotFound)
		return
	case errors.Is(err, catalog.ErrAlreadySignedUp):
		logger.Debug("roster change rejected", "operation", change.operation, "activity", name, "error", err)
		recorder.RecordRequest(change.operation, metrics.ResultConflict)
		writeError(w, http.StatusBadRequest, detailAlreadySignedUp)
		return
	case errors.Is(err, catalog.ErrNotSignedUp):
		logger.Debug("roster change rejected", "operation", change.operation, "activity", name, "error", err)
		recorder.RecordRequest(change.operation, metrics.ResultConflict)
		writeError(w, http.StatusBadRequest, detailNotSignedUp)
		return
	default:
		logger.Error("roster change failed", "operation", change.operation, "activity", name, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	recorder.RecordRequest(change.operation, metrics.ResultOK)
	recorder.SetEnrollment(activity.Name, len(activity.Participants), activity.MaxParticipants)
	logger.Info("roster changed",
		"operation", change.operation,
		"activity", name,
		"email", email,
		"participants", len(activity.Participants),
	)

	writeJSON(w, http.StatusOK, MessageResponse{Message: change.message(name, email)})
}
