package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomis52/mergington/catalog"
)

func TestActivitiesHandler(t *testing.T) {
	cat, err := catalog.New(append(catalog.DefaultActivities(), catalog.Activity{
		Name:            "Art Club",
		Description:     "Painting and drawing",
		Schedule:        "Thursdays",
		MaxParticipants: 15,
	}))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/activities", nil)
	w := httptest.NewRecorder()
	NewActivitiesHandler(cat).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp map[string]ActivityView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 4)

	chess := resp["Chess Club"]
	assert.Equal(t, "Learn strategies and compete in chess tournaments", chess.Description)
	assert.Equal(t, "Fridays, 3:30 PM - 5:00 PM", chess.Schedule)
	assert.Equal(t, 12, chess.MaxParticipants)
	assert.Equal(t, []string{"michael@mergington.edu", "daniel@mergington.edu"}, chess.Participants)

	// An empty roster is a JSON array, not null.
	assert.Contains(t, w.Body.String(), `"participants":[]`)
}
