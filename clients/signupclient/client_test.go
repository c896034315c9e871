package signupclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivities(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/activities", r.URL.Path)
		w.Write([]byte(`{"Chess Club":{"description":"Chess","schedule":"Fridays","max_participants":12,"participants":["michael@mergington.edu"]}}`))
	}))
	defer ts.Close()

	activities, err := New(ts.URL + "/").Activities(context.Background())
	require.NoError(t, err)
	require.Contains(t, activities, "Chess Club")
	assert.Equal(t, 12, activities["Chess Club"].MaxParticipants)
	assert.Equal(t, []string{"michael@mergington.edu"}, activities["Chess Club"].Participants)
}

func TestSignup(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/activities/Chess Club/signup", r.URL.Path)
		assert.Equal(t, "a+b@mergington.edu", r.URL.Query().Get("email"))
		w.Write([]byte(`{"message":"Signed up a+b@mergington.edu for Chess Club"}`))
	}))
	defer ts.Close()

	msg, err := New(ts.URL).Signup(context.Background(), "Chess Club", "a+b@mergington.edu")
	require.NoError(t, err)
	assert.Equal(t, "Signed up a+b@mergington.edu for Chess Club", msg)
}

func TestUnregister_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Student is not signed up for this activity"}`))
	}))
	defer ts.Close()

	_, err := New(ts.URL).Unregister(context.Background(), "Chess Club", "ghost@mergington.edu")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Student is not signed up for this activity", apiErr.Detail)
}

func TestAPIError_PlainBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}))
	defer ts.Close()

	_, err := New(ts.URL).Signup(context.Background(), "Chess Club", "a@mergington.edu")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Method Not Allowed", apiErr.Detail)
}
