package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activities.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSeed(t *testing.T) {
	path := writeSeed(t, `
activities:
  - name: Art Club
    description: Painting and drawing
    schedule: Thursdays, 3:30 PM - 5:00 PM
    max_participants: 15
    participants:
      - amelia@mergington.edu
  - name: Drama Club
    description: Acting and stagecraft
    schedule: Wednesdays, 4:00 PM - 5:30 PM
    max_participants: 20
`)

	activities, err := LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, activities, 2)

	assert.Equal(t, "Art Club", activities[0].Name)
	assert.Equal(t, 15, activities[0].MaxParticipants)
	assert.Equal(t, []string{"amelia@mergington.edu"}, activities[0].Participants)
	assert.Empty(t, activities[1].Participants)

	c, err := New(activities)
	require.NoError(t, err)
	drama, err := c.Get("Drama Club")
	require.NoError(t, err)
	assert.NotNil(t, drama.Participants)
}

func TestLoadSeed_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "empty",
			content: "activities: []\n",
			wantErr: "defines no activities",
		},
		{
			name:    "unknown field",
			content: "activities:\n  - name: Art Club\n    capacity: 3\n",
			wantErr: "failed to decode",
		},
		{
			name:    "malformed",
			content: "activities: [\n",
			wantErr: "failed to decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeed(writeSeed(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadSeed_MissingFile(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open catalog seed")
}
