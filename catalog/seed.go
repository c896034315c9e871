package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// seedFile is the on-disk layout of a catalog seed.
type seedFile struct {
	Activities []Activity `yaml:"activities"`
}

// DefaultActivities returns the roster the service starts with when no seed
// file is configured.
func DefaultActivities() []Activity {
	return []Activity{
		{
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		{
			Name:            "Programming Class",
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		{
			Name:            "Gym Class",
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
	}
}

// LoadSeed reads activities from the YAML file at path.
//
// The file has a single top level key:
//
//	activities:
//	  - name: Chess Club
//	    description: Learn strategies and compete in chess tournaments
//	    schedule: Fridays, 3:30 PM - 5:00 PM
//	    max_participants: 12
//	    participants:
//	      - michael@mergington.edu
func LoadSeed(path string) ([]Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog seed %s: %w", path, err)
	}
	defer f.Close()

	var seed seedFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to decode catalog seed %s: %w", path, err)
	}

	if len(seed.Activities) == 0 {
		return nil, fmt.Errorf("catalog seed %s defines no activities", path)
	}
	return seed.Activities, nil
}
