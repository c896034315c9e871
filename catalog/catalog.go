// Package catalog holds the in-memory set of extracurricular activities and
// their participant rosters.
//
// The set of activities is fixed when the Catalog is constructed. Only the
// participant rosters change afterwards, through Signup and Unregister. Each
// roster is guarded by its own mutex so that signups for different
// activities never contend, while concurrent signups for the same activity
// can never record an email twice.
//
// Example:
//
//	cat, err := catalog.New(catalog.DefaultActivities())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := cat.Signup("Chess Club", "newstudent@mergington.edu"); err != nil {
//	    // errors.Is(err, catalog.ErrActivityNotFound) etc.
//	}
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrActivityNotFound is returned when the named activity is not in the catalog.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrAlreadySignedUp is returned when signing up an email that is already on the roster.
	ErrAlreadySignedUp = errors.New("student already signed up")
	// ErrNotSignedUp is returned when unregistering an email that is not on the roster.
	ErrNotSignedUp = errors.New("student not signed up")
)

// Activity is a single extracurricular offering.
type Activity struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Schedule    string `yaml:"schedule"`
	// MaxParticipants is advisory. Signup does not enforce it.
	MaxParticipants int `yaml:"max_participants"`
	// Participants is the roster in signup order.
	Participants []string `yaml:"participants"`
}

// clone returns a copy of a that shares no memory with the original.
func (a Activity) clone() Activity {
	a.Participants = slices.Clone(a.Participants)
	if a.Participants == nil {
		a.Participants = []string{}
	}
	return a
}

// entry pairs an activity with the lock guarding its roster.
type entry struct {
	mu       sync.Mutex
	activity Activity
}

// Catalog is the set of activities known to the service.
// It is safe for concurrent use.
type Catalog struct {
	// order and entries are never modified after New returns.
	order   []string
	entries map[string]*entry
}

// New builds a Catalog from the given activities.
// Activity names must be non-empty and unique, and no roster may list the
// same email twice.
func New(activities []Activity) (*Catalog, error) {
	c := &Catalog{
		order:   make([]string, 0, len(activities)),
		entries: make(map[string]*entry, len(activities)),
	}

	for _, a := range activities {
		if a.Name == "" {
			return nil, fmt.Errorf("activity name is required")
		}
		if _, exists := c.entries[a.Name]; exists {
			return nil, fmt.Errorf("duplicate activity %q", a.Name)
		}

		seen := make(map[string]bool, len(a.Participants))
		for _, email := range a.Participants {
			if seen[email] {
				return nil, fmt.Errorf("activity %q lists %s more than once", a.Name, email)
			}
			seen[email] = true
		}

		c.order = append(c.order, a.Name)
		c.entries[a.Name] = &entry{activity: a.clone()}
	}

	return c, nil
}

// Len returns the number of activities.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Names returns the activity names in catalog order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.order)
}

// Get returns a copy of the named activity.
func (c *Catalog) Get(name string) (Activity, error) {
	e, ok := c.entries[name]
	if !ok {
		return Activity{}, fmt.Errorf("%w: %q", ErrActivityNotFound, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activity.clone(), nil
}

// List returns copies of all activities in catalog order.
func (c *Catalog) List() []Activity {
	result := make([]Activity, 0, len(c.order))
	for _, name := range c.order {
		e := c.entries[name]
		e.mu.Lock()
		result = append(result, e.activity.clone())
		e.mu.Unlock()
	}
	return result
}

// Signup adds email to the roster of the named activity and returns the
// updated activity.
func (c *Catalog) Signup(name, email string) (Activity, error) {
	e, ok := c.entries[name]
	if !ok {
		return Activity{}, fmt.Errorf("%w: %q", ErrActivityNotFound, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if slices.Contains(e.activity.Participants, email) {
		return Activity{}, fmt.Errorf("%w: %s in %q", ErrAlreadySignedUp, email, name)
	}
	e.activity.Participants = append(e.activity.Participants, email)
	return e.activity.clone(), nil
}

// Unregister removes email from the roster of the named activity and
// returns the updated activity. The order of the remaining participants is
// preserved.
func (c *Catalog) Unregister(name, email string) (Activity, error) {
	e, ok := c.entries[name]
	if !ok {
		return Activity{}, fmt.Errorf("%w: %q", ErrActivityNotFound, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idx := slices.Index(e.activity.Participants, email)
	if idx < 0 {
		return Activity{}, fmt.Errorf("%w: %s in %q", ErrNotSignedUp, email, name)
	}
	e.activity.Participants = slices.Delete(e.activity.Participants, idx, idx+1)
	return e.activity.clone(), nil
}
