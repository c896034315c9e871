// Package handlers provides HTTP handlers for the signup server.
//
// Each handler is in its own file and implements http.Handler.
// Handlers use interfaces to access server dependencies, avoiding
// circular imports.
package handlers

import (
	"time"

	"github.com/nomis52/mergington/buildinfo"
	"github.com/nomis52/mergington/catalog"
	"github.com/nomis52/mergington/server/config"
)

// Roster reads and changes activity participant lists.
type Roster interface {
	List() []catalog.Activity
	Signup(name, email string) (catalog.Activity, error)
	Unregister(name, email string) (catalog.Activity, error)
}

// Recorder records the outcome of roster changes.
type Recorder interface {
	RecordRequest(operation, result string)
	SetEnrollment(activity string, participants, capacity int)
}

// ConfigProvider provides access to the current configuration.
type ConfigProvider interface {
	Config() *config.ServerConfig
}

// Reloader can reload its configuration.
type Reloader interface {
	Reload() error
}

// StatusProvider provides the data shown on /api/status.
type StatusProvider interface {
	BuildInfo() buildinfo.Properties
	StartedAt() time.Time
	NextReport() *time.Time
	LastReport() *time.Time
}
