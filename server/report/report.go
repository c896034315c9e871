// Package report pushes enrollment figures for every activity to a remote
// write endpoint. It is run on a schedule by a cron.Trigger.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nomis52/mergington/catalog"
	"github.com/nomis52/mergington/metrics"
)

// ActivityLister provides a snapshot of all activities.
type ActivityLister interface {
	List() []catalog.Activity
}

// Pusher sends recorded metrics to their destination.
type Pusher interface {
	Push(ctx context.Context) error
}

// PushRegistry is a metrics registry whose values are sent on Push.
type PushRegistry interface {
	metrics.Registry
	Pusher
}

// Reporter records enrollment for each activity and pushes it.
type Reporter struct {
	lister  ActivityLister
	metrics *metrics.SignupMetrics
	pusher  Pusher
	logger  *slog.Logger

	mu      sync.Mutex
	lastRun time.Time
}

// New creates a Reporter that records onto reg.
func New(lister ActivityLister, reg PushRegistry, logger *slog.Logger) (*Reporter, error) {
	m, err := metrics.NewSignupMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("creating report metrics: %w", err)
	}
	return &Reporter{
		lister:  lister,
		metrics: m,
		pusher:  reg,
		logger:  logger,
	}, nil
}

// Run implements cron.Runnable.
func (r *Reporter) Run(ctx context.Context) error {
	activities := r.lister.List()
	participants := 0
	for _, a := range activities {
		r.metrics.SetEnrollment(a.Name, len(a.Participants), a.MaxParticipants)
		participants += len(a.Participants)
	}

	if err := r.pusher.Push(ctx); err != nil {
		return fmt.Errorf("pushing enrollment report: %w", err)
	}

	r.mu.Lock()
	r.lastRun = time.Now()
	r.mu.Unlock()

	r.logger.Info("enrollment report pushed",
		"activities", len(activities),
		"participants", participants,
	)
	return nil
}

// LastRun returns when the last successful push happened, or nil if none has.
func (r *Reporter) LastRun() *time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastRun.IsZero() {
		return nil
	}
	t := r.lastRun
	return &t
}
