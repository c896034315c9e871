// Package cron runs jobs on a cron schedule.
//
// A Trigger wraps a Runnable and executes it according to a cron schedule.
// It is designed to be started once and run until the context is cancelled.
//
// Example usage:
//
//	trigger, err := cron.NewTrigger("*/15 * * * *", "enrollment_report", reporter, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	trigger.Start(ctx)  // Returns immediately, runs in background
//	<-ctx.Done()
//	trigger.Wait()
package cron

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalidCronSpec is returned when the cron specification cannot be parsed.
var ErrInvalidCronSpec = errors.New("invalid cron spec")

// Runnable is implemented by anything that can be triggered by the scheduler.
type Runnable interface {
	Run(ctx context.Context) error
}

// RunnableFunc adapts a function to the Runnable interface.
type RunnableFunc func(ctx context.Context) error

// Run calls f(ctx).
func (f RunnableFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Trigger executes a Runnable according to a cron schedule.
type Trigger struct {
	spec     string
	name     string
	schedule cron.Schedule
	runnable Runnable
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewTrigger creates a new Trigger with the given cron specification.
// The spec follows standard cron format (5 fields: minute, hour, day, month, weekday).
// Returns ErrInvalidCronSpec if the specification cannot be parsed.
func NewTrigger(spec, name string, runnable Runnable, logger *slog.Logger) (*Trigger, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, errors.Join(ErrInvalidCronSpec, err)
	}

	return &Trigger{
		spec:     spec,
		name:     name,
		schedule: schedule,
		runnable: runnable,
		logger:   logger.With("job", name),
	}, nil
}

// Spec returns the cron specification the trigger was built from.
func (t *Trigger) Spec() string {
	return t.spec
}

// Start launches a goroutine that triggers runs according to the cron schedule.
// Returns immediately. The goroutine exits when ctx is cancelled.
func (t *Trigger) Start(ctx context.Context) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.loop(ctx)
	}()
}

// Wait blocks until the goroutine launched by Start has exited.
func (t *Trigger) Wait() {
	t.wg.Wait()
}

// NextRun returns the next scheduled run time from now.
func (t *Trigger) NextRun() time.Time {
	return t.schedule.Next(time.Now())
}

func (t *Trigger) loop(ctx context.Context) {
	for {
		nextRun := t.schedule.Next(time.Now())
		waitDuration := time.Until(nextRun)

		t.logger.Debug("waiting for next scheduled run",
			"next_run", nextRun,
			"wait_duration", waitDuration,
		)

		timer := time.NewTimer(waitDuration)
		select {
		case <-ctx.Done():
			timer.Stop()
			t.logger.Info("cron trigger shutting down")
			return
		case <-timer.C:
			t.executeRun(ctx)
		}
	}
}

// executeRun executes the runnable and logs the result.
func (t *Trigger) executeRun(ctx context.Context) {
	t.logger.Info("starting scheduled run")

	if err := t.runnable.Run(ctx); err != nil {
		t.logger.Warn("scheduled run completed with error", "error", err)
	} else {
		t.logger.Info("scheduled run completed successfully")
	}
}
