package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels for SignupMetrics.
const (
	OperationSignup     = "signup"
	OperationUnregister = "unregister"
)

// Result labels for SignupMetrics.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultConflict = "conflict"
	ResultInvalid  = "invalid"
)

// SignupMetrics records roster changes.
type SignupMetrics struct {
	requests     CounterVec
	participants GaugeVec
	capacity     GaugeVec
}

// NewSignupMetrics creates the signup metrics on reg.
func NewSignupMetrics(reg Registry) (*SignupMetrics, error) {
	requests, err := reg.NewCounterVec(prometheus.CounterOpts{
		Name: "signup_requests_total",
		Help: "Signup and unregister requests by outcome.",
	}, []string{"operation", "result"})
	if err != nil {
		return nil, fmt.Errorf("creating signup request counter: %w", err)
	}

	participants, err := reg.NewGaugeVec(prometheus.GaugeOpts{
		Name: "activity_participants",
		Help: "Number of students signed up for each activity.",
	}, []string{"activity"})
	if err != nil {
		return nil, fmt.Errorf("creating participants gauge: %w", err)
	}

	capacity, err := reg.NewGaugeVec(prometheus.GaugeOpts{
		Name: "activity_capacity",
		Help: "Advertised maximum participants for each activity.",
	}, []string{"activity"})
	if err != nil {
		return nil, fmt.Errorf("creating capacity gauge: %w", err)
	}

	return &SignupMetrics{
		requests:     requests,
		participants: participants,
		capacity:     capacity,
	}, nil
}

// RecordRequest counts one signup or unregister request.
func (m *SignupMetrics) RecordRequest(operation, result string) {
	m.requests.With(prometheus.Labels{"operation": operation, "result": result}).Inc()
}

// SetEnrollment records the roster size and capacity of an activity.
func (m *SignupMetrics) SetEnrollment(activity string, participants, capacity int) {
	labels := prometheus.Labels{"activity": activity}
	m.participants.With(labels).Set(float64(participants))
	m.capacity.With(labels).Set(float64(capacity))
}
