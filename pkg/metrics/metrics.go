// Package metrics exposes the Prometheus counters of the contact service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RateLimitDecisions counts CheckLimit results by decision (allowed, denied).
	RateLimitDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_rate_limit_decisions_total",
		Help: "Rate limiter decisions by outcome",
	}, []string{"decision"})

	// RateLimitTracked is the number of identifiers currently held by the limiter.
	RateLimitTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "contact_rate_limit_tracked_identifiers",
		Help: "Identifiers with at least one recorded attempt",
	})

	// Submissions counts contact form submissions by terminal state.
	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_submissions_total",
		Help: "Contact form submissions by terminal state",
	}, []string{"state"})

	// SecurityEvents counts security log records by event tag.
	SecurityEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_security_events_total",
		Help: "Security log records by event",
	}, []string{"event"})

	// SecurityLogWriteFailures counts log entries that could not be persisted.
	SecurityLogWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contact_security_log_write_failures_total",
		Help: "Security log entries dropped because storage failed",
	})
)
