// Package observability holds the Prometheus collectors shared across the tracker.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	actionsAccepted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "action_tracker",
		Subsystem: "ingest",
		Name:      "actions_accepted_total",
		Help:      "Number of action records folded into the tracker, by source.",
	}, []string{"source"})

	actionsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "action_tracker",
		Subsystem: "ingest",
		Name:      "actions_rejected_total",
		Help:      "Number of action records rejected by parsing or validation, by source and reason.",
	}, []string{"source", "reason"})

	journalErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "action_tracker",
		Subsystem: "journal",
		Name:      "append_errors_total",
		Help:      "Number of accepted records that could not be written to the journal.",
	})

	activitiesTracked = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "action_tracker",
		Subsystem: "ingest",
		Name:      "activities_tracked",
		Help:      "Number of distinct activity names held by the tracker.",
	})

	lastAcceptedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "action_tracker",
		Subsystem: "ingest",
		Name:      "last_action_accepted_timestamp_seconds",
		Help:      "Unix timestamp of the most recently accepted action record.",
	})
)

func init() {
	prometheus.MustRegister(actionsAccepted, actionsRejected, journalErrors, activitiesTracked, lastAcceptedGauge)
}

// RecordAccepted counts an accepted record and updates the tracker gauges.
func RecordAccepted(source string, activities int, ts time.Time) {
	actionsAccepted.WithLabelValues(source).Inc()
	activitiesTracked.Set(float64(activities))
	if !ts.IsZero() {
		lastAcceptedGauge.Set(float64(ts.Unix()))
	}
}

// RecordRejected counts a rejected record. reason is "parse" or the offending field.
func RecordRejected(source, reason string) {
	actionsRejected.WithLabelValues(source, reason).Inc()
}

// RecordJournalError counts a failed journal append.
func RecordJournalError() {
	journalErrors.Inc()
}
