package publisher

import "github.com/prometheus/client_golang/prometheus"

var (
	publishedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "action_tracker",
		Subsystem: "publisher",
		Name:      "snapshots_published_total",
		Help:      "Number of stats snapshots written to Kafka.",
	})

	publishErrorCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "action_tracker",
		Subsystem: "publisher",
		Name:      "publish_errors_total",
		Help:      "Number of stats snapshots that failed to publish.",
	})

	publishDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "action_tracker",
		Subsystem: "publisher",
		Name:      "publish_duration_seconds",
		Help:      "Time spent writing a stats snapshot to Kafka.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(publishedCounter, publishErrorCounter, publishDuration)
}
