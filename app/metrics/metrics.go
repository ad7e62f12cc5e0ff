package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecordsProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulse",
		Name:      "records_processed_total",
		Help:      "Number of processed records by source and outcome",
	}, []string{"source", "outcome"})

	SourceFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulse",
		Name:      "source_failures_total",
		Help:      "Number of source fetches that failed after retries",
	}, []string{"source"})

	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pulse",
		Name:      "run_duration_seconds",
		Help:      "Time spent on a full scrape run",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	})
)

func init() {
	prometheus.MustRegister(RecordsProcessed, SourceFailures, RunDuration)
}
