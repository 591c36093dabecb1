// Package metrics declares the process-wide prometheus instruments.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "beaver_events_ingested_total",
		Help: "Events accepted through the ingestion endpoint, by project.",
	}, []string{"project"})

	IngestRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "beaver_ingest_rejected_total",
		Help: "Ingestion requests rejected before insert, by reason.",
	}, []string{"reason"})

	StreamConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beaver_stream_connections",
		Help: "Open SSE tail connections.",
	})

	StreamPolls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beaver_stream_polls_total",
		Help: "Poll iterations executed by tailers.",
	})

	QueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "beaver_event_query_duration_seconds",
		Help:    "Latency of event list queries.",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveQuery starts a query latency observation and returns its stop func.
func ObserveQuery() func() {
	start := time.Now()
	return func() {
		QueryDuration.Observe(time.Since(start).Seconds())
	}
}
