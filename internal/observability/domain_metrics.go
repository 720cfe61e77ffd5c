package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	schemaGenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlcoach_schema_generations_total",
			Help: "Total number of schema generation responses by source.",
		},
		[]string{"source"},
	)
	coachingResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlcoach_coaching_responses_total",
			Help: "Total number of error coaching responses by source.",
		},
		[]string{"source"},
	)
	providerLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sqlcoach_provider_latency_ms",
			Help:    "Text-generation provider round-trip latency in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
	)
	statementsAppliedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqlcoach_statements_applied_total",
			Help: "Total number of schema statements applied successfully.",
		},
	)
	statementsFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqlcoach_statements_failed_total",
			Help: "Total number of schema statements that failed to apply.",
		},
	)
	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlcoach_queries_total",
			Help: "Total number of ad hoc queries by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		schemaGenerationsTotal,
		coachingResponsesTotal,
		providerLatencyMs,
		statementsAppliedTotal,
		statementsFailedTotal,
		queriesTotal,
	)
}

func ObserveSchemaGeneration(source string, elapsed time.Duration) {
	schemaGenerationsTotal.WithLabelValues(source).Inc()
	providerLatencyMs.Observe(float64(elapsed.Milliseconds()))
}

func ObserveCoaching(source string, elapsed time.Duration) {
	coachingResponsesTotal.WithLabelValues(source).Inc()
	providerLatencyMs.Observe(float64(elapsed.Milliseconds()))
}

func ObserveSchemaLoad(applied, failed int) {
	if applied > 0 {
		statementsAppliedTotal.Add(float64(applied))
	}
	if failed > 0 {
		statementsFailedTotal.Add(float64(failed))
	}
}

func ObserveQuery(ok bool) {
	if ok {
		queriesTotal.WithLabelValues("ok").Inc()
	} else {
		queriesTotal.WithLabelValues("error").Inc()
	}
}
