// Package metrics holds the Prometheus collectors of the recommendation service.
package metrics

import (
	"time"

	"wtf2eat-be/pkg/ai/pipeline"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PipelineRuns counts finished runs by route and terminal status.
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_runs_total",
			Help: "Total number of recommendation pipeline runs",
		},
		[]string{"route", "status"},
	)

	PipelineTokens = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_llm_tokens_total",
			Help: "Language model tokens spent by recommendation runs",
		},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_stage_duration_seconds",
			Help:    "Duration of recommendation pipeline stages",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"stage", "outcome"},
	)

	// PlacesCacheLookups counts place id lookups in the restaurant cache.
	// outcome is "hit" or "miss"; a miss costs a details and a photo call.
	PlacesCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_cache_lookups_total",
			Help: "Restaurant cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)

// PipelineObserver feeds pipeline stages and runs into the collectors.
type PipelineObserver struct{}

func (PipelineObserver) ObserveStage(stage string, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	StageDuration.WithLabelValues(stage, outcome).Observe(elapsed.Seconds())
}

func (PipelineObserver) ObserveRun(state pipeline.State, terminal pipeline.Event) {
	route := string(state.Route)
	if route == "" {
		route = "undecided"
	}
	PipelineRuns.WithLabelValues(route, string(terminal.Status)).Inc()
	PipelineTokens.Add(float64(state.TokenUsage))
}
