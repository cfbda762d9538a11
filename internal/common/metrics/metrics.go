package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admissions_submissions_total",
			Help: "Total number of form submissions by form and tracker outcome",
		},
		[]string{"form", "outcome"},
	)

	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admissions_classifications_total",
			Help: "Total number of classifications by stage and result",
		},
		[]string{"stage", "result"},
	)

	SideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admissions_side_effect_failures_total",
			Help: "Total number of failed best-effort pipeline steps",
		},
		[]string{"step"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "admissions_pipeline_duration_seconds",
			Help:    "Duration of submission handling in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"form"},
	)

	PipelineInflight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "admissions_pipeline_inflight",
			Help: "Number of submissions currently being handled",
		},
	)
)

// Classification results.
const (
	ResultOK       = "ok"
	ResultFallback = "fallback"
	ResultDisabled = "disabled"
)
