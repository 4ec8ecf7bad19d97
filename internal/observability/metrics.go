package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "readaloud_pipeline_runs_total",
		Help: "Pipeline runs by outcome (completed or error kind)",
	}, []string{"outcome"})

	stageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "readaloud_stage_duration_seconds",
		Help:    "Duration of pipeline stages in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"stage"})

	extractionAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "readaloud_extraction_attempts_total",
		Help: "Extraction strategy attempts by strategy and result",
	}, []string{"strategy", "result"})

	textLevels = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "readaloud_text_processing_total",
		Help: "Text processing results by degradation level",
	}, []string{"level"})

	synthesisRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "readaloud_synthesis_requests_total",
		Help: "Synthesis requests by provider and status",
	}, []string{"provider", "status"})

	audioBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "readaloud_audio_bytes",
		Help:    "Size of synthesized audio payloads in bytes",
		Buckets: prometheus.ExponentialBuckets(16*1024, 2, 10),
	})

	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "readaloud_circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
	}, []string{"name"})
)

// RecordPipelineRun counts a finished pipeline run
func RecordPipelineRun(outcome string) {
	pipelineRuns.WithLabelValues(outcome).Inc()
}

// ObserveStage records how long a stage took
func ObserveStage(stage string, d time.Duration) {
	stageLatency.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordExtractionAttempt counts one strategy attempt; result is "ok",
// "error", "empty" or "short".
func RecordExtractionAttempt(strategy, result string) {
	extractionAttempts.WithLabelValues(strategy, result).Inc()
}

// RecordTextLevel counts which degradation level text processing ended at
func RecordTextLevel(level string) {
	textLevels.WithLabelValues(level).Inc()
}

// RecordSynthesis counts a synthesis request for a provider
func RecordSynthesis(provider string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	synthesisRequests.WithLabelValues(provider, status).Inc()
}

// ObserveAudioBytes records the size of a synthesized payload
func ObserveAudioBytes(n int) {
	audioBytes.Observe(float64(n))
}

// SetBreakerState publishes the state of a named circuit breaker
func SetBreakerState(name string, state int) {
	breakerState.WithLabelValues(name).Set(float64(state))
}
