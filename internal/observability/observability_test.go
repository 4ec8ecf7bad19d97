package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "debug")

	logger := WithRequestID("req-123")
	logger.Info().Msg("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["request_id"] != "req-123" {
		t.Errorf("request_id = %v, want req-123", entry["request_id"])
	}
	if entry["message"] != "hello" {
		t.Errorf("message = %v, want hello", entry["message"])
	}
}

func TestWithRequestIDGeneratesID(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "info")

	logger := WithRequestID("")
	logger.Info().Msg("x")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	id, _ := entry["request_id"].(string)
	if len(id) != 36 {
		t.Errorf("generated request_id %q is not a UUID", id)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "warn")
	defer SetOutput(&bytes.Buffer{}, "info")

	logger := Component("test")
	logger.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Errorf("info line written at warn level: %q", buf.String())
	}
	logger.Warn().Msg("kept")
	if buf.Len() == 0 {
		t.Error("warn line was not written")
	}
}

func TestNewRequestIDUnique(t *testing.T) {
	if NewRequestID() == NewRequestID() {
		t.Error("NewRequestID returned the same ID twice")
	}
}

func TestMetricsRecorders(t *testing.T) {
	before := testutil.ToFloat64(pipelineRuns.WithLabelValues("completed"))
	RecordPipelineRun("completed")
	if got := testutil.ToFloat64(pipelineRuns.WithLabelValues("completed")); got != before+1 {
		t.Errorf("pipeline runs = %v, want %v", got, before+1)
	}

	beforeErr := testutil.ToFloat64(synthesisRequests.WithLabelValues("mock", "error"))
	RecordSynthesis("mock", errors.New("boom"))
	if got := testutil.ToFloat64(synthesisRequests.WithLabelValues("mock", "error")); got != beforeErr+1 {
		t.Errorf("synthesis errors = %v, want %v", got, beforeErr+1)
	}

	SetBreakerState("llm", 2)
	if got := testutil.ToFloat64(breakerState.WithLabelValues("llm")); got != 2 {
		t.Errorf("breaker state = %v, want 2", got)
	}

	// Histograms only need to accept observations.
	ObserveStage("extract", 150*time.Millisecond)
	ObserveAudioBytes(4096)
	RecordExtractionAttempt("article", "short")
	RecordTextLevel("structured")
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("Expected empty request ID, got %q", got)
	}

	ctx = ContextWithRequestID(ctx, "req-42")
	if got := RequestIDFromContext(ctx); got != "req-42" {
		t.Errorf("Expected req-42, got %q", got)
	}
}
