package pipeline

// State is a step of a single pipeline run
type State int

const (
	StateReceived State = iota
	StateExtracting
	StateExtracted
	StateExtractionFailed
	StateProcessing
	StateProcessed
	StateSynthesizing
	StateSynthesized
	StateSynthesisFailed
	StateStreaming
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateExtracting:
		return "extracting"
	case StateExtracted:
		return "extracted"
	case StateExtractionFailed:
		return "extraction_failed"
	case StateProcessing:
		return "processing"
	case StateProcessed:
		return "processed"
	case StateSynthesizing:
		return "synthesizing"
	case StateSynthesized:
		return "synthesized"
	case StateSynthesisFailed:
		return "synthesis_failed"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}
