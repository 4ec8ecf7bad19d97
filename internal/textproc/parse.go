package textproc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// errMissingKey marks a reply that is valid JSON but lacks a required field
var errMissingKey = errors.New("missing key in model response")

// structuredReply is the JSON object the model is asked to return
type structuredReply struct {
	CleanedText *string `json:"cleaned_text"`
	Summary     *string `json:"summary"`
}

// parseReply decodes a structured reply. Both keys must be present and
// non-empty; anything else is a parse failure.
func parseReply(raw string) (cleaned, summary string, err error) {
	var reply structuredReply
	if err := json.Unmarshal([]byte(stripFence(raw)), &reply); err != nil {
		return "", "", fmt.Errorf("decoding model response: %w", err)
	}

	if reply.CleanedText == nil || strings.TrimSpace(*reply.CleanedText) == "" {
		return "", "", fmt.Errorf("%w: cleaned_text", errMissingKey)
	}
	if reply.Summary == nil || strings.TrimSpace(*reply.Summary) == "" {
		return "", "", fmt.Errorf("%w: summary", errMissingKey)
	}

	return strings.TrimSpace(*reply.CleanedText), strings.TrimSpace(*reply.Summary), nil
}

// stripFence trims raw and removes a surrounding ``` fence together with an
// optional language tag such as ```json. Anything after the closing fence
// is dropped.
func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// Drop the opening line, which carries the language tag
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "json")
	}

	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}
