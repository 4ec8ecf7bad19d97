package pipeline

import (
	"fmt"
	"net/http"
)

// Kind classifies pipeline failures
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindContentTooShort
	KindExtractionFailed
	KindSynthesisFailed
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindContentTooShort:
		return "content_too_short"
	case KindExtractionFailed:
		return "extraction_failed"
	case KindSynthesisFailed:
		return "synthesis_failed"
	default:
		return "internal"
	}
}

// HTTPStatus returns the status code a transport should answer with
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindContentTooShort, KindExtractionFailed:
		return http.StatusUnprocessableEntity
	case KindSynthesisFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a categorized pipeline failure. Message is safe to show to
// callers; Err keeps the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work
// with errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidInput     = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrContentTooShort  = &Error{Kind: KindContentTooShort, Message: "content too short"}
	ErrExtractionFailed = &Error{Kind: KindExtractionFailed, Message: "extraction failed"}
	ErrSynthesisFailed  = &Error{Kind: KindSynthesisFailed, Message: "audio generation failed"}
	ErrInternal         = &Error{Kind: KindInternal, Message: "internal error"}
)

func invalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func synthesisFailed(err error) *Error {
	return &Error{Kind: KindSynthesisFailed, Message: fmt.Sprintf("audio generation failed: %v", err), Err: err}
}

func internalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error while generating audio", Err: err}
}
