package chat

import (
	"errors"
	"fmt"
)

// StatusError carries the HTTP-style failure class of a remote call.
// The code taxonomy is load-bearing: the user-facing copy below keys off
// exactly these values.
type StatusError struct {
	Code int
	Msg  string
}

func (e *StatusError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("request failed with status %d", e.Code)
}

// NewStatusError builds a classified failure.
func NewStatusError(code int, msg string) *StatusError {
	return &StatusError{Code: code, Msg: msg}
}

// StatusCode extracts the failure class from err, defaulting to 500.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 500
}

// ErrEmptyTitle is raised locally, before any network call, when a title
// edit would persist a blank title.
var ErrEmptyTitle = errors.New("title cannot be empty")

// ErrCreateFailed aborts a submission whose conversation stub could not
// be persisted; the message is never silently lost.
var ErrCreateFailed = errors.New("failed to create conversation")

// Operation identifies which user action failed, selecting the copy set.
type Operation int

const (
	OpEnhancePrompt Operation = iota
	OpSuggestTitle
	OpUpdateTitle
	OpSendMessage
)

var genericCopy = map[Operation]string{
	OpEnhancePrompt: "Failed to enhance prompt",
	OpSuggestTitle:  "Failed to generate chat title",
	OpUpdateTitle:   "Failed to update title",
	OpSendMessage:   "Failed to send message",
}

var retryCopy = map[Operation]string{
	OpEnhancePrompt: "Rate limit reached. Please wait a moment before enhancing again.",
	OpSuggestTitle:  "Rate limit reached. Please wait a moment before generating another chat name.",
	OpUpdateTitle:   "Rate limit reached. Please wait a moment before renaming again.",
	OpSendMessage:   "Rate limit reached. Please wait a moment before sending again.",
}

var timeoutCopy = map[Operation]string{
	OpEnhancePrompt: "Request timed out while enhancing prompt. Please try again.",
	OpSuggestTitle:  "Request timed out while generating chat name. Please try again.",
	OpUpdateTitle:   "Request timed out while updating title. Please try again.",
	OpSendMessage:   "Request timed out. Please try again.",
}

// UserMessage maps a failure to the exact copy the UI shows. Distinct
// classes get distinct messages; anything unrecognized falls back to the
// operation's generic failure line.
func UserMessage(op Operation, err error) string {
	if errors.Is(err, ErrEmptyTitle) {
		return "Title cannot be empty"
	}
	switch StatusCode(err) {
	case 429:
		return retryCopy[op]
	case 408:
		return timeoutCopy[op]
	case 401:
		return "Authentication error. Please refresh and try again."
	case 503:
		return "Service temporarily unavailable. Please try again later."
	default:
		return genericCopy[op]
	}
}
