package domain

import (
	"errors"
	"fmt"
)

// Domain-specific errors for the resolve and submit flows
var (
	// ErrNotFound is returned when the remote service does not know a short code
	ErrNotFound = errors.New("short code not found")

	// ErrMalformedResponse is returned when the remote service answers with an unusable body
	ErrMalformedResponse = errors.New("malformed response from link service")

	// ErrEmptyURL is returned when a submission is attempted without input
	ErrEmptyURL = errors.New("url is required")

	// ErrSubmissionPending is returned while a previous submission is still in flight
	ErrSubmissionPending = errors.New("a submission is already in progress")

	// ErrWrongMode is returned when submitting while the view is resolving a short code
	ErrWrongMode = errors.New("submission is only available in shorten mode")

	// ErrNothingToCopy is returned when there is no short link to copy yet
	ErrNothingToCopy = errors.New("no short url to copy")

	// ErrViewClosed is returned when an operation targets a torn down view
	ErrViewClosed = errors.New("view is closed")

	// ErrSessionNotFound is returned when a session has expired or never existed
	ErrSessionNotFound = errors.New("session not found")
)

// ResolutionError reports a failed short code lookup
// Whatever the cause, the user only ever sees MsgInvalidOrExpired
type ResolutionError struct {
	Code string
	Err  error
}

// Error implements the error interface
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %q: %v", e.Code, e.Err)
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// UserMessage is the banner text for a failed resolution
func (e *ResolutionError) UserMessage() string {
	return MsgInvalidOrExpired
}

// SubmissionError reports a failed shorten call
type SubmissionError struct {
	Detail string // Service provided detail, may be empty
	Err    error
}

// NewSubmissionError creates a submission error with an optional service detail
func NewSubmissionError(err error, detail string) *SubmissionError {
	return &SubmissionError{
		Err:    err,
		Detail: detail,
	}
}

// Error implements the error interface
func (e *SubmissionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("shorten: %s", e.Detail)
	}
	return fmt.Sprintf("shorten: %v", e.Err)
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// UserMessage prefers the service detail over the generic message
func (e *SubmissionError) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return MsgGenericError
}

// UserMessage returns the banner text for any error produced by this module
func UserMessage(err error) string {
	var resErr *ResolutionError
	var subErr *SubmissionError

	switch {
	case errors.As(err, &resErr):
		return resErr.UserMessage()
	case errors.As(err, &subErr):
		return subErr.UserMessage()
	default:
		return MsgGenericError
	}
}
