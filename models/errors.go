package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a pipeline step failed.
type ErrorKind string

const (
	KindInvalidInput        ErrorKind = "invalid_input"
	KindUpstreamNotFound    ErrorKind = "upstream_not_found"
	KindUpstreamRateLimited ErrorKind = "upstream_rate_limited"
	KindUpstreamUnavailable ErrorKind = "upstream_unavailable"
	KindDecodeFailure       ErrorKind = "decode_failure"
	KindExtractionFailure   ErrorKind = "extraction_failure"
	KindTransportFailure    ErrorKind = "transport_failure"
	KindModelFailure        ErrorKind = "model_failure"
)

// ErrorResult is the failure variant of every pipeline step. Callers receive
// either a complete result or an *ErrorResult, never both.
type ErrorResult struct {
	Kind    ErrorKind `json:"-"`
	Message string    `json:"error"`
	// Status is the upstream HTTP status, when one was received.
	Status int   `json:"-"`
	Err    error `json:"-"`
}

func (e *ErrorResult) Error() string { return e.Message }

func (e *ErrorResult) Unwrap() error { return e.Err }

// Fail builds an ErrorResult with a fixed message.
func Fail(kind ErrorKind, msg string) *ErrorResult {
	return &ErrorResult{Kind: kind, Message: msg}
}

// Failf builds an ErrorResult with a formatted message.
func Failf(kind ErrorKind, format string, args ...any) *ErrorResult {
	return &ErrorResult{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithStatus records the upstream HTTP status.
func (e *ErrorResult) WithStatus(status int) *ErrorResult {
	e.Status = status
	return e
}

// WithCause records the underlying error for errors.Is/As.
func (e *ErrorResult) WithCause(err error) *ErrorResult {
	e.Err = err
	return e
}

// AsErrorResult returns the ErrorResult carried by err. Errors that are not
// ErrorResults are reported as transport failures with their own message.
func AsErrorResult(err error) *ErrorResult {
	if err == nil {
		return nil
	}
	var er *ErrorResult
	if errors.As(err, &er) {
		return er
	}
	return &ErrorResult{Kind: KindTransportFailure, Message: err.Error(), Err: err}
}

// IsKind reports whether err carries an ErrorResult of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var er *ErrorResult
	return errors.As(err, &er) && er.Kind == kind
}
