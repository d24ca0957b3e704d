package core

import (
	"errors"
	"fmt"
)

// The three failure kinds the orchestrator distinguishes:
//
//   - TransientError: an external capability timed out or was unavailable.
//     Retryable with backoff up to a bounded attempt count.
//   - ContentError: the generation capability returned unusable output.
//     Never retried; the turn falls back to a canned response.
//   - InvariantViolation: a programming error such as an eviction on an
//     empty container. Surfaced loudly, never silently absorbed.

// TransientError wraps a retryable external failure.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: transient failure: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Transient marks err as a retryable external failure of operation op.
func Transient(op string, err error) error {
	return &TransientError{Op: op, Err: err}
}

// IsTransient reports whether err (or anything it wraps) is transient.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// ContentError wraps unusable generation output.
type ContentError struct {
	Reason string
}

func (e *ContentError) Error() string {
	return "content failure: " + e.Reason
}

// Content reports a generation result that cannot be used.
func Content(reason string) error {
	return &ContentError{Reason: reason}
}

// IsContent reports whether err is a content failure.
func IsContent(err error) bool {
	var ce *ContentError
	return errors.As(err, &ce)
}

// ErrInvariant is the sentinel all invariant violations wrap.
var ErrInvariant = errors.New("invariant violation")

// Invariantf builds an invariant violation with a formatted description.
func Invariantf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvariant}, args...)...)
}
