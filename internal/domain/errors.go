package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies adapter and orchestrator failures independent
// of any wire format.
type ErrorKind string

const (
	// KindNotFound: the requested track does not resolve on its platform.
	KindNotFound ErrorKind = "not_found"
	// KindUnavailable: adapter misconfigured or currently disabled.
	KindUnavailable ErrorKind = "unavailable"
	// KindUnsupported: operation not offered by the adapter's
	// capability set. A branch signal for the orchestrator, not
	// necessarily a caller-visible failure.
	KindUnsupported ErrorKind = "unsupported"
	// KindMalformedID: caller-supplied id or URL does not match the
	// platform's expected shape; rejected before any remote call.
	KindMalformedID ErrorKind = "malformed_id"
	// KindRemote: upstream 4xx/5xx or transport failure.
	KindRemote ErrorKind = "remote_error"
	// KindTimeout: a bounded operation exceeded its budget.
	KindTimeout ErrorKind = "timeout"
	// KindLocalIO: expected artifact missing, truncated, or unwritable
	// after a reported-successful remote operation.
	KindLocalIO ErrorKind = "local_io"
)

// PlatformError is the structured error returned from adapter
// operations. Logging happens at the caller boundary, not inside
// adapter control flow.
type PlatformError struct {
	Kind   ErrorKind
	Source PlatformSource
	Op     string
	Msg    string
	Err    error
}

func (e *PlatformError) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s: %s: %s: %s", e.Source, e.Op, e.Kind, msg)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// Errf builds a PlatformError with a formatted message.
func Errf(kind ErrorKind, source PlatformSource, op, format string, args ...interface{}) *PlatformError {
	return &PlatformError{Kind: kind, Source: source, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// WrapErr builds a PlatformError around an underlying cause. Context
// deadline errors are reclassified as timeouts regardless of the kind
// the call site assumed.
func WrapErr(kind ErrorKind, source PlatformSource, op string, err error) *PlatformError {
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &PlatformError{Kind: kind, Source: source, Op: op, Err: err}
}

// KindOf extracts the error kind, defaulting to KindRemote for
// untyped errors and KindTimeout for deadline expiry.
func KindOf(err error) ErrorKind {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindRemote
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
