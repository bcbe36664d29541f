package jsonrpc

import (
	"errors"
	"fmt"
)

// ErrClosed is returned (or wrapped) by transports whose underlying channel
// has shut down mid-call.
var ErrClosed = errors.New("transport closed")

// IOError wraps a transport-level failure, including abrupt shutdown signals
// which are folded into this type rather than leaking transport internals.
type IOError struct {
	cause error
}

func (err IOError) Error() string {
	return fmt.Sprintf("transport error: %s", err.cause)
}

func (err IOError) Cause() error {
	return err.cause
}

func (err IOError) Unwrap() error {
	return err.cause
}

// TimeoutError is returned when no reply arrived within the configured
// window.
type TimeoutError struct {
	Method string
}

func (err TimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for reply: %s", err.Method)
}

func (err TimeoutError) Timeout() bool {
	return true
}

// ProcedureNotFoundError is returned when the service description has no
// procedure for a name and arity.
type ProcedureNotFoundError struct {
	Method string
	Arity  int
}

func (err ProcedureNotFoundError) Error() string {
	return fmt.Sprintf("procedure not found: %s/%d", err.Method, err.Arity)
}

// NumberFormatError is returned by the legacy string coercion when a value
// parses as neither integer nor float.
type NumberFormatError struct {
	Value string
}

func (err NumberFormatError) Error() string {
	return fmt.Sprintf("not a number: %q", err.Value)
}

// BadTypeError is returned by the legacy string coercion for an unknown type
// tag.
type BadTypeError struct {
	Type string
}

func (err BadTypeError) Error() string {
	return fmt.Sprintf("bad type: %q", err.Type)
}

// InvalidProxyError is returned by Proxy for targets it cannot fill.
type InvalidProxyError struct {
	Reason string
}

func (err InvalidProxyError) Error() string {
	return fmt.Sprintf("invalid proxy target: %s", err.Reason)
}
