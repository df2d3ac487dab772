// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

package monsys

import (
	"errors"
	"fmt"

	"github.com/leyyce/monitoring-system-driver/internal/frame"
)

// Sentinel errors returned by the write path. Every gate fails fast with one
// of these before any observable side effect; only the buffer copy and the
// line toggling mutate anything, and both run after all validation.
var (
	// ErrNotAttached is returned while no transport owns the hardware lines.
	// Recoverable: the caller may retry after the device is attached.
	ErrNotAttached = errors.New("no device attached")

	// ErrPayloadTooLarge is returned for payloads that do not leave room for
	// the checksum trailer. The oversized input is rejected wholesale before
	// any copy; nothing is ever truncated or partially transmitted.
	ErrPayloadTooLarge = frame.ErrPayloadTooLarge

	// ErrCopyFault is returned when the caller-supplied source cannot deliver
	// the announced number of payload bytes. No transmission is attempted.
	ErrCopyFault = errors.New("copying payload into frame buffer failed")

	// ErrTransportClosed is returned by a transport whose hardware handles
	// have been released.
	ErrTransportClosed = errors.New("transport closed")

	// ErrLineWrite is returned when driving an output line fails mid-frame.
	// Fatal for the invocation: the wire state is unknown and there is no
	// protocol-level recovery, so it is never retried automatically.
	ErrLineWrite = errors.New("output line write failed")
)

// ErrorType classifies transport errors for callers that implement their own
// retry policy at the application layer.
type ErrorType int

const (
	// ErrorTypePermanent marks errors that will not go away on retry
	// (released lines, invalid handles, mid-frame hardware faults).
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient marks errors worth retrying after the condition
	// clears (device not yet attached).
	ErrorTypeTransient
	// ErrorTypeTimeout marks admission deadline expiry.
	ErrorTypeTimeout
)

// TransportError wraps a failure inside a transport with the operation and
// port/line it happened on.
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("monsys %s [%s]", e.Op, e.Port)
	}
	return fmt.Sprintf("monsys %s [%s]: %v", e.Op, e.Port, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a TransportError with explicit classification.
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType == ErrorTypeTransient,
	}
}

// NewNotReadyError reports an operation attempted while the hardware lines
// are not attached.
func NewNotReadyError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrNotAttached, ErrorTypeTransient)
}

// NewLineError reports a failed output-line write. Not retryable: a partial
// frame leaves the remote receiver in an undefined state.
func NewLineError(op, port string, err error) *TransportError {
	return NewTransportError(op, port, fmt.Errorf("%w: %w", ErrLineWrite, err), ErrorTypePermanent)
}

// NewTimeoutError reports an admission deadline that expired before the
// frame started transmitting.
func NewTimeoutError(op, port string) *TransportError {
	return NewTransportError(op, port, errors.New("operation timeout"), ErrorTypeTimeout)
}

// IsRetryable reports whether err may succeed on a later attempt. Only
// attachment races qualify; anything touching the wire mid-frame does not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}
	return errors.Is(err, ErrNotAttached)
}

// GetErrorType classifies err for application-layer policy decisions.
func GetErrorType(err error) ErrorType {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}
	if errors.Is(err, ErrNotAttached) {
		return ErrorTypeTransient
	}
	return ErrorTypePermanent
}
