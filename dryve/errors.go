package dryve

import "errors"

var (
	// ErrConfigNil indicates that a nil ConnectionConfig was provided.
	ErrConfigNil = errors.New("connection config is nil")

	// ErrNotConnected indicates that an operation was attempted before
	// Connect, or after Close.
	ErrNotConnected = errors.New("drive is not connected")

	// ErrConnClosed indicates that the transport failed or closed early
	// (detected by a short read) during a request/response exchange.
	ErrConnClosed = errors.New("connection closed")

	// ErrUnknownHomingMethod indicates a homing method name that is not in
	// the method table. No frame is sent when this error is returned.
	ErrUnknownHomingMethod = errors.New("unknown homing method")

	// ErrOperationTimedOut indicates that a polling loop exhausted its
	// deadline before the device reported the expected status.
	ErrOperationTimedOut = errors.New("operation timed out")
)
