package mdt694b

import "errors"

// Predefined error types for robust error handling
var (
	// ErrProtocol covers framing-level violations: echo mismatch, residual
	// bytes left in the input queue after a reply, or a malformed payload.
	// The link state is suspect afterwards; reconnecting is recommended.
	ErrProtocol = errors.New("piezo controller protocol violation")

	// ErrIdentityMismatch means the device on the port is not the supported
	// model/firmware combination. Raised at connect time only.
	ErrIdentityMismatch = errors.New("unexpected device identity")

	// ErrUnsupportedVoltageLimit means the device reported a voltage limit
	// outside the documented 75/100/150V set. Raised at connect time only.
	ErrUnsupportedVoltageLimit = errors.New("voltage limit not in supported set")

	// ErrVoltageOutOfRange is a precondition failure: the requested setpoint
	// is outside [0, limit]. Nothing is sent to the device; the caller may
	// retry with a corrected value.
	ErrVoltageOutOfRange = errors.New("requested voltage out of range")

	// ErrSettleTimeout means a move did not produce two equal consecutive
	// readings within the configured settle budget. The pending move stays
	// outstanding so FinishMove can be retried.
	ErrSettleTimeout = errors.New("move did not settle within budget")

	// ErrControllerClosed is returned by operations on a closed Controller.
	ErrControllerClosed = errors.New("controller is closed")

	// ErrInvalidConfig is returned by functional options given values
	// outside their valid range.
	ErrInvalidConfig = errors.New("invalid driver configuration")
)
