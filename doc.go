// Package mdt694b provides a Go driver for the Thorlabs MDT694B single-channel
// open-loop piezo controller over its USB serial interface.
//
// # Basic Usage
//
// Connect to the controller on a serial port (115200 8N1) and command a move:
//
//	ctl, err := mdt694b.Connect("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctl.Close()
//
//	// Blocks until the actuator has physically settled.
//	err = ctl.SetVoltage(12.5)
//	v, _ := ctl.Voltage()
//
// Connect performs a strict handshake before returning: a factory reset, an
// identity check against the supported model and firmware, a voltage-limit
// query, and an initial voltage read. A device that fails any step yields an
// error and the port is released.
//
// # Deferred Moves
//
// A move can be issued without waiting for the actuator to settle, useful
// when overlapping mechanical motion with other work:
//
//	err := ctl.SetVoltageDeferred(50)
//	// ... do other work while the piezo moves ...
//	v, err := ctl.FinishMove()
//
// At most one move is outstanding at a time; issuing a new move first
// resolves the previous one. Settling is detected by polling the output
// voltage until two consecutive readings agree.
//
// # Framing Strategies
//
// The firmware's replies can be framed two ways, selected at construction:
//
//	ctl, err := mdt694b.Connect("/dev/ttyUSB0",
//	    mdt694b.WithFraming(mdt694b.FramingFixedLength),
//	)
//
// FramingDelimiter (the default) reads up to the '>' prompt and verifies the
// command echo. FramingFixedLength reads the exact byte count each command
// shape produces. Both verify that no residual bytes remain queued after a
// reply.
//
// # Configuration Options
//
// Use functional options for custom configuration:
//
//	ctl, err := mdt694b.Connect("/dev/ttyUSB0",
//	    mdt694b.WithPollInterval(100*time.Millisecond),
//	    mdt694b.WithSettleBudget(10*time.Second),
//	    mdt694b.WithLogger(logger),
//	)
//
// # Error Handling
//
// The driver provides specific error types for robust error handling:
//
//	var (
//	    ErrProtocol                // framing or payload violation
//	    ErrIdentityMismatch        // wrong model or firmware
//	    ErrUnsupportedVoltageLimit // limit outside 75/100/150V
//	    ErrVoltageOutOfRange       // setpoint outside [0, limit]
//	    ErrSettleTimeout           // move did not settle in budget
//	    ErrControllerClosed        // operation on closed controller
//	)
//
// Use errors.Is() for error type checking:
//
//	if errors.Is(err, mdt694b.ErrSettleTimeout) {
//	    // the move is still outstanding; FinishMove may be retried
//	}
//
// # Transports
//
// Hardware connections use the serial subpackage. Any Transport
// implementation can be supplied through NewController, which the
// internal/mdtsim package uses to run the full driver against a simulated
// device.
package mdt694b
