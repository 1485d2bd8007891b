package mdt694b

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/optomech/go-mdt694b/serial"
)

// Identity is the model/firmware pair reported by the device, captured once
// at connect time.
type Identity struct {
	Model    string
	Firmware string
}

// The firmware supports exactly these voltage ceiling settings.
var supportedVoltageLimits = []int{75, 100, 150}

// Controller is a session with one MDT694B piezo controller. It owns the
// transport for the lifetime of the connection and tracks the last-observed
// voltage plus the at-most-one outstanding move.
//
// A Controller is not safe for concurrent use: the transport and the
// pending-move marker are unsynchronized, so callers must serialize access.
type Controller struct {
	cfg    Config
	log    zerolog.Logger
	t      Transport
	framer Framer

	identity     Identity
	voltageLimit int
	voltage      float64
	pendingCmd   string
	closed       bool
}

// Connect opens the serial port at path (115200 8N1) and initializes a
// session: factory reset, identity and voltage-limit verification, and an
// initial voltage read. On any failure the port is closed and no Controller
// is returned.
func Connect(path string, opts ...Option) (*Controller, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	port, err := serial.Open(path,
		serial.WithBaudRate(115200),
		serial.WithReadTimeout(cfg.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("no connection on port %s: %w", path, err)
	}

	return newController(port, cfg)
}

// NewController initializes a session over an already-open transport. Used
// with simulated devices and custom links; Connect is the hardware path.
func NewController(t Transport, opts ...Option) (*Controller, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return newController(t, cfg)
}

func newController(t Transport, cfg Config) (*Controller, error) {
	c := &Controller{
		cfg: cfg,
		log: cfg.Logger,
		t:   t,
	}

	switch cfg.Framing {
	case FramingFixedLength:
		c.framer = NewFixedFramer(t, cfg.Sizer)
	default:
		c.framer = NewDelimFramer(t)
	}

	if err := c.initialize(); err != nil {
		t.Close()
		return nil, err
	}
	return c, nil
}

// initialize runs the strict connect-time gate: every check must pass
// before the caller gets a usable session.
func (c *Controller) initialize() error {
	if err := c.Restore(); err != nil {
		return err
	}

	id, err := c.queryIdentity()
	if err != nil {
		return err
	}
	c.identity = id

	limit, err := c.queryVoltageLimit()
	if err != nil {
		return err
	}
	c.voltageLimit = limit

	if _, err := c.Voltage(); err != nil {
		return err
	}

	c.log.Info().
		Str("model", c.identity.Model).
		Str("firmware", c.identity.Firmware).
		Int("voltage_limit", c.voltageLimit).
		Float64("voltage", c.voltage).
		Str("framing", c.cfg.Framing.String()).
		Msg("piezo controller connected")
	return nil
}

// Identity returns the device model and firmware strings.
func (c *Controller) Identity() Identity { return c.identity }

// VoltageLimit returns the firmware-enforced maximum commandable voltage.
func (c *Controller) VoltageLimit() int { return c.voltageLimit }

// LastVoltage returns the last-observed voltage without any device I/O.
// It is only guaranteed accurate immediately after a read or settled move.
func (c *Controller) LastVoltage() float64 { return c.voltage }

// HasPendingMove reports whether a deferred move is still outstanding.
func (c *Controller) HasPendingMove() bool { return c.pendingCmd != "" }

// Restore resets all device settings to firmware defaults and verifies the
// documented acknowledgement text.
func (c *Controller) Restore() error {
	if c.closed {
		return ErrControllerClosed
	}

	lines, err := c.exchange(cmdRestore)
	if err != nil {
		return err
	}
	if len(lines) == 0 || lines[0] != restoreAck {
		return fmt.Errorf("%w: unexpected restore acknowledgement %q", ErrProtocol, strings.Join(lines, " / "))
	}
	c.pendingCmd = ""
	return nil
}

// Voltage queries the current output voltage and refreshes the cached
// last-observed value. It does not touch an outstanding move.
func (c *Controller) Voltage() (float64, error) {
	if c.closed {
		return 0, ErrControllerClosed
	}

	lines, err := c.exchange(cmdGetVoltage)
	if err != nil {
		return 0, err
	}
	if len(lines) == 0 {
		return 0, fmt.Errorf("%w: empty reply to %q", ErrProtocol, cmdGetVoltage)
	}

	v, err := parseBracketedFloat(lines[0])
	if err != nil {
		return 0, err
	}
	c.voltage = v
	return v, nil
}

// SetVoltage commands a move to v and blocks until the actuator has
// physically settled.
func (c *Controller) SetVoltage(v float64) error {
	if err := c.startMove(v); err != nil {
		return err
	}
	_, err := c.FinishMove()
	return err
}

// SetVoltageDeferred commands a move to v and returns immediately, leaving
// the move outstanding. Resolve it with FinishMove before relying on
// LastVoltage; a subsequent SetVoltage call resolves it implicitly.
func (c *Controller) SetVoltageDeferred(v float64) error {
	return c.startMove(v)
}

// startMove drains any outstanding move, validates the setpoint and issues
// the set command, recording the new pending move.
func (c *Controller) startMove(v float64) error {
	if c.closed {
		return ErrControllerClosed
	}

	if c.pendingCmd != "" {
		if _, err := c.FinishMove(); err != nil {
			return err
		}
	}

	if v < 0 || v > float64(c.voltageLimit) {
		return fmt.Errorf("%w: %.2f not in [0, %d]", ErrVoltageOutOfRange, v, c.voltageLimit)
	}

	cmd := setVoltageCommand(v)
	if _, err := c.exchange(cmd); err != nil {
		return err
	}
	c.pendingCmd = cmd
	c.log.Debug().Float64("target", v).Msg("move commanded")
	return nil
}

// FinishMove resolves an outstanding move by polling until two consecutive
// readings separated by the poll interval are equal, then returns the
// settled voltage. Without an outstanding move it performs no device I/O
// and returns the last-observed voltage.
//
// When the settle budget is exhausted the move stays outstanding and
// ErrSettleTimeout is returned; FinishMove may be called again. A malformed
// reading mid-poll propagates immediately rather than being retried,
// consistent with the driver-wide no-auto-retry policy.
func (c *Controller) FinishMove() (float64, error) {
	if c.closed {
		return 0, ErrControllerClosed
	}
	if c.pendingCmd == "" {
		return c.voltage, nil
	}

	var deadline time.Time
	if c.cfg.SettleBudget > 0 {
		deadline = time.Now().Add(c.cfg.SettleBudget)
	}

	polls := 0
	for {
		initial, err := c.Voltage()
		if err != nil {
			return 0, err
		}
		time.Sleep(c.cfg.PollInterval)
		final, err := c.Voltage()
		if err != nil {
			return 0, err
		}
		polls++

		if initial == final {
			c.pendingCmd = ""
			c.log.Debug().Float64("voltage", final).Int("polls", polls).Msg("move settled")
			return final, nil
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			return 0, fmt.Errorf("%w: still moving after %s (last reading %.2fV)",
				ErrSettleTimeout, c.cfg.SettleBudget, final)
		}
	}
}

// Close releases the transport. Safe to call more than once.
func (c *Controller) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.log.Debug().Msg("closing piezo controller")
	return c.t.Close()
}

func (c *Controller) queryIdentity() (Identity, error) {
	lines, err := c.exchange(cmdIdentity)
	if err != nil {
		return Identity{}, err
	}
	if len(lines) < 2 {
		return Identity{}, fmt.Errorf("%w: identity reply %q", ErrProtocol, strings.Join(lines, " / "))
	}

	id := Identity{Model: lines[0], Firmware: lines[1]}
	if id.Model != expectedModel {
		return Identity{}, fmt.Errorf("%w: model %q", ErrIdentityMismatch, id.Model)
	}
	if id.Firmware != expectedFirmware {
		return Identity{}, fmt.Errorf("%w: firmware %q", ErrIdentityMismatch, id.Firmware)
	}
	return id, nil
}

func (c *Controller) queryVoltageLimit() (int, error) {
	lines, err := c.exchange(cmdVoltageLimit)
	if err != nil {
		return 0, err
	}
	if len(lines) == 0 {
		return 0, fmt.Errorf("%w: empty reply to %q", ErrProtocol, cmdVoltageLimit)
	}

	limit, err := parseBracketedInt(lines[0])
	if err != nil {
		return 0, err
	}
	for _, allowed := range supportedVoltageLimits {
		if limit == allowed {
			return limit, nil
		}
	}
	return 0, fmt.Errorf("%w: device reports %dV", ErrUnsupportedVoltageLimit, limit)
}

// exchange runs one command through the framer with trace logging.
func (c *Controller) exchange(cmd string) ([]string, error) {
	c.log.Trace().Str("cmd", cmd).Msg("send")
	lines, err := c.framer.Exchange(cmd)
	if err != nil {
		return nil, err
	}
	c.log.Trace().Strs("reply", lines).Msg("recv")
	return lines, nil
}
