package mdt694b

import (
	"time"

	"github.com/rs/zerolog"
)

// Framing selects the wire framing strategy. The firmware supports both; a
// Controller commits to one at construction.
type Framing int

const (
	// FramingDelimiter reads replies up to the '>' prompt and verifies the
	// device echo. The default.
	FramingDelimiter Framing = iota

	// FramingFixedLength reads the exact byte count each command shape
	// produces. No echo verification.
	FramingFixedLength
)

func (f Framing) String() string {
	switch f {
	case FramingDelimiter:
		return "delimiter"
	case FramingFixedLength:
		return "fixed-length"
	default:
		return "unknown"
	}
}

// Config holds the driver configuration for a Controller
type Config struct {
	Framing      Framing
	PollInterval time.Duration // wait between settle-detection readings
	SettleBudget time.Duration // total time allowed for a move to settle; 0 means unbounded
	ReadTimeout  time.Duration // serial byte-level timeout used by Connect
	Sizer        ResponseSizer // fixed-length response sizes; nil selects MDT694BSizes
	Logger       zerolog.Logger
}

// Option is a functional option for configuring a Controller
type Option func(*Config) error

// DefaultConfig returns the driver defaults: delimiter framing, 200ms poll
// interval, 30 second settle budget, 5 second serial read timeout, no
// logging.
func DefaultConfig() Config {
	return Config{
		Framing:      FramingDelimiter,
		PollInterval: 200 * time.Millisecond,
		SettleBudget: 30 * time.Second,
		ReadTimeout:  5 * time.Second,
		Logger:       zerolog.Nop(),
	}
}

// WithFraming selects the framing strategy
func WithFraming(f Framing) Option {
	return func(c *Config) error {
		if f != FramingDelimiter && f != FramingFixedLength {
			return ErrInvalidConfig
		}
		c.Framing = f
		return nil
	}
}

// WithPollInterval sets the wait between settle-detection readings
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return ErrInvalidConfig
		}
		c.PollInterval = d
		return nil
	}
}

// WithSettleBudget bounds the settle-detection loop. Zero disables the
// bound, restoring the open-ended polling of the original firmware notes.
func WithSettleBudget(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return ErrInvalidConfig
		}
		c.SettleBudget = d
		return nil
	}
}

// WithReadTimeout sets the serial byte-level timeout Connect applies
func WithReadTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return ErrInvalidConfig
		}
		c.ReadTimeout = d
		return nil
	}
}

// WithSizer overrides the fixed-length response size table
func WithSizer(s ResponseSizer) Option {
	return func(c *Config) error {
		c.Sizer = s
		return nil
	}
}

// WithLogger attaches a zerolog logger for connection and move diagnostics
func WithLogger(log zerolog.Logger) Option {
	return func(c *Config) error {
		c.Logger = log
		return nil
	}
}
