package serial

import "time"

// Parity represents the parity mode
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

// Config holds the configuration for a serial port
type Config struct {
	BaudRate    int
	DataBits    int
	StopBits    int
	Parity      Parity
	ReadTimeout time.Duration // byte-level timeout, VTIME granularity (100ms steps)
}

// Option is a functional option for configuring a serial port
type Option func(*Config) error

// DefaultConfig returns the configuration the MDT694B expects:
// 115200 baud, 8N1, 5 second read timeout.
func DefaultConfig() Config {
	return Config{
		BaudRate:    115200,
		DataBits:    8,
		StopBits:    1,
		Parity:      ParityNone,
		ReadTimeout: 5 * time.Second,
	}
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		if _, err := getBaudRate(rate); err != nil {
			return err
		}
		c.BaudRate = rate
		return nil
	}
}

// WithDataBits sets the number of data bits (5, 6, 7, or 8)
func WithDataBits(bits int) Option {
	return func(c *Config) error {
		if bits < 5 || bits > 8 {
			return ErrInvalidConfig
		}
		c.DataBits = bits
		return nil
	}
}

// WithStopBits sets the number of stop bits (1 or 2)
func WithStopBits(bits int) Option {
	return func(c *Config) error {
		if bits != 1 && bits != 2 {
			return ErrInvalidConfig
		}
		c.StopBits = bits
		return nil
	}
}

// WithParity sets the parity mode
func WithParity(parity Parity) Option {
	return func(c *Config) error {
		if parity < ParityNone || parity > ParityEven {
			return ErrInvalidConfig
		}
		c.Parity = parity
		return nil
	}
}

// WithReadTimeout sets the byte-level read timeout. VTIME counts in tenths
// of a second, so the effective timeout is rounded up to the next 100ms and
// capped at 25.5 seconds.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 || timeout > 255*100*time.Millisecond {
			return ErrInvalidConfig
		}
		c.ReadTimeout = timeout
		return nil
	}
}

// timeoutTenths converts the configured read timeout to a VTIME value.
func (c Config) timeoutTenths() uint8 {
	tenths := (c.ReadTimeout + 99*time.Millisecond) / (100 * time.Millisecond)
	if tenths < 1 {
		tenths = 1
	}
	if tenths > 255 {
		tenths = 255
	}
	return uint8(tenths)
}
