// Package mdtsim implements an in-memory MDT694B piezo controller speaking
// the real wire protocol: command echo, carriage-return separated payload
// lines and a '>' prompt. It satisfies the driver's Transport interface, so
// the full driver stack runs against it unmodified.
package mdtsim

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ErrClosed is returned by operations on a closed simulated device.
var ErrClosed = errors.New("mdtsim: device closed")

// Default identity and firmware strings, matching a stock unit.
const (
	DefaultModel    = "Model MDT694B Piezo Control Module"
	DefaultFirmware = "Firmware Version: 1.10"

	restoreAck = "All settings restored to default values."
)

// Device is a simulated MDT694B behind a byte-oriented transport. Commands
// written to it produce reply bytes in an internal queue that Read,
// ReadUntil and BytesWaiting serve exactly as a serial port would.
//
// Moves are not instantaneous: each voltage query advances the output one
// ramp step toward the target, so a driver polling for two equal
// consecutive readings observes a realistic settle sequence.
type Device struct {
	mu sync.Mutex

	model    string
	firmware string
	limit    int
	voltage  float64
	target   float64

	// rampSteps is how many voltage queries a move takes to complete.
	rampSteps int
	remaining int

	// Fault injection.
	garbleEcho   bool
	trailingJunk []byte
	noise        float64
	noiseHigh    bool

	queue  []byte
	closed bool

	// Command log for test assertions.
	commands []string
}

// Option configures a simulated device.
type Option func(*Device)

// WithVoltageLimit sets the voltage ceiling the device reports (default 100).
func WithVoltageLimit(limit int) Option {
	return func(d *Device) { d.limit = limit }
}

// WithInitialVoltage sets the output voltage at power-on (default 0).
func WithInitialVoltage(v float64) Option {
	return func(d *Device) {
		d.voltage = v
		d.target = v
	}
}

// WithIdentity overrides the model and firmware reply lines.
func WithIdentity(model, firmware string) Option {
	return func(d *Device) {
		d.model = model
		d.firmware = firmware
	}
}

// WithRampSteps sets how many voltage queries a move takes to reach its
// target (default 3). Zero makes moves instantaneous.
func WithRampSteps(n int) Option {
	return func(d *Device) { d.rampSteps = n }
}

// WithGarbledEcho makes the device corrupt the first byte of every command
// echo, for exercising echo verification.
func WithGarbledEcho() Option {
	return func(d *Device) { d.garbleEcho = true }
}

// WithTrailingJunk makes the device append junk bytes after every prompt,
// for exercising the residual-bytes check.
func WithTrailingJunk(junk []byte) Option {
	return func(d *Device) { d.trailingJunk = junk }
}

// WithNoise adds amplitude to every second voltage reading. With a nonzero
// amplitude no two consecutive readings agree, so a move never settles.
func WithNoise(amplitude float64) Option {
	return func(d *Device) { d.noise = amplitude }
}

// New returns a simulated device with a 100V limit, 0V output and a
// three-step move ramp unless overridden.
func New(opts ...Option) *Device {
	d := &Device{
		model:     DefaultModel,
		firmware:  DefaultFirmware,
		limit:     100,
		rampSteps: 3,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Commands returns every command line received so far, oldest first.
func (d *Device) Commands() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.commands))
	copy(out, d.commands)
	return out
}

// OutputVoltage returns the current simulated output voltage.
func (d *Device) OutputVoltage() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.voltage
}

// Write accepts command bytes. Each line-feed terminated command is
// processed immediately and its reply queued for reading.
func (d *Device) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrClosed
	}

	for _, cmd := range strings.Split(string(p), "\n") {
		if cmd == "" {
			continue
		}
		d.commands = append(d.commands, cmd)
		d.enqueueReply(cmd)
	}
	return len(p), nil
}

// enqueueReply renders the echo, payload lines and prompt for cmd into the
// read queue. Called with the lock held.
func (d *Device) enqueueReply(cmd string) {
	echo := cmd
	if d.garbleEcho && len(echo) > 0 {
		echo = "#" + echo[1:]
	}
	d.queue = append(d.queue, echo...)
	d.queue = append(d.queue, '\n')

	for _, line := range d.payloadFor(cmd) {
		d.queue = append(d.queue, line...)
		d.queue = append(d.queue, '\r')
	}

	d.queue = append(d.queue, '>')
	d.queue = append(d.queue, d.trailingJunk...)
}

// payloadFor computes the payload lines for cmd, advancing device state as
// a side effect. Called with the lock held.
func (d *Device) payloadFor(cmd string) []string {
	switch {
	case cmd == "restore":
		d.target = d.voltage
		d.remaining = 0
		return []string{restoreAck}

	case cmd == "id?":
		return []string{d.model, d.firmware}

	case cmd == "vlimit?":
		return []string{fmt.Sprintf("[%3d]", d.limit)}

	case cmd == "xvoltage?":
		d.step()
		v := d.voltage
		if d.noise != 0 {
			d.noiseHigh = !d.noiseHigh
			if d.noiseHigh {
				v += d.noise
			}
		}
		return []string{fmt.Sprintf("[%6.2f]", v)}

	case strings.HasPrefix(cmd, "xvoltage="):
		v, err := strconv.ParseFloat(strings.TrimPrefix(cmd, "xvoltage="), 64)
		if err == nil {
			d.target = v
			d.remaining = d.rampSteps
			if d.remaining == 0 {
				d.voltage = v
			}
		}
		return nil

	default:
		return []string{"CMD_NOT_DEFINED"}
	}
}

// step advances the output one ramp increment toward the target. Called
// with the lock held.
func (d *Device) step() {
	if d.remaining <= 0 {
		d.voltage = d.target
		return
	}
	d.voltage += (d.target - d.voltage) / float64(d.remaining)
	d.remaining--
}

// Read copies queued reply bytes into p. An empty queue returns (0, nil),
// mirroring a serial read timeout.
func (d *Device) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrClosed
	}
	n := copy(p, d.queue)
	d.queue = d.queue[n:]
	return n, nil
}

// ReadUntil returns queued bytes up to and including the first occurrence
// of delim. Exhausting the queue without finding delim is a timeout.
func (d *Device) ReadUntil(delim byte) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrClosed
	}

	idx := -1
	for i, b := range d.queue {
		if b == delim {
			idx = i
			break
		}
	}
	if idx < 0 {
		out := d.queue
		d.queue = nil
		return out, fmt.Errorf("mdtsim: read timeout waiting for %q", delim)
	}

	out := make([]byte, idx+1)
	copy(out, d.queue[:idx+1])
	d.queue = d.queue[idx+1:]
	return out, nil
}

// BytesWaiting reports how many reply bytes are queued for reading.
func (d *Device) BytesWaiting() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrClosed
	}
	return len(d.queue), nil
}

// Close marks the device closed. Subsequent operations fail with ErrClosed.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.closed = true
	return nil
}
