package mdt694b

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optomech/go-mdt694b/internal/mdtsim"
)

// fastOpts keeps settle polling snappy in tests.
func fastOpts(extra ...Option) []Option {
	opts := []Option{
		WithPollInterval(time.Millisecond),
		WithSettleBudget(time.Second),
	}
	return append(opts, extra...)
}

func countCommands(cmds []string, want string) int {
	n := 0
	for _, c := range cmds {
		if c == want {
			n++
		}
	}
	return n
}

func TestConnectHandshake(t *testing.T) {
	dev := mdtsim.New(mdtsim.WithVoltageLimit(150), mdtsim.WithInitialVoltage(3))
	ctl, err := NewController(dev, fastOpts()...)
	require.NoError(t, err)
	defer ctl.Close()

	assert.Equal(t, mdtsim.DefaultModel, ctl.Identity().Model)
	assert.Equal(t, mdtsim.DefaultFirmware, ctl.Identity().Firmware)
	assert.Equal(t, 150, ctl.VoltageLimit())
	assert.Equal(t, 3.0, ctl.LastVoltage())
	assert.False(t, ctl.HasPendingMove())

	// Reset, identity, limit, then the initial voltage read, in that order.
	assert.Equal(t, []string{"restore", "id?", "vlimit?", "xvoltage?"}, dev.Commands())
}

func TestConnectFixedFraming(t *testing.T) {
	dev := mdtsim.New()
	ctl, err := NewController(dev, fastOpts(WithFraming(FramingFixedLength))...)
	require.NoError(t, err)
	defer ctl.Close()

	require.NoError(t, ctl.SetVoltage(10))
	assert.Equal(t, 10.0, ctl.LastVoltage())
}

func TestConnectRejectsUnsupportedVoltageLimit(t *testing.T) {
	dev := mdtsim.New(mdtsim.WithVoltageLimit(200))

	_, err := NewController(dev, fastOpts()...)
	assert.ErrorIs(t, err, ErrUnsupportedVoltageLimit)

	// The transport must be released on a failed handshake.
	assert.ErrorIs(t, dev.Close(), mdtsim.ErrClosed)
}

func TestConnectRejectsWrongIdentity(t *testing.T) {
	tests := []struct {
		name     string
		model    string
		firmware string
	}{
		{"wrong model", "Model MDT693B Piezo Control Module", mdtsim.DefaultFirmware},
		{"wrong firmware", mdtsim.DefaultModel, "Firmware Version: 2.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := mdtsim.New(mdtsim.WithIdentity(tt.model, tt.firmware))
			_, err := NewController(dev, fastOpts()...)
			assert.ErrorIs(t, err, ErrIdentityMismatch)
		})
	}
}

func TestConnectRejectsGarbledEcho(t *testing.T) {
	dev := mdtsim.New(mdtsim.WithGarbledEcho())

	_, err := NewController(dev, fastOpts()...)
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestConnectRejectsResidualBytes(t *testing.T) {
	dev := mdtsim.New(mdtsim.WithTrailingJunk([]byte{0x00}))

	_, err := NewController(dev, fastOpts()...)
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestSetVoltageWaitsForSettle(t *testing.T) {
	dev := mdtsim.New(mdtsim.WithRampSteps(3))
	ctl, err := NewController(dev, fastOpts()...)
	require.NoError(t, err)
	defer ctl.Close()

	require.NoError(t, ctl.SetVoltage(60))
	assert.Equal(t, 60.0, ctl.LastVoltage())
	assert.Equal(t, 60.0, dev.OutputVoltage())
	assert.False(t, ctl.HasPendingMove())
}

func TestSetVoltageOutOfRange(t *testing.T) {
	dev := mdtsim.New(mdtsim.WithVoltageLimit(100))
	ctl, err := NewController(dev, fastOpts()...)
	require.NoError(t, err)
	defer ctl.Close()

	before := len(dev.Commands())

	assert.ErrorIs(t, ctl.SetVoltage(100.01), ErrVoltageOutOfRange)
	assert.ErrorIs(t, ctl.SetVoltage(-0.01), ErrVoltageOutOfRange)

	// A rejected setpoint must cause no device traffic.
	assert.Len(t, dev.Commands(), before)

	// Boundary values are accepted.
	assert.NoError(t, ctl.SetVoltage(100))
	assert.NoError(t, ctl.SetVoltage(0))
}

func TestDeferredMove(t *testing.T) {
	dev := mdtsim.New(mdtsim.WithRampSteps(2))
	ctl, err := NewController(dev, fastOpts()...)
	require.NoError(t, err)
	defer ctl.Close()

	require.NoError(t, ctl.SetVoltageDeferred(40))
	assert.True(t, ctl.HasPendingMove())

	v, err := ctl.FinishMove()
	require.NoError(t, err)
	assert.Equal(t, 40.0, v)
	assert.False(t, ctl.HasPendingMove())
}

func TestFinishMoveWithoutPendingIsFree(t *testing.T) {
	dev := mdtsim.New()
	ctl, err := NewController(dev, fastOpts()...)
	require.NoError(t, err)
	defer ctl.Close()

	require.NoError(t, ctl.SetVoltage(25))
	before := len(dev.Commands())

	v, err := ctl.FinishMove()
	require.NoError(t, err)
	assert.Equal(t, 25.0, v)
	assert.Len(t, dev.Commands(), before, "resolved FinishMove must not touch the device")
}

func TestNewMoveResolvesPendingFirst(t *testing.T) {
	dev := mdtsim.New(mdtsim.WithRampSteps(2))
	ctl, err := NewController(dev, fastOpts()...)
	require.NoError(t, err)
	defer ctl.Close()

	require.NoError(t, ctl.SetVoltageDeferred(30))
	require.NoError(t, ctl.SetVoltage(60))

	// The first move must fully settle before the second command is sent:
	// at least one settle poll sits between the two set commands.
	cmds := dev.Commands()
	first, second, polled := -1, -1, false
	for i, c := range cmds {
		switch c {
		case "xvoltage=30.00":
			first = i
		case "xvoltage=60.00":
			second = i
		case "xvoltage?":
			if first >= 0 && second < 0 {
				polled = true
			}
		}
	}
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first)
	assert.True(t, polled, "pending move must settle before the new set command")

	assert.Equal(t, 60.0, ctl.LastVoltage())
	assert.False(t, ctl.HasPendingMove())
}

func TestSettlePolling(t *testing.T) {
	dev := mdtsim.New(mdtsim.WithRampSteps(3))
	ctl, err := NewController(dev, fastOpts(WithPollInterval(20*time.Millisecond))...)
	require.NoError(t, err)
	defer ctl.Close()

	before := countCommands(dev.Commands(), "xvoltage?")

	start := time.Now()
	require.NoError(t, ctl.SetVoltage(90))
	elapsed := time.Since(start)

	// Three ramp steps resolve in two poll cycles (four reads); each cycle
	// sleeps one poll interval.
	polls := countCommands(dev.Commands(), "xvoltage?") - before
	assert.Equal(t, 4, polls)
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestSettleTimeoutKeepsMovePending(t *testing.T) {
	dev := mdtsim.New(mdtsim.WithNoise(0.05))
	ctl, err := NewController(dev, fastOpts(WithSettleBudget(20*time.Millisecond))...)
	require.NoError(t, err)
	defer ctl.Close()

	require.NoError(t, ctl.SetVoltageDeferred(10))

	_, err = ctl.FinishMove()
	assert.ErrorIs(t, err, ErrSettleTimeout)
	assert.True(t, ctl.HasPendingMove(), "timed-out move stays outstanding")

	// FinishMove may be retried after a timeout.
	_, err = ctl.FinishMove()
	assert.ErrorIs(t, err, ErrSettleTimeout)
}

func TestRestoreClearsPendingMove(t *testing.T) {
	dev := mdtsim.New(mdtsim.WithRampSteps(2))
	ctl, err := NewController(dev, fastOpts()...)
	require.NoError(t, err)
	defer ctl.Close()

	require.NoError(t, ctl.SetVoltageDeferred(15))
	require.NoError(t, ctl.Restore())
	assert.False(t, ctl.HasPendingMove())
}

func TestVoltageRefreshesCache(t *testing.T) {
	dev := mdtsim.New(mdtsim.WithInitialVoltage(7.5))
	ctl, err := NewController(dev, fastOpts()...)
	require.NoError(t, err)
	defer ctl.Close()

	v, err := ctl.Voltage()
	require.NoError(t, err)
	assert.Equal(t, 7.5, v)
	assert.Equal(t, 7.5, ctl.LastVoltage())
}

func TestCloseIsIdempotent(t *testing.T) {
	dev := mdtsim.New()
	ctl, err := NewController(dev, fastOpts()...)
	require.NoError(t, err)

	require.NoError(t, ctl.Close())
	require.NoError(t, ctl.Close())

	_, err = ctl.Voltage()
	assert.ErrorIs(t, err, ErrControllerClosed)
	assert.ErrorIs(t, ctl.SetVoltage(10), ErrControllerClosed)
	assert.ErrorIs(t, ctl.SetVoltageDeferred(10), ErrControllerClosed)
	_, err = ctl.FinishMove()
	assert.ErrorIs(t, err, ErrControllerClosed)
	assert.ErrorIs(t, ctl.Restore(), ErrControllerClosed)
}

func TestConnectNonExistentPort(t *testing.T) {
	_, err := Connect("/dev/ttyUSB-does-not-exist")
	assert.Error(t, err)
}
