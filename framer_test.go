package mdt694b

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optomech/go-mdt694b/internal/mdtsim"
)

func TestDelimFramerExchange(t *testing.T) {
	dev := mdtsim.New()
	f := NewDelimFramer(dev)

	lines, err := f.Exchange("id?")
	require.NoError(t, err)
	assert.Equal(t, []string{mdtsim.DefaultModel, mdtsim.DefaultFirmware}, lines)
}

func TestDelimFramerEchoMismatch(t *testing.T) {
	dev := mdtsim.New(mdtsim.WithGarbledEcho())
	f := NewDelimFramer(dev)

	_, err := f.Exchange("id?")
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestDelimFramerResidualBytes(t *testing.T) {
	dev := mdtsim.New(mdtsim.WithTrailingJunk([]byte{0x00}))
	f := NewDelimFramer(dev)

	_, err := f.Exchange("id?")
	assert.ErrorIs(t, err, ErrProtocol)
}

// silentTransport accepts writes but never produces a reply.
type silentTransport struct{}

func (silentTransport) Write(p []byte) (int, error) { return len(p), nil }
func (silentTransport) Read(p []byte) (int, error)  { return 0, nil }
func (silentTransport) ReadUntil(delim byte) ([]byte, error) {
	return nil, errors.New("read timeout")
}
func (silentTransport) BytesWaiting() (int, error) { return 0, nil }
func (silentTransport) Close() error               { return nil }

func TestDelimFramerNoReply(t *testing.T) {
	f := NewDelimFramer(silentTransport{})

	_, err := f.Exchange("id?")
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestFixedFramerNoReply(t *testing.T) {
	f := NewFixedFramer(silentTransport{}, nil)

	_, err := f.Exchange("id?")
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestFixedFramerExchange(t *testing.T) {
	dev := mdtsim.New(mdtsim.WithVoltageLimit(150))
	f := NewFixedFramer(dev, nil)

	lines, err := f.Exchange("vlimit?")
	require.NoError(t, err)
	assert.Equal(t, []string{"[150]"}, lines)

	lines, err = f.Exchange("xvoltage?")
	require.NoError(t, err)
	assert.Equal(t, []string{"[  0.00]"}, lines)

	lines, err = f.Exchange("xvoltage=12.30")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestFixedFramerUnknownCommand(t *testing.T) {
	dev := mdtsim.New()
	f := NewFixedFramer(dev, nil)

	_, err := f.Exchange("yvoltage?")
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestFixedFramerResidualBytes(t *testing.T) {
	dev := mdtsim.New(mdtsim.WithTrailingJunk([]byte("!!")))
	f := NewFixedFramer(dev, nil)

	_, err := f.Exchange("id?")
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestFixedFramerShortReply(t *testing.T) {
	dev := mdtsim.New()
	// Inflated size table: the device produces fewer bytes than expected.
	sizer := func(cmd string) (int, bool) { return 1024, true }
	f := NewFixedFramer(dev, sizer)

	_, err := f.Exchange("id?")
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestFixedFramerCustomSizer(t *testing.T) {
	dev := mdtsim.New()
	called := ""
	sizer := func(cmd string) (int, bool) {
		called = cmd
		return MDT694BSizes(cmd)
	}
	f := NewFixedFramer(dev, sizer)

	_, err := f.Exchange("id?")
	require.NoError(t, err)
	assert.Equal(t, "id?", called)
}
