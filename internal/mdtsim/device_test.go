package mdtsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityReply(t *testing.T) {
	d := New()

	_, err := d.Write([]byte("id?\n"))
	require.NoError(t, err)

	raw, err := d.ReadUntil('>')
	require.NoError(t, err)
	assert.Equal(t, "id?\n"+DefaultModel+"\r"+DefaultFirmware+"\r>", string(raw))

	waiting, err := d.BytesWaiting()
	require.NoError(t, err)
	assert.Zero(t, waiting, "queue should be empty after a full reply")
}

func TestVoltageLimitReply(t *testing.T) {
	d := New(WithVoltageLimit(75))

	_, err := d.Write([]byte("vlimit?\n"))
	require.NoError(t, err)

	raw, err := d.ReadUntil('>')
	require.NoError(t, err)
	assert.Equal(t, "vlimit?\n[ 75]\r>", string(raw))
}

func TestRestoreReply(t *testing.T) {
	d := New()

	_, err := d.Write([]byte("restore\n"))
	require.NoError(t, err)

	raw, err := d.ReadUntil('>')
	require.NoError(t, err)
	assert.Equal(t, "restore\nAll settings restored to default values.\r>", string(raw))
}

func TestMoveRampsTowardTarget(t *testing.T) {
	d := New(WithRampSteps(2))

	_, err := d.Write([]byte("xvoltage=10.00\n"))
	require.NoError(t, err)
	_, err = d.ReadUntil('>')
	require.NoError(t, err)

	readVoltage := func() string {
		_, err := d.Write([]byte("xvoltage?\n"))
		require.NoError(t, err)
		raw, err := d.ReadUntil('>')
		require.NoError(t, err)
		return string(raw)
	}

	assert.Equal(t, "xvoltage?\n[  5.00]\r>", readVoltage())
	assert.Equal(t, "xvoltage?\n[ 10.00]\r>", readVoltage())
	assert.Equal(t, "xvoltage?\n[ 10.00]\r>", readVoltage())
	assert.Equal(t, 10.0, d.OutputVoltage())
}

func TestInstantaneousMove(t *testing.T) {
	d := New(WithRampSteps(0))

	_, err := d.Write([]byte("xvoltage=42.50\n"))
	require.NoError(t, err)
	_, err = d.ReadUntil('>')
	require.NoError(t, err)

	assert.Equal(t, 42.5, d.OutputVoltage())
}

func TestGarbledEcho(t *testing.T) {
	d := New(WithGarbledEcho())

	_, err := d.Write([]byte("id?\n"))
	require.NoError(t, err)

	raw, err := d.ReadUntil('>')
	require.NoError(t, err)
	assert.Equal(t, byte('#'), raw[0])
}

func TestTrailingJunkStaysQueued(t *testing.T) {
	d := New(WithTrailingJunk([]byte{0x00}))

	_, err := d.Write([]byte("id?\n"))
	require.NoError(t, err)

	_, err = d.ReadUntil('>')
	require.NoError(t, err)

	waiting, err := d.BytesWaiting()
	require.NoError(t, err)
	assert.Equal(t, 1, waiting)
}

func TestReadTimeoutSemantics(t *testing.T) {
	d := New()

	// Empty queue: Read returns (0, nil) like a serial timeout.
	n, err := d.Read(make([]byte, 16))
	require.NoError(t, err)
	assert.Zero(t, n)

	// ReadUntil with no delimiter queued is an error.
	_, err = d.ReadUntil('>')
	assert.Error(t, err)
}

func TestCommandLog(t *testing.T) {
	d := New()

	_, err := d.Write([]byte("id?\n"))
	require.NoError(t, err)
	_, err = d.Write([]byte("xvoltage=1.00\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"id?", "xvoltage=1.00"}, d.Commands())
}

func TestClose(t *testing.T) {
	d := New()

	require.NoError(t, d.Close())
	assert.ErrorIs(t, d.Close(), ErrClosed)

	_, err := d.Write([]byte("id?\n"))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = d.Read(make([]byte, 1))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = d.BytesWaiting()
	assert.ErrorIs(t, err, ErrClosed)
}
