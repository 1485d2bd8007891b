package mdt694b

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetVoltageCommand(t *testing.T) {
	assert.Equal(t, "xvoltage=12.30", setVoltageCommand(12.3))
	assert.Equal(t, "xvoltage=0.00", setVoltageCommand(0))
	assert.Equal(t, "xvoltage=150.00", setVoltageCommand(150))
	assert.Equal(t, "xvoltage=0.67", setVoltageCommand(2.0/3.0))
}

func TestMDT694BSizes(t *testing.T) {
	tests := []struct {
		cmd   string
		reply string
	}{
		{"restore", "restore\n" + restoreAck + "\r>"},
		{"id?", "id?\n" + expectedModel + "\r" + expectedFirmware + "\r>"},
		{"vlimit?", "vlimit?\n[100]\r>"},
		{"xvoltage?", "xvoltage?\n[ 12.30]\r>"},
		{"xvoltage=12.30", "xvoltage=12.30\n>"},
	}

	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			n, ok := MDT694BSizes(tt.cmd)
			require.True(t, ok)
			assert.Equal(t, len(tt.reply), n)
		})
	}
}

func TestMDT694BSizesUnknownCommand(t *testing.T) {
	_, ok := MDT694BSizes("yvoltage?")
	assert.False(t, ok)
}

func TestSplitReplyLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitReplyLines("a\rb\r"))
	assert.Equal(t, []string{"only"}, splitReplyLines("only\r"))
	assert.Nil(t, splitReplyLines(""))
	assert.Nil(t, splitReplyLines("\r\r"))
}

func TestParseBracketedFloat(t *testing.T) {
	v, err := parseBracketedFloat("[ 12.30]")
	require.NoError(t, err)
	assert.Equal(t, 12.3, v)

	v, err = parseBracketedFloat("[  0.00]")
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = parseBracketedFloat("[......]")
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestParseBracketedInt(t *testing.T) {
	v, err := parseBracketedInt("[ 75]")
	require.NoError(t, err)
	assert.Equal(t, 75, v)

	v, err = parseBracketedInt("[150]")
	require.NoError(t, err)
	assert.Equal(t, 150, v)

	_, err = parseBracketedInt("[12.5]")
	assert.ErrorIs(t, err, ErrProtocol)
}
