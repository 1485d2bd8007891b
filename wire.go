package mdt694b

import (
	"fmt"
	"strconv"
	"strings"
)

// ASCII command vocabulary of the MDT694B firmware. Each command is written
// with a trailing line feed; the device echoes the command, emits zero or
// more carriage-return terminated payload lines, and finishes with a '>'
// prompt byte.
const (
	cmdRestore      = "restore"
	cmdIdentity     = "id?"
	cmdVoltageLimit = "vlimit?"
	cmdGetVoltage   = "xvoltage?"

	setVoltagePrefix = "xvoltage="

	promptByte = '>'
)

// Documented reply text for the supported model/firmware.
const (
	restoreAck       = "All settings restored to default values."
	expectedModel    = "Model MDT694B Piezo Control Module"
	expectedFirmware = "Firmware Version: 1.10"
)

// Fixed payload widths used by the fixed-length framing strategy. Numeric
// replies are bracket-wrapped and space-padded to a constant width.
const (
	voltageLimitPayloadLen = len("[100]")    // vlimit?: [%3d]
	voltagePayloadLen      = len("[ 12.30]") // xvoltage?: [%6.2f]
)

// setVoltageCommand formats a setpoint to the two-decimal wire form,
// e.g. 12.3 -> "xvoltage=12.30".
func setVoltageCommand(v float64) string {
	return fmt.Sprintf("%s%.2f", setVoltagePrefix, v)
}

// ResponseSizer reports the total response length in bytes (echo, payload
// and prompt) the device will produce for a command, or false when the
// command shape is unknown.
type ResponseSizer func(cmd string) (int, bool)

// MDT694BSizes is the ResponseSizer for the stock MDT694B firmware.
func MDT694BSizes(cmd string) (int, bool) {
	// Echoed command plus its line feed, plus the terminal prompt.
	base := len(cmd) + 2

	switch {
	case cmd == cmdRestore:
		return base + len(restoreAck) + 1, true
	case cmd == cmdIdentity:
		return base + len(expectedModel) + 1 + len(expectedFirmware) + 1, true
	case cmd == cmdVoltageLimit:
		return base + voltageLimitPayloadLen + 1, true
	case cmd == cmdGetVoltage:
		return base + voltagePayloadLen + 1, true
	case strings.HasPrefix(cmd, setVoltagePrefix):
		return base, true // echo only
	default:
		return 0, false
	}
}

// splitReplyLines splits the decoded payload (everything between the echo
// line and the prompt) on carriage returns, dropping empty lines.
func splitReplyLines(payload string) []string {
	var lines []string
	for _, line := range strings.Split(payload, "\r") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// stripBrackets removes the square brackets and padding the device wraps
// around numeric replies, e.g. "[ 12.30]" -> "12.30".
func stripBrackets(line string) string {
	line = strings.ReplaceAll(line, "[", "")
	line = strings.ReplaceAll(line, "]", "")
	return strings.TrimSpace(line)
}

// parseBracketedFloat decodes a bracket-wrapped floating point reply line.
func parseBracketedFloat(line string) (float64, error) {
	v, err := strconv.ParseFloat(stripBrackets(line), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed numeric reply %q", ErrProtocol, line)
	}
	return v, nil
}

// parseBracketedInt decodes a bracket-wrapped integer reply line.
func parseBracketedInt(line string) (int, error) {
	v, err := strconv.Atoi(stripBrackets(line))
	if err != nil {
		return 0, fmt.Errorf("%w: malformed integer reply %q", ErrProtocol, line)
	}
	return v, nil
}
