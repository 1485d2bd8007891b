package mdt694b

import (
	"fmt"
	"strings"
)

// Framer turns a logical command into wire bytes and reconstructs the
// ordered payload lines of the device's reply. Implementations must detect
// framing desynchronization and report it as ErrProtocol.
type Framer interface {
	Exchange(cmd string) ([]string, error)
}

// DelimFramer implements the text framing strategy: write the command with
// a trailing line feed, read until the '>' prompt, verify the device echo,
// and split the remaining payload into lines.
type DelimFramer struct {
	t Transport
}

// NewDelimFramer returns a delimiter-based framer over t.
func NewDelimFramer(t Transport) *DelimFramer {
	return &DelimFramer{t: t}
}

var _ Framer = (*DelimFramer)(nil)

func (f *DelimFramer) Exchange(cmd string) ([]string, error) {
	if _, err := f.t.Write([]byte(cmd + "\n")); err != nil {
		return nil, fmt.Errorf("writing %q: %w", cmd, err)
	}

	raw, err := f.t.ReadUntil(promptByte)
	if err != nil {
		return nil, fmt.Errorf("%w: reading reply to %q: %v", ErrProtocol, cmd, err)
	}
	if err := assertDrained(f.t, cmd); err != nil {
		return nil, err
	}

	text := strings.TrimSuffix(string(raw), string(promptByte))
	echo, payload, _ := strings.Cut(text, "\n")
	if echo != cmd {
		return nil, fmt.Errorf("%w: echo mismatch: sent %q, device echoed %q", ErrProtocol, cmd, echo)
	}

	return splitReplyLines(payload), nil
}

// FixedFramer implements the byte-count framing strategy: the total length
// of echo plus payload plus prompt is known per command shape, so the reply
// is read as exactly that many bytes. No echo comparison is performed; a
// desynchronized device shows up as a garbled payload or a missing prompt.
type FixedFramer struct {
	t    Transport
	size ResponseSizer
}

// NewFixedFramer returns a fixed-length framer over t. A nil sizer selects
// MDT694BSizes.
func NewFixedFramer(t Transport, size ResponseSizer) *FixedFramer {
	if size == nil {
		size = MDT694BSizes
	}
	return &FixedFramer{t: t, size: size}
}

var _ Framer = (*FixedFramer)(nil)

func (f *FixedFramer) Exchange(cmd string) ([]string, error) {
	n, ok := f.size(cmd)
	if !ok {
		return nil, fmt.Errorf("%w: no response size known for command %q", ErrProtocol, cmd)
	}

	if _, err := f.t.Write([]byte(cmd + "\n")); err != nil {
		return nil, fmt.Errorf("writing %q: %w", cmd, err)
	}

	buf := make([]byte, n)
	if err := readFull(f.t, buf); err != nil {
		return nil, fmt.Errorf("%w: reading %d-byte reply to %q: %v", ErrProtocol, n, cmd, err)
	}
	if err := assertDrained(f.t, cmd); err != nil {
		return nil, err
	}

	text := string(buf)
	if !strings.HasSuffix(text, string(promptByte)) {
		return nil, fmt.Errorf("%w: reply to %q not terminated by prompt: %q", ErrProtocol, cmd, text)
	}
	text = strings.TrimSuffix(text, string(promptByte))

	_, payload, found := strings.Cut(text, "\n")
	if !found {
		return nil, fmt.Errorf("%w: reply to %q has no echo line: %q", ErrProtocol, cmd, text)
	}

	return splitReplyLines(payload), nil
}

// assertDrained enforces the shared framing invariant: after a complete
// reply the input queue must be empty. Leftover bytes mean an earlier
// exchange desynchronized, so the link can no longer be trusted.
func assertDrained(t Transport, cmd string) error {
	waiting, err := t.BytesWaiting()
	if err != nil {
		return fmt.Errorf("checking input queue after %q: %w", cmd, err)
	}
	if waiting != 0 {
		return fmt.Errorf("%w: %d residual bytes after reply to %q", ErrProtocol, waiting, cmd)
	}
	return nil
}

// readFull reads exactly len(buf) bytes, treating a zero-byte read (the
// transport timeout) as a truncated reply.
func readFull(t Transport, buf []byte) error {
	total := 0
	for total < len(buf) {
		n, err := t.Read(buf[total:])
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("short read: got %d of %d bytes", total, len(buf))
		}
		total += n
	}
	return nil
}
