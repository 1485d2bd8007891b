package serial

import (
	"testing"
)

func TestGetBaudRate(t *testing.T) {
	tests := []struct {
		input    int
		hasError bool
	}{
		{115200, false},
		{9600, false},
		{57600, false},
		{921600, false},
		{123456, true}, // Invalid baud rate
		{0, true},
	}

	for _, test := range tests {
		result, err := getBaudRate(test.input)
		if test.hasError {
			if err == nil {
				t.Errorf("Expected error for baud rate %d", test.input)
			}
			if err != ErrInvalidBaudRate {
				t.Errorf("Expected ErrInvalidBaudRate for %d, got %v", test.input, err)
			}
		} else {
			if err != nil {
				t.Errorf("Unexpected error for baud rate %d: %v", test.input, err)
			}
			if result == 0 {
				t.Errorf("Got zero result for valid baud rate %d", test.input)
			}
		}
	}
}

func TestOpenNonExistentDevice(t *testing.T) {
	_, err := Open("/dev/nonexistent")
	if err == nil {
		t.Error("Expected error when opening non-existent device")
	}
	if err != ErrDeviceNotFound {
		t.Errorf("Expected ErrDeviceNotFound, got %v", err)
	}
}

func TestOpenRejectsBadOption(t *testing.T) {
	_, err := Open("/dev/null", WithBaudRate(123456))
	if err != ErrInvalidBaudRate {
		t.Errorf("Expected ErrInvalidBaudRate, got %v", err)
	}
}

func TestClosedPortOperations(t *testing.T) {
	p := &port{closed: true}

	if _, err := p.Read(make([]byte, 4)); err != ErrPortClosed {
		t.Errorf("Read on closed port: expected ErrPortClosed, got %v", err)
	}
	if _, err := p.Write([]byte("x")); err != ErrPortClosed {
		t.Errorf("Write on closed port: expected ErrPortClosed, got %v", err)
	}
	if _, err := p.ReadUntil('>'); err != ErrPortClosed {
		t.Errorf("ReadUntil on closed port: expected ErrPortClosed, got %v", err)
	}
	if _, err := p.BytesWaiting(); err != ErrPortClosed {
		t.Errorf("BytesWaiting on closed port: expected ErrPortClosed, got %v", err)
	}
	if err := p.Drain(); err != ErrPortClosed {
		t.Errorf("Drain on closed port: expected ErrPortClosed, got %v", err)
	}
	if err := p.FlushInput(); err != ErrPortClosed {
		t.Errorf("FlushInput on closed port: expected ErrPortClosed, got %v", err)
	}
	if err := p.Close(); err != ErrPortClosed {
		t.Errorf("Close on closed port: expected ErrPortClosed, got %v", err)
	}
}
