package serial

import (
	"strings"
	"testing"
)

func TestListPorts(t *testing.T) {
	ports, err := ListPorts()
	if err != nil {
		t.Errorf("ListPorts failed: %v", err)
	}

	// Check that all returned ports are valid paths
	for _, port := range ports {
		if !strings.HasPrefix(port, "/dev/") {
			t.Errorf("Port path doesn't start with /dev/: %s", port)
		}

		// Verify it's a character device
		if !isCharacterDevice(port) {
			t.Errorf("Port is not a character device: %s", port)
		}
	}

	// Check that ports are sorted
	for i := 1; i < len(ports); i++ {
		if ports[i-1] > ports[i] {
			t.Errorf("Ports are not sorted: %s > %s", ports[i-1], ports[i])
		}
	}
}

func TestIsCharacterDevice(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/dev/null", true},     // Should exist and be a character device
		{"/dev/zero", true},     // Should exist and be a character device
		{"/tmp", false},         // Directory, not character device
		{"/nonexistent", false}, // Doesn't exist
	}

	for _, test := range tests {
		result := isCharacterDevice(test.path)
		if result != test.expected {
			t.Errorf("isCharacterDevice(%s) = %v, expected %v", test.path, result, test.expected)
		}
	}
}

func TestGetPortDescription(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"ttyUSB0", "USB Serial Port"},
		{"ttyACM2", "USB CDC/ACM Device"},
		{"ttyAMA0", "ARM Serial Port"},
		{"ttymxc1", "i.MX Serial Port"},
		{"ttyS0", "Standard Serial Port"},
		{"weird0", "Serial Port"},
	}

	for _, test := range tests {
		if got := getPortDescription(test.name); got != test.expected {
			t.Errorf("getPortDescription(%q) = %q, expected %q", test.name, got, test.expected)
		}
	}
}

func TestGetPortInfoNonExistent(t *testing.T) {
	_, err := GetPortInfo("/dev/nonexistent")
	if err != ErrDeviceNotFound {
		t.Errorf("Expected ErrDeviceNotFound, got %v", err)
	}
}
