// Package serial provides the Linux serial transport used by the MDT694B
// driver: raw-mode termios ports with byte-level read timeouts, input-queue
// inspection, port discovery with USB metadata from sysfs, and USB-level
// device recovery.
//
// Open a port with the controller defaults (115200 8N1, 5s read timeout):
//
//	port, err := serial.Open("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
// Use functional options for custom configuration:
//
//	port, err := serial.Open("/dev/ttyUSB0",
//	    serial.WithBaudRate(9600),
//	    serial.WithReadTimeout(2*time.Second),
//	)
//
// Discovery:
//
//	ports, err := serial.ListPorts()
//	for _, path := range ports {
//	    info, _ := serial.GetPortInfo(path)
//	    fmt.Printf("%s: %s (serial=%s)\n", info.Path, info.Description, info.SerialNumber)
//	}
//
// The package exposes sentinel errors (ErrDeviceNotFound, ErrReadTimeout,
// ErrPortClosed, ...) intended for errors.Is checks.
package serial
