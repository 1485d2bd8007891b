package mdt694b

// Transport is the byte-level channel the framers drive. serial.Port
// satisfies it for real hardware; mdtsim.Device satisfies it for tests and
// offline exercising.
//
// A Transport is owned by exactly one Controller at a time and is closed by
// Controller.Close.
type Transport interface {
	Write(data []byte) (int, error)

	// Read fills buf with available bytes. A return of (0, nil) means the
	// transport's byte-level timeout expired with nothing received.
	Read(buf []byte) (int, error)

	// ReadUntil reads up to and including delim.
	ReadUntil(delim byte) ([]byte, error)

	// BytesWaiting reports unread bytes sitting in the receive queue.
	BytesWaiting() (int, error)

	Close() error
}
