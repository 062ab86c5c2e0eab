package zfm

import (
	"io"
	"time"
)

// Transport is the byte stream connecting the host to the module. It is
// usually a serial port, but anything that can move bytes both ways and
// bound its reads works, which keeps the package testable without
// hardware.
//
// Read must follow serial port semantics: block until at least one byte
// arrives or the read timeout elapses, and return (0, nil) on timeout.
type Transport interface {
	io.ReadWriter

	// SetReadTimeout bounds how long a single Read may block.
	SetReadTimeout(timeout time.Duration) error
}
