// Package uart opens serial ports for fingerprint module sessions.
//
// The module speaks 8N1 framing at a configurable baud rate, 57600 by
// default. Open returns a *Port that satisfies zfm.Transport:
//
//	port, err := uart.Open("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	sensor := zfm.New(port)
package uart

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/growsense/go-zfm/protocol"
)

// Config holds the port configuration.
type Config struct {
	// BaudRate is the line speed in bits per second
	BaudRate int

	// ReadTimeout is the timeout applied to the port before the first read
	ReadTimeout time.Duration
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		BaudRate:    protocol.DefaultBaudRate,
		ReadTimeout: time.Second,
	}
}

// Option is a functional option for configuring the port.
type Option func(*Config)

// WithBaudRate sets the line speed. The module supports multiples of 9600
// up to 115200.
//
// Example:
//
//	port, err := uart.Open("/dev/ttyUSB0", uart.WithBaudRate(115200))
func WithBaudRate(baud int) Option {
	return func(c *Config) {
		if baud > 0 {
			c.BaudRate = baud
		}
	}
}

// WithReadTimeout sets the initial read timeout.
//
// Example:
//
//	port, err := uart.Open("/dev/ttyUSB0", uart.WithReadTimeout(3*time.Second))
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.ReadTimeout = timeout
		}
	}
}

// Port is an open serial connection to a fingerprint module. At a read
// timeout Read returns (0, nil), which the packet reader reports as a
// *protocol.TimeoutError.
type Port struct {
	port   serial.Port
	device string
	mode   serial.Mode
}

// Open opens the serial device with 8 data bits, no parity and one stop
// bit, applies the configured baud rate and read timeout, and discards any
// stale input.
func Open(device string, opts ...Option) (*Port, error) {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	mode := serial.Mode{
		BaudRate: config.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, &mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}

	if err := port.SetReadTimeout(config.ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", device, err)
	}

	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, fmt.Errorf("flush input on %s: %w", device, err)
	}

	return &Port{port: port, device: device, mode: mode}, nil
}

// Read reads up to len(p) bytes. It returns (0, nil) when the read timeout
// elapses with no data.
func (p *Port) Read(buf []byte) (int, error) {
	return p.port.Read(buf)
}

// Write writes the frame to the port.
func (p *Port) Write(buf []byte) (int, error) {
	return p.port.Write(buf)
}

// SetReadTimeout changes the timeout applied to subsequent reads.
func (p *Port) SetReadTimeout(timeout time.Duration) error {
	return p.port.SetReadTimeout(timeout)
}

// SetBaudRate reconfigures the line speed, keeping the 8N1 framing. The
// session calls this after the module acknowledges a baud rate change.
func (p *Port) SetBaudRate(baud int) error {
	mode := p.mode
	mode.BaudRate = baud

	if err := p.port.SetMode(&mode); err != nil {
		return fmt.Errorf("set %s to %d baud: %w", p.device, baud, err)
	}

	p.mode = mode
	return nil
}

// Device returns the device path the port was opened with.
func (p *Port) Device() string {
	return p.device
}

// Close closes the serial port.
func (p *Port) Close() error {
	return p.port.Close()
}
