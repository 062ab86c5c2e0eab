package zfm

import (
	"context"
	"fmt"
	"time"

	"github.com/growsense/go-zfm/protocol"
)

// Sensor is a session with one fingerprint module. It owns the transport,
// frames every command, validates every reply and keeps the module's
// capacity and packet size cached for operations that need them.
//
// A Sensor serializes nothing itself: the module answers one command at a
// time, so callers must not issue operations concurrently.
type Sensor struct {
	transport Transport
	config    Config

	address    uint32
	capacity   uint16
	packetSize int
}

// New creates a new Sensor over the given transport and options.
// The transport is typically a serial port opened with the uart package.
//
// Example:
//
//	port, _ := uart.Open("/dev/ttyUSB0")
//	sensor := zfm.New(port,
//	    zfm.WithPassword(0xA1B2C3D4),
//	    zfm.WithReadTimeout(2*time.Second),
//	)
func New(transport Transport, opts ...Option) *Sensor {
	if transport == nil {
		panic("transport cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Sensor{
		transport: transport,
		config:    cfg,
		address:   cfg.Address,
	}
}

// Init establishes the session:
//  1. Apply the configured read timeout to the transport
//  2. Verify the session password
//  3. Read the system parameters and cache capacity and packet size
//
// Example:
//
//	if err := sensor.Init(ctx); err != nil {
//	    log.Fatal(err)
//	}
func (s *Sensor) Init(ctx context.Context) error {
	if err := s.transport.SetReadTimeout(s.config.ReadTimeout); err != nil {
		return fmt.Errorf("set read timeout: %w", err)
	}

	if err := s.VerifyPassword(ctx); err != nil {
		return err
	}

	params, err := s.ReadSystemParams(ctx)
	if err != nil {
		return err
	}

	s.logInfo("session established",
		"address", fmt.Sprintf("0x%08X", s.address),
		"capacity", params.Capacity,
		"packet_size", params.PacketSize,
		"baud_rate", params.BaudRate,
	)

	return nil
}

// Address returns the module address the session is bound to.
func (s *Sensor) Address() uint32 {
	return s.address
}

// Capacity returns the template library capacity, or 0 if the system
// parameters have not been read yet.
func (s *Sensor) Capacity() uint16 {
	return s.capacity
}

// PacketSize returns the negotiated data packet size, or 0 if the system
// parameters have not been read yet.
func (s *Sensor) PacketSize() int {
	return s.packetSize
}

// roundTrip writes one command packet and reads the matching acknowledge,
// validating that the reply carries the expected address.
func (s *Sensor) roundTrip(ctx context.Context, op string, frame []byte, expect uint32) (protocol.ConfirmationCode, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, fmt.Errorf("%s cancelled: %w", op, err)
	}

	start := time.Now()

	if _, err := s.transport.Write(frame); err != nil {
		return 0, nil, fmt.Errorf("%s: write command: %w", op, err)
	}

	pkt, err := protocol.ReadPacket(s.transport)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	if pkt.Address != expect {
		return 0, nil, fmt.Errorf("%s: reply address 0x%08X does not match 0x%08X", op, pkt.Address, expect)
	}

	code, data, err := protocol.ParseAck(pkt)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logDebug("command exchange",
		"op", op,
		"code", fmt.Sprintf("0x%02X", byte(code)),
		"elapsed", time.Since(start).String(),
	)

	return code, data, nil
}

// command runs one exchange and treats every confirmation code other than
// CodeOK as a failure of the named operation.
func (s *Sensor) command(ctx context.Context, op string, frame []byte) ([]byte, error) {
	code, data, err := s.roundTrip(ctx, op, frame, s.address)
	if err != nil {
		return nil, err
	}

	if code != protocol.CodeOK {
		return nil, &protocol.CommandError{Op: op, Code: code}
	}

	return data, nil
}

// ensureParams reads the system parameters once, for operations that need
// the capacity or packet size before Init has run.
func (s *Sensor) ensureParams(ctx context.Context) error {
	if s.capacity > 0 && s.packetSize > 0 {
		return nil
	}
	_, err := s.ReadSystemParams(ctx)
	return err
}

// logDebug logs a debug message if a logger is configured.
func (s *Sensor) logDebug(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (s *Sensor) logInfo(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (s *Sensor) logError(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Error(msg, keysAndValues...)
	}
}
