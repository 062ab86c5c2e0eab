package zfm

import (
	"context"
	"fmt"

	"github.com/growsense/go-zfm/protocol"
)

// VerifyPassword checks the session password against the module. Every
// other operation is rejected with CodePasswordRequired until this
// succeeds once.
func (s *Sensor) VerifyPassword(ctx context.Context) error {
	frame, err := protocol.BuildVerifyPasswordCmd(s.address, s.config.Password)
	if err != nil {
		return err
	}
	_, err = s.command(ctx, "verify password", frame)
	return err
}

// SetPassword changes the module password. The session keeps using the new
// password from then on.
func (s *Sensor) SetPassword(ctx context.Context, password uint32) error {
	frame, err := protocol.BuildSetPasswordCmd(s.address, password)
	if err != nil {
		return err
	}
	if _, err := s.command(ctx, "set password", frame); err != nil {
		return err
	}

	s.config.Password = password
	s.logInfo("password changed")
	return nil
}

// SetAddress changes the module address. The module acknowledges under the
// new address, and the session is rebound to it on success.
func (s *Sensor) SetAddress(ctx context.Context, address uint32) error {
	frame, err := protocol.BuildSetAddressCmd(s.address, address)
	if err != nil {
		return err
	}

	code, _, err := s.roundTrip(ctx, "set address", frame, address)
	if err != nil {
		return err
	}
	if code != protocol.CodeOK {
		return &protocol.CommandError{Op: "set address", Code: code}
	}

	s.address = address
	s.logInfo("address changed", "address", fmt.Sprintf("0x%08X", address))
	return nil
}

// ReadSystemParams reads the module's parameter block and refreshes the
// cached capacity and packet size.
func (s *Sensor) ReadSystemParams(ctx context.Context) (*protocol.SystemParams, error) {
	frame, err := protocol.BuildReadSysParamsCmd(s.address)
	if err != nil {
		return nil, err
	}

	data, err := s.command(ctx, "read system parameters", frame)
	if err != nil {
		return nil, err
	}

	params, err := protocol.ParseSystemParams(data)
	if err != nil {
		return nil, err
	}

	s.capacity = params.Capacity
	s.packetSize = params.PacketSize
	return params, nil
}

// SetBaudRate changes the module's UART speed. The rate must be a multiple
// of 9600 between 9600 and 115200. If the transport can follow the change
// it is reconfigured to the new rate after the module acknowledges.
func (s *Sensor) SetBaudRate(ctx context.Context, baud int) error {
	if baud%protocol.BaudRateUnit != 0 {
		return fmt.Errorf("baud rate must be a multiple of %d, got %d", protocol.BaudRateUnit, baud)
	}
	multiplier := baud / protocol.BaudRateUnit

	frame, err := protocol.BuildSetSysParamCmd(s.address, protocol.ParamBaudRate, byte(multiplier))
	if err != nil {
		return err
	}
	if _, err := s.command(ctx, "set baud rate", frame); err != nil {
		return err
	}

	if t, ok := s.transport.(interface{ SetBaudRate(baud int) error }); ok {
		if err := t.SetBaudRate(baud); err != nil {
			return fmt.Errorf("reconfigure transport to %d baud: %w", baud, err)
		}
	}

	s.logInfo("baud rate changed", "baud_rate", baud)
	return nil
}

// SetSecurityLevel changes the match threshold. Level 1 trades false
// rejects for false accepts, level 5 the other way around.
func (s *Sensor) SetSecurityLevel(ctx context.Context, level int) error {
	if level < 1 || level > 5 {
		return fmt.Errorf("security level must be 1-5, got %d", level)
	}

	frame, err := protocol.BuildSetSysParamCmd(s.address, protocol.ParamSecurityLevel, byte(level))
	if err != nil {
		return err
	}
	_, err = s.command(ctx, "set security level", frame)
	return err
}

// SetPacketSize changes the data packet size used for template and image
// transfers. Size must be 32, 64, 128 or 256 bytes.
func (s *Sensor) SetPacketSize(ctx context.Context, size int) error {
	code, ok := protocol.PacketSizeCode(size)
	if !ok {
		return fmt.Errorf("packet size must be 32, 64, 128 or 256 bytes, got %d", size)
	}

	frame, err := protocol.BuildSetSysParamCmd(s.address, protocol.ParamPacketSize, code)
	if err != nil {
		return err
	}
	if _, err := s.command(ctx, "set packet size", frame); err != nil {
		return err
	}

	s.packetSize = size
	return nil
}

// TemplateCount returns the number of templates stored in the library.
func (s *Sensor) TemplateCount(ctx context.Context) (uint16, error) {
	frame, err := protocol.BuildTemplateCountCmd(s.address)
	if err != nil {
		return 0, err
	}

	data, err := s.command(ctx, "template count", frame)
	if err != nil {
		return 0, err
	}

	return protocol.ParseTemplateCount(data)
}

// ReadIndexTable reads one page of the library occupancy bitmap. Each page
// covers 256 slots.
func (s *Sensor) ReadIndexTable(ctx context.Context, page byte) (*protocol.IndexTable, error) {
	frame, err := protocol.BuildReadIndexTableCmd(s.address, page)
	if err != nil {
		return nil, err
	}

	data, err := s.command(ctx, "read index table", frame)
	if err != nil {
		return nil, err
	}

	return protocol.ParseIndexTable(page, data)
}

// Templates returns the occupied slot numbers across the whole library,
// in ascending order.
func (s *Sensor) Templates(ctx context.Context) ([]int, error) {
	if err := s.ensureParams(ctx); err != nil {
		return nil, err
	}

	capacity := int(s.capacity)
	pages := (capacity + protocol.IndexTablePageSlots - 1) / protocol.IndexTablePageSlots

	var slots []int
	for page := 0; page < pages; page++ {
		table, err := s.ReadIndexTable(ctx, byte(page))
		if err != nil {
			return nil, err
		}
		for _, slot := range table.Slots() {
			if slot < capacity {
				slots = append(slots, slot)
			}
		}
	}

	return slots, nil
}

// CaptureImage scans the sensor window into the image buffer. The module
// answers CodeNoFinger when nothing is pressed on the window; use
// WaitForFinger to poll until a finger arrives.
func (s *Sensor) CaptureImage(ctx context.Context) error {
	frame, err := protocol.BuildGetImageCmd(s.address)
	if err != nil {
		return err
	}
	_, err = s.command(ctx, "capture image", frame)
	return err
}

// ImageToChar converts the captured image into features in the given
// character buffer.
func (s *Sensor) ImageToChar(ctx context.Context, buffer byte) error {
	frame, err := protocol.BuildImage2TzCmd(s.address, buffer)
	if err != nil {
		return err
	}
	_, err = s.command(ctx, "extract features", frame)
	return err
}

// CreateModel combines the character buffers into a single template, left
// in both buffers.
func (s *Sensor) CreateModel(ctx context.Context) error {
	frame, err := protocol.BuildRegModelCmd(s.address)
	if err != nil {
		return err
	}
	_, err = s.command(ctx, "create model", frame)
	return err
}

// Store writes the template in the given character buffer to a library
// slot.
func (s *Sensor) Store(ctx context.Context, buffer byte, location uint16) error {
	frame, err := protocol.BuildStoreCmd(s.address, buffer, location)
	if err != nil {
		return err
	}
	_, err = s.command(ctx, "store template", frame)
	return err
}

// LoadTemplate reads a library slot into the given character buffer.
func (s *Sensor) LoadTemplate(ctx context.Context, buffer byte, location uint16) error {
	frame, err := protocol.BuildLoadCmd(s.address, buffer, location)
	if err != nil {
		return err
	}
	_, err = s.command(ctx, "load template", frame)
	return err
}

// Search matches the given character buffer against the whole library.
// A miss is reported as a *protocol.CommandError carrying CodeNotFound;
// use protocol.IsNotFound to tell it apart from transport failures.
func (s *Sensor) Search(ctx context.Context, buffer byte) (*protocol.SearchResult, error) {
	return s.search(ctx, "search", buffer, protocol.BuildSearchCmd)
}

// HighSpeedSearch matches the given character buffer against the whole
// library using the module's fast search. It may miss poor quality
// templates that the plain Search still finds.
func (s *Sensor) HighSpeedSearch(ctx context.Context, buffer byte) (*protocol.SearchResult, error) {
	return s.search(ctx, "high speed search", buffer, protocol.BuildHighSpeedSearchCmd)
}

func (s *Sensor) search(ctx context.Context, op string, buffer byte, build func(uint32, byte, uint16, uint16) ([]byte, error)) (*protocol.SearchResult, error) {
	if err := s.ensureParams(ctx); err != nil {
		return nil, err
	}

	frame, err := build(s.address, buffer, 0, s.capacity)
	if err != nil {
		return nil, err
	}

	data, err := s.command(ctx, op, frame)
	if err != nil {
		return nil, err
	}

	return protocol.ParseSearchResult(data)
}

// Compare matches character buffers 1 and 2 directly against each other
// and returns the match score. A mismatch is reported as a
// *protocol.CommandError carrying CodeNoMatch.
func (s *Sensor) Compare(ctx context.Context) (uint16, error) {
	frame, err := protocol.BuildCompareCmd(s.address)
	if err != nil {
		return 0, err
	}

	data, err := s.command(ctx, "compare", frame)
	if err != nil {
		return 0, err
	}

	return protocol.ParseScore(data)
}

// Delete removes count consecutive templates starting at location.
func (s *Sensor) Delete(ctx context.Context, location, count uint16) error {
	frame, err := protocol.BuildDeleteCmd(s.address, location, count)
	if err != nil {
		return err
	}
	if _, err := s.command(ctx, "delete template", frame); err != nil {
		return err
	}

	s.logInfo("templates deleted", "location", location, "count", count)
	return nil
}

// Empty clears the whole template library.
func (s *Sensor) Empty(ctx context.Context) error {
	frame, err := protocol.BuildEmptyCmd(s.address)
	if err != nil {
		return err
	}
	if _, err := s.command(ctx, "empty library", frame); err != nil {
		return err
	}

	s.logInfo("library emptied")
	return nil
}

// SetAuraLED drives the ring LED on modules that have one. Mode is one of
// the protocol.LED* modes, speed scales the effect, color is one of the
// protocol.LED* colors and count is the number of cycles (0 for infinite).
func (s *Sensor) SetAuraLED(ctx context.Context, mode, speed, color, count byte) error {
	frame, err := protocol.BuildAuraLEDCmd(s.address, mode, speed, color, count)
	if err != nil {
		return err
	}
	_, err = s.command(ctx, "set aura led", frame)
	return err
}

// Handshake checks that the module is alive. A live module answers with
// CodeModuleOK rather than CodeOK.
func (s *Sensor) Handshake(ctx context.Context) error {
	frame, err := protocol.BuildGetEchoCmd(s.address)
	if err != nil {
		return err
	}

	code, _, err := s.roundTrip(ctx, "handshake", frame, s.address)
	if err != nil {
		return err
	}
	if code != protocol.CodeModuleOK {
		return &protocol.CommandError{Op: "handshake", Code: code}
	}

	return nil
}

// SoftReset restarts the module. After the acknowledge the module emits a
// single ready byte once its self-check passes; SoftReset waits for it.
func (s *Sensor) SoftReset(ctx context.Context) error {
	frame, err := protocol.BuildSoftResetCmd(s.address)
	if err != nil {
		return err
	}
	if _, err := s.command(ctx, "soft reset", frame); err != nil {
		return err
	}

	var ready [1]byte
	n, err := s.transport.Read(ready[:])
	if err != nil {
		return fmt.Errorf("soft reset: read ready byte: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("soft reset: %w", &protocol.TimeoutError{Section: "ready byte", Want: 1})
	}
	if ready[0] != protocol.ModuleReadyByte {
		return fmt.Errorf("soft reset: unexpected ready byte 0x%02X, expected 0x%02X", ready[0], protocol.ModuleReadyByte)
	}

	s.logInfo("module restarted")
	return nil
}
