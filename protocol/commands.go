package protocol

import (
	"encoding/binary"
	"fmt"
)

// BuildVerifyPasswordCmd constructs a Verify Password command packet.
// Every authenticated session starts with this exchange.
//
// Payload:
//
//	[CMD][PASSWORD(4)]
func BuildVerifyPasswordCmd(address, password uint32) ([]byte, error) {
	payload := make([]byte, 0, 1+4)
	payload = append(payload, CmdVerifyPassword)
	payload = appendUint32(payload, password)
	return Encode(address, PacketCommand, payload), nil
}

// BuildSetPasswordCmd constructs a Set Password command packet.
// On success the module requires the new password from then on.
//
// Payload:
//
//	[CMD][PASSWORD(4)]
func BuildSetPasswordCmd(address, password uint32) ([]byte, error) {
	payload := make([]byte, 0, 1+4)
	payload = append(payload, CmdSetPassword)
	payload = appendUint32(payload, password)
	return Encode(address, PacketCommand, payload), nil
}

// BuildSetAddressCmd constructs a Set Address command packet.
// The module acknowledges under the new address.
//
// Payload:
//
//	[CMD][ADDRESS(4)]
func BuildSetAddressCmd(address, newAddress uint32) ([]byte, error) {
	payload := make([]byte, 0, 1+4)
	payload = append(payload, CmdSetAddress)
	payload = appendUint32(payload, newAddress)
	return Encode(address, PacketCommand, payload), nil
}

// BuildSetSysParamCmd constructs a Set System Parameter command packet.
// The register must be one of ParamBaudRate, ParamSecurityLevel or
// ParamPacketSize; the value range depends on the register.
//
// Payload:
//
//	[CMD][REGISTER][VALUE]
func BuildSetSysParamCmd(address uint32, register, value byte) ([]byte, error) {
	switch register {
	case ParamBaudRate:
		if value < 1 || value > 12 {
			return nil, fmt.Errorf("baud rate multiplier must be 1-12, got %d", value)
		}
	case ParamSecurityLevel:
		if value < 1 || value > 5 {
			return nil, fmt.Errorf("security level must be 1-5, got %d", value)
		}
	case ParamPacketSize:
		if value > 3 {
			return nil, fmt.Errorf("packet size code must be 0-3, got %d", value)
		}
	default:
		return nil, fmt.Errorf("unknown parameter register %d", register)
	}
	return Encode(address, PacketCommand, []byte{CmdSetSysParam, register, value}), nil
}

// BuildReadSysParamsCmd constructs a Read System Parameters command packet.
//
// Payload:
//
//	[CMD]
func BuildReadSysParamsCmd(address uint32) ([]byte, error) {
	return Encode(address, PacketCommand, []byte{CmdReadSysParams}), nil
}

// BuildGetImageCmd constructs a Get Image command packet. The module scans
// the sensor window and reports CodeNoFinger when nothing is on it.
//
// Payload:
//
//	[CMD]
func BuildGetImageCmd(address uint32) ([]byte, error) {
	return Encode(address, PacketCommand, []byte{CmdGetImage}), nil
}

// BuildImage2TzCmd constructs an Image To Character command packet,
// converting the captured image into the given character buffer.
//
// Payload:
//
//	[CMD][BUFFER]
func BuildImage2TzCmd(address uint32, buffer byte) ([]byte, error) {
	if buffer != CharBuffer1 && buffer != CharBuffer2 {
		return nil, fmt.Errorf("character buffer must be %d or %d, got %d", CharBuffer1, CharBuffer2, buffer)
	}
	return Encode(address, PacketCommand, []byte{CmdImage2Tz, buffer}), nil
}

// BuildRegModelCmd constructs a Register Model command packet, merging the
// character buffers into a single template.
//
// Payload:
//
//	[CMD]
func BuildRegModelCmd(address uint32) ([]byte, error) {
	return Encode(address, PacketCommand, []byte{CmdRegModel}), nil
}

// BuildCompareCmd constructs a Compare command packet, matching character
// buffers 1 and 2 directly against each other.
//
// Payload:
//
//	[CMD]
func BuildCompareCmd(address uint32) ([]byte, error) {
	return Encode(address, PacketCommand, []byte{CmdCompare}), nil
}

// BuildSearchCmd constructs a Search command packet, matching a character
// buffer against count library slots starting at start.
//
// Payload:
//
//	[CMD][BUFFER][START(2)][COUNT(2)]
func BuildSearchCmd(address uint32, buffer byte, start, count uint16) ([]byte, error) {
	return buildSearch(CmdSearch, address, buffer, start, count)
}

// BuildHighSpeedSearchCmd constructs a High Speed Search command packet.
// Same layout as Search, served by the module's fast path.
//
// Payload:
//
//	[CMD][BUFFER][START(2)][COUNT(2)]
func BuildHighSpeedSearchCmd(address uint32, buffer byte, start, count uint16) ([]byte, error) {
	return buildSearch(CmdHighSpeedSearch, address, buffer, start, count)
}

func buildSearch(cmd byte, address uint32, buffer byte, start, count uint16) ([]byte, error) {
	if buffer != CharBuffer1 && buffer != CharBuffer2 {
		return nil, fmt.Errorf("character buffer must be %d or %d, got %d", CharBuffer1, CharBuffer2, buffer)
	}
	if count == 0 {
		return nil, fmt.Errorf("search count cannot be zero")
	}
	payload := make([]byte, 0, 1+1+2+2)
	payload = append(payload, cmd, buffer)
	payload = appendUint16(payload, start)
	payload = appendUint16(payload, count)
	return Encode(address, PacketCommand, payload), nil
}

// BuildStoreCmd constructs a Store command packet, writing a character
// buffer to a library slot.
//
// Payload:
//
//	[CMD][BUFFER][LOCATION(2)]
func BuildStoreCmd(address uint32, buffer byte, location uint16) ([]byte, error) {
	return buildSlotCmd(CmdStore, address, buffer, location)
}

// BuildLoadCmd constructs a Load command packet, reading a library slot
// into a character buffer.
//
// Payload:
//
//	[CMD][BUFFER][LOCATION(2)]
func BuildLoadCmd(address uint32, buffer byte, location uint16) ([]byte, error) {
	return buildSlotCmd(CmdLoad, address, buffer, location)
}

func buildSlotCmd(cmd byte, address uint32, buffer byte, location uint16) ([]byte, error) {
	if buffer != CharBuffer1 && buffer != CharBuffer2 {
		return nil, fmt.Errorf("character buffer must be %d or %d, got %d", CharBuffer1, CharBuffer2, buffer)
	}
	payload := make([]byte, 0, 1+1+2)
	payload = append(payload, cmd, buffer)
	payload = appendUint16(payload, location)
	return Encode(address, PacketCommand, payload), nil
}

// BuildDeleteCmd constructs a Delete command packet, removing count
// consecutive slots starting at location.
//
// Payload:
//
//	[CMD][LOCATION(2)][COUNT(2)]
func BuildDeleteCmd(address uint32, location, count uint16) ([]byte, error) {
	if count == 0 {
		return nil, fmt.Errorf("delete count cannot be zero")
	}
	payload := make([]byte, 0, 1+2+2)
	payload = append(payload, CmdDelete)
	payload = appendUint16(payload, location)
	payload = appendUint16(payload, count)
	return Encode(address, PacketCommand, payload), nil
}

// BuildEmptyCmd constructs an Empty command packet, clearing the whole
// template library.
//
// Payload:
//
//	[CMD]
func BuildEmptyCmd(address uint32) ([]byte, error) {
	return Encode(address, PacketCommand, []byte{CmdEmpty}), nil
}

// BuildTemplateCountCmd constructs a Template Count command packet.
//
// Payload:
//
//	[CMD]
func BuildTemplateCountCmd(address uint32) ([]byte, error) {
	return Encode(address, PacketCommand, []byte{CmdTemplateCount}), nil
}

// BuildReadIndexTableCmd constructs a Read Index Table command packet for
// one bitmap page. Page 0 covers slots 0-255, page 1 covers 256-511, and
// so on.
//
// Payload:
//
//	[CMD][PAGE]
func BuildReadIndexTableCmd(address uint32, page byte) ([]byte, error) {
	return Encode(address, PacketCommand, []byte{CmdReadIndexTable, page}), nil
}

// BuildUpCharCmd constructs an Upload Character command packet. After the
// ack the module streams the buffer as data packets.
//
// Payload:
//
//	[CMD][BUFFER]
func BuildUpCharCmd(address uint32, buffer byte) ([]byte, error) {
	if buffer != CharBuffer1 && buffer != CharBuffer2 {
		return nil, fmt.Errorf("character buffer must be %d or %d, got %d", CharBuffer1, CharBuffer2, buffer)
	}
	return Encode(address, PacketCommand, []byte{CmdUpChar, buffer}), nil
}

// BuildDownCharCmd constructs a Download Character command packet. After
// the ack the host streams the buffer content as data packets.
//
// Payload:
//
//	[CMD][BUFFER]
func BuildDownCharCmd(address uint32, buffer byte) ([]byte, error) {
	if buffer != CharBuffer1 && buffer != CharBuffer2 {
		return nil, fmt.Errorf("character buffer must be %d or %d, got %d", CharBuffer1, CharBuffer2, buffer)
	}
	return Encode(address, PacketCommand, []byte{CmdDownChar, buffer}), nil
}

// BuildUpImageCmd constructs an Upload Image command packet. After the ack
// the module streams the image buffer as data packets.
//
// Payload:
//
//	[CMD]
func BuildUpImageCmd(address uint32) ([]byte, error) {
	return Encode(address, PacketCommand, []byte{CmdUpImage}), nil
}

// BuildDownImageCmd constructs a Download Image command packet. After the
// ack the host streams image data as data packets.
//
// Payload:
//
//	[CMD]
func BuildDownImageCmd(address uint32) ([]byte, error) {
	return Encode(address, PacketCommand, []byte{CmdDownImage}), nil
}

// BuildDataPacket constructs one chunk of a host-to-module transfer.
// The final chunk must be sent with end set so the module sees the
// end-of-data identifier.
func BuildDataPacket(address uint32, chunk []byte, end bool) ([]byte, error) {
	if len(chunk) > MaxPayloadSize {
		return nil, fmt.Errorf("data chunk length %d exceeds maximum %d bytes", len(chunk), MaxPayloadSize)
	}
	id := byte(PacketData)
	if end {
		id = PacketEndData
	}
	return Encode(address, id, chunk), nil
}

// BuildAuraLEDCmd constructs an Aura LED Config command packet. Modules
// without a ring LED reject it with an error confirmation.
//
// Payload:
//
//	[CMD][MODE][SPEED][COLOR][COUNT]
func BuildAuraLEDCmd(address uint32, mode, speed, color, count byte) ([]byte, error) {
	if mode < LEDBreathing || mode > LEDGradualOff {
		return nil, fmt.Errorf("LED mode must be 0x%02X-0x%02X, got 0x%02X", LEDBreathing, LEDGradualOff, mode)
	}
	return Encode(address, PacketCommand, []byte{CmdAuraLED, mode, speed, color, count}), nil
}

// BuildSoftResetCmd constructs a Soft Reset command packet. After the ack
// the module emits ModuleReadyByte once it is ready again.
//
// Payload:
//
//	[CMD]
func BuildSoftResetCmd(address uint32) ([]byte, error) {
	return Encode(address, PacketCommand, []byte{CmdSoftReset}), nil
}

// BuildGetEchoCmd constructs a Get Echo command packet. A live module
// acknowledges with CodeModuleOK rather than CodeOK.
//
// Payload:
//
//	[CMD]
func BuildGetEchoCmd(address uint32) ([]byte, error) {
	return Encode(address, PacketCommand, []byte{CmdGetEcho}), nil
}

func appendUint16(b []byte, v uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, v)
	return append(b, buf...)
}

func appendUint32(b []byte, v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return append(b, buf...)
}
