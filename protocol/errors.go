package protocol

import (
	"errors"
	"fmt"
)

// ConfirmationCode is the 1-byte result code carried in every ack packet.
type ConfirmationCode byte

// Confirmation codes reported by the module.
const (
	// CodeOK indicates the command completed successfully
	CodeOK ConfirmationCode = 0x00

	// CodePacketReceive indicates the module failed to receive the packet
	CodePacketReceive ConfirmationCode = 0x01

	// CodeNoFinger indicates no finger was on the sensor window
	CodeNoFinger ConfirmationCode = 0x02

	// CodeImageFail indicates the module failed to capture an image
	CodeImageFail ConfirmationCode = 0x03

	// CodeImageMess indicates the image was too disordered to process
	CodeImageMess ConfirmationCode = 0x06

	// CodeFeatureFail indicates the image had too few feature points
	CodeFeatureFail ConfirmationCode = 0x07

	// CodeNoMatch indicates the compared character buffers do not match
	CodeNoMatch ConfirmationCode = 0x08

	// CodeNotFound indicates no library template matched the search
	CodeNotFound ConfirmationCode = 0x09

	// CodeEnrollMismatch indicates the enrollment captures do not combine
	CodeEnrollMismatch ConfirmationCode = 0x0A

	// CodeBadLocation indicates the slot index is beyond the library
	CodeBadLocation ConfirmationCode = 0x0B

	// CodeDBRangeFail indicates the module failed to read the slot
	CodeDBRangeFail ConfirmationCode = 0x0C

	// CodeUploadFeature indicates the character upload was aborted
	CodeUploadFeature ConfirmationCode = 0x0D

	// CodePacketResponse indicates the module cannot accept further packets
	CodePacketResponse ConfirmationCode = 0x0E

	// CodeUploadFail indicates the image upload was aborted
	CodeUploadFail ConfirmationCode = 0x0F

	// CodeDeleteFail indicates the module failed to delete the slot
	CodeDeleteFail ConfirmationCode = 0x10

	// CodeDBClearFail indicates the module failed to clear the library
	CodeDBClearFail ConfirmationCode = 0x11

	// CodeWrongPassword indicates the session password was rejected
	CodeWrongPassword ConfirmationCode = 0x13

	// CodeInvalidImage indicates the image buffer holds no valid image
	CodeInvalidImage ConfirmationCode = 0x15

	// CodeFlashError indicates a module flash write failed
	CodeFlashError ConfirmationCode = 0x18

	// CodeInvalidRegister indicates an unknown system parameter register
	CodeInvalidRegister ConfirmationCode = 0x1A

	// CodeBadAddress indicates the packet address was incorrect
	CodeBadAddress ConfirmationCode = 0x20

	// CodePasswordRequired indicates the password must be verified first
	CodePasswordRequired ConfirmationCode = 0x21

	// CodeModuleOK is the handshake confirmation returned by CmdGetEcho
	CodeModuleOK ConfirmationCode = 0x55
)

// String returns a human-readable name for the confirmation code.
func (c ConfirmationCode) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodePacketReceive:
		return "packet receive error"
	case CodeNoFinger:
		return "no finger on sensor"
	case CodeImageFail:
		return "image capture failed"
	case CodeImageMess:
		return "image too messy"
	case CodeFeatureFail:
		return "too few feature points"
	case CodeNoMatch:
		return "fingers do not match"
	case CodeNotFound:
		return "no matching template"
	case CodeEnrollMismatch:
		return "enrollment captures do not combine"
	case CodeBadLocation:
		return "slot index out of range"
	case CodeDBRangeFail:
		return "template read failed"
	case CodeUploadFeature:
		return "character upload failed"
	case CodePacketResponse:
		return "module cannot receive further packets"
	case CodeUploadFail:
		return "image upload failed"
	case CodeDeleteFail:
		return "template delete failed"
	case CodeDBClearFail:
		return "library clear failed"
	case CodeWrongPassword:
		return "wrong password"
	case CodeInvalidImage:
		return "no valid image in buffer"
	case CodeFlashError:
		return "flash write error"
	case CodeInvalidRegister:
		return "invalid parameter register"
	case CodeBadAddress:
		return "incorrect address"
	case CodePasswordRequired:
		return "password not verified"
	case CodeModuleOK:
		return "module handshake ok"
	default:
		return fmt.Sprintf("unknown code 0x%02X", byte(c))
	}
}

// KnownCode reports whether the confirmation code belongs to the closed set
// the module is documented to return.
func KnownCode(c ConfirmationCode) bool {
	switch c {
	case CodeOK, CodePacketReceive, CodeNoFinger, CodeImageFail, CodeImageMess,
		CodeFeatureFail, CodeNoMatch, CodeNotFound, CodeEnrollMismatch,
		CodeBadLocation, CodeDBRangeFail, CodeUploadFeature, CodePacketResponse,
		CodeUploadFail, CodeDeleteFail, CodeDBClearFail, CodeWrongPassword,
		CodeInvalidImage, CodeFlashError, CodeInvalidRegister, CodeBadAddress,
		CodePasswordRequired, CodeModuleOK:
		return true
	}
	return false
}

// FramingError indicates the byte stream did not begin with the packet
// start marker.
type FramingError struct {
	// Marker is the 2-byte value read where the start marker was expected
	Marker uint16
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("bad start marker: got 0x%04X, expected 0x%04X", e.Marker, uint16(StartMarker))
}

// ChecksumError indicates a packet arrived with a checksum that does not
// match its contents.
type ChecksumError struct {
	// Expected is the checksum declared in the packet
	Expected uint16

	// Actual is the checksum computed over the received bytes
	Actual uint16
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%04X, got 0x%04X", e.Expected, e.Actual)
}

// TimeoutError indicates the transport stopped delivering bytes before a
// packet section was fully read.
type TimeoutError struct {
	// Section names the part of the packet that starved
	Section string

	// Want is the number of bytes the section required
	Want int

	// Got is the number of bytes that arrived before the timeout
	Got int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("transport timeout reading %s: got %d of %d bytes", e.Section, e.Got, e.Want)
}

// UnrecognizedResponseError indicates the module answered with something
// outside the documented protocol: an unexpected packet identifier, or an
// ack carrying a confirmation code not in the known set.
type UnrecognizedResponseError struct {
	// PacketID is the identifier byte of the offending packet
	PacketID byte

	// Code is the confirmation code, meaningful only when PacketID is PacketAck
	Code ConfirmationCode
}

func (e *UnrecognizedResponseError) Error() string {
	if e.PacketID != PacketAck {
		return fmt.Sprintf("unrecognized response: unexpected packet identifier 0x%02X", e.PacketID)
	}
	return fmt.Sprintf("unrecognized response: unknown confirmation code 0x%02X", byte(e.Code))
}

// CommandError is a failure reported by the module itself: the exchange
// succeeded at the wire level but the confirmation code was not CodeOK.
type CommandError struct {
	// Op is the operation that failed
	Op string

	// Code is the confirmation code the module returned
	Code ConfirmationCode
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s failed: %s (0x%02X)", e.Op, e.Code, byte(e.Code))
}

// CodeOf extracts the module confirmation code from err, if err (or any
// error it wraps) is a CommandError.
func CodeOf(err error) (ConfirmationCode, bool) {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code, true
	}
	return 0, false
}

// IsCode reports whether err is a CommandError carrying the given code.
func IsCode(err error, code ConfirmationCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// IsNoFinger reports whether err is the module saying no finger was present.
func IsNoFinger(err error) bool {
	return IsCode(err, CodeNoFinger)
}

// IsNotFound reports whether err is the module saying a search found no match.
func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound)
}

// IsNoMatch reports whether err is the module saying two buffers do not match.
func IsNoMatch(err error) bool {
	return IsCode(err, CodeNoMatch)
}
