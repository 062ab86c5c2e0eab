package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Packet is one framed unit of the wire protocol.
type Packet struct {
	// Address is the module address the packet was sent to or from
	Address uint32

	// ID is the packet identifier (PacketCommand, PacketData, PacketAck
	// or PacketEndData)
	ID byte

	// Payload is the packet content, excluding framing and checksum
	Payload []byte
}

// Encode builds a complete frame around the payload.
//
// Frame structure:
//
//	[MARKER(2)][ADDRESS(4)][ID(1)][LENGTH(2)][PAYLOAD...][CHECKSUM(2)]
//
// All multi-byte fields are big-endian. The length field counts the payload
// plus the 2 checksum bytes. The checksum is the 16-bit wrapping sum of the
// identifier, the length bytes and the payload.
func Encode(address uint32, id byte, payload []byte) []byte {
	frame := make([]byte, 0, PacketOverhead+len(payload))

	frame = append(frame, byte(StartMarker>>8), byte(StartMarker&0xFF))

	addrBytes := make([]byte, AddressSize)
	binary.BigEndian.PutUint32(addrBytes, address)
	frame = append(frame, addrBytes...)

	frame = append(frame, id)

	lenBytes := make([]byte, LengthSize)
	binary.BigEndian.PutUint16(lenBytes, uint16(len(payload)+ChecksumSize))
	frame = append(frame, lenBytes...)

	frame = append(frame, payload...)

	checksumBytes := make([]byte, ChecksumSize)
	binary.BigEndian.PutUint16(checksumBytes, Checksum(frame[MarkerSize+AddressSize:]))
	frame = append(frame, checksumBytes...)

	return frame
}

// ReadPacket reads and validates exactly one packet from the transport.
//
// The read sequence is blocking and synchronous: marker first, then the
// rest of the header, then the payload and checksum. A stream that stops
// delivering bytes mid-packet fails with *TimeoutError; a wrong start
// marker fails with *FramingError; a checksum mismatch fails with
// *ChecksumError. No decode state survives across calls.
func ReadPacket(r io.Reader) (*Packet, error) {
	marker := make([]byte, MarkerSize)
	if err := readExact(r, marker, "start marker"); err != nil {
		return nil, err
	}
	if got := binary.BigEndian.Uint16(marker); got != StartMarker {
		return nil, &FramingError{Marker: got}
	}

	// ADDRESS(4) + ID(1) + LENGTH(2)
	header := make([]byte, AddressSize+1+LengthSize)
	if err := readExact(r, header, "packet header"); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint16(header[AddressSize+1:])
	if length < ChecksumSize {
		return nil, fmt.Errorf("invalid length field: %d is below the checksum size", length)
	}
	if int(length) > MaxPayloadSize+ChecksumSize {
		return nil, fmt.Errorf("invalid length field: %d exceeds the maximum packet length %d",
			length, MaxPayloadSize+ChecksumSize)
	}

	body := make([]byte, length)
	if err := readExact(r, body, "packet body"); err != nil {
		return nil, err
	}

	payload := body[:length-ChecksumSize]
	declared := binary.BigEndian.Uint16(body[length-ChecksumSize:])
	computed := Checksum(header[AddressSize:]) + Checksum(payload)
	if declared != computed {
		return nil, &ChecksumError{Expected: declared, Actual: computed}
	}

	return &Packet{
		Address: binary.BigEndian.Uint32(header[:AddressSize]),
		ID:      header[AddressSize],
		Payload: payload,
	}, nil
}

// Decode validates a complete in-memory frame and returns the packet.
//
// Decode applies the same validation as ReadPacket; a truncated frame
// surfaces as *TimeoutError (the in-memory equivalent of a starved read).
// Bytes beyond the declared packet length are rejected.
func Decode(frame []byte) (*Packet, error) {
	r := bytes.NewReader(frame)
	p, err := ReadPacket(r)
	if err != nil {
		return nil, err
	}
	if r.Len() > 0 {
		return nil, fmt.Errorf("trailing %d bytes after packet", r.Len())
	}
	return p, nil
}

// readExact fills buf completely or reports why it could not. A zero-byte
// read or a stream end before buf is full is a transport timeout: serial
// ports signal an expired read deadline by returning no data.
func readExact(r io.Reader, buf []byte, section string) error {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if total == len(buf) {
			break
		}
		if err == io.EOF || (n == 0 && err == nil) {
			return &TimeoutError{Section: section, Want: len(buf), Got: total}
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", section, err)
		}
	}
	return nil
}
