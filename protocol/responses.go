package protocol

import (
	"encoding/binary"
	"fmt"
)

// ParseAck extracts the confirmation code and any trailing reply data from
// an acknowledge packet. A packet whose identifier is not PacketAck, or
// whose code is not a documented confirmation code, yields an
// *UnrecognizedResponseError. Known non-zero codes are returned as-is so
// callers can decide which of them are errors for the operation at hand.
func ParseAck(p *Packet) (ConfirmationCode, []byte, error) {
	if p == nil {
		return 0, nil, fmt.Errorf("nil packet")
	}
	if p.ID != PacketAck {
		return 0, nil, &UnrecognizedResponseError{PacketID: p.ID}
	}
	if len(p.Payload) == 0 {
		return 0, nil, fmt.Errorf("acknowledge packet has no confirmation code")
	}
	code := ConfirmationCode(p.Payload[0])
	if !KnownCode(code) {
		return 0, nil, &UnrecognizedResponseError{PacketID: p.ID, Code: code}
	}
	return code, p.Payload[1:], nil
}

// ParseSystemParams decodes the 16-byte parameter block returned by a Read
// System Parameters command.
func ParseSystemParams(data []byte) (*SystemParams, error) {
	if len(data) != SystemParamsSize {
		return nil, fmt.Errorf("invalid data length for system parameters response: got %d bytes, expected %d", len(data), SystemParamsSize)
	}
	sizeCode := binary.BigEndian.Uint16(data[12:14])
	return &SystemParams{
		StatusRegister: binary.BigEndian.Uint16(data[0:2]),
		SystemID:       binary.BigEndian.Uint16(data[2:4]),
		Capacity:       binary.BigEndian.Uint16(data[4:6]),
		SecurityLevel:  binary.BigEndian.Uint16(data[6:8]),
		Address:        binary.BigEndian.Uint32(data[8:12]),
		PacketSize:     packetSizeBytes(sizeCode),
		BaudRate:       int(binary.BigEndian.Uint16(data[14:16])) * BaudRateUnit,
	}, nil
}

// ParseSearchResult decodes the slot and score returned by a successful
// Search or High Speed Search command.
func ParseSearchResult(data []byte) (*SearchResult, error) {
	if len(data) != SearchResultSize {
		return nil, fmt.Errorf("invalid data length for search response: got %d bytes, expected %d", len(data), SearchResultSize)
	}
	return &SearchResult{
		Slot:  binary.BigEndian.Uint16(data[0:2]),
		Score: binary.BigEndian.Uint16(data[2:4]),
	}, nil
}

// ParseScore decodes the match score returned by a Compare command.
func ParseScore(data []byte) (uint16, error) {
	if len(data) != ScoreSize {
		return 0, fmt.Errorf("invalid data length for compare response: got %d bytes, expected %d", len(data), ScoreSize)
	}
	return binary.BigEndian.Uint16(data), nil
}

// ParseTemplateCount decodes the number of stored templates returned by a
// Template Count command.
func ParseTemplateCount(data []byte) (uint16, error) {
	if len(data) != TemplateCountSize {
		return 0, fmt.Errorf("invalid data length for template count response: got %d bytes, expected %d", len(data), TemplateCountSize)
	}
	return binary.BigEndian.Uint16(data), nil
}

// ParseIndexTable decodes the 32-byte occupancy bitmap returned by a Read
// Index Table command for the given page.
func ParseIndexTable(page byte, data []byte) (*IndexTable, error) {
	if len(data) != IndexTableSize {
		return nil, fmt.Errorf("invalid data length for index table response: got %d bytes, expected %d", len(data), IndexTableSize)
	}
	t := &IndexTable{Page: page}
	copy(t.Bitmap[:], data)
	return t, nil
}
