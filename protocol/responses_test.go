package protocol

import (
	"bytes"
	"errors"
	"testing"
)

// Helper to build an acknowledge packet for testing.
func buildTestAck(code ConfirmationCode, data []byte) *Packet {
	payload := append([]byte{byte(code)}, data...)
	return &Packet{Address: DefaultAddress, ID: PacketAck, Payload: payload}
}

func TestParseAck(t *testing.T) {
	tests := []struct {
		name        string
		packet      *Packet
		wantCode    ConfirmationCode
		wantDataLen int
		wantErr     bool
		errMsg      string
	}{
		{
			name:     "success with no data",
			packet:   buildTestAck(CodeOK, nil),
			wantCode: CodeOK,
		},
		{
			name:        "success with data",
			packet:      buildTestAck(CodeOK, []byte{0x00, 0x2A}),
			wantCode:    CodeOK,
			wantDataLen: 2,
		},
		{
			name:     "no finger code",
			packet:   buildTestAck(CodeNoFinger, nil),
			wantCode: CodeNoFinger,
		},
		{
			name:     "module ok code",
			packet:   buildTestAck(CodeModuleOK, nil),
			wantCode: CodeModuleOK,
		},
		{
			name:    "data packet instead of ack",
			packet:  &Packet{Address: DefaultAddress, ID: PacketData, Payload: []byte{0x00}},
			wantErr: true,
			errMsg:  "unexpected packet",
		},
		{
			name:    "unknown confirmation code",
			packet:  &Packet{Address: DefaultAddress, ID: PacketAck, Payload: []byte{0x42}},
			wantErr: true,
			errMsg:  "unknown confirmation code",
		},
		{
			name:    "empty payload",
			packet:  &Packet{Address: DefaultAddress, ID: PacketAck},
			wantErr: true,
			errMsg:  "no confirmation code",
		},
		{
			name:    "nil packet",
			packet:  nil,
			wantErr: true,
			errMsg:  "nil packet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, data, err := ParseAck(tt.packet)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !bytes.Contains([]byte(err.Error()), []byte(tt.errMsg)) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if code != tt.wantCode {
				t.Errorf("code = 0x%02X, want 0x%02X", byte(code), byte(tt.wantCode))
			}

			if len(data) != tt.wantDataLen {
				t.Errorf("data length = %d, want %d", len(data), tt.wantDataLen)
			}
		})
	}
}

func TestParseAckErrorTypes(t *testing.T) {
	_, _, err := ParseAck(&Packet{ID: PacketData, Payload: []byte{0x00}})

	var unrecognized *UnrecognizedResponseError
	if !errors.As(err, &unrecognized) {
		t.Fatalf("error type = %T, want *UnrecognizedResponseError", err)
	}

	if unrecognized.PacketID != PacketData {
		t.Errorf("PacketID = 0x%02X, want 0x%02X", unrecognized.PacketID, PacketData)
	}

	_, _, err = ParseAck(&Packet{ID: PacketAck, Payload: []byte{0x99}})
	if !errors.As(err, &unrecognized) {
		t.Fatalf("error type = %T, want *UnrecognizedResponseError", err)
	}

	if unrecognized.Code != ConfirmationCode(0x99) {
		t.Errorf("Code = 0x%02X, want 0x99", byte(unrecognized.Code))
	}
}

func TestParseSystemParams(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		wantParams *SystemParams
		wantErr    bool
		errMsg     string
	}{
		{
			name: "valid parameter block",
			data: []byte{
				0x00, 0x00, // status register
				0x00, 0x09, // system identifier
				0x00, 0xC8, // capacity (200)
				0x00, 0x03, // security level
				0xFF, 0xFF, 0xFF, 0xFF, // address
				0x00, 0x02, // packet size code (128 bytes)
				0x00, 0x06, // baud multiplier (57600)
			},
			wantParams: &SystemParams{
				StatusRegister: 0x0000,
				SystemID:       0x0009,
				Capacity:       200,
				SecurityLevel:  3,
				Address:        0xFFFFFFFF,
				PacketSize:     128,
				BaudRate:       57600,
			},
		},
		{
			name: "high capacity module",
			data: []byte{
				0x00, 0x00,
				0x00, 0x09,
				0x05, 0xDC, // capacity (1500)
				0x00, 0x05,
				0x12, 0x34, 0x56, 0x78,
				0x00, 0x01, // packet size code (64 bytes)
				0x00, 0x0C, // baud multiplier (115200)
			},
			wantParams: &SystemParams{
				Capacity:      1500,
				SecurityLevel: 5,
				Address:       0x12345678,
				PacketSize:    64,
				BaudRate:      115200,
			},
		},
		{
			name:    "data too short",
			data:    []byte{0x00, 0x00, 0x00, 0x09},
			wantErr: true,
			errMsg:  "invalid data length",
		},
		{
			name:    "data too long",
			data:    make([]byte, 18),
			wantErr: true,
			errMsg:  "invalid data length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := ParseSystemParams(tt.data)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !bytes.Contains([]byte(err.Error()), []byte(tt.errMsg)) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if params.Capacity != tt.wantParams.Capacity {
				t.Errorf("Capacity = %d, want %d", params.Capacity, tt.wantParams.Capacity)
			}

			if params.SecurityLevel != tt.wantParams.SecurityLevel {
				t.Errorf("SecurityLevel = %d, want %d", params.SecurityLevel, tt.wantParams.SecurityLevel)
			}

			if params.Address != tt.wantParams.Address {
				t.Errorf("Address = 0x%08X, want 0x%08X", params.Address, tt.wantParams.Address)
			}

			if params.PacketSize != tt.wantParams.PacketSize {
				t.Errorf("PacketSize = %d, want %d", params.PacketSize, tt.wantParams.PacketSize)
			}

			if params.BaudRate != tt.wantParams.BaudRate {
				t.Errorf("BaudRate = %d, want %d", params.BaudRate, tt.wantParams.BaudRate)
			}
		})
	}
}

func TestParseSearchResult(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		wantResult *SearchResult
		wantErr    bool
		errMsg     string
	}{
		{
			name:       "match at slot 7",
			data:       []byte{0x00, 0x07, 0x00, 0x96},
			wantResult: &SearchResult{Slot: 7, Score: 150},
		},
		{
			name:       "match at high slot",
			data:       []byte{0x03, 0xE7, 0xFF, 0xFF},
			wantResult: &SearchResult{Slot: 999, Score: 65535},
		},
		{
			name:    "data too short",
			data:    []byte{0x00, 0x07},
			wantErr: true,
			errMsg:  "invalid data length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseSearchResult(tt.data)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !bytes.Contains([]byte(err.Error()), []byte(tt.errMsg)) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.Slot != tt.wantResult.Slot {
				t.Errorf("Slot = %d, want %d", result.Slot, tt.wantResult.Slot)
			}

			if result.Score != tt.wantResult.Score {
				t.Errorf("Score = %d, want %d", result.Score, tt.wantResult.Score)
			}
		})
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		wantScore uint16
		wantErr   bool
		errMsg    string
	}{
		{name: "positive score", data: []byte{0x01, 0x2C}, wantScore: 300},
		{name: "zero score", data: []byte{0x00, 0x00}, wantScore: 0},
		{name: "empty data", data: []byte{}, wantErr: true, errMsg: "invalid data length"},
		{name: "data too long", data: []byte{0x01, 0x02, 0x03}, wantErr: true, errMsg: "invalid data length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := ParseScore(tt.data)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !bytes.Contains([]byte(err.Error()), []byte(tt.errMsg)) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
		})
	}
}

func TestParseTemplateCount(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		wantCount uint16
		wantErr   bool
		errMsg    string
	}{
		{name: "empty library", data: []byte{0x00, 0x00}, wantCount: 0},
		{name: "partially filled", data: []byte{0x00, 0x2A}, wantCount: 42},
		{name: "data too short", data: []byte{0x2A}, wantErr: true, errMsg: "invalid data length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := ParseTemplateCount(tt.data)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !bytes.Contains([]byte(err.Error()), []byte(tt.errMsg)) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if count != tt.wantCount {
				t.Errorf("count = %d, want %d", count, tt.wantCount)
			}
		})
	}
}

func TestParseIndexTable(t *testing.T) {
	// Bitmap with slots 0, 3 and 9 occupied: bits are LSB-first within
	// each byte, so byte 0 = 0b00001001 and byte 1 = 0b00000010.
	data := make([]byte, IndexTableSize)
	data[0] = 0x09
	data[1] = 0x02

	table, err := ParseIndexTable(0, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for slot, want := range map[int]bool{0: true, 1: false, 3: true, 8: false, 9: true, 255: false} {
		if got := table.Used(slot); got != want {
			t.Errorf("Used(%d) = %v, want %v", slot, got, want)
		}
	}

	slots := table.Slots()
	wantSlots := []int{0, 3, 9}
	if len(slots) != len(wantSlots) {
		t.Fatalf("Slots() = %v, want %v", slots, wantSlots)
	}
	for i := range wantSlots {
		if slots[i] != wantSlots[i] {
			t.Errorf("Slots()[%d] = %d, want %d", i, slots[i], wantSlots[i])
		}
	}
}

func TestParseIndexTablePageOffset(t *testing.T) {
	data := make([]byte, IndexTableSize)
	data[0] = 0x01

	table, err := ParseIndexTable(1, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slots := table.Slots()
	if len(slots) != 1 || slots[0] != IndexTablePageSlots {
		t.Errorf("Slots() = %v, want [%d]", slots, IndexTablePageSlots)
	}
}

func TestParseIndexTableBadLength(t *testing.T) {
	_, err := ParseIndexTable(0, make([]byte, 16))
	if err == nil {
		t.Fatal("expected error for short bitmap, got nil")
	}
	if !bytes.Contains([]byte(err.Error()), []byte("invalid data length")) {
		t.Errorf("error = %v, want substring %q", err, "invalid data length")
	}
}

func BenchmarkParseAck(b *testing.B) {
	pkt := buildTestAck(CodeOK, []byte{0x00, 0x07, 0x00, 0x96})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = ParseAck(pkt)
	}
}
