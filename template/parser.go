package template

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/growsense/go-zfm/protocol"
)

// Constants for the dump file format.
const (
	// Magic is the prefix every dump header line starts with
	Magic = "ZFM1:"

	// HeaderHexLength is the expected length of the header body in hex characters
	HeaderHexLength = 12

	// LineHeaderSize is the size of the data line metadata (sequence + chunk length)
	LineHeaderSize = 4

	// LineChecksumSize is the size of the data line checksum field
	LineChecksumSize = 1

	// MinimumLineBytes is the minimum number of decoded bytes in a data line
	MinimumLineBytes = LineHeaderSize + LineChecksumSize

	// LineChunkSize is the number of template bytes written per data line
	LineChunkSize = 32
)

// Load parses a template dump file from the given path.
//
// Example:
//
//	dump, err := template.Load("finger-12.zfm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("System ID: 0x%04X\n", dump.SystemID)
func Load(path string) (*Dump, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadReader(f)
}

// LoadReader parses a template dump from any io.Reader.
// This is useful for testing and reading from non-file sources.
//
// Example:
//
//	data := strings.NewReader(dumpContent)
//	dump, err := template.LoadReader(data)
func LoadReader(r io.Reader) (*Dump, error) {
	scanner := bufio.NewScanner(r)

	// Parse header (first line)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		return nil, fmt.Errorf("empty file")
	}

	dump, declared, err := parseHeader(scanner.Text())
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	// Parse data lines
	lineNum := 1
	next := uint16(0)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// Skip empty lines
		if line == "" {
			continue
		}

		seq, chunk, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		if seq != next {
			return nil, fmt.Errorf("line %d: sequence out of order: got %d, expected %d", lineNum, seq, next)
		}

		dump.Data = append(dump.Data, chunk...)
		next++
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if len(dump.Data) < declared {
		return nil, &TruncatedError{Want: declared, Got: len(dump.Data)}
	}
	if len(dump.Data) > declared {
		return nil, fmt.Errorf("dump holds %d data bytes, header declares %d", len(dump.Data), declared)
	}

	return dump, nil
}

// parseHeader parses the dump file header line.
//
// Header format ("ZFM1:" plus 12 hex characters):
//
//	ZFM1:[SystemID(4)][Capacity(4)][DataLength(4)]
//
// Example: "ZFM1:000900C80600" = SystemID: 0x0009, Capacity: 200, Length: 1536
func parseHeader(line string) (*Dump, int, error) {
	if !strings.HasPrefix(line, Magic) {
		got := line
		if len(got) > len(Magic) {
			got = got[:len(Magic)]
		}
		return nil, 0, &MagicError{Got: got}
	}

	body := line[len(Magic):]
	if len(body) != HeaderHexLength {
		return nil, 0, fmt.Errorf("invalid header length: got %d characters, expected %d", len(body), HeaderHexLength)
	}

	data, err := hex.DecodeString(body)
	if err != nil {
		return nil, 0, &HexError{Err: err}
	}

	declared := int(binary.BigEndian.Uint16(data[4:6]))
	dump := &Dump{
		SystemID: binary.BigEndian.Uint16(data[0:2]),
		Capacity: binary.BigEndian.Uint16(data[2:4]),
		Data:     make([]byte, 0, declared),
	}

	return dump, declared, nil
}

// parseLine parses a single data line from the dump file.
//
// Line format (':' plus hex characters):
//
//	:[Sequence(4)][ChunkLength(4)][Chunk(variable)][Checksum(2)]
//
// All multi-byte fields are big-endian. The checksum is the 16-bit
// wraparound sum of the line's decoded bytes, truncated to 8 bits.
//
// Example: ":00000004010203040E"
//
//	Sequence: 0x0000
//	ChunkLength: 0x0004
//	Chunk: [0x01, 0x02, 0x03, 0x04]
//	Checksum: 0x0E
func parseLine(line string) (uint16, []byte, error) {
	if line[0] != ':' {
		return 0, nil, fmt.Errorf("data line must start with ':'")
	}

	decoded, err := hex.DecodeString(line[1:])
	if err != nil {
		return 0, nil, &HexError{Err: err}
	}

	if len(decoded) < MinimumLineBytes {
		return 0, nil, fmt.Errorf("data line too short: got %d bytes, minimum is %d", len(decoded), MinimumLineBytes)
	}

	seq := binary.BigEndian.Uint16(decoded[0:2])
	chunkLen := binary.BigEndian.Uint16(decoded[2:4])

	expectedLen := LineHeaderSize + int(chunkLen) + LineChecksumSize
	if len(decoded) != expectedLen {
		return 0, nil, fmt.Errorf("data length mismatch: got %d bytes, expected %d (header=%d + chunk=%d + checksum=%d)",
			len(decoded), expectedLen, LineHeaderSize, chunkLen, LineChecksumSize)
	}

	sum := byte(protocol.Checksum(decoded[:len(decoded)-1]))
	carried := decoded[len(decoded)-1]
	if carried != sum {
		return 0, nil, &LineChecksumError{Expected: sum, Actual: carried}
	}

	return seq, decoded[LineHeaderSize : len(decoded)-1], nil
}
