package template

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/growsense/go-zfm/protocol"
)

// MaxDumpSize is the largest data payload a dump file can declare; the
// header length field is 2 bytes.
const MaxDumpSize = 0xFFFF

// Save writes a template dump file to the given path.
//
// Example:
//
//	params, _ := sensor.ReadSystemParams(ctx)
//	data, _ := sensor.UploadTemplate(ctx, protocol.CharBuffer1)
//	meta := template.Meta{SystemID: params.SystemID, Capacity: params.Capacity}
//	if err := template.Save("finger-12.zfm", meta, data); err != nil {
//	    log.Fatal(err)
//	}
func Save(path string, meta Meta, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := SaveWriter(f, meta, data); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// SaveWriter writes a template dump to any io.Writer.
func SaveWriter(w io.Writer, meta Meta, data []byte) error {
	if len(data) > MaxDumpSize {
		return fmt.Errorf("dump too large: %d bytes, the header length field holds at most %d", len(data), MaxDumpSize)
	}

	header := make([]byte, 6)
	binary.BigEndian.PutUint16(header[0:2], meta.SystemID)
	binary.BigEndian.PutUint16(header[2:4], meta.Capacity)
	binary.BigEndian.PutUint16(header[4:6], uint16(len(data)))

	if _, err := fmt.Fprintf(w, "%s%X\n", Magic, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	seq := uint16(0)
	for offset := 0; offset < len(data); offset += LineChunkSize {
		end := offset + LineChunkSize
		if end > len(data) {
			end = len(data)
		}
		chunk := data[offset:end]

		line := make([]byte, 0, LineHeaderSize+len(chunk)+LineChecksumSize)
		line = append(line, byte(seq>>8), byte(seq))
		line = append(line, byte(len(chunk)>>8), byte(len(chunk)))
		line = append(line, chunk...)
		line = append(line, byte(protocol.Checksum(line)))

		if _, err := fmt.Fprintf(w, ":%X\n", line); err != nil {
			return fmt.Errorf("write data line %d: %w", seq, err)
		}
		seq++
	}

	return nil
}
