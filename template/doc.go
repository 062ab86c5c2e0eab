// Package template reads and writes fingerprint template dump files.
//
// # Dump File Format
//
// A dump file stores a character buffer exported from a fingerprint module,
// so operator tooling can back templates up and move them between sensors.
// It consists of a header line followed by data lines, all hex-encoded.
//
// Header Format ("ZFM1:" plus 12 hex characters):
//
//	ZFM1:[SystemID(4)][Capacity(4)][DataLength(4)]
//
// Example header:
//
//	ZFM1:000900C80600
//	  0009 = System ID (0x0009)
//	  00C8 = Library capacity (200)
//	  0600 = Data length (1536 bytes)
//
// Data Line Format (':' plus variable hex characters):
//
//	:[Sequence(4)][ChunkLength(4)][Chunk(variable)][Checksum(2)]
//
// Example line:
//
//	:00000004010203040E
//	  0000 = Sequence number
//	  0004 = Chunk length (4 bytes)
//	  01020304 = Chunk data
//	  0E = Line checksum
//
// All multi-byte fields are big-endian. The line checksum is the 16-bit
// wraparound sum of the line's decoded bytes, truncated to 8 bits.
//
// # Usage
//
// Export a template to disk:
//
//	data, err := sensor.UploadTemplate(ctx, protocol.CharBuffer1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	meta := template.Meta{SystemID: params.SystemID, Capacity: params.Capacity}
//	if err := template.Save("finger-12.zfm", meta, data); err != nil {
//	    log.Fatal(err)
//	}
//
// Import it on another sensor:
//
//	dump, err := template.Load("finger-12.zfm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := sensor.DownloadTemplate(ctx, protocol.CharBuffer1, dump.Data); err != nil {
//	    log.Fatal(err)
//	}
//	if err := sensor.Store(ctx, protocol.CharBuffer1, 12); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// Load returns typed errors for invalid files:
//   - *MagicError for a missing or wrong file magic
//   - *HexError for bytes outside the hex alphabet
//   - *LineChecksumError for a corrupted data line
//   - *TruncatedError when data lines deliver fewer bytes than the header
//     declares
//
// Line-level failures are wrapped with the line number.
package template
