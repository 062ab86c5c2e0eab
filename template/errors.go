package template

import "fmt"

// MagicError indicates the file does not start with the dump magic.
type MagicError struct {
	// Got is the prefix found in place of the magic
	Got string
}

func (e *MagicError) Error() string {
	return fmt.Sprintf("bad magic: got %q, expected %q", e.Got, Magic)
}

// HexError indicates a line holds characters outside the hex alphabet.
type HexError struct {
	// Err is the underlying decode failure
	Err error
}

func (e *HexError) Error() string {
	return fmt.Sprintf("invalid hex data: %v", e.Err)
}

func (e *HexError) Unwrap() error {
	return e.Err
}

// LineChecksumError indicates a data line failed checksum validation.
type LineChecksumError struct {
	// Expected is the checksum computed over the line
	Expected byte

	// Actual is the checksum the line carries
	Actual byte
}

func (e *LineChecksumError) Error() string {
	return fmt.Sprintf("line checksum mismatch: expected 0x%02X, got 0x%02X", e.Expected, e.Actual)
}

// TruncatedError indicates the data lines deliver fewer bytes than the
// header declares.
type TruncatedError struct {
	// Want is the data length the header declares
	Want int

	// Got is the number of data bytes the lines delivered
	Got int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated dump: got %d of %d data bytes", e.Got, e.Want)
}
