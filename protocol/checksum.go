package protocol

// Checksum computes the 16-bit packet checksum: the unsigned sum of all
// bytes, wrapping at 16 bits.
//
// The checksum covers the packet identifier, both length bytes and the
// payload. The start marker and address are excluded.
func Checksum(data []byte) uint16 {
	var sum uint16
	for _, b := range data {
		sum += uint16(b)
	}
	return sum
}
