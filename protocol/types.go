package protocol

// SystemParams is the module configuration block returned by the
// Read System Parameters command.
type SystemParams struct {
	// StatusRegister is the module status register
	StatusRegister uint16

	// SystemID is the module type identifier
	SystemID uint16

	// Capacity is the number of template slots in the library
	Capacity uint16

	// SecurityLevel is the match threshold (1-5, higher is stricter)
	SecurityLevel uint16

	// Address is the module address
	Address uint32

	// PacketSize is the negotiated data packet length in bytes
	// (32, 64, 128 or 256)
	PacketSize int

	// BaudRate is the UART rate in bits per second
	BaudRate int
}

// SearchResult is a library match returned by the Search and
// High Speed Search commands.
type SearchResult struct {
	// Slot is the library slot holding the matched template
	Slot uint16

	// Score is the match confidence reported by the module
	Score uint16
}

// IndexTable is one page of the slot occupancy bitmap returned by the
// Read Index Table command. Each page covers IndexTablePageSlots slots.
type IndexTable struct {
	// Page is the page number the bitmap describes
	Page byte

	// Bitmap holds one bit per slot, least significant bit first
	Bitmap [IndexTableSize]byte
}

// Used reports whether the slot (relative to this page, 0-based) holds a
// template.
func (t *IndexTable) Used(slot int) bool {
	if slot < 0 || slot >= IndexTablePageSlots {
		return false
	}
	return t.Bitmap[slot/8]&(1<<(slot%8)) != 0
}

// Slots returns the absolute slot numbers in use on this page, in
// ascending order.
func (t *IndexTable) Slots() []int {
	var slots []int
	base := int(t.Page) * IndexTablePageSlots
	for i := 0; i < IndexTablePageSlots; i++ {
		if t.Used(i) {
			slots = append(slots, base+i)
		}
	}
	return slots
}

// packetSizeBytes converts a data packet length code from the system
// parameter block to a byte count. Returns 0 for unknown codes.
func packetSizeBytes(code uint16) int {
	switch code {
	case 0:
		return 32
	case 1:
		return 64
	case 2:
		return 128
	case 3:
		return 256
	}
	return 0
}

// PacketSizeCode converts a data packet length in bytes to the register
// value CmdSetSysParam expects. The second return is false for lengths the
// module does not support.
func PacketSizeCode(size int) (byte, bool) {
	switch size {
	case 32:
		return 0, true
	case 64:
		return 1, true
	case 128:
		return 2, true
	case 256:
		return 3, true
	}
	return 0, false
}
