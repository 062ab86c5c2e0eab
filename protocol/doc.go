// Package protocol implements the ZFM fingerprint module communication protocol.
//
// This package provides functions to build command packets and parse reply
// packets for the ZFM-20/R30x/R50x family of optical and capacitive
// fingerprint modules.
//
// # Protocol Overview
//
// Every packet on the wire, in either direction, shares one frame layout:
//
//	[MARKER(2)][ADDRESS(4)][ID][LENGTH(2)][PAYLOAD...][CHECKSUM(2)]
//
// Where:
//   - MARKER = fixed start marker (0xEF01, big-endian)
//   - ADDRESS = 32-bit module address (big-endian)
//   - ID = packet identifier (command, data, acknowledge, end-of-data)
//   - LENGTH = 16-bit payload length plus checksum size (big-endian)
//   - CHECKSUM = 16-bit wraparound sum over ID, LENGTH and PAYLOAD
//
// # Command Builders
//
// Use the Build* functions to create command packets:
//
//	frame, err := protocol.BuildVerifyPasswordCmd(address, password)
//	frame, err := protocol.BuildSearchCmd(address, protocol.CharBuffer1, 0, capacity)
//	// ... etc
//
// # Packet and Reply Parsing
//
// Use ReadPacket to frame a packet from a byte stream, then ParseAck to
// extract the confirmation code and reply data:
//
//	pkt, err := protocol.ReadPacket(port)
//	code, data, err := protocol.ParseAck(pkt)
//	if code != protocol.CodeOK {
//	    return &protocol.CommandError{Op: "search", Code: code}
//	}
//
// Then use the Parse* functions for command-specific data:
//
//	params, err := protocol.ParseSystemParams(data)
//	result, err := protocol.ParseSearchResult(data)
//	// ... etc
//
// # Error Handling
//
// Framing problems surface as typed errors: *FramingError for a bad start
// marker, *ChecksumError for a corrupted packet, *TimeoutError for a stream
// that dried up mid-packet and *UnrecognizedResponseError for a reply that
// does not fit the protocol. Confirmation codes other than CodeOK indicate
// module-reported failures; wrap them in *CommandError to attribute them to
// an operation:
//
//	if code != protocol.CodeOK {
//	    err := &protocol.CommandError{Op: "store template", Code: code}
//	    // err.Error() returns: "store template failed: slot index out of range (0x0B)"
//	}
package protocol
