package protocol

// Frame structure constants.
const (
	// StartMarker is the 2-byte frame start marker (0xEF 0x01 on the wire)
	StartMarker = 0xEF01

	// MarkerSize is the size of the start marker in bytes
	MarkerSize = 2

	// AddressSize is the size of the module address field in bytes
	AddressSize = 4

	// LengthSize is the size of the length field in bytes
	LengthSize = 2

	// ChecksumSize is the size of the checksum field in bytes
	ChecksumSize = 2

	// HeaderSize is the size of everything before the payload:
	// MARKER(2) + ADDRESS(4) + ID(1) + LENGTH(2)
	HeaderSize = MarkerSize + AddressSize + 1 + LengthSize

	// PacketOverhead is the frame size of a packet with an empty payload
	PacketOverhead = HeaderSize + ChecksumSize

	// MaxPayloadSize is the largest payload a single packet may carry,
	// set by the largest negotiable data packet length
	MaxPayloadSize = 256
)

// Packet identifiers.
const (
	// PacketCommand marks a host-to-module instruction packet
	PacketCommand = 0x01

	// PacketData marks an intermediate chunk of a multi-packet transfer
	PacketData = 0x02

	// PacketAck marks a module-to-host acknowledge packet
	PacketAck = 0x07

	// PacketEndData marks the final chunk of a multi-packet transfer
	PacketEndData = 0x08
)

// Instruction codes per the ZFM command set.
const (
	// CmdGetImage captures a finger image into the image buffer
	CmdGetImage = 0x01

	// CmdImage2Tz converts the image buffer into a character buffer
	CmdImage2Tz = 0x02

	// CmdCompare matches character buffers 1 and 2 against each other
	CmdCompare = 0x03

	// CmdSearch searches the library for a character buffer
	CmdSearch = 0x04

	// CmdRegModel merges the character buffers into a template
	CmdRegModel = 0x05

	// CmdStore writes a character buffer to a library slot
	CmdStore = 0x06

	// CmdLoad reads a library slot into a character buffer
	CmdLoad = 0x07

	// CmdUpChar transfers a character buffer to the host
	CmdUpChar = 0x08

	// CmdDownChar transfers host data into a character buffer
	CmdDownChar = 0x09

	// CmdUpImage transfers the image buffer to the host
	CmdUpImage = 0x0A

	// CmdDownImage transfers host data into the image buffer
	CmdDownImage = 0x0B

	// CmdDelete removes one or more consecutive library slots
	CmdDelete = 0x0C

	// CmdEmpty clears the entire template library
	CmdEmpty = 0x0D

	// CmdSetSysParam writes a system parameter register
	CmdSetSysParam = 0x0E

	// CmdReadSysParams reads the system parameter block
	CmdReadSysParams = 0x0F

	// CmdSetPassword changes the module password
	CmdSetPassword = 0x12

	// CmdVerifyPassword authenticates the session password
	CmdVerifyPassword = 0x13

	// CmdSetAddress changes the module address
	CmdSetAddress = 0x15

	// CmdHighSpeedSearch searches the library using the fast path
	CmdHighSpeedSearch = 0x1B

	// CmdTemplateCount reads the number of stored templates
	CmdTemplateCount = 0x1D

	// CmdReadIndexTable reads one page of the slot occupancy bitmap
	CmdReadIndexTable = 0x1F

	// CmdAuraLED drives the ring LED on modules that have one
	CmdAuraLED = 0x35

	// CmdSoftReset restarts the module firmware
	CmdSoftReset = 0x3D

	// CmdGetEcho probes the module for liveness
	CmdGetEcho = 0x53
)

// System parameter registers for CmdSetSysParam.
const (
	// ParamBaudRate sets the UART rate as a multiple of 9600 (1-12)
	ParamBaudRate = 4

	// ParamSecurityLevel sets the match threshold (1-5)
	ParamSecurityLevel = 5

	// ParamPacketSize sets the data packet length code (0-3)
	ParamPacketSize = 6
)

// Character buffer identifiers for conversion, matching and transfer commands.
const (
	// CharBuffer1 is the first working buffer
	CharBuffer1 = 1

	// CharBuffer2 is the second working buffer
	CharBuffer2 = 2
)

// Aura LED control modes for CmdAuraLED.
const (
	// LEDBreathing pulses the ring smoothly
	LEDBreathing = 0x01

	// LEDFlashing blinks the ring
	LEDFlashing = 0x02

	// LEDOn lights the ring steadily
	LEDOn = 0x03

	// LEDOff turns the ring off
	LEDOff = 0x04

	// LEDGradualOn ramps the ring up once
	LEDGradualOn = 0x05

	// LEDGradualOff ramps the ring down once
	LEDGradualOff = 0x06
)

// Aura LED colors for CmdAuraLED.
const (
	LEDRed    = 0x01
	LEDBlue   = 0x02
	LEDPurple = 0x03
)

// Session defaults.
const (
	// DefaultAddress is the broadcast address modules ship with
	DefaultAddress uint32 = 0xFFFFFFFF

	// DefaultPassword is the factory module password
	DefaultPassword uint32 = 0x00000000

	// DefaultBaudRate is the factory UART rate (multiplier 6)
	DefaultBaudRate = 57600

	// BaudRateUnit is the granularity of the baud rate parameter
	BaudRateUnit = 9600
)

// Response data sizes.
const (
	// SystemParamsSize is the data size of a Read System Parameters ack
	SystemParamsSize = 16

	// SearchResultSize is the data size of a Search ack
	SearchResultSize = 4

	// ScoreSize is the data size of a Compare ack
	ScoreSize = 2

	// TemplateCountSize is the data size of a Template Count ack
	TemplateCountSize = 2

	// IndexTableSize is the data size of a Read Index Table ack
	IndexTableSize = 32

	// IndexTablePageSlots is the number of slots covered by one bitmap page
	IndexTablePageSlots = 256
)

// ModuleReadyByte is the raw byte the module emits once it has finished a
// soft reset and is ready for commands again.
const ModuleReadyByte = 0x55
