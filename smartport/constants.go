package smartport

// SectorSize is the size of one logical disk block in bytes.
const SectorSize = 512

// Preamble is the synchronization sequence that opens every transmitted
// packet. It is the only part of a packet exempt from the high-bit rule.
var Preamble = [PreambleSize]byte{0xFF, 0x3F, 0xCF, 0xF3, 0xFC, 0xFF}

// Framing constants.
const (
	PreambleSize = 6    // Sync bytes before the start marker
	MarkerStart  = 0xC3 // PBEGIN
	MarkerEnd    = 0xC8 // PEND
	Terminator   = 0x00 // Buffer sentinel, not part of the packet
	HighBit      = 0x80 // Forced on every byte after the preamble

	// MaxLeadIn is the largest number of sync bytes a decoder will skip
	// while looking for the start marker of a received packet.
	MaxLeadIn = 16
)

// Bus identifiers.
const (
	HostID = 0x80 // Destination of every reply
)

// Packet type codes.
const (
	TypeCommand = 0x80
	TypeStatus  = 0x81
	TypeData    = 0x82
)

// Header layout, relative to the start marker. The seven fields following
// the marker are the header bytes covered by every packet checksum.
const (
	fieldDest       = 1
	fieldSource     = 2
	fieldType       = 3
	fieldAux        = 4
	fieldStatus     = 5
	fieldOddCount   = 6
	fieldGroupCount = 7

	// HeaderSize counts the start marker and the seven header fields.
	HeaderSize = 8
)

// Transmit layout offsets. Packets built by this package place the start
// marker immediately after the full preamble.
const (
	OffsetStart   = PreambleSize
	OffsetPayload = OffsetStart + HeaderSize
)

// Trailer size: the encoded checksum pair, the end marker and the terminator.
const trailerSize = 4

// Sector data packet geometry. 512 = 1 + 73*7, so sector byte 0 travels as
// the single odd byte and bytes 1..511 as 73 groups of seven.
const (
	SectorOddBytes = 1
	SectorGroups   = 73

	// SectorPayloadSize is the number of encoded payload bytes in a data
	// packet: the odd byte with its MSB carrier plus 73 groups of eight.
	SectorPayloadSize = (1 + SectorOddBytes) + SectorGroups*8

	// DataPacketSize is the buffer capacity needed for a data packet,
	// terminator included.
	DataPacketSize = PreambleSize + HeaderSize + SectorPayloadSize + trailerSize
)

// Command packet geometry: two odd bytes and one group of seven.
const (
	CommandOddBytes    = 2
	CommandGroups      = 1
	CommandPayloadSize = CommandOddBytes + CommandGroups*7
)

// Control reply buffer sizes, terminator included.
const (
	StatusPacketSize    = 23
	StatusDIBPacketSize = 47
	AckPacketSize       = PreambleSize + HeaderSize + trailerSize
)
