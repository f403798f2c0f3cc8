package smartport

import "fmt"

// Header holds the seven header fields that follow the start marker.
//
// OddCount and GroupCount are payload geometry: the number of bytes sent
// outside the groups of seven, and the number of such groups.
type Header struct {
	Dest       uint8
	Source     uint8
	Type       uint8
	Aux        uint8
	Status     uint8
	OddCount   uint8
	GroupCount uint8
}

// putHeader writes the preamble, the start marker and h to dst, and returns
// the offset of the first payload byte. Bit 7 is forced on every header
// field so that no caller-supplied value can break the framing.
func putHeader(dst []byte, h *Header) int {
	copy(dst, Preamble[:])
	m := OffsetStart
	dst[m] = MarkerStart
	dst[m+fieldDest] = h.Dest | HighBit
	dst[m+fieldSource] = h.Source | HighBit
	dst[m+fieldType] = h.Type | HighBit
	dst[m+fieldAux] = h.Aux | HighBit
	dst[m+fieldStatus] = h.Status | HighBit
	dst[m+fieldOddCount] = h.OddCount | HighBit
	dst[m+fieldGroupCount] = h.GroupCount | HighBit
	return OffsetPayload
}

// parseHeader reads the header fields following the start marker at m.
// Bit 7 is left in place.
func parseHeader(packet []byte, m int, out *Header) {
	out.Dest = packet[m+fieldDest]
	out.Source = packet[m+fieldSource]
	out.Type = packet[m+fieldType]
	out.Aux = packet[m+fieldAux]
	out.Status = packet[m+fieldStatus]
	out.OddCount = packet[m+fieldOddCount]
	out.GroupCount = packet[m+fieldGroupCount]
}

// headerFields returns the checksummed header bytes of the packet whose
// start marker is at m.
func headerFields(packet []byte, m int) []byte {
	return packet[m+fieldDest : m+fieldGroupCount+1]
}

// putTrailer writes the checksum pair, the end marker and the terminator at
// off, and returns the packet length.
func putTrailer(dst []byte, off int, sum byte) int {
	putChecksum(dst[off:], sum)
	dst[off+2] = MarkerEnd
	dst[off+3] = Terminator
	return off + 3
}

// String returns a human-readable representation of the header.
func (h *Header) String() string {
	return fmt.Sprintf("HEADER[dest=0x%02X src=0x%02X type=0x%02X aux=0x%02X stat=0x%02X odd=%d grp=%d]",
		h.Dest, h.Source, h.Type, h.Aux, h.Status, h.OddCount&0x7F, h.GroupCount&0x7F)
}
