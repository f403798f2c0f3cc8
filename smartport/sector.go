package smartport

import (
	"fmt"

	"github.com/ardnew/softsp/pkg"
)

// Sector is one 512-byte logical block. Any byte value is allowed.
type Sector [SectorSize]byte

// EncodeSector writes the data packet carrying sector to dst and returns the
// packet length. The terminator is written after the packet, so dst must
// hold at least DataPacketSize bytes.
//
// Packet layout:
//
//	0-5      preamble
//	6-13     C3, dest, source, 0x82, aux, stat, 0x81 (1 odd byte), 0xC9 (73 groups)
//	14-15    MSB carrier and low bits of sector byte 0
//	16-599   73 groups: MSB carrier then seven bytes, covering sector bytes 1-511
//	600-601  encoded checksum
//	602      C8
//	603      00
func EncodeSector(dst []byte, sector *Sector, source uint8) (int, error) {
	if err := need(dst, DataPacketSize); err != nil {
		return 0, err
	}

	h := Header{
		Dest:       HostID,
		Source:     source,
		Type:       TypeData,
		OddCount:   SectorOddBytes,
		GroupCount: SectorGroups,
	}
	off := putHeader(dst, &h)

	off += packGroup(dst[off:], sector[:SectorOddBytes])
	for i := SectorOddBytes; i < SectorSize; i += 7 {
		off += packGroup(dst[off:], sector[i:i+7])
	}

	sum := Sum(sector[:], headerFields(dst, OffsetStart))
	return putTrailer(dst, off, sum), nil
}

// DecodeSector decodes the data packet of a WRITEBLOCK command into out.
//
// The packet may begin with any number of sync bytes up to MaxLeadIn; every
// offset is taken relative to the start marker. The receiver normally
// captures five sync bytes, placing the marker at offset 5 and the checksum
// at offsets 599-600, while packets from EncodeSector carry the full
// preamble and place them one byte later.
//
// DecodeSector returns pkg.ErrChecksum if the recomputed checksum does not
// match the one received. The contents of out are then unreliable.
func DecodeSector(packet []byte, out *Sector) error {
	m, err := findStart(packet)
	if err != nil {
		return err
	}
	payload := m + HeaderSize
	if end := payload + SectorPayloadSize + 2; len(packet) < end {
		return fmt.Errorf("%w: data packet has %d bytes, need %d", pkg.ErrMalformedPacket, len(packet), end)
	}

	unpackGroup(out[:SectorOddBytes], packet[payload:])
	off := payload + 1 + SectorOddBytes
	for i := SectorOddBytes; i < SectorSize; i += 7 {
		unpackGroup(out[i:i+7], packet[off:])
		off += 8
	}

	sum := Sum(out[:], headerFields(packet, m))
	if enc := readChecksum(packet[off:]); !VerifyChecksum(sum, enc) {
		return fmt.Errorf("%w: computed 0x%02X, received 0x%02X", pkg.ErrChecksum, sum, DecodeChecksum(enc))
	}
	return nil
}
