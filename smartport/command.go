package smartport

import (
	"fmt"

	"github.com/ardnew/softsp/pkg"
)

// Command is a decoded command packet: the header fields as received and
// the nine payload bytes restored to eight bits.
type Command struct {
	Header  Header
	Payload [CommandPayloadSize]byte
}

// commandEncodedSize is the encoded size of the command payload: two odd
// bytes with their carrier and one group of seven with its carrier.
const commandEncodedSize = (1 + CommandOddBytes) + CommandGroups*8

// DecodeCommand decodes a received command packet into out. Offsets are
// relative to the start marker, as for DecodeSector. The checksum is not
// verified; see VerifyCommandChecksum.
func DecodeCommand(packet []byte, out *Command) error {
	_, err := decodeCommand(packet, out)
	return err
}

func decodeCommand(packet []byte, out *Command) (int, error) {
	m, err := findStart(packet)
	if err != nil {
		return 0, err
	}
	payload := m + HeaderSize
	end := payload + commandEncodedSize
	if len(packet) < end {
		return 0, fmt.Errorf("%w: command packet has %d bytes, need %d", pkg.ErrMalformedPacket, len(packet), end)
	}

	parseHeader(packet, m, &out.Header)
	unpackGroup(out.Payload[:CommandOddBytes], packet[payload:])
	unpackGroup(out.Payload[CommandOddBytes:], packet[payload+1+CommandOddBytes:])
	return end, nil
}

// VerifyCommandChecksum reports whether the checksum carried by a received
// command packet matches its contents. The checksum pair is read from the
// two bytes preceding the end marker, located through Length.
//
// matches is true only when the checksums agree. err is non-nil when the
// packet cannot be checked at all: no terminator, no start marker, or too
// few bytes for the command layout.
func VerifyCommandChecksum(packet []byte) (matches bool, err error) {
	n, err := Length(packet)
	if err != nil {
		return false, err
	}
	packet = packet[:n]

	var cmd Command
	end, err := decodeCommand(packet, &cmd)
	if err != nil {
		return false, err
	}
	if n < end+3 {
		return false, fmt.Errorf("%w: command packet has no checksum", pkg.ErrMalformedPacket)
	}

	m := end - HeaderSize - commandEncodedSize
	sum := Sum(cmd.Payload[:], headerFields(packet, m))
	return VerifyChecksum(sum, readChecksum(packet[n-3:])), nil
}
