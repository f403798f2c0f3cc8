package smartport

import (
	"bytes"
	"fmt"

	"github.com/ardnew/softsp/pkg"
)

// Length returns the number of packet bytes in buf, which is the offset of
// the first 0x00 terminator. It returns pkg.ErrNoTerminator if buf holds no
// terminator.
func Length(buf []byte) (int, error) {
	n := bytes.IndexByte(buf, Terminator)
	if n < 0 {
		return 0, fmt.Errorf("%w in %d bytes", pkg.ErrNoTerminator, len(buf))
	}
	return n, nil
}

// findStart returns the offset of the start marker of a received packet.
// Receivers may capture fewer sync bytes than were transmitted, so the
// marker is searched for within the first MaxLeadIn+1 bytes.
func findStart(packet []byte) (int, error) {
	limit := len(packet)
	if limit > MaxLeadIn+1 {
		limit = MaxLeadIn + 1
	}
	m := bytes.IndexByte(packet[:limit], MarkerStart)
	if m < 0 {
		return 0, fmt.Errorf("%w: no start marker", pkg.ErrMalformedPacket)
	}
	return m, nil
}

// need returns pkg.ErrBufferTooSmall if dst cannot hold size bytes.
func need(dst []byte, size int) error {
	if len(dst) < size {
		return fmt.Errorf("%w: need %d bytes, have %d", pkg.ErrBufferTooSmall, size, len(dst))
	}
	return nil
}
