package smartport

// Checksum accumulates the XOR checksum of a packet. The zero value is
// ready to use.
type Checksum byte

// Write folds p into the checksum. It never fails.
func (c *Checksum) Write(p []byte) (int, error) {
	s := *c
	for _, b := range p {
		s ^= Checksum(b)
	}
	*c = s
	return len(p), nil
}

// WriteByte folds b into the checksum. It never fails.
func (c *Checksum) WriteByte(b byte) error {
	*c ^= Checksum(b)
	return nil
}

// Sum returns the accumulated checksum.
func (c Checksum) Sum() byte { return byte(c) }

// Sum returns the XOR of every byte across all ranges.
func Sum(ranges ...[]byte) byte {
	var c Checksum
	for _, r := range ranges {
		_, _ = c.Write(r)
	}
	return c.Sum()
}

// checksumMask sets bit 7 and the framing bits of both checksum wire bytes.
// The fixed bits are 1, 3, 5 and 7; bit 0 carries data.
const checksumMask = 0xAA

// EncodedChecksum is the two-byte wire form of a checksum. Even carries
// checksum bits 0, 2, 4 and 6 in place; Odd carries bits 1, 3, 5 and 7
// shifted down one position. The remaining bits of both are forced to 1.
//
//	Even: 1 c6 1 c4 1 c2 1 c0
//	Odd:  1 c7 1 c5 1 c3 1 c1
type EncodedChecksum struct {
	Even byte
	Odd  byte
}

// EncodeChecksum returns the wire form of sum.
func EncodeChecksum(sum byte) EncodedChecksum {
	return EncodedChecksum{
		Even: sum | checksumMask,
		Odd:  sum>>1 | checksumMask,
	}
}

// DecodeChecksum recovers the checksum carried by enc.
func DecodeChecksum(enc EncodedChecksum) byte {
	return enc.Even&0x55 | (enc.Odd&0x55)<<1
}

// VerifyChecksum reports whether enc carries the checksum computed.
func VerifyChecksum(computed byte, enc EncodedChecksum) bool {
	return DecodeChecksum(enc) == computed
}

// putChecksum writes the wire form of sum to dst[0:2].
func putChecksum(dst []byte, sum byte) {
	enc := EncodeChecksum(sum)
	dst[0] = enc.Even
	dst[1] = enc.Odd
}

// readChecksum reads a wire checksum from src[0:2].
func readChecksum(src []byte) EncodedChecksum {
	return EncodedChecksum{Even: src[0], Odd: src[1]}
}
