package smartport

// packGroup encodes up to seven payload bytes as one MSB carrier followed
// by the bytes themselves, and returns the number of bytes written.
//
// Bit 6-i of the carrier holds bit 7 of src[i]. Every output byte has bit 7
// set, so the carrier of a short group leaves its unused low bits clear.
func packGroup(dst, src []byte) int {
	msb := byte(HighBit)
	for i, b := range src {
		msb |= (b & 0x80) >> (i + 1)
		dst[1+i] = b | HighBit
	}
	dst[0] = msb
	return 1 + len(src)
}

// unpackGroup reverses packGroup. src holds the carrier followed by
// len(dst) encoded bytes.
func unpackGroup(dst, src []byte) {
	msb := src[0]
	for i := range dst {
		dst[i] = (msb<<(i+1))&0x80 | src[1+i]&0x7F
	}
}
