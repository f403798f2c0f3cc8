// Package smartport implements the device side of the Apple II SmartPort
// packet codec.
//
// The SmartPort physical layer stays synchronized only while every byte it
// carries has bit 7 set. Past a fixed six-byte preamble, every packet byte
// is therefore 7-bit clean, and 8-bit payload travels in groups of seven
// bytes preceded by a carrier byte holding their high bits. A 0x00 byte
// can never appear inside a packet, so buffers mark the end of a packet
// with a single 0x00 terminator.
//
// # Packet Layout
//
//	FF 3F CF F3 FC FF                 preamble
//	C3                                start marker
//	dest src type aux stat odd grp    header fields (bit 7 set)
//	payload                           odd bytes, then groups of seven
//	chkE chkO                         encoded checksum
//	C8                                end marker
//	00                                terminator (not transmitted)
//
// The checksum is the XOR of the 8-bit payload bytes and the seven header
// fields following the start marker. It travels as an [EncodedChecksum],
// two bytes that interleave the checksum's even and odd bits with forced
// 1 bits.
//
// # Replies
//
// A [Builder] produces the four fixed-shape control replies from a device
// [Identity]:
//
//	b, _ := smartport.NewBuilder(smartport.DefaultIdentity())
//	var buf [smartport.StatusDIBPacketSize]byte
//	n, _ := b.StatusDIBReply(buf[:], 0x81)
//	transmit(buf[:n])
//
// # Sector Data
//
// [EncodeSector] turns a 512-byte [Sector] into the 604-byte buffer of a
// READBLOCK reply. [DecodeSector] restores a sector from the data packet of
// a WRITEBLOCK command and verifies its checksum:
//
//	var sec smartport.Sector
//	if err := smartport.DecodeSector(rx[:], &sec); err != nil {
//	    status := pkg.StatusOf(err) // 0x06 on checksum mismatch
//	    ...
//	}
//
// Decoders locate the start marker instead of assuming a fixed offset,
// because the receiver captures fewer sync bytes than the transmitter
// sends.
//
// # Buffers
//
// All functions work on caller-owned buffers and keep no reference to them
// after returning. No function in this package allocates on the success
// path or holds package state, so independent transactions may run
// concurrently.
package smartport
