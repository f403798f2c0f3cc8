// Package volume serves block storage over the SmartPort packet codec.
//
// A volume is a sequence of 512-byte blocks. The Storage interface
// abstracts where the blocks live, and a Unit joins one backend to the
// codec under a bus ID so that block transfers and status requests can be
// answered with complete reply packets.
//
// # Storage Backends
//
//   - MemoryStorage - RAM-based storage for testing
//   - FileStorage - disk image file
//
// Backends report failures with the sentinel errors of package pkg:
// pkg.ErrBlockOutOfRange, pkg.ErrWriteProtected and pkg.ErrNoMedia. A Unit
// maps them to the status code carried in the write acknowledgment with
// pkg.StatusOf.
//
// # Units
//
// Unit does not decide which packet to send; the command loop that reads
// the bus does. It only turns storage state into packets:
//
//	unit, err := volume.NewUnit(storage, smartport.DefaultIdentity(), 0x81)
//	buf := make([]byte, smartport.DataPacketSize)
//
//	n, err := unit.ReadBlock(buf, 42)           // data packet for block 42
//	n, err = unit.WriteBlock(buf, 42, received) // ack for a received packet
//	n, err = unit.Status(buf)                   // block count from storage
//
// Status replies report the block count of the backend rather than the
// configured one. Write protected media clears the write-allowed bit and
// sets the write-protected bit of the general status byte; absent media
// clears the online bit and reports zero blocks.
package volume
