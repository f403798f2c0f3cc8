package volume

import (
	"fmt"

	"github.com/ardnew/softsp/pkg"
	"github.com/ardnew/softsp/smartport"
)

// General status bits reported in the first status byte.
const (
	GeneralStatusWriteAllowed   = 0x40
	GeneralStatusOnline         = 0x10
	GeneralStatusWriteProtected = 0x04
)

// Unit joins one storage backend to the packet codec under a bus ID. It
// answers block transfers and status requests with complete reply packets,
// leaving the choice of which reply to send to the caller.
type Unit struct {
	storage Storage
	id      smartport.Identity
	source  uint8
}

// NewUnit returns a Unit serving storage under the bus ID source. The block
// count and media flags of id are replaced by those of storage whenever a
// status reply is built.
func NewUnit(storage Storage, id smartport.Identity, source uint8) (*Unit, error) {
	u := &Unit{storage: storage, id: id, source: source}
	if _, err := u.builder(); err != nil {
		return nil, err
	}
	return u, nil
}

// Source returns the bus ID of the unit.
func (u *Unit) Source() uint8 {
	return u.source
}

// Storage returns the backend of the unit.
func (u *Unit) Storage() Storage {
	return u.storage
}

// Identity returns the identity reported by the unit, reflecting the
// current state of its storage.
func (u *Unit) Identity() smartport.Identity {
	id := u.id

	blocks := u.storage.BlockCount()
	if blocks > smartport.MaxBlockCount {
		blocks = smartport.MaxBlockCount
	}
	id.BlockCount = blocks

	switch {
	case !u.storage.IsPresent():
		id.GeneralStatus &^= GeneralStatusOnline
		id.BlockCount = 0
	case u.storage.IsReadOnly():
		id.GeneralStatus &^= GeneralStatusWriteAllowed
		id.GeneralStatus |= GeneralStatusWriteProtected
	}
	return id
}

func (u *Unit) builder() (*smartport.Builder, error) {
	return smartport.NewBuilder(u.Identity())
}

// ReadBlock reads block from storage and encodes it into dst as a data
// packet. dst must hold smartport.DataPacketSize bytes.
func (u *Unit) ReadBlock(dst []byte, block uint32) (int, error) {
	var sector smartport.Sector
	if err := u.storage.ReadBlock(block, &sector); err != nil {
		pkg.LogWarn(pkg.ComponentVolume, "read failed", "block", block, "error", err)
		return 0, err
	}

	n, err := smartport.EncodeSector(dst, &sector, u.source)
	if err != nil {
		return 0, err
	}

	pkg.LogDebug(pkg.ComponentVolume, "block read", "block", block, "length", n)
	pkg.LogPacket(pkg.ComponentSector, "data packet out", dst[:n])
	return n, nil
}

// WriteBlock decodes the data packet of a WRITEBLOCK command, stores the
// sector at block, and builds the write acknowledgment into dst. dst must
// hold smartport.AckPacketSize bytes.
//
// The acknowledgment is built even when decoding or storing fails; it then
// carries the status code for the failure, and WriteBlock returns the ack
// length together with the failure.
func (u *Unit) WriteBlock(dst []byte, block uint32, packet []byte) (int, error) {
	pkg.LogPacket(pkg.ComponentSector, "data packet in", packet)

	var sector smartport.Sector
	cause := smartport.DecodeSector(packet, &sector)
	if cause == nil {
		cause = u.storage.WriteBlock(block, &sector)
	}

	status := pkg.StatusOf(cause)
	if cause != nil {
		pkg.LogWarn(pkg.ComponentVolume, "write failed", "block", block, "status", status, "error", cause)
	} else {
		pkg.LogDebug(pkg.ComponentVolume, "block written", "block", block)
	}

	b, err := u.builder()
	if err != nil {
		return 0, err
	}
	n, err := b.WriteAck(dst, u.source, status)
	if err != nil {
		return 0, err
	}
	return n, cause
}

// Status builds the reply to a STATUS code 0 command into dst.
func (u *Unit) Status(dst []byte) (int, error) {
	return u.reply(dst, smartport.Reply{Kind: smartport.ReplyStatus, Source: u.source})
}

// StatusDIB builds the reply to a STATUS code 3 command into dst.
func (u *Unit) StatusDIB(dst []byte) (int, error) {
	return u.reply(dst, smartport.Reply{Kind: smartport.ReplyStatusDIB, Source: u.source})
}

// Init builds the reply to INIT into dst. last reports whether this unit is
// the final device in the chain.
func (u *Unit) Init(dst []byte, last bool) (int, error) {
	status := pkg.InitStatusMore
	if last {
		status = pkg.InitStatusLast
	}
	return u.reply(dst, smartport.Reply{Kind: smartport.ReplyInitAck, Source: u.source, Status: status})
}

func (u *Unit) reply(dst []byte, r smartport.Reply) (int, error) {
	b, err := u.builder()
	if err != nil {
		return 0, err
	}
	n, err := b.Build(dst, r)
	if err != nil {
		return 0, fmt.Errorf("%s reply: %w", r.Kind, err)
	}
	pkg.LogPacket(pkg.ComponentCodec, r.Kind.String()+" reply", dst[:n])
	return n, nil
}
