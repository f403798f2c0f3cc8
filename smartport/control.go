package smartport

import (
	"fmt"

	"github.com/ardnew/softsp/pkg"
)

// ReplyKind selects one of the fixed-shape control replies.
type ReplyKind uint8

// Control reply kinds.
const (
	ReplyStatus    ReplyKind = iota // Reply to STATUS code 0
	ReplyStatusDIB                  // Reply to STATUS code 3 (device information block)
	ReplyWriteAck                   // Result of a WRITEBLOCK data packet
	ReplyInitAck                    // Reply to INIT
)

// String returns the name of the reply kind.
func (k ReplyKind) String() string {
	switch k {
	case ReplyStatus:
		return "status"
	case ReplyStatusDIB:
		return "status-dib"
	case ReplyWriteAck:
		return "write-ack"
	case ReplyInitAck:
		return "init-ack"
	default:
		return fmt.Sprintf("reply(%d)", uint8(k))
	}
}

// Reply is a request to build one control reply. Status is ignored by the
// status and DIB replies, which always report StatusOK.
type Reply struct {
	Kind   ReplyKind
	Source uint8
	Status pkg.Status
}

// payloadWriter writes a reply payload to dst and returns the number of
// bytes written and the checksum of the payload bytes it covers.
type payloadWriter func(dst []byte, id *Identity) (int, byte)

type variant struct {
	size         int
	header       Header
	callerStatus bool
	payload      payloadWriter
}

var variants = [...]variant{
	ReplyStatus: {
		size:    StatusPacketSize,
		header:  Header{Type: TypeStatus, OddCount: 4},
		payload: writeStatus,
	},
	ReplyStatusDIB: {
		size:    StatusDIBPacketSize,
		header:  Header{Type: TypeStatus, OddCount: 4, GroupCount: 3},
		payload: writeStatusDIB,
	},
	ReplyWriteAck: {
		size:         AckPacketSize,
		header:       Header{Type: TypeStatus},
		callerStatus: true,
	},
	ReplyInitAck: {
		size:         AckPacketSize,
		header:       Header{Type: TypeCommand},
		callerStatus: true,
	},
}

// Size returns the buffer capacity needed for the reply kind, terminator
// included, or 0 for an unknown kind.
func (k ReplyKind) Size() int {
	if int(k) >= len(variants) {
		return 0
	}
	return variants[k].size
}

// Builder builds control replies for one device identity. A Builder holds
// no mutable state and may be shared between goroutines.
type Builder struct {
	id Identity
}

// NewBuilder returns a Builder reporting id.
func NewBuilder(id Identity) (*Builder, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return &Builder{id: id}, nil
}

// Identity returns the identity reported by the builder.
func (b *Builder) Identity() Identity {
	return b.id
}

// Build writes the reply r to dst, overwriting the packet region, and
// returns the packet length. The terminator is written after the packet.
// It fails only if dst is smaller than r.Kind.Size().
func (b *Builder) Build(dst []byte, r Reply) (int, error) {
	if int(r.Kind) >= len(variants) {
		return 0, fmt.Errorf("%w: %s", pkg.ErrUnknownReply, r.Kind)
	}
	v := &variants[r.Kind]
	if err := need(dst, v.size); err != nil {
		return 0, err
	}

	h := v.header
	h.Dest = HostID
	h.Source = r.Source
	if v.callerStatus {
		h.Status = uint8(r.Status)
	}
	off := putHeader(dst, &h)

	var sum Checksum
	if v.payload != nil {
		n, s := v.payload(dst[off:], &b.id)
		off += n
		_ = sum.WriteByte(s)
	}
	_, _ = sum.Write(headerFields(dst, OffsetStart))

	return putTrailer(dst, off, sum.Sum()), nil
}

// StatusReply builds the reply to a STATUS code 0 command.
func (b *Builder) StatusReply(dst []byte, source uint8) (int, error) {
	return b.Build(dst, Reply{Kind: ReplyStatus, Source: source})
}

// StatusDIBReply builds the reply to a STATUS code 3 command.
func (b *Builder) StatusDIBReply(dst []byte, source uint8) (int, error) {
	return b.Build(dst, Reply{Kind: ReplyStatusDIB, Source: source})
}

// WriteAck builds the status reply that follows a WRITEBLOCK data packet.
func (b *Builder) WriteAck(dst []byte, source uint8, status pkg.Status) (int, error) {
	return b.Build(dst, Reply{Kind: ReplyWriteAck, Source: source, Status: status})
}

// InitAck builds the reply to INIT. Pass pkg.InitStatusLast from the last
// device in the chain and pkg.InitStatusMore from the others.
func (b *Builder) InitAck(dst []byte, source uint8, status pkg.Status) (int, error) {
	return b.Build(dst, Reply{Kind: ReplyInitAck, Source: source, Status: status})
}

// writeStatus writes the general status byte and the 24-bit block count as
// four odd bytes.
func writeStatus(dst []byte, id *Identity) (int, byte) {
	status := id.statusBytes()
	return packGroup(dst, status[:]), Sum(status[:])
}

// writeStatusDIB writes the status bytes followed by the device information
// block in the layout the SmartportSD firmware puts on the bus: ID string
// bytes unmodified, group carriers fixed at 0x80, and only the status bytes
// covered by the checksum.
func writeStatusDIB(dst []byte, id *Identity) (int, byte) {
	n, sum := writeStatus(dst, id)
	name := id.idString()

	dst[n] = byte(len(id.Name)) | HighBit
	n++
	n += copy(dst[n:], name[0:2])
	dst[n] = HighBit
	n++
	n += copy(dst[n:], name[2:9])
	dst[n] = HighBit
	n++
	n += copy(dst[n:], name[9:16])
	dst[n] = HighBit
	n++
	dst[n+0] = id.DeviceType | HighBit
	dst[n+1] = id.Subtype | HighBit
	dst[n+2] = id.FirmwareVersion[0] | HighBit
	dst[n+3] = id.FirmwareVersion[1] | HighBit
	return n + 4, sum
}
