package pkg

import (
	"errors"
	"fmt"
)

// Codec and peripheral errors.
var (
	// ErrChecksum indicates a received packet failed checksum verification.
	ErrChecksum = errors.New("checksum mismatch")

	// ErrMalformedPacket indicates a packet whose framing cannot be decoded.
	ErrMalformedPacket = errors.New("malformed packet")

	// ErrNoTerminator indicates a buffer holds no 0x00 packet terminator.
	ErrNoTerminator = errors.New("packet terminator not found")

	// ErrBufferTooSmall indicates the provided buffer is too small.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrInvalidIdentity indicates a device identity that cannot be encoded.
	ErrInvalidIdentity = errors.New("invalid device identity")

	// ErrBlockOutOfRange indicates a block number beyond the end of the media.
	ErrBlockOutOfRange = errors.New("block out of range")

	// ErrWriteProtected indicates a write to read-only media.
	ErrWriteProtected = errors.New("media write protected")

	// ErrNoMedia indicates the storage backend has no media present.
	ErrNoMedia = errors.New("media not present")

	// ErrInvalidConfig indicates a configuration file that cannot be applied.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownReply indicates a request for a reply kind the codec cannot build.
	ErrUnknownReply = errors.New("unknown reply kind")
)

// Status is a SmartPort status code carried in the STAT header field of a
// reply packet.
type Status uint8

// SmartPort status codes.
const (
	StatusOK           Status = 0x00 // Command completed
	StatusBusError     Status = 0x06 // Communications error
	StatusIOError      Status = 0x27 // I/O error on the media
	StatusNoDrive      Status = 0x28 // No device connected
	StatusWriteProtect Status = 0x2B // Media is write protected
	StatusBadBlock     Status = 0x2D // Block number out of range
)

// Init reply status values. An init reply carrying InitStatusLast tells the
// host no further devices follow this one in the chain.
const (
	InitStatusMore Status = 0x80
	InitStatusLast Status = 0xFF
)

// String returns a string representation of the status code.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusBusError:
		return "bus error"
	case StatusIOError:
		return "io error"
	case StatusNoDrive:
		return "no drive"
	case StatusWriteProtect:
		return "write protected"
	case StatusBadBlock:
		return "bad block"
	default:
		return fmt.Sprintf("status 0x%02X", uint8(s))
	}
}

// Error returns the corresponding error for the status code.
func (s Status) Error() error {
	switch s {
	case StatusOK:
		return nil
	case StatusBusError:
		return ErrChecksum
	case StatusWriteProtect:
		return ErrWriteProtected
	case StatusBadBlock:
		return ErrBlockOutOfRange
	case StatusNoDrive:
		return ErrNoMedia
	default:
		return fmt.Errorf("device reported %s", s)
	}
}

// StatusOf maps an error returned by the codec or a storage backend to the
// status code reported to the host. Unrecognized errors map to StatusIOError.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrChecksum), errors.Is(err, ErrMalformedPacket),
		errors.Is(err, ErrNoTerminator):
		return StatusBusError
	case errors.Is(err, ErrWriteProtected):
		return StatusWriteProtect
	case errors.Is(err, ErrBlockOutOfRange):
		return StatusBadBlock
	case errors.Is(err, ErrNoMedia):
		return StatusNoDrive
	default:
		return StatusIOError
	}
}
