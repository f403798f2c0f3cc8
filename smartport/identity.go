package smartport

import (
	"fmt"

	"github.com/ardnew/softsp/pkg"
)

// Identity describes the device reported in status and DIB replies.
type Identity struct {
	// GeneralStatus is the first status byte (0xF8: block device, writable,
	// readable, online).
	GeneralStatus uint8

	// BlockCount is the number of 512-byte blocks on the media. Only the
	// low 24 bits travel on the bus.
	BlockCount uint32

	// Name is the ID string, at most IDStringSize bytes of printable ASCII.
	// It is space-padded on the wire and its unpadded length is reported
	// in the ID length byte.
	Name string

	DeviceType      uint8
	Subtype         uint8
	FirmwareVersion [2]uint8
}

// Identity limits.
const (
	IDStringSize  = 16
	MaxBlockCount = 0xFFFFFF
)

// Device type codes.
const (
	DeviceTypeHardDisk = 0x02
)

// DefaultIdentity returns the identity of a 32 MB volume as reported by the
// SmartportSD firmware.
func DefaultIdentity() Identity {
	return Identity{
		GeneralStatus: 0xF8,
		BlockCount:    0x00FFFF,
		// The firmware has always reported an ID length of 13.
		Name:            "Smartport SD ",
		DeviceType:      DeviceTypeHardDisk,
		Subtype:         0x00,
		FirmwareVersion: [2]uint8{0x01, 0x10},
	}
}

// Validate reports whether the identity can be encoded.
func (id *Identity) Validate() error {
	if id.BlockCount > MaxBlockCount {
		return fmt.Errorf("%w: block count %d exceeds %d", pkg.ErrInvalidIdentity, id.BlockCount, MaxBlockCount)
	}
	if len(id.Name) == 0 || len(id.Name) > IDStringSize {
		return fmt.Errorf("%w: name length %d not in 1..%d", pkg.ErrInvalidIdentity, len(id.Name), IDStringSize)
	}
	for i := 0; i < len(id.Name); i++ {
		if c := id.Name[i]; c < 0x20 || c > 0x7E {
			return fmt.Errorf("%w: name byte %d is 0x%02X, want printable ASCII", pkg.ErrInvalidIdentity, i, c)
		}
	}
	return nil
}

// statusBytes returns the four raw status bytes: general status followed by
// the block count, least significant byte first.
func (id *Identity) statusBytes() [4]byte {
	return [4]byte{
		id.GeneralStatus,
		byte(id.BlockCount),
		byte(id.BlockCount >> 8),
		byte(id.BlockCount >> 16),
	}
}

// idString returns the space-padded ID string.
func (id *Identity) idString() [IDStringSize]byte {
	var s [IDStringSize]byte
	for i := range s {
		s[i] = ' '
	}
	copy(s[:], id.Name)
	return s
}
