package pkg

import (
	"errors"
	"fmt"
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusOK, "ok"},
		{StatusBusError, "bus error"},
		{StatusIOError, "io error"},
		{StatusNoDrive, "no drive"},
		{StatusWriteProtect, "write protected"},
		{StatusBadBlock, "bad block"},
		{Status(0x99), "status 0x99"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("Status.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus_Error(t *testing.T) {
	tests := []struct {
		status  Status
		wantErr error
	}{
		{StatusOK, nil},
		{StatusBusError, ErrChecksum},
		{StatusWriteProtect, ErrWriteProtected},
		{StatusBadBlock, ErrBlockOutOfRange},
		{StatusNoDrive, ErrNoMedia},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			err := tt.status.Error()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Status.Error() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Status.Error() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := StatusIOError.Error(); err == nil {
		t.Error("StatusIOError.Error() = nil, want non-nil")
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Status
	}{
		{"nil", nil, StatusOK},
		{"checksum", ErrChecksum, StatusBusError},
		{"wrapped checksum", fmt.Errorf("decode block 7: %w", ErrChecksum), StatusBusError},
		{"malformed", ErrMalformedPacket, StatusBusError},
		{"no terminator", ErrNoTerminator, StatusBusError},
		{"write protected", ErrWriteProtected, StatusWriteProtect},
		{"out of range", fmt.Errorf("block 70000: %w", ErrBlockOutOfRange), StatusBadBlock},
		{"no media", ErrNoMedia, StatusNoDrive},
		{"other", errors.New("disk on fire"), StatusIOError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.err); got != tt.want {
				t.Errorf("StatusOf(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestStatusWireValues(t *testing.T) {
	// Values fixed by the bus protocol.
	if StatusBusError != 0x06 {
		t.Errorf("StatusBusError = 0x%02X, want 0x06", uint8(StatusBusError))
	}
	if InitStatusMore != 0x80 || InitStatusLast != 0xFF {
		t.Errorf("init status = 0x%02X/0x%02X, want 0x80/0xFF", uint8(InitStatusMore), uint8(InitStatusLast))
	}
}

func TestSentinelErrors(t *testing.T) {
	// Verify all sentinel errors are distinct
	errs := []error{
		ErrChecksum,
		ErrMalformedPacket,
		ErrNoTerminator,
		ErrBufferTooSmall,
		ErrInvalidIdentity,
		ErrBlockOutOfRange,
		ErrWriteProtected,
		ErrNoMedia,
		ErrInvalidConfig,
		ErrUnknownReply,
	}

	for i, err1 := range errs {
		if err1 == nil {
			t.Errorf("error %d is nil", i)
			continue
		}
		for j, err2 := range errs {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("error %d and %d are equal", i, j)
			}
		}
	}
}
