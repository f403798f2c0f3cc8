package pkg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
)

const dumpRowSize = 16

// Dump writes a hex and ASCII listing of data to w, 16 bytes per row:
//
//	0000: FF 3F CF F3 FC FF C3 80 81 81 80 80 84 83 F0 F8 -.?..............
//	0010: 48 69                                           -Hi..............
//
// Printable ASCII (0x20 through 0x7E) appears as is and every other byte as
// '.'. The ASCII column of the last row is padded to 16 characters with '.'.
func Dump(w io.Writer, data []byte) error {
	var line bytes.Buffer
	for row := 0; row < len(data); row += dumpRowSize {
		line.Reset()
		fmt.Fprintf(&line, "%04X: ", row)
		for col := 0; col < dumpRowSize; col++ {
			if row+col < len(data) {
				fmt.Fprintf(&line, "%02X ", data[row+col])
			} else {
				line.WriteString("   ")
			}
		}
		line.WriteByte('-')
		for col := 0; col < dumpRowSize; col++ {
			if row+col < len(data) && isPrintable(data[row+col]) {
				line.WriteByte(data[row+col])
			} else {
				line.WriteByte('.')
			}
		}
		line.WriteByte('\n')
		if _, err := w.Write(line.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func isPrintable(b byte) bool {
	return b >= 0x20 && b < 0x7F
}

// LogPacket logs data as a hex dump at debug level. The dump is only
// formatted when debug logging is enabled.
func LogPacket(component Component, msg string, data []byte) {
	l := logger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	var buf bytes.Buffer
	_ = Dump(&buf, data)
	l.Debug(msg, "component", string(component), "length", len(data), "dump", "\n"+buf.String())
}
