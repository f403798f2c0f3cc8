package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/softsp/pkg"
	"github.com/ardnew/softsp/smartport"
)

// readBlockCommand is a READBLOCK command packet for block 0x012345 as the
// receiver captures it: five sync bytes, the start marker at offset 5.
var readBlockCommand = []byte{
	0x3F, 0xCF, 0xF3, 0xFC, 0xFF,
	0xC3, 0x81, 0x80, 0x80, 0x80, 0x80, 0x82, 0x81,
	0x80, 0x81, 0x83,
	0x80, 0x81, 0x80, 0xA0, 0xC5, 0xA3, 0x81, 0x80,
	0xEE, 0xEB,
	0xC8, 0x00,
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRun_ReadWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	image := filepath.Join(dir, "disk.po")

	out, err := runCLI(t, "-i", image, "create", "16")
	if err != nil {
		t.Fatalf("create error = %v", err)
	}
	if !strings.Contains(out, "16 blocks") {
		t.Errorf("create output = %q", out)
	}

	// Seed block 3 directly in the image.
	want := bytes.Repeat([]byte{0xA5, 0x00, 0xFF, 0x7F}, smartport.SectorSize/4)
	f, err := os.OpenFile(image, os.O_RDWR, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteAt(want, 3*smartport.SectorSize); err != nil {
		t.Fatal(err)
	}
	f.Close()

	packet := filepath.Join(dir, "block3.bin")
	if _, err := runCLI(t, "-i", image, "-o", packet, "read", "3"); err != nil {
		t.Fatalf("read error = %v", err)
	}
	data, err := os.ReadFile(packet)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != smartport.DataPacketSize {
		t.Fatalf("packet length = %d, want %d", len(data), smartport.DataPacketSize)
	}

	// Store the packet in block 9 and print the ack.
	out, err = runCLI(t, "-i", image, "write", "9", packet)
	if err != nil {
		t.Fatalf("write error = %v", err)
	}
	if !strings.HasPrefix(out, "0000: FF 3F CF F3 FC FF C3 80 81 81 80 80 80 80") {
		t.Errorf("ack dump = %q", out)
	}

	img, err := os.ReadFile(image)
	if err != nil {
		t.Fatal(err)
	}
	if got := img[9*smartport.SectorSize : 10*smartport.SectorSize]; !bytes.Equal(got, want) {
		t.Error("block 9 does not hold the decoded sector")
	}
}

func TestRun_WriteCorrupt(t *testing.T) {
	dir := t.TempDir()
	image := filepath.Join(dir, "disk.po")
	if _, err := runCLI(t, "-i", image, "create", "4"); err != nil {
		t.Fatal(err)
	}

	packet := filepath.Join(dir, "block.bin")
	if _, err := runCLI(t, "-i", image, "-o", packet, "read", "0"); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(packet)
	data[200] ^= 0x02
	if err := os.WriteFile(packet, data, 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "-i", image, "write", "1", packet)
	if !errors.Is(err, pkg.ErrChecksum) {
		t.Fatalf("write error = %v, want ErrChecksum", err)
	}
	// The ack still goes out, carrying the bus error status.
	if !strings.HasPrefix(out, "0000: FF 3F CF F3 FC FF C3 80 81 81 80 86 80 80") {
		t.Errorf("ack dump = %q", out)
	}
}

func TestRun_Replies(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		prefix string
	}{
		{"status", []string{"status"}, "0000: FF 3F CF F3 FC FF C3 80 81 81 80 80 84 80 F0 F8"},
		{"dib", []string{"dib"}, "0000: FF 3F CF F3 FC FF C3 80 81 81 80 80 84 83 F0 F8"},
		{"init", []string{"init"}, "0000: FF 3F CF F3 FC FF C3 80 81 80 80 80 80 80"},
		{"init last", []string{"--last", "init"}, "0000: FF 3F CF F3 FC FF C3 80 81 80 80 FF 80 80"},
		{"source", []string{"-s", "0x05", "init"}, "0000: FF 3F CF F3 FC FF C3 80 85 80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatalf("run error = %v", err)
			}
			if !strings.HasPrefix(out, tt.prefix) {
				t.Errorf("output = %q, want prefix %q", out, tt.prefix)
			}
		})
	}
}

func TestRun_StatusFromImage(t *testing.T) {
	image := filepath.Join(t.TempDir(), "disk.po")
	if _, err := runCLI(t, "-i", image, "create", "0x100"); err != nil {
		t.Fatal(err)
	}

	// 0x100 blocks: F8 00 01 00.
	out, err := runCLI(t, "-i", image, "status")
	if err != nil {
		t.Fatalf("status error = %v", err)
	}
	if !strings.HasPrefix(out, "0000: FF 3F CF F3 FC FF C3 80 81 81 80 80 84 80 C0 F8 ") ||
		!strings.Contains(out, "\n0010: 80 81 80 ") {
		t.Errorf("status dump = %q", out)
	}
}

func TestRun_Verify(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "cmd.bin")
	if err := os.WriteFile(good, readBlockCommand, 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "verify", good)
	if err != nil {
		t.Fatalf("verify error = %v", err)
	}
	if !strings.Contains(out, "payload 01 03 01 00 20 45 23 01 00") || !strings.Contains(out, "checksum ok") {
		t.Errorf("verify output = %q", out)
	}

	bad := bytes.Clone(readBlockCommand)
	bad[20] ^= 0x01
	badPath := filepath.Join(dir, "bad.bin")
	if err := os.WriteFile(badPath, bad, 0644); err != nil {
		t.Fatal(err)
	}

	out, err = runCLI(t, "verify", badPath)
	var exit *exitError
	if !errors.As(err, &exit) || exit.ExitCode() != 3 {
		t.Fatalf("verify error = %v, want exit code 3", err)
	}
	if !errors.Is(err, pkg.ErrChecksum) {
		t.Errorf("verify error = %v, want ErrChecksum", err)
	}
	if !strings.Contains(out, "checksum mismatch") {
		t.Errorf("verify output = %q", out)
	}
}

func TestRun_Config(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "unit.toml")
	if err := os.WriteFile(cfgPath, []byte("source = 0x84\nname = \"CLI\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "-c", cfgPath, "dib")
	if err != nil {
		t.Fatalf("dib error = %v", err)
	}
	// Source 0x84, ID length 3.
	if !strings.HasPrefix(out, "0000: FF 3F CF F3 FC FF C3 80 84 81") {
		t.Errorf("dib dump = %q", out)
	}
	if !strings.Contains(out, "83 43 4C") {
		t.Errorf("dib dump missing ID string: %q", out)
	}
}

func TestRun_Dump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, []byte("Hi!"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, "dump", path)
	if err != nil {
		t.Fatalf("dump error = %v", err)
	}
	if !strings.HasPrefix(out, "0000: 48 69 21 ") || !strings.HasSuffix(out, "-Hi!"+strings.Repeat(".", 13)+"\n") {
		t.Errorf("dump output = %q", out)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  error
	}{
		{"no command", nil, 2, nil},
		{"unknown command", []string{"format"}, 2, nil},
		{"missing argument", []string{"read"}, 2, nil},
		{"no image", []string{"read", "0"}, 0, errNoImage},
		{"host source", []string{"-s", "0x80", "status"}, 0, pkg.ErrInvalidConfig},
		{"bad log level", []string{"--log-level", "loud", "status"}, 0, pkg.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("run error = nil")
			}
			if tt.wantCode != 0 {
				var exit *exitError
				if !errors.As(err, &exit) || exit.ExitCode() != tt.wantCode {
					t.Errorf("run error = %v, want exit code %d", err, tt.wantCode)
				}
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("run error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"--help"}, &stdout, &stderr); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Errorf("help output = %q", stderr.String())
	}
}
