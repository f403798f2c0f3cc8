//go:build !profile

package prof

import (
	"path/filepath"
	"testing"
)

func TestStubs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.prof")
	if err := StartCPU(path); err != nil {
		t.Errorf("StartCPU() error = %v, want nil", err)
	}
	if IsCPUActive() {
		t.Error("IsCPUActive() = true, want false")
	}
	if err := StopCPU(); err != nil {
		t.Errorf("StopCPU() error = %v, want nil", err)
	}
	if err := Write(ProfileHeap, path); err != nil {
		t.Errorf("Write() error = %v, want nil", err)
	}
	if ProfileHeap.String() != "heap" {
		t.Errorf("ProfileHeap.String() = %q", ProfileHeap.String())
	}
}
