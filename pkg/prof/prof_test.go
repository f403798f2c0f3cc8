//go:build profile

package prof

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStartCPU(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.prof")

	if err := StartCPU(path); err != nil {
		t.Fatalf("StartCPU() error = %v, want nil", err)
	}
	if !IsCPUActive() {
		t.Error("IsCPUActive() = false, want true")
	}

	// Second call should fail fast
	err := StartCPU(filepath.Join(t.TempDir(), "cpu2.prof"))
	if !errors.Is(err, ErrCPUProfileActive) {
		t.Errorf("StartCPU() error = %v, want %v", err, ErrCPUProfileActive)
	}

	if err := StopCPU(); err != nil {
		t.Errorf("StopCPU() error = %v", err)
	}
	if IsCPUActive() {
		t.Error("IsCPUActive() = true after StopCPU(), want false")
	}

	// Should be able to start again
	if err := StartCPU(path); err != nil {
		t.Errorf("StartCPU() after StopCPU() error = %v, want nil", err)
	}
	StopCPU()
}

func TestStartCPU_InvalidPath(t *testing.T) {
	if err := StartCPU("/nonexistent/directory/cpu.prof"); err == nil {
		t.Error("StartCPU() error = nil, want error for invalid path")
		StopCPU()
	}
}

func TestStopCPU_WhenNotActive(t *testing.T) {
	if err := StopCPU(); err != nil {
		t.Errorf("StopCPU() error = %v, want nil", err)
	}
}

func TestWrite(t *testing.T) {
	for _, profile := range []Profile{ProfileHeap, ProfileAllocs, ProfileGoroutine} {
		t.Run(profile.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), profile.String()+".prof")

			if err := Write(profile, path); err != nil {
				t.Fatalf("Write(%v) error = %v, want nil", profile, err)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("os.Stat(%s) error = %v", path, err)
			}
			if info.Size() == 0 {
				t.Errorf("Write(%v) created empty file", profile)
			}
		})
	}
}

func TestWrite_Rejected(t *testing.T) {
	for _, profile := range []Profile{ProfileCPU, Profile("nonexistent")} {
		path := filepath.Join(t.TempDir(), "x.prof")
		if err := Write(profile, path); !errors.Is(err, ErrInvalidProfile) {
			t.Errorf("Write(%v) error = %v, want %v", profile, err, ErrInvalidProfile)
		}
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Write(%v) created a file", profile)
		}
	}
}
