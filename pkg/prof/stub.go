//go:build !profile

package prof

import (
	"sync"

	"github.com/ardnew/softsp/pkg"
)

// Profiling errors (never returned by stubs).
var (
	// ErrCPUProfileActive indicates CPU profiling is already active.
	ErrCPUProfileActive error

	// ErrInvalidProfile indicates an unknown profile, or ProfileCPU passed
	// to Write.
	ErrInvalidProfile error
)

// Profile names a pprof profile.
type Profile string

// Profile names.
const (
	ProfileCPU       Profile = "cpu"
	ProfileHeap      Profile = "heap"
	ProfileAllocs    Profile = "allocs"
	ProfileGoroutine Profile = "goroutine"
)

// String returns the profile name.
func (p Profile) String() string {
	return string(p)
}

var warnOnce sync.Once

func warnDisabled() {
	warnOnce.Do(func() {
		pkg.LogWarn(pkg.ComponentCLI, "profiling not compiled in; rebuild with -tags profile")
	})
}

// StartCPU logs a warning and does nothing without the "profile" tag.
func StartCPU(_ string) error {
	warnDisabled()
	return nil
}

// StopCPU is a no-op without the "profile" tag.
func StopCPU() error {
	return nil
}

// IsCPUActive always returns false without the "profile" tag.
func IsCPUActive() bool {
	return false
}

// Write logs a warning and does nothing without the "profile" tag.
func Write(_ Profile, _ string) error {
	warnDisabled()
	return nil
}
