// Package prof writes pprof profiles of spcodec runs.
//
// Profiling is compiled in only with the "profile" build tag:
//
//	go build -tags profile ./cmd/spcodec
//	spcodec --cpuprofile cpu.prof -i disk.po read 0
//
// Without the tag every function is a no-op that logs a warning, so the
// command line flags stay available in every build.
//
// # CPU Profiling
//
// CPU profiling streams samples to a file between [StartCPU] and [StopCPU].
// Starting a second CPU profile while one is active returns
// [ErrCPUProfileActive].
//
// # Snapshot Profiles
//
// [Write] captures a point-in-time profile:
//
//   - [ProfileHeap]: live object allocations, after a garbage collection
//   - [ProfileAllocs]: all past allocations
//   - [ProfileGoroutine]: stack traces of all goroutines
package prof
