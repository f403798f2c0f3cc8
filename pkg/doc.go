// Package pkg provides shared utilities for the softsp SmartPort codec.
//
// This package contains common functionality used by the codec and the
// storage adapters, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error types for codec and storage errors
//   - SmartPort status codes and the error-to-status mapping
//   - A hex and ASCII packet dump for diagnostics
//
// # Logging
//
// The logging subsystem wraps [log/slog] with component context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentSector, "block read", "block", 42)
//
// Packet dumps are emitted only at debug level:
//
//	pkg.LogPacket(pkg.ComponentSector, "data packet", buf[:n])
//
// # Errors
//
// Errors are defined as sentinel values and mapped to the status byte
// reported to the host:
//
//	if errors.Is(err, pkg.ErrChecksum) {
//	    // the host will retry the transaction
//	}
//	status := pkg.StatusOf(err)
package pkg
