// Package config loads the configuration of a SmartPort unit.
//
// A configuration file names the identity the unit reports in status and
// DIB replies, the bus ID it answers to, and the disk image that backs it.
// Both TOML and YAML are accepted; [Load] picks the decoder from the file
// extension. Keys absent from the file keep the values of [Default], which
// match the SmartportSD firmware.
//
// Example TOML:
//
//	name             = "Games"
//	firmware_version = "1.16"
//	source           = 0x81
//	image            = "${HOME}/disks/system.po"
//	read_only        = false
//	log_level        = "info"
//
// The same keys are used in YAML. Unknown keys are rejected in both formats.
// Environment variables in image are expanded after loading.
//
// Key exports:
//
//   - [Config] -- the unit configuration
//   - [Default] -- a Config reporting smartport.DefaultIdentity
//   - [Load] -- read, decode and validate a file
//   - [Config.Identity] -- the smartport.Identity to build replies with
package config
