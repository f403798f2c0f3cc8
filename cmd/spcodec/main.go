// Command spcodec works with SmartPort packets offline.
//
// It encodes blocks of a disk image into data packets, decodes captured
// WRITEBLOCK data packets back into an image, builds each control reply a
// unit would send, and checks the checksum of captured command packets.
//
// Usage:
//
//	spcodec [flags] <command> [args]
//
// Commands:
//
//	create <blocks>          Create a zero-filled image of the given size
//	read <block>             Encode a block of the image as a data packet
//	write <block> <packet>   Decode a data packet file into a block, print the ack
//	status                   Build the STATUS reply
//	dib                      Build the STATUS DIB reply
//	init                     Build the INIT reply (--last for the final unit)
//	verify <packet>          Verify the checksum of a command packet file
//	dump <file>              Print a hex dump of any file
//
// Packets are printed as a hex dump unless --out names a file to receive
// the raw bytes.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/ardnew/softsp/config"
	"github.com/ardnew/softsp/pkg"
	"github.com/ardnew/softsp/pkg/prof"
)

const component = pkg.ComponentCLI

// exitError carries a process exit code other than 1.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		code := 1
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			code = coder.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(code)
	}
}

// options holds the parsed command line.
type options struct {
	configPath string
	image      string
	source     uint8
	readOnly   bool
	out        string
	last       bool
	verbose    bool
	json       bool
	logLevel   string
	cpuProfile string
	memProfile string
}

func run(args []string, stdout, stderr io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("spcodec", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "unit configuration file (.toml, .yaml)")
	flagSet.StringVarP(&opts.image, "image", "i", "", "disk image file (overrides config)")
	flagSet.Uint8VarP(&opts.source, "source", "s", 0, "bus ID of the unit (overrides config)")
	flagSet.BoolVar(&opts.readOnly, "read-only", false, "open the image write protected")
	flagSet.StringVarP(&opts.out, "out", "o", "", "write the raw packet to this file instead of dumping it")
	flagSet.BoolVar(&opts.last, "last", false, "init: report this unit as the last in the chain")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose (debug) logging")
	flagSet.BoolVar(&opts.json, "json", false, "use JSON log format")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	flagSet.StringVar(&opts.cpuProfile, "cpuprofile", "", "write a CPU profile to this file (profile builds)")
	flagSet.StringVar(&opts.memProfile, "memprofile", "", "write a heap profile to this file (profile builds)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		printHelp(stderr, flagSet)
		return &exitError{code: 2, err: errors.New("no command given")}
	}

	cfg, err := loadConfig(&opts, flagSet)
	if err != nil {
		return err
	}

	if err := setupLogging(&opts, cfg); err != nil {
		return err
	}

	if opts.cpuProfile != "" {
		if err := prof.StartCPU(opts.cpuProfile); err != nil {
			return fmt.Errorf("start cpu profile: %w", err)
		}
		defer prof.StopCPU()
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		return &exitError{code: 2, err: fmt.Errorf("unknown command %q", rest[0])}
	}
	if len(rest)-1 != cmd.args {
		return &exitError{code: 2, err: fmt.Errorf("%s: want %d arguments, got %d", rest[0], cmd.args, len(rest)-1)}
	}

	pkg.LogDebug(component, "running command", "command", rest[0], "args", rest[1:])
	env := &environment{cfg: cfg, opts: &opts, stdout: stdout}
	err = cmd.run(env, rest[1:])

	if opts.memProfile != "" {
		if perr := prof.Write(prof.ProfileHeap, opts.memProfile); perr != nil {
			pkg.LogWarn(component, "heap profile failed", "path", opts.memProfile, "error", perr)
		}
	}
	return err
}

// loadConfig reads the configuration file, if any, and applies the flags
// that override it.
func loadConfig(opts *options, flagSet *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}

	if flagSet.Changed("image") {
		cfg.Image = opts.image
	}
	if flagSet.Changed("source") {
		cfg.Source = opts.source
	}
	if flagSet.Changed("read-only") {
		cfg.ReadOnly = opts.readOnly
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(opts *options, cfg *config.Config) error {
	level, ok := pkg.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return fmt.Errorf("%w: log level %q", pkg.ErrInvalidConfig, cfg.LogLevel)
	}
	if opts.verbose {
		level = slog.LevelDebug
	}
	pkg.SetLogLevel(level)
	if opts.json {
		pkg.SetLogFormat(pkg.LogFormatJSON)
	}
	pkg.LogDebug(component, "logging configured", "level", pkg.GetLogLevel(), "json", opts.json)
	return nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprint(w, `spcodec - encode, decode and inspect SmartPort packets.

Usage:
  spcodec [flags] <command> [args]

Commands:
  create <blocks>          create a zero-filled image of the given size
  read <block>             encode a block of the image as a data packet
  write <block> <packet>   decode a data packet file into a block, print the ack
  status                   build the STATUS reply
  dib                      build the STATUS DIB reply
  init                     build the INIT reply (--last for the final unit)
  verify <packet>          verify the checksum of a command packet file
  dump <file>              print a hex dump of any file

Examples:
  # Encode block 2 of an image and save the packet
  spcodec -i system.po -o block2.bin read 2

  # Store a captured write packet in block 7
  spcodec -c unit.toml write 7 capture.bin

Flags:
`)
	flagSet.PrintDefaults()
}
