package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ardnew/softsp/config"
	"github.com/ardnew/softsp/pkg"
	"github.com/ardnew/softsp/smartport"
	"github.com/ardnew/softsp/volume"
)

// errNoImage is returned by commands that need a disk image when none was
// configured.
var errNoImage = errors.New("no image: set image in the config file or use --image")

type command struct {
	args int
	run  func(env *environment, args []string) error
}

var commands = map[string]command{
	"create": {1, runCreate},
	"read":   {1, runRead},
	"write":  {2, runWrite},
	"status": {0, runStatus},
	"dib":    {0, runStatusDIB},
	"init":   {0, runInit},
	"verify": {1, runVerify},
	"dump":   {1, runDump},
}

// environment is the state shared by every command.
type environment struct {
	cfg    *config.Config
	opts   *options
	stdout io.Writer
}

// openUnit opens the configured image and joins it to the codec. The
// returned function closes the image.
func (e *environment) openUnit() (*volume.Unit, func(), error) {
	if e.cfg.Image == "" {
		return nil, nil, errNoImage
	}

	storage, err := volume.NewFileStorage(e.cfg.Image, e.cfg.ReadOnly)
	if err != nil {
		return nil, nil, fmt.Errorf("open image: %w", err)
	}
	closeFn := func() {
		if err := storage.Sync(); err != nil {
			pkg.LogWarn(component, "sync failed", "image", e.cfg.Image, "error", err)
		}
		storage.Close()
	}

	id, err := e.cfg.Identity()
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	unit, err := volume.NewUnit(storage, id, e.cfg.Source)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	pkg.LogInfo(component, "image opened", "image", e.cfg.Image,
		"blocks", storage.BlockCount(), "readOnly", storage.IsReadOnly())
	return unit, closeFn, nil
}

// emit writes packet, terminator included, to --out or as a hex dump.
func (e *environment) emit(packet []byte) error {
	if e.opts.out != "" {
		if err := os.WriteFile(e.opts.out, packet, 0644); err != nil {
			return err
		}
		pkg.LogInfo(component, "packet written", "path", e.opts.out, "length", len(packet))
		return nil
	}
	return pkg.Dump(e.stdout, packet)
}

// reply builds a control reply. With an image configured the reply comes
// from the unit, so status replies carry the block count of the image;
// otherwise the configured identity is used as is.
func (e *environment) reply(kind smartport.ReplyKind, status pkg.Status) error {
	buf := make([]byte, kind.Size())

	var n int
	if e.cfg.Image != "" {
		unit, closeFn, err := e.openUnit()
		if err != nil {
			return err
		}
		defer closeFn()

		switch kind {
		case smartport.ReplyStatus:
			n, err = unit.Status(buf)
		case smartport.ReplyStatusDIB:
			n, err = unit.StatusDIB(buf)
		default:
			n, err = unit.Init(buf, status == pkg.InitStatusLast)
		}
		if err != nil {
			return err
		}
	} else {
		id, err := e.cfg.Identity()
		if err != nil {
			return err
		}
		b, err := smartport.NewBuilder(id)
		if err != nil {
			return err
		}
		n, err = b.Build(buf, smartport.Reply{Kind: kind, Source: e.cfg.Source, Status: status})
		if err != nil {
			return err
		}
	}
	return e.emit(buf[:n+1])
}

func parseCount(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return uint32(v), nil
}

func runCreate(e *environment, args []string) error {
	if e.cfg.Image == "" {
		return errNoImage
	}
	blocks, err := parseCount(args[0])
	if err != nil {
		return err
	}

	storage, err := volume.CreateFileStorage(e.cfg.Image, blocks)
	if err != nil {
		return err
	}
	if err := storage.Close(); err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "created %s: %d blocks\n", e.cfg.Image, blocks)
	return nil
}

func runRead(e *environment, args []string) error {
	block, err := parseCount(args[0])
	if err != nil {
		return err
	}

	unit, closeFn, err := e.openUnit()
	if err != nil {
		return err
	}
	defer closeFn()

	buf := make([]byte, smartport.DataPacketSize)
	n, err := unit.ReadBlock(buf, block)
	if err != nil {
		return err
	}
	return e.emit(buf[:n+1])
}

func runWrite(e *environment, args []string) error {
	block, err := parseCount(args[0])
	if err != nil {
		return err
	}
	packet, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}

	unit, closeFn, err := e.openUnit()
	if err != nil {
		return err
	}
	defer closeFn()

	ack := make([]byte, smartport.AckPacketSize)
	n, cause := unit.WriteBlock(ack, block, packet)
	if n == 0 {
		return cause
	}
	if err := e.emit(ack[:n+1]); err != nil {
		return err
	}
	if cause != nil {
		return fmt.Errorf("block %d not written (%s): %w", block, pkg.StatusOf(cause), cause)
	}
	return nil
}

func runStatus(e *environment, _ []string) error {
	return e.reply(smartport.ReplyStatus, pkg.StatusOK)
}

func runStatusDIB(e *environment, _ []string) error {
	return e.reply(smartport.ReplyStatusDIB, pkg.StatusOK)
}

func runInit(e *environment, _ []string) error {
	status := pkg.InitStatusMore
	if e.opts.last {
		status = pkg.InitStatusLast
	}
	return e.reply(smartport.ReplyInitAck, status)
}

func runVerify(e *environment, args []string) error {
	packet, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	var cmd smartport.Command
	if err := smartport.DecodeCommand(packet, &cmd); err != nil {
		return err
	}
	pkg.LogPacket(pkg.ComponentCommand, "command packet", packet)
	matches, err := smartport.VerifyCommandChecksum(packet)
	if err != nil {
		return err
	}
	pkg.LogDebug(pkg.ComponentCommand, "command checked", "header", cmd.Header.String(), "matches", matches)

	fmt.Fprintf(e.stdout, "%s\npayload % X\n", &cmd.Header, cmd.Payload)
	if !matches {
		fmt.Fprintln(e.stdout, "checksum mismatch")
		return &exitError{code: 3, err: pkg.ErrChecksum}
	}
	fmt.Fprintln(e.stdout, "checksum ok")
	return nil
}

func runDump(e *environment, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	return pkg.Dump(e.stdout, data)
}
