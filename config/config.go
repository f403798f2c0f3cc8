package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ardnew/softsp/pkg"
	"github.com/ardnew/softsp/smartport"
)

// DefaultSource is the bus ID assigned to the first device after INIT.
const DefaultSource = 0x81

// Config describes one SmartPort unit: the identity it reports, the bus ID
// it answers to, and the image file that backs it.
type Config struct {
	Name            string `toml:"name" yaml:"name"`
	DeviceType      uint8  `toml:"device_type" yaml:"device_type"`
	Subtype         uint8  `toml:"subtype" yaml:"subtype"`
	FirmwareVersion string `toml:"firmware_version" yaml:"firmware_version"`
	GeneralStatus   uint8  `toml:"general_status" yaml:"general_status"`
	BlockCount      uint32 `toml:"block_count" yaml:"block_count"`

	Source   uint8  `toml:"source" yaml:"source"`
	Image    string `toml:"image" yaml:"image"`
	ReadOnly bool   `toml:"read_only" yaml:"read_only"`

	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// Default returns a Config reporting smartport.DefaultIdentity under
// DefaultSource, with no image.
func Default() *Config {
	id := smartport.DefaultIdentity()
	return &Config{
		Name:            id.Name,
		DeviceType:      id.DeviceType,
		Subtype:         id.Subtype,
		FirmwareVersion: FormatVersion(id.FirmwareVersion),
		GeneralStatus:   id.GeneralStatus,
		BlockCount:      id.BlockCount,
		Source:          DefaultSource,
		LogLevel:        "warn",
	}
}

// Load loads configuration from path. The format is chosen by extension:
// ".toml" or ".yaml"/".yml". Keys absent from the file keep their Default
// values. The result is validated before it is returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = cfg.loadTOML(path)
	case ".yaml", ".yml":
		err = cfg.loadYAML(path)
	default:
		err = fmt.Errorf("%w: unsupported file extension %q", pkg.ErrInvalidConfig, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if cfg.Image != "" {
		cfg.Image = os.ExpandEnv(cfg.Image)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	pkg.LogDebug(pkg.ComponentConfig, "config loaded", "path", path,
		"name", cfg.Name, "source", cfg.Source, "image", cfg.Image)
	return cfg, nil
}

// loadTOML applies the keys defined in a TOML file.
func (c *Config) loadTOML(path string) error {
	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return err
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: unknown key %q", pkg.ErrInvalidConfig, undecoded[0].String())
	}

	if meta.IsDefined("name") {
		c.Name = raw.Name
	}
	if meta.IsDefined("device_type") {
		c.DeviceType = raw.DeviceType
	}
	if meta.IsDefined("subtype") {
		c.Subtype = raw.Subtype
	}
	if meta.IsDefined("firmware_version") {
		c.FirmwareVersion = strings.TrimSpace(raw.FirmwareVersion)
	}
	if meta.IsDefined("general_status") {
		c.GeneralStatus = raw.GeneralStatus
	}
	if meta.IsDefined("block_count") {
		c.BlockCount = raw.BlockCount
	}
	if meta.IsDefined("source") {
		c.Source = raw.Source
	}
	if meta.IsDefined("image") {
		c.Image = strings.TrimSpace(raw.Image)
	}
	if meta.IsDefined("read_only") {
		c.ReadOnly = raw.ReadOnly
	}
	if meta.IsDefined("log_level") {
		c.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	return nil
}

// loadYAML decodes a YAML file over the current values.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", pkg.ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.Identity(); err != nil {
		errs = append(errs, err)
	}

	if c.Source&0x7F == 0 {
		errs = append(errs, fmt.Errorf("source 0x%02X is the host ID", c.Source))
	}

	if _, ok := pkg.ParseLogLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("log_level must be one of: debug, info, warn, error"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", pkg.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Identity returns the device identity described by the configuration.
func (c *Config) Identity() (smartport.Identity, error) {
	version, err := ParseVersion(c.FirmwareVersion)
	if err != nil {
		return smartport.Identity{}, err
	}

	id := smartport.Identity{
		GeneralStatus:   c.GeneralStatus,
		BlockCount:      c.BlockCount,
		Name:            c.Name,
		DeviceType:      c.DeviceType,
		Subtype:         c.Subtype,
		FirmwareVersion: version,
	}
	if err := id.Validate(); err != nil {
		return smartport.Identity{}, err
	}
	return id, nil
}

// ParseVersion parses a "major.minor" firmware version with decimal
// components. "1.16" yields {0x01, 0x10}.
func ParseVersion(s string) ([2]uint8, error) {
	major, minor, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return [2]uint8{}, fmt.Errorf("firmware_version %q: want major.minor", s)
	}
	hi, err := strconv.ParseUint(major, 10, 8)
	if err != nil {
		return [2]uint8{}, fmt.Errorf("firmware_version %q: %w", s, err)
	}
	lo, err := strconv.ParseUint(minor, 10, 8)
	if err != nil {
		return [2]uint8{}, fmt.Errorf("firmware_version %q: %w", s, err)
	}
	return [2]uint8{uint8(hi), uint8(lo)}, nil
}

// FormatVersion is the inverse of ParseVersion.
func FormatVersion(v [2]uint8) string {
	return fmt.Sprintf("%d.%d", v[0], v[1])
}
