package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no -config flag is given.
const DefaultPath = "config.toml"

// Interface types
const (
	TypeSerial = "serial"
	TypeTCP    = "tcp"
	TypeDemo   = "demo"
)

var (
	ErrUnknownInterface = errors.New("config: unknown interface type")
	ErrMissingDevice    = errors.New("config: interface device not set")
	ErrInvalidFrameSize = errors.New("config: max_frame_size must be positive")
)

// Duration wraps time.Duration so it can be written as "1s" in either file
// format.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// InterfaceConfig selects and parameterizes the link to the remote end
type InterfaceConfig struct {
	Type        string   `toml:"type" yaml:"type"`
	Device      string   `toml:"device" yaml:"device"` // serial path or host:port
	Baud        int      `toml:"baud" yaml:"baud"`
	ReadTimeout Duration `toml:"read_timeout" yaml:"read_timeout"`
}

// FramingConfig holds codec parameters
type FramingConfig struct {
	MaxFrameSize int  `toml:"max_frame_size" yaml:"max_frame_size"`
	Trace        bool `toml:"trace" yaml:"trace"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Address string `toml:"address" yaml:"address"`
}

// LogConfig controls zerolog output
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// Config holds all application configuration
type Config struct {
	Interface InterfaceConfig `toml:"interface" yaml:"interface"`
	Framing   FramingConfig   `toml:"framing" yaml:"framing"`
	Metrics   MetricsConfig   `toml:"metrics" yaml:"metrics"`
	Log       LogConfig       `toml:"log" yaml:"log"`
}

// Default returns the configuration used for any field a file leaves out.
func Default() Config {
	return Config{
		Interface: InterfaceConfig{
			Type:        TypeDemo,
			Baud:        9600,
			ReadTimeout: Duration{time.Second},
		},
		Framing: FramingConfig{
			MaxFrameSize: 30,
		},
		Metrics: MetricsConfig{
			Address: ":9108",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads the configuration from path. Files ending in .yaml or
// .yml are parsed as YAML, everything else as TOML.
func LoadConfig(path string) (Config, error) {
	conf := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return conf, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &conf)
	default:
		err = toml.Unmarshal(data, &conf)
	}
	if err != nil {
		return conf, fmt.Errorf("parse config %s: %w", path, err)
	}

	conf.Interface.Type = strings.ToLower(strings.TrimSpace(conf.Interface.Type))
	conf.Interface.Device = strings.TrimSpace(conf.Interface.Device)

	if err := conf.Validate(); err != nil {
		return conf, err
	}
	return conf, nil
}

// Validate checks the fields that would otherwise fail later at connect
// time.
func (c Config) Validate() error {
	switch c.Interface.Type {
	case TypeSerial, TypeTCP:
		if c.Interface.Device == "" {
			return fmt.Errorf("%w for %s", ErrMissingDevice, c.Interface.Type)
		}
	case TypeDemo:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownInterface, c.Interface.Type)
	}

	if c.Framing.MaxFrameSize <= 0 {
		return ErrInvalidFrameSize
	}
	if _, err := c.Log.ParseLevel(); err != nil {
		return fmt.Errorf("config: log level: %w", err)
	}
	return nil
}

// ParseLevel converts the configured level name to a zerolog level. An
// empty string means info.
func (l LogConfig) ParseLevel() (zerolog.Level, error) {
	if strings.TrimSpace(l.Level) == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(l.Level)))
}
