// Package navd implements the GPS daemon: it reads a receiver over a
// serial port, parses NMEA 0183 or SiRF binary, stores fixes, serves a
// gpsd-style poll API, and optionally exports fixes to InfluxDB.
package navd

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Protocols accepted by the serial pipeline.
const (
	ProtocolAuto = "auto"
	ProtocolNMEA = "nmea"
	ProtocolSiRF = "sirf"
)

// SerialConfig selects and configures the receiver's serial port.
type SerialConfig struct {
	Device   string `yaml:"device" env:"NAVD_SERIAL_DEVICE"`
	BaudRate int    `yaml:"baud_rate" env:"NAVD_SERIAL_BAUD"`
	Protocol string `yaml:"protocol" env:"NAVD_SERIAL_PROTOCOL"`
}

// InfluxConfig controls the optional fix export loop.
type InfluxConfig struct {
	Enabled       bool          `yaml:"enabled" env:"NAVD_INFLUX_ENABLED"`
	URL           string        `yaml:"url" env:"NAVD_INFLUX_URL"`
	Database      string        `yaml:"database" env:"NAVD_INFLUX_DATABASE"`
	FlushInterval time.Duration `yaml:"flush_interval" env:"NAVD_INFLUX_FLUSH_INTERVAL"`
}

// Config is the daemon configuration. Values load from an optional YAML
// file, then environment overrides, then flag overrides in main.
type Config struct {
	ListenAddr string       `yaml:"listen_addr" env:"NAVD_LISTEN_ADDR"`
	DeviceName string       `yaml:"device_name" env:"NAVD_DEVICE_NAME"`
	DBPath     string       `yaml:"db_path" env:"NAVD_DB_PATH"`
	Serial     SerialConfig `yaml:"serial"`
	Influx     InfluxConfig `yaml:"influx"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		ListenAddr: ":8181",
		DeviceName: "gps0",
		DBPath:     "navd.db",
		Serial: SerialConfig{
			Device:   "/dev/ttyUSB0",
			BaudRate: 4800,
			Protocol: ProtocolAuto,
		},
		Influx: InfluxConfig{
			URL:           "http://localhost:8086",
			Database:      "navdata",
			FlushInterval: 30 * time.Second,
		},
	}
}

// LoadConfig builds the configuration from defaults, the YAML file at
// path (skipped when path is empty), and environment variables, in that
// order.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %q: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the daemon cannot run with.
func (c Config) Validate() error {
	switch c.Serial.Protocol {
	case ProtocolAuto, ProtocolNMEA, ProtocolSiRF:
	default:
		return fmt.Errorf("unknown serial protocol %q: expected auto, nmea, or sirf", c.Serial.Protocol)
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.DeviceName == "" {
		return fmt.Errorf("device_name must not be empty")
	}
	if c.Influx.Enabled {
		if c.Influx.URL == "" || c.Influx.Database == "" {
			return fmt.Errorf("influx export enabled but url or database unset")
		}
		if c.Influx.FlushInterval <= 0 {
			return fmt.Errorf("influx flush_interval must be positive, got %v", c.Influx.FlushInterval)
		}
	}
	return nil
}
