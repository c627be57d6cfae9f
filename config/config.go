package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/calvinmclean/autogrind"
)

// Config represents the host application configuration.
type Config struct {
	Serial    SerialConfig    `yaml:"serial"`
	Simulator SimulatorConfig `yaml:"simulator"`
	LogLevel  string          `yaml:"log_level"`
}

// SerialConfig contains the connection to real firmware.
type SerialConfig struct {
	Port     string `yaml:"port"` // empty selects the first USB serial port
	BaudRate int    `yaml:"baud_rate"`
}

// SimulatorConfig contains settings for running the grinder without hardware.
type SimulatorConfig struct {
	EEPROMPath   string        `yaml:"eeprom_path"`
	PollInterval time.Duration `yaml:"poll_interval"`
	PressTicks   int           `yaml:"press_ticks"` // how many polls a simulated key press is held for
	UI           bool          `yaml:"ui"`
}

// Default returns a default configuration.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "",
			BaudRate: autogrind.DefaultBaudRate,
		},
		Simulator: SimulatorConfig{
			EEPROMPath:   "autogrind-eeprom.bin",
			PollInterval: 100 * time.Millisecond,
			PressTicks:   2,
			UI:           false,
		},
		LogLevel: "info",
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Level returns the slog level named by LogLevel, defaulting to Info
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Simulator.EEPROMPath == "" {
		c.Simulator.EEPROMPath = def.Simulator.EEPROMPath
	}
	if c.Simulator.PollInterval <= 0 {
		c.Simulator.PollInterval = def.Simulator.PollInterval
	}
	if c.Simulator.PressTicks <= 0 {
		c.Simulator.PressTicks = def.Simulator.PressTicks
	}

	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}
