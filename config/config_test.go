package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "", cfg.Serial.Port)
	assert.Equal(t, 9600, cfg.Serial.BaudRate)
	assert.Equal(t, "autogrind-eeprom.bin", cfg.Simulator.EEPROMPath)
	assert.Equal(t, 100*time.Millisecond, cfg.Simulator.PollInterval)
	assert.Equal(t, 2, cfg.Simulator.PressTicks)
	assert.False(t, cfg.Simulator.UI)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_ValidYAML(t *testing.T) {
	path := writeTemp(t, `
serial:
  port: "/dev/ttyACM0"
  baud_rate: 115200

simulator:
  eeprom_path: /tmp/grinder.bin
  poll_interval: 50ms
  press_ticks: 3
  ui: true

log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.BaudRate)
	assert.Equal(t, "/tmp/grinder.bin", cfg.Simulator.EEPROMPath)
	assert.Equal(t, 50*time.Millisecond, cfg.Simulator.PollInterval)
	assert.Equal(t, 3, cfg.Simulator.PressTicks)
	assert.True(t, cfg.Simulator.UI)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTemp(t, "invalid: yaml: content: [")

	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PartialYAML(t *testing.T) {
	path := writeTemp(t, `
serial:
  port: COM4
simulator:
  poll_interval: 0s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "COM4", cfg.Serial.Port)
	assert.Equal(t, 9600, cfg.Serial.BaudRate)
	assert.Equal(t, 100*time.Millisecond, cfg.Simulator.PollInterval)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Serial.Port = "/dev/ttyUSB0"
	cfg.Simulator.UI = true
	cfg.LogLevel = "warn"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, slog.LevelWarn, loaded.Level())
}
