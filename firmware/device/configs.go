//go:build tinygo

package device

import (
	"machine"
)

// RelayConfig is the output driving the grinder contactor
type RelayConfig struct {
	Pin machine.Pin
}

// KeypadConfig is the analog input the keypad's resistor ladder is wired to. The shield runs at 5V so the
// line needs a divider down to 3.3V; the thresholds are ratiometric and are not affected by it.
type KeypadConfig struct {
	Pin machine.Pin
}

// LCDConfig has the I2C backpack settings for the 16x2 display
type LCDConfig struct {
	Bus     *machine.I2C
	SDA     machine.Pin
	SCL     machine.Pin
	Address uint8
	Width   uint8
	Height  uint8
}

// StorageConfig locates the grind setting in the flash region reserved for data
type StorageConfig struct {
	// Offset is the position of the setting's erase block within machine.Flash
	Offset int64
}
