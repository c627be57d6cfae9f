//go:build tinygo

package device

import (
	"errors"
	"machine"

	"github.com/calvinmclean/autogrind/grinder"

	"tinygo.org/x/drivers/hd44780i2c"
)

// Device owns the grinder hardware: relay, keypad, LCD, flash and the serial console
type Device struct {
	relay  machine.Pin
	keypad machine.ADC
	lcd    hd44780i2c.Device
	memory flashMemory
}

// New configures the hardware with the provided configs. The relay is driven low before anything else.
func New(relayCfg RelayConfig, keypadCfg KeypadConfig, lcdCfg LCDConfig, storageCfg StorageConfig) (*Device, error) {
	relayCfg.Pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	relayCfg.Pin.Low()

	machine.InitADC()
	keypad := machine.ADC{Pin: keypadCfg.Pin}
	keypad.Configure(machine.ADCConfig{})

	err := lcdCfg.Bus.Configure(machine.I2CConfig{
		SDA: lcdCfg.SDA,
		SCL: lcdCfg.SCL,
	})
	if err != nil {
		return nil, errors.New("error configuring i2c: " + err.Error())
	}

	lcd := hd44780i2c.New(lcdCfg.Bus, lcdCfg.Address)
	err = lcd.Configure(hd44780i2c.Config{
		Width:  lcdCfg.Width,
		Height: lcdCfg.Height,
	})
	if err != nil {
		return nil, errors.New("error configuring lcd: " + err.Error())
	}
	lcd.ClearDisplay()

	return &Device{
		relay:  relayCfg.Pin,
		keypad: keypad,
		lcd:    lcd,
		memory: flashMemory{offset: storageCfg.Offset},
	}, nil
}

// Hardware exposes the device as controller capabilities
func (d *Device) Hardware() grinder.Hardware {
	return grinder.Hardware{
		Relay:  d.relay,
		Keypad: d.keypad,
		Screen: &d.lcd,
		Memory: d.memory,
	}
}

// Buffered returns the number of bytes waiting on the serial console
func (d *Device) Buffered() int {
	return machine.Serial.Buffered()
}

func (d *Device) ReadByte() (byte, error) {
	return machine.Serial.ReadByte()
}

func (d *Device) Write(p []byte) (int, error) {
	return machine.Serial.Write(p)
}

// flashMemory stores data in machine.Flash. Flash can only be written after erasing, so writes rewrite
// the whole erase block. Erased flash reads 0xFF, which is the unset marker for the grind setting.
type flashMemory struct {
	offset int64
}

func (f flashMemory) ReadAt(p []byte, off int64) (int, error) {
	return machine.Flash.ReadAt(p, f.offset+off)
}

func (f flashMemory) WriteAt(p []byte, off int64) (int, error) {
	blockSize := machine.Flash.EraseBlockSize()
	if off < 0 || off+int64(len(p)) > blockSize {
		return 0, errors.New("write outside of storage block")
	}

	block := make([]byte, blockSize)
	_, err := machine.Flash.ReadAt(block, f.offset)
	if err != nil {
		return 0, errors.New("error reading flash block: " + err.Error())
	}
	copy(block[off:], p)

	err = machine.Flash.EraseBlocks(f.offset/blockSize, 1)
	if err != nil {
		return 0, errors.New("error erasing flash block: " + err.Error())
	}

	_, err = machine.Flash.WriteAt(block, f.offset)
	if err != nil {
		return 0, errors.New("error writing flash block: " + err.Error())
	}
	return len(p), nil
}
