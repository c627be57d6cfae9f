package grinder

import (
	"log/slog"
	"time"
)

const (
	// DefaultPollInterval is how often the keypad is sampled
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultADCBits is the resolution TinyGo's machine.ADC reports, regardless of hardware resolution
	DefaultADCBits = 16
)

// Hardware bundles the capabilities the Controller drives
type Hardware struct {
	Relay  Relay
	Keypad AnalogInput
	Screen Screen
	Memory Memory
}

// Config has the tunable values for a Controller. The zero value is usable.
type Config struct {
	PollInterval time.Duration
	// StoreAddress is the offset of the grind setting slot in Memory
	StoreAddress int64
	// ADCBits is the bit depth of Keypad samples
	ADCBits uint
	// Now is the clock used for cycle timing, time.Now if nil
	Now    func() time.Time
	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.ADCBits == 0 {
		c.ADCBits = DefaultADCBits
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = discardLogger()
	}
	return c
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
