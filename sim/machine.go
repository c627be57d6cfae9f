package sim

import (
	"time"

	"github.com/calvinmclean/autogrind/grinder"
)

// Machine is a complete simulated grinder: keypad shield, relay and EEPROM
type Machine struct {
	Keypad *Keypad
	LCD    *LCD
	Relay  *Relay
	Memory grinder.Memory
}

// NewMachine uses mem for persistence, or a fresh erased EEPROM if mem is nil
func NewMachine(mem grinder.Memory) *Machine {
	if mem == nil {
		mem = NewMemory(EEPROMSize)
	}
	return &Machine{
		Keypad: NewKeypad(),
		LCD:    NewLCD(),
		Relay:  &Relay{},
		Memory: mem,
	}
}

// Hardware exposes the machine's parts as controller capabilities
func (m *Machine) Hardware() grinder.Hardware {
	return grinder.Hardware{
		Relay:  m.Relay,
		Keypad: m.Keypad,
		Screen: m.LCD,
		Memory: m.Memory,
	}
}

// Config returns controller settings matching the simulated 10-bit keypad
func (m *Machine) Config(poll time.Duration) grinder.Config {
	return grinder.Config{
		PollInterval: poll,
		ADCBits:      10,
	}
}
