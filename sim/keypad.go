// Package sim provides in-process stand-ins for the grinder hardware: keypad ladder, character LCD, relay,
// non-volatile memory and a manual clock. They back the desktop simulator and the tests.
package sim

import (
	"sync"

	"github.com/calvinmclean/autogrind"
)

// Idle is the 10-bit reading of the keypad line with nothing pressed
const Idle uint16 = 1023

// SampleFor returns a typical 10-bit reading of the LCD keypad shield for b
func SampleFor(b autogrind.Button) uint16 {
	switch b {
	case autogrind.ButtonRight:
		return 0
	case autogrind.ButtonUp:
		return 145
	case autogrind.ButtonDown:
		return 329
	case autogrind.ButtonLeft:
		return 505
	case autogrind.ButtonSelect:
		return 741
	default:
		return Idle
	}
}

type press struct {
	button autogrind.Button
	ticks  int
}

// Keypad simulates the analog keypad channel. Presses are queued and each one is held for a number of
// samples before the line goes idle again.
type Keypad struct {
	mtx   sync.Mutex
	queue []press

	current   autogrind.Button
	remaining int
	held      bool
}

// NewKeypad returns an idle keypad
func NewKeypad() *Keypad {
	return &Keypad{current: autogrind.ButtonNone}
}

// Press queues b to be held down for the given number of samples, followed by one idle sample so
// consecutive presses of the same key are seen as separate presses
func (k *Keypad) Press(b autogrind.Button, ticks int) {
	if ticks < 1 {
		ticks = 1
	}
	k.mtx.Lock()
	k.queue = append(k.queue, press{b, ticks}, press{autogrind.ButtonNone, 1})
	k.mtx.Unlock()
}

// Hold keeps b down until Release is called. Queued presses are discarded.
func (k *Keypad) Hold(b autogrind.Button) {
	k.mtx.Lock()
	k.queue = nil
	k.current = b
	k.held = true
	k.mtx.Unlock()
}

// Release lets go of a held key
func (k *Keypad) Release() {
	k.mtx.Lock()
	k.current = autogrind.ButtonNone
	k.held = false
	k.remaining = 0
	k.mtx.Unlock()
}

// Pending reports whether queued presses have not been fully sampled yet
func (k *Keypad) Pending() bool {
	k.mtx.Lock()
	defer k.mtx.Unlock()
	return len(k.queue) > 0 || k.remaining > 0
}

// Get returns the next 10-bit sample
func (k *Keypad) Get() uint16 {
	k.mtx.Lock()
	defer k.mtx.Unlock()

	if k.held {
		return SampleFor(k.current)
	}

	if k.remaining == 0 {
		if len(k.queue) == 0 {
			return Idle
		}
		next := k.queue[0]
		k.queue = k.queue[1:]
		k.current = next.button
		k.remaining = next.ticks
	}

	k.remaining--
	return SampleFor(k.current)
}
