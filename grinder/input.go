package grinder

import "github.com/calvinmclean/autogrind"

// SampleMax is the largest value in the keypad's 10-bit sample domain
const SampleMax = 1023

// AnalogInput is the single ADC channel the keypad's resistor ladder is wired to
type AnalogInput interface {
	Get() uint16
}

type threshold struct {
	below  uint16
	button autogrind.Button
}

// anything above noneAbove is an idle line
const noneAbove = 1000

// keypadThresholds must stay ascending; the first entry whose bound is above the sample wins
var keypadThresholds = []threshold{
	{50, autogrind.ButtonRight},
	{250, autogrind.ButtonUp},
	{450, autogrind.ButtonDown},
	{650, autogrind.ButtonLeft},
	{850, autogrind.ButtonSelect},
}

// Classify maps a 10-bit sample to the button that produces it
func Classify(sample uint16) autogrind.Button {
	if sample > noneAbove {
		return autogrind.ButtonNone
	}
	for _, t := range keypadThresholds {
		if sample < t.below {
			return t.button
		}
	}
	return autogrind.ButtonNone
}

// InputReader samples the keypad channel and classifies it
type InputReader struct {
	adc   AnalogInput
	shift uint
}

// NewInputReader reads from adc, which returns values with the given bit depth. Depths above 10 are
// scaled down to the 0-1023 domain the thresholds are expressed in.
func NewInputReader(adc AnalogInput, bits uint) *InputReader {
	var shift uint
	if bits > 10 {
		shift = bits - 10
	}
	return &InputReader{adc: adc, shift: shift}
}

// Sample returns the raw reading scaled to 0-1023
func (r *InputReader) Sample() uint16 {
	return r.adc.Get() >> r.shift
}

// Read returns the button currently held down, or ButtonNone
func (r *InputReader) Read() autogrind.Button {
	return Classify(r.Sample())
}
