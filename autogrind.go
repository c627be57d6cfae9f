package autogrind

const (
	// MinGrindSeconds and MaxGrindSeconds bound the configurable grind duration
	MinGrindSeconds uint16 = 1
	MaxGrindSeconds uint16 = 1000

	// DefaultGrindSeconds is used when nothing valid has been persisted yet
	DefaultGrindSeconds uint16 = 360

	// UnsetGrindSeconds is what erased EEPROM/flash reads back as
	UnsetGrindSeconds uint16 = 0xFFFF

	// DefaultBaudRate is used for the diagnostic log and command channel
	DefaultBaudRate = 9600
)

// Status words shown in the top-left corner of the LCD
const (
	StatusReady   = "Ready"
	StatusRunning = "RUN..."
	StatusAborted = "ABORTED"
)

// ClampGrindSeconds limits s to [MinGrindSeconds, MaxGrindSeconds]
func ClampGrindSeconds(s int) uint16 {
	if s < int(MinGrindSeconds) {
		return MinGrindSeconds
	}
	if s > int(MaxGrindSeconds) {
		return MaxGrindSeconds
	}
	return uint16(s)
}

// Button is a key on the LCD keypad shield
type Button int

const (
	ButtonNone Button = iota
	ButtonRight
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonSelect
)

// Buttons lists every real key in keypad order
var Buttons = []Button{ButtonRight, ButtonUp, ButtonDown, ButtonLeft, ButtonSelect}

func (b Button) String() string {
	switch b {
	case ButtonRight:
		return "Right"
	case ButtonUp:
		return "Up"
	case ButtonDown:
		return "Down"
	case ButtonLeft:
		return "Left"
	case ButtonSelect:
		return "Select"
	default:
		fallthrough
	case ButtonNone:
		return "None"
	}
}

// ParseButton returns the Button matching the name (case-sensitive, as printed by String) or
// the single-letter shorthand used on the command line: r, u, d, l, s
func ParseButton(name string) (Button, bool) {
	switch name {
	case "Right", "right", "r":
		return ButtonRight, true
	case "Up", "up", "u":
		return ButtonUp, true
	case "Down", "down", "d":
		return ButtonDown, true
	case "Left", "left", "l":
		return ButtonLeft, true
	case "Select", "select", "s":
		return ButtonSelect, true
	case "None", "none":
		return ButtonNone, true
	}
	return ButtonNone, false
}

// CycleState tells whether the grinder relay is currently energized
type CycleState int

const (
	CycleIdle CycleState = iota
	CycleRunning
)

func (cs CycleState) String() string {
	if cs == CycleRunning {
		return "Running"
	}
	return "Idle"
}
