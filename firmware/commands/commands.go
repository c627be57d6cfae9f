package commands

import (
	"errors"
	"io"

	"github.com/calvinmclean/autogrind"
)

type Command struct {
	Flag        byte
	InputSize   uint
	Run         func(Controller, []byte) error
	Description string
}

// Controller is the grinder as seen from the serial console
type Controller interface {
	Start() error
	Stop()
	Adjust(int) error
	GrindSeconds() uint16
	Debug()
	Verbose()
}

// Port is a serial port that can be polled without blocking. machine.Serial satisfies it.
type Port interface {
	Buffered() int
	ReadByte() (byte, error)
}

var (
	StartCommand = &Command{
		Flag:      'S',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			return c.Start()
		},
		Description: "Start a grind cycle with the current setting.",
	}
	StopCommand = &Command{
		Flag:      'X',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			c.Stop()
			return nil
		},
		Description: "Stop the running grind cycle.",
	}
	IncreaseCommand = &Command{
		Flag:      '+',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			return c.Adjust(+1)
		},
		Description: "Increase the grind time by one second.",
	}
	DecreaseCommand = &Command{
		Flag:      '-',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			return c.Adjust(-1)
		},
		Description: "Decrease the grind time by one second.",
	}
	SetTimeCommand = &Command{
		Flag:      'T',
		InputSize: 4,
		Run: func(c Controller, b []byte) error {
			target, err := parseSeconds(b)
			if err != nil {
				return err
			}
			return c.Adjust(int(autogrind.ClampGrindSeconds(target)) - int(c.GrindSeconds()))
		},
		Description: "Set the grind time in seconds. Input: 4 digits, e.g. 0360.",
	}
	DebugCommand = &Command{
		Flag:      'D',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			c.Debug()
			return nil
		},
		Description: "Print the current state.",
	}
	VerboseCommand = &Command{
		Flag:      'V',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			c.Verbose()
			return nil
		},
		Description: "Enable verbose output.",
	}
)

var commands = []*Command{
	StartCommand,
	StopCommand,
	IncreaseCommand,
	DecreaseCommand,
	SetTimeCommand,
	DebugCommand,
	VerboseCommand,
}

// helpFlag is handled by the Dispatcher itself since it needs the output
const helpFlag = 'H'

var errInvalidInput = errors.New("invalid input")

func parseSeconds(b []byte) (int, error) {
	v := 0
	for _, d := range b {
		if d < '0' || d > '9' {
			return 0, errors.New(errInvalidInput.Error() + ": " + string(b))
		}
		v = v*10 + int(d-'0')
	}
	return v, nil
}

// Dispatcher reads command flags and their input from a Port. It keeps partial input between polls so it
// never waits for bytes that have not arrived yet.
type Dispatcher struct {
	port    Port
	out     io.Writer
	cmdMap  map[byte]*Command
	pending *Command
	input   []byte
}

// NewDispatcher reads commands from port and writes help and error messages to out
func NewDispatcher(port Port, out io.Writer) *Dispatcher {
	cmdMap := map[byte]*Command{}
	for _, cmd := range commands {
		cmdMap[cmd.Flag] = cmd
	}

	return &Dispatcher{
		port:   port,
		out:    out,
		cmdMap: cmdMap,
		input:  make([]byte, 0, 4),
	}
}

// Poll runs every command that is completely buffered
func (d *Dispatcher) Poll(c Controller) {
	for d.port.Buffered() > 0 {
		b, err := d.port.ReadByte()
		if err != nil {
			return
		}

		if d.pending != nil {
			d.input = append(d.input, b)
			if len(d.input) < int(d.pending.InputSize) {
				continue
			}
			cmd := d.pending
			d.pending = nil
			d.run(c, cmd, d.input)
			d.input = d.input[:0]
			continue
		}

		if b == helpFlag {
			d.help()
			continue
		}

		cmd, ok := d.cmdMap[b]
		if !ok {
			continue
		}

		if cmd.InputSize == 0 {
			d.run(c, cmd, nil)
			continue
		}
		d.pending = cmd
	}
}

func (d *Dispatcher) run(c Controller, cmd *Command, in []byte) {
	err := cmd.Run(c, in)
	if err != nil {
		io.WriteString(d.out, "error: "+err.Error()+"\r\n")
	}
}

func (d *Dispatcher) help() {
	io.WriteString(d.out, "Available Commands:\r\n")
	for _, cmd := range commands {
		io.WriteString(d.out, string(cmd.Flag)+": "+cmd.Description+"\r\n")
	}
	io.WriteString(d.out, string(rune(helpFlag))+": Show all available commands and their descriptions.\r\n")
}
