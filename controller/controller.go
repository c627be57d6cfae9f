package controller

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"go.bug.st/serial"

	"github.com/calvinmclean/autogrind"
	"github.com/calvinmclean/autogrind/config"
)

// Controller talks to the grinder firmware over its serial console. Operator input is translated into
// command flags and the firmware's log output is copied back.
type Controller struct {
	port   io.ReadWriteCloser
	logger *slog.Logger
}

// New opens the configured serial port, or the first USB serial port if none is set
func New(cfg config.SerialConfig, logger *slog.Logger) (*Controller, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	portName := cfg.Port
	if portName == "" {
		ports, err := GetSerialPorts()
		if err != nil {
			return nil, err
		}
		portName = ports[0]
	}

	baudRate := cfg.BaudRate
	if baudRate == 0 {
		baudRate = autogrind.DefaultBaudRate
	}

	port, err := serial.Open(portName, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("error opening serial port %s: %w", portName, err)
	}

	logger.Info("connected to grinder", "port", portName, "baud", baudRate)

	return NewWithPort(port, logger), nil
}

// NewWithPort uses an already open connection
func NewWithPort(port io.ReadWriteCloser, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{port: port, logger: logger}
}

// Close closes the serial connection
func (c *Controller) Close() error {
	return c.port.Close()
}

// Send translates an operator command and writes it to the firmware
func (c *Controller) Send(line string) error {
	cmd, err := Translate(line)
	if err != nil {
		return err
	}

	_, err = io.WriteString(c.port, cmd)
	if err != nil {
		return fmt.Errorf("error writing command: %w", err)
	}
	return nil
}

// Run sends each line of in as a command and copies firmware output to out. It returns when ctx is done
// or the device stops sending.
func (c *Controller) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	outputDone := make(chan error, 1)
	go func() {
		_, err := io.Copy(out, c.port)
		outputDone <- err
	}()

	go c.readInput(ctx, in)

	select {
	case <-ctx.Done():
		return nil
	case err := <-outputDone:
		if err != nil {
			return fmt.Errorf("error reading from device: %w", err)
		}
		return nil
	}
}

func (c *Controller) readInput(ctx context.Context, in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		err := c.Send(line)
		if err != nil {
			c.logger.Warn("unable to send command", "input", line, "error", err)
		}
	}
}

var errUnknownCommand = errors.New("unknown command")

// Translate converts an operator command into the firmware's command flags. Accepted forms:
// start, stop, up, down, set <seconds>, status, verbose, help, or a single raw flag character.
func Translate(line string) (string, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return "", errUnknownCommand
	}

	switch fields[0] {
	case "start", "s":
		return "S", nil
	case "stop", "x":
		return "X", nil
	case "up", "+":
		return "+", nil
	case "down", "-":
		return "-", nil
	case "status", "d":
		return "D", nil
	case "verbose", "v":
		return "V", nil
	case "help", "h":
		return "H", nil
	case "set", "t":
		if len(fields) != 2 {
			return "", errors.New("usage: set <seconds>")
		}
		seconds, err := strconv.Atoi(fields[1])
		if err != nil || seconds < int(autogrind.MinGrindSeconds) || seconds > int(autogrind.MaxGrindSeconds) {
			return "", fmt.Errorf("seconds must be between %d and %d", autogrind.MinGrindSeconds, autogrind.MaxGrindSeconds)
		}
		return fmt.Sprintf("T%04d", seconds), nil
	}

	return "", fmt.Errorf("%w: %q", errUnknownCommand, line)
}
