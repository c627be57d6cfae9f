package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/calvinmclean/autogrind"
	"github.com/calvinmclean/autogrind/config"
	"github.com/calvinmclean/autogrind/controller"
	"github.com/calvinmclean/autogrind/grinder"
	"github.com/calvinmclean/autogrind/sim"
	"github.com/calvinmclean/autogrind/ui"
)

func main() {
	var configPath, port string
	var simulate, showUI bool
	flag.StringVar(&configPath, "config", "autogrind.yaml", "Path to the YAML config file")
	flag.StringVar(&port, "port", "", "Serial port of the grinder. Default is the first USB serial port")
	flag.BoolVar(&simulate, "sim", false, "Run a simulated grinder instead of connecting to hardware")
	flag.BoolVar(&showUI, "ui", false, "Show the simulator window (implies -sim)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if port != "" {
		cfg.Serial.Port = port
	}
	if showUI {
		cfg.Simulator.UI = true
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if simulate || cfg.Simulator.UI || cfg.Serial.Port == controller.SerialPortNone {
		err = runSimulator(ctx, cfg, logger)
	} else {
		err = runSerial(ctx, cfg, logger)
	}
	if err != nil {
		logger.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func runSerial(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	c, err := controller.New(cfg.Serial, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	return c.Run(ctx, os.Stdin, os.Stdout)
}

func runSimulator(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	mem, err := sim.OpenFileMemory(cfg.Simulator.EEPROMPath, sim.EEPROMSize)
	if err != nil {
		return err
	}
	defer mem.Close()

	m := sim.NewMachine(mem)

	grinderCfg := m.Config(cfg.Simulator.PollInterval)
	grinderCfg.Logger = logger
	c := grinder.New(m.Hardware(), grinderCfg)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx)
	}()

	if cfg.Simulator.UI {
		ui.NewGrinderUI(m, cfg.Simulator.PressTicks).Run(ctx)
	} else {
		err = runHeadless(ctx, m, cfg.Simulator.PressTicks, os.Stdin, os.Stdout)
	}

	cancel()
	<-done
	return err
}

// runHeadless turns each line of in into a key press and prints the LCD whenever it changes
func runHeadless(ctx context.Context, m *sim.Machine, pressTicks int, in io.Reader, out io.Writer) error {
	printLCD := func(lines [sim.LCDRows]string) {
		fmt.Fprintf(out, "|%s|\n|%s|\n", lines[0], lines[1])
	}
	printLCD(m.LCD.Lines())
	m.LCD.OnChange(printLCD)
	m.Relay.OnChange(func(on bool) {
		fmt.Fprintf(out, "relay on=%t\n", on)
	})

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			b, ok := autogrind.ParseButton(line)
			if !ok {
				fmt.Fprintln(out, errUnknownButton(line))
				continue
			}
			m.Keypad.Press(b, pressTicks)
		}
	}
}

var errButton = errors.New("unknown button")

func errUnknownButton(input string) error {
	names := make([]string, 0, len(autogrind.Buttons))
	for _, b := range autogrind.Buttons {
		names = append(names, b.String())
	}
	return fmt.Errorf("%w %q, expected one of: %s", errButton, input, strings.Join(names, ", "))
}
