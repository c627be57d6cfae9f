//go:build tinygo

package main

import (
	"log/slog"
	"machine"
	"time"

	"github.com/calvinmclean/autogrind/firmware/commands"
	"github.com/calvinmclean/autogrind/firmware/device"
	"github.com/calvinmclean/autogrind/grinder"
)

func main() {
	relayCfg := device.RelayConfig{
		Pin: machine.GP15,
	}
	keypadCfg := device.KeypadConfig{
		Pin: machine.ADC0,
	}
	lcdCfg := device.LCDConfig{
		Bus:     machine.I2C0,
		SDA:     machine.GP4,
		SCL:     machine.GP5,
		Address: 0x27,
		Width:   16,
		Height:  2,
	}
	storageCfg := device.StorageConfig{
		Offset: 0,
	}

	d, err := device.New(relayCfg, keypadCfg, lcdCfg, storageCfg)
	if err != nil {
		for {
			println("error setting up device:", err.Error())
			time.Sleep(time.Second)
		}
	}

	level := &slog.LevelVar{}
	logger := slog.New(slog.NewTextHandler(d, &slog.HandlerOptions{Level: level}))

	c := grinder.New(d.Hardware(), grinder.Config{
		PollInterval: grinder.DefaultPollInterval,
		ADCBits:      grinder.DefaultADCBits,
		Logger:       logger,
	})
	con := console{Controller: c, level: level}
	dispatcher := commands.NewDispatcher(d, d)

	ticker := time.NewTicker(grinder.DefaultPollInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.Tick()
		dispatcher.Poll(con)
	}
}

// console adds the serial-only commands to the controller
type console struct {
	*grinder.Controller
	level *slog.LevelVar
}

// Debug prints out the controller's state
func (c console) Debug() {
	println(c.Status().String())
}

// Verbose enables per-second progress logging
func (c console) Verbose() {
	c.level.Set(slog.LevelDebug)
	println("Set Verbose Mode")
}
