package controller

import (
	"errors"
	"fmt"

	"go.bug.st/serial/enumerator"
)

// SerialPortNone is offered alongside real ports to select the simulator
const SerialPortNone = "None"

// ErrNoUSBSerial is returned when no USB serial device is attached
var ErrNoUSBSerial = errors.New("no USB serial ports found")

// GetSerialPorts lists USB serial ports, which is how the Pico's console shows up
func GetSerialPorts() ([]string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("error listing serial ports: %w", err)
	}

	var result []string
	for _, p := range ports {
		if p.IsUSB {
			result = append(result, p.Name)
		}
	}

	if len(result) == 0 {
		return nil, ErrNoUSBSerial
	}
	return result, nil
}
