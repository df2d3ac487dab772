// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"

	monsys "github.com/leyyce/monitoring-system-driver"
	"github.com/leyyce/monitoring-system-driver/transport/gpio"
	"github.com/leyyce/monitoring-system-driver/transport/i2c"
	"github.com/leyyce/monitoring-system-driver/transport/uart"
)

// newTransport attaches the transport selected on the command line.
func newTransport(cfg *config) (monsys.Transport, error) {
	switch *cfg.transport {
	case "gpio":
		transport, err := gpio.New(*cfg.dataPin, *cfg.clockPin)
		if err != nil {
			return nil, fmt.Errorf("failed to create GPIO transport: %w", err)
		}
		return transport, nil
	case "i2c":
		transport, err := i2c.New(*cfg.bus)
		if err != nil {
			return nil, fmt.Errorf("failed to create I2C transport: %w", err)
		}
		return transport, nil
	case "uart":
		transport, err := uart.New(*cfg.port, uart.WithBaudRate(*cfg.baudRate))
		if err != nil {
			return nil, fmt.Errorf("failed to create UART transport: %w", err)
		}
		return transport, nil
	default:
		return nil, fmt.Errorf("unknown transport %q (want gpio, i2c or uart)", *cfg.transport)
	}
}
