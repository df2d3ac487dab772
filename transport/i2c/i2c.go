// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

// Package i2c implements the superseded hardware-bus transport. The first
// two receiver generations sat on a real I2C controller at address 0x10; the
// bit-banged GPIO link replaced them, but old receiver firmware is still
// deployed and this transport keeps it reachable. The frame bytes are
// identical across transports.
package i2c

import (
	"fmt"
	"sync"

	monsys "github.com/leyyce/monitoring-system-driver"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

const (
	// DefaultAddr is the receiver's fixed bus address.
	DefaultAddr = 0x10

	// busSpeed is the standard-mode clock the legacy receivers support.
	busSpeed = 100 * physic.KiloHertz
)

// Transport implements monsys.Transport over a hardware I2C bus.
type Transport struct {
	dev     *i2c.Dev
	bus     i2c.BusCloser
	busName string
	mu      sync.Mutex
	closed  bool
}

// Option is a functional option for configuring the transport.
type Option func(*Transport) error

// WithAddr overrides the receiver bus address.
func WithAddr(addr uint16) Option {
	return func(t *Transport) error {
		if addr == 0 || addr > 0x7F {
			return fmt.Errorf("invalid 7-bit I2C address 0x%02X", addr)
		}
		t.dev.Addr = addr
		return nil
	}
}

// New opens busName (e.g. "/dev/i2c-1" or "1") and attaches to the receiver.
func New(busName string, opts ...Option) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", busName, err)
	}

	// Old receivers only do standard mode; ignore failure and keep the
	// adapter default.
	_ = bus.SetSpeed(busSpeed)

	t, err := NewFromBus(bus, busName, opts...)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	return t, nil
}

// NewFromBus builds a transport around an already-open bus. Used by New and
// by tests that substitute a simulated bus.
func NewFromBus(bus i2c.BusCloser, busName string, opts ...Option) (*Transport, error) {
	t := &Transport{
		dev:     &i2c.Dev{Addr: DefaultAddr, Bus: bus},
		bus:     bus,
		busName: busName,
	}

	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Transmit writes the complete frame to the receiver in one bus transaction.
// The bus controller clocks the bytes; acknowledgement stops at the
// electrical level, the protocol itself stays one way.
func (t *Transport) Transmit(frame []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return monsys.NewTransportError("Transmit", t.busName,
			monsys.ErrTransportClosed, monsys.ErrorTypePermanent)
	}

	if err := t.dev.Tx(frame, nil); err != nil {
		return monsys.NewLineError("Transmit", t.busName, err)
	}
	return nil
}

// Close releases the bus handle.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	if err := t.bus.Close(); err != nil {
		return fmt.Errorf("closing I2C bus %s: %w", t.busName, err)
	}
	return nil
}

// IsConnected returns true while the transport owns the bus handle.
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed
}

// Type returns monsys.TransportI2C.
func (*Transport) Type() monsys.TransportType {
	return monsys.TransportI2C
}
