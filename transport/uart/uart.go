// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

// Package uart implements the development-bench transport: the receiver
// hangs off a USB-serial adapter and the UART hardware clocks the frame
// bytes out, so no bit-banging is involved. The frame bytes are identical
// to the other transports.
package uart

import (
	"fmt"
	"sync"
	"time"

	monsys "github.com/leyyce/monitoring-system-driver"
	"go.bug.st/serial"
)

// DefaultBaudRate is the line speed the bench receiver firmware expects.
const DefaultBaudRate = 115200

// Transport implements monsys.Transport over a serial port.
type Transport struct {
	port     serial.Port
	portName string
	baudRate int
	mu       sync.Mutex
	closed   bool
}

// Option is a functional option for configuring the transport.
type Option func(*Transport) error

// WithBaudRate overrides the default line speed. Must match the receiver.
func WithBaudRate(baudRate int) Option {
	return func(t *Transport) error {
		if baudRate <= 0 {
			return fmt.Errorf("invalid baud rate %d", baudRate)
		}
		t.baudRate = baudRate
		return nil
	}
}

// New opens portName (e.g. "/dev/ttyUSB0" or "COM3") at 8N1 and attaches to
// the receiver.
func New(portName string, opts ...Option) (*Transport, error) {
	t := &Transport{
		portName: portName,
		baudRate: DefaultBaudRate,
	}

	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}

	mode := &serial.Mode{
		BaudRate: t.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	// The link is one way; nothing is ever read back.
	if err := port.SetReadTimeout(time.Millisecond); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to configure serial port %s: %w", portName, err)
	}

	t.port = port
	return t, nil
}

// NewFromPort builds a transport around an already-open port. Used by tests
// that substitute a simulated port.
func NewFromPort(port serial.Port, portName string) *Transport {
	return &Transport{
		port:     port,
		portName: portName,
		baudRate: DefaultBaudRate,
	}
}

// Transmit writes the complete frame to the port and drains the output
// buffer, so a nil return means the last byte has left the host.
func (t *Transport) Transmit(frame []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return monsys.NewTransportError("Transmit", t.portName,
			monsys.ErrTransportClosed, monsys.ErrorTypePermanent)
	}

	for sent := 0; sent < len(frame); {
		n, err := t.port.Write(frame[sent:])
		if err != nil {
			return monsys.NewLineError("Transmit", t.portName, err)
		}
		sent += n
	}

	if err := t.port.Drain(); err != nil {
		return monsys.NewLineError("Transmit", t.portName, err)
	}
	return nil
}

// Close releases the port handle.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	if err := t.port.Close(); err != nil {
		return fmt.Errorf("closing serial port %s: %w", t.portName, err)
	}
	return nil
}

// IsConnected returns true while the transport owns the port handle.
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed
}

// Type returns monsys.TransportUART.
func (*Transport) Type() monsys.TransportType {
	return monsys.TransportUART
}
