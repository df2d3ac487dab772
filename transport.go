// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

package monsys

import "github.com/leyyce/monitoring-system-driver/internal/frame"

// Frame size limits, re-exported for callers of the root package.
const (
	// MaxBufferSize is the hard ceiling on a complete frame, trailer included.
	MaxBufferSize = frame.MaxBufferSize
	// TrailerSize is the length of the appended checksum trailer.
	TrailerSize = frame.TrailerSize
	// MaxPayload is the largest payload Write accepts.
	MaxPayload = frame.MaxPayload
)

// Transport delivers one completed frame to the remote endpoint.
// Implementations exist for the bit-banged GPIO link, the legacy I2C bus
// generations, and the UART bench link.
type Transport interface {
	// Transmit places a complete frame (payload plus trailer) on the wire.
	// It blocks until the last byte has been sent. The link is one way;
	// a nil return means the frame left the host, not that it was received.
	Transmit(frame []byte) error

	// Close releases the underlying lines or bus handle. The transport
	// rejects further frames afterwards.
	Close() error

	// IsConnected returns true while the transport owns its hardware handles.
	IsConnected() bool

	// Type returns the transport type.
	Type() TransportType
}

// TransportType represents the type of transport.
type TransportType string

const (
	// TransportGPIO is the software-clocked two-wire GPIO transport.
	TransportGPIO TransportType = "gpio"
	// TransportI2C is the superseded hardware I2C bus transport.
	TransportI2C TransportType = "i2c"
	// TransportUART is the USB-serial bench transport.
	TransportUART TransportType = "uart"
	// TransportMock is a mock transport for testing.
	TransportMock TransportType = "mock"
)
