// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

// Package gpio implements the software-clocked two-wire transport: the frame
// is clocked out bit by bit over two exclusively-owned GPIO lines, one
// carrying the data bit and one whose rising edge tells the receiver to
// sample. There is no hardware bus controller involved and no return channel.
package gpio

import (
	"fmt"
	"sync"
	"time"

	monsys "github.com/leyyce/monitoring-system-driver"
	"github.com/leyyce/monitoring-system-driver/internal/frame"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Timing holds the three per-bit hold intervals of the wire protocol. The
// remote receiver samples on the rising clock edge, so the sequence per bit
// is fixed: data valid, settle, clock high, sample window, clock low, guard.
type Timing struct {
	// Settle is the hold after the data line changes, before the rising
	// clock edge. Lets the data level stabilize at the receiver.
	Settle time.Duration
	// Sample is the hold while the clock is high: the receiver's sampling
	// window.
	Sample time.Duration
	// Guard is the hold after the falling clock edge, before the next bit.
	Guard time.Duration
}

// DefaultTiming returns the nominal protocol timing. These values are part
// of the interoperability contract with the receiver firmware; change them
// only together with the receiver.
func DefaultTiming() Timing {
	return Timing{
		Settle: 100 * time.Microsecond,
		Sample: 200 * time.Microsecond,
		Guard:  100 * time.Microsecond,
	}
}

// BitPeriod returns the total time one bit occupies on the wire.
func (t Timing) BitPeriod() time.Duration {
	return t.Settle + t.Sample + t.Guard
}

// HoldFunc pauses the calling goroutine for d. The production transport uses
// time.Sleep; tests inject a recording or no-op hold so transmission is
// testable without real elapsed time.
type HoldFunc func(d time.Duration)

// Transport implements monsys.Transport by bit-banging the two-wire link.
type Transport struct {
	data      gpio.PinOut
	clock     gpio.PinOut
	dataName  string
	clockName string
	timing    Timing
	hold      HoldFunc
	mu        sync.Mutex
	closed    bool
}

// Option is a functional option for configuring the transport.
type Option func(*Transport) error

// WithTiming overrides the nominal per-bit timing.
func WithTiming(timing Timing) Option {
	return func(t *Transport) error {
		if timing.Settle <= 0 || timing.Sample <= 0 || timing.Guard <= 0 {
			return fmt.Errorf("invalid timing %+v: all holds must be positive", timing)
		}
		t.timing = timing
		return nil
	}
}

// WithHold replaces the hold function. Intended for tests and simulation;
// production builds keep the default time.Sleep.
func WithHold(hold HoldFunc) Option {
	return func(t *Transport) error {
		if hold == nil {
			return fmt.Errorf("nil hold function")
		}
		t.hold = hold
		return nil
	}
}

// New acquires the two output lines by name (e.g. "GPIO17", "GPIO27") and
// returns an attached transport. Both lines are driven low at attach so the
// wire starts in the idle state. The lines are exclusively owned until Close.
func New(dataPin, clockPin string, opts ...Option) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	data := gpioreg.ByName(dataPin)
	if data == nil {
		return nil, fmt.Errorf("data line %q not found", dataPin)
	}
	clock := gpioreg.ByName(clockPin)
	if clock == nil {
		return nil, fmt.Errorf("clock line %q not found", clockPin)
	}

	return NewFromPins(data, clock, opts...)
}

// NewFromPins builds a transport around already-resolved pins. Used by New
// and by tests that substitute simulated lines.
func NewFromPins(data, clock gpio.PinOut, opts ...Option) (*Transport, error) {
	t := &Transport{
		data:      data,
		clock:     clock,
		dataName:  data.String(),
		clockName: clock.String(),
		timing:    DefaultTiming(),
		hold:      time.Sleep,
	}

	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}

	if err := data.Out(gpio.Low); err != nil {
		return nil, monsys.NewLineError("New", t.dataName, err)
	}
	if err := clock.Out(gpio.Low); err != nil {
		return nil, monsys.NewLineError("New", t.clockName, err)
	}

	return t, nil
}

// Transmit clocks the frame out bit by bit, least-significant bit first
// within each byte, byte index ascending. Each bit runs the fixed four-step
// sequence: data line to bit value, settle hold, clock high, sample hold,
// clock low, guard hold. After the last bit the data line is forced low so
// the wire returns to a known idle level between frames.
//
// A failed line write aborts immediately and is not retried: the receiver
// has already sampled part of the frame and there is no way to rewind it.
func (t *Transport) Transmit(frameBytes []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return monsys.NewTransportError("Transmit", t.dataName,
			monsys.ErrTransportClosed, monsys.ErrorTypePermanent)
	}

	bits := frame.NewBitSequence(frameBytes)
	for {
		bit, ok := bits.Next()
		if !ok {
			break
		}
		if err := t.data.Out(gpio.Level(bit == 1)); err != nil {
			return monsys.NewLineError("Transmit", t.dataName, err)
		}
		t.hold(t.timing.Settle)
		if err := t.clock.Out(gpio.High); err != nil {
			return monsys.NewLineError("Transmit", t.clockName, err)
		}
		t.hold(t.timing.Sample)
		if err := t.clock.Out(gpio.Low); err != nil {
			return monsys.NewLineError("Transmit", t.clockName, err)
		}
		t.hold(t.timing.Guard)
	}

	// Idle postcondition: the data line ends low regardless of the last bit.
	if err := t.data.Out(gpio.Low); err != nil {
		return monsys.NewLineError("Transmit", t.dataName, err)
	}

	return nil
}

// Close drives both lines low and releases them. Further Transmit calls are
// rejected.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	// Best effort to leave the wire idle before letting the lines go.
	_ = t.data.Out(gpio.Low)
	_ = t.clock.Out(gpio.Low)

	if err := t.data.Halt(); err != nil {
		return fmt.Errorf("releasing data line %s: %w", t.dataName, err)
	}
	if err := t.clock.Halt(); err != nil {
		return fmt.Errorf("releasing clock line %s: %w", t.clockName, err)
	}
	return nil
}

// IsConnected returns true while the transport owns its lines.
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed
}

// Type returns monsys.TransportGPIO.
func (*Transport) Type() monsys.TransportType {
	return monsys.TransportGPIO
}
