// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

// Package vwire provides a simulated remote endpoint for testing the
// two-wire transport without hardware. The Receiver exposes a fake data and
// clock pin; like the real microcontroller it samples the data line on every
// rising clock edge, reassembles least-significant-bit-first bytes, and
// checks the trailing JAMCRC.
package vwire

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/leyyce/monitoring-system-driver/internal/frame"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Receiver is a simulated remote endpoint on the far side of the two-wire
// link.
type Receiver struct {
	dataPin  *Pin
	clockPin *Pin
	bits     []byte
	dataHigh bool
	mu       sync.Mutex
}

// NewReceiver creates a receiver with both lines idle low.
func NewReceiver() *Receiver {
	r := &Receiver{}
	r.dataPin = &Pin{name: "vwire-data", set: r.setData}
	r.clockPin = &Pin{name: "vwire-clock", set: r.setClock}
	return r
}

// DataPin returns the fake data line for wiring into the transport.
func (r *Receiver) DataPin() *Pin { return r.dataPin }

// ClockPin returns the fake clock line for wiring into the transport.
func (r *Receiver) ClockPin() *Pin { return r.clockPin }

func (r *Receiver) setData(level bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dataHigh = level
}

func (r *Receiver) setClock(level bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if level {
		// Rising edge: data valid, sample now.
		if r.dataHigh {
			r.bits = append(r.bits, 1)
		} else {
			r.bits = append(r.bits, 0)
		}
	}
}

// BitCount returns the number of bits sampled so far.
func (r *Receiver) BitCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bits)
}

// DataLineHigh returns the current level of the data line.
func (r *Receiver) DataLineHigh() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dataHigh
}

// Bits returns a copy of the sampled bit stream.
func (r *Receiver) Bits() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.bits...)
}

// Bytes reassembles the sampled bits into bytes, bit 0 first within each
// byte. It fails if the stream does not divide into whole bytes.
func (r *Receiver) Bytes() ([]byte, error) {
	bits := r.Bits()
	if len(bits)%8 != 0 {
		return nil, fmt.Errorf("sampled %d bits, not a whole number of bytes", len(bits))
	}

	out := make([]byte, len(bits)/8)
	for i := range out {
		var b byte
		for j := 0; j < 8; j++ {
			b |= bits[i*8+j] << j
		}
		out[i] = b
	}
	return out, nil
}

// Frame decodes the sampled stream as one complete frame: it splits off the
// 4-byte little-endian trailer and verifies it against the JAMCRC of the
// payload, exactly as the receiver firmware does.
func (r *Receiver) Frame() (payload []byte, crc uint32, err error) {
	data, err := r.Bytes()
	if err != nil {
		return nil, 0, err
	}
	if len(data) < frame.TrailerSize {
		return nil, 0, fmt.Errorf("frame too short: %d bytes", len(data))
	}

	n := len(data) - frame.TrailerSize
	payload = data[:n]
	crc = binary.LittleEndian.Uint32(data[n:])

	if want := frame.Checksum(payload); crc != want {
		return nil, 0, fmt.Errorf("checksum mismatch: got 0x%08X, want 0x%08X", crc, want)
	}
	return payload, crc, nil
}

// Reset discards all sampled bits, keeping the current line levels.
func (r *Receiver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bits = nil
}

// Pin is a fake output line feeding the receiver. It implements
// gpio.PinOut. A write failure can be injected with SetFail.
type Pin struct {
	set     func(level bool)
	failErr error
	name    string
	halted  bool
	mu      sync.Mutex
}

// SetFail makes every subsequent Out call return err (nil clears it).
func (p *Pin) SetFail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failErr = err
}

// Out drives the simulated line.
func (p *Pin) Out(l gpio.Level) error {
	p.mu.Lock()
	failErr := p.failErr
	halted := p.halted
	p.mu.Unlock()

	if failErr != nil {
		return failErr
	}
	if halted {
		return fmt.Errorf("pin %s released", p.name)
	}
	p.set(bool(l))
	return nil
}

// PWM is not supported on the simulated line.
func (p *Pin) PWM(gpio.Duty, physic.Frequency) error {
	return fmt.Errorf("pin %s: PWM not supported", p.name)
}

// Halt releases the simulated line.
func (p *Pin) Halt() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.halted = true
	return nil
}

// String returns the pin name.
func (p *Pin) String() string { return p.name }

// Name returns the pin name.
func (p *Pin) Name() string { return p.name }

// Number returns a placeholder pin number.
func (*Pin) Number() int { return -1 }

// Function describes the simulated pin.
func (*Pin) Function() string { return "Out" }
