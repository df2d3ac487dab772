// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

package monsys

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/leyyce/monitoring-system-driver/internal/frame"
)

// DeviceConfig contains configuration options for the Device.
type DeviceConfig struct {
	// Timeout bounds how long a write may wait for admission (an in-flight
	// frame holding the lock, a slow caller). Zero means no deadline. The
	// deadline is only checked before transmission starts; a frame that has
	// begun toggling the lines always runs to completion, since aborting
	// mid-frame leaves the remote receiver in an undefined state.
	Timeout time.Duration
}

// DefaultDeviceConfig returns the default device configuration.
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{}
}

// Device is one attachment session: it owns the transport, the working
// buffer, and the single-writer lock that keeps frames atomic on the wire.
//
// Thread safety: all methods may be called concurrently. Writes are
// serialized; a caller blocks until the in-flight frame has completely left
// the wire. Transmitting a maximal frame takes hundreds of milliseconds on
// the GPIO transport (773 bytes x 8 bits x ~400us per bit), so concurrent
// writers should expect to wait.
type Device struct {
	transport Transport
	config    *DeviceConfig
	mu        sync.Mutex
	buf       [frame.MaxBufferSize]byte
	detached  bool
}

// New creates a device session around an attached transport. The transport's
// hardware handles belong to the session until Close.
func New(transport Transport, opts ...Option) (*Device, error) {
	if transport == nil {
		return nil, errors.New("nil transport")
	}

	device := &Device{
		transport: transport,
		config:    DefaultDeviceConfig(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	return device, nil
}

// Write transmits one complete application frame. It bounds-checks the
// payload, appends the checksum trailer, and clocks the framed bytes out on
// the wire. On success it returns the total number of bytes accepted,
// len(payload)+TrailerSize.
//
// One invocation is one frame: there is no accumulation across calls and no
// partial transmission. An oversized payload is rejected wholesale with
// ErrPayloadTooLarge before anything is copied.
func (d *Device) Write(payload []byte) (int, error) {
	return d.WriteContext(context.Background(), payload)
}

// WriteContext is Write with an admission deadline: a cancelled or expired
// context aborts before the frame starts transmitting, never mid-frame.
func (d *Device) WriteContext(ctx context.Context, payload []byte) (int, error) {
	deadline := d.admissionDeadline(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.admit(ctx, deadline); err != nil {
		return 0, err
	}

	// Attachment gates first: a detached device reports ErrNotAttached even
	// for input it would reject anyway.
	if len(payload) > frame.MaxPayload {
		return 0, fmt.Errorf("%w: %d payload bytes, max %d",
			ErrPayloadTooLarge, len(payload), frame.MaxPayload)
	}

	total, err := frame.BuildInto(d.buf[:], payload)
	if err != nil {
		return 0, err
	}

	return d.transmitLocked(total)
}

// WriteFrom transmits one frame whose count payload bytes are read from r.
// This is the control-channel shaped entry point: the bounds gate runs on
// the announced count before a single byte is read, and a source that cannot
// deliver the full count fails with ErrCopyFault, with no transmission
// attempted.
func (d *Device) WriteFrom(r io.Reader, count int) (int, error) {
	deadline := d.admissionDeadline(context.Background())

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.admit(context.Background(), deadline); err != nil {
		return 0, err
	}

	if count < 0 || count > frame.MaxPayload {
		return 0, fmt.Errorf("%w: %d payload bytes, max %d",
			ErrPayloadTooLarge, count, frame.MaxPayload)
	}

	if _, err := io.ReadFull(r, d.buf[:count]); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCopyFault, err)
	}

	total, err := frame.Seal(d.buf[:], count)
	if err != nil {
		return 0, err
	}

	return d.transmitLocked(total)
}

// admit enforces the write gates that must hold before any side effect.
// Called with the write lock held.
func (d *Device) admit(ctx context.Context, deadline time.Time) error {
	if d.detached || !d.transport.IsConnected() {
		return fmt.Errorf("write rejected: %w", ErrNotAttached)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("write aborted before transmission: %w", ctx.Err())
	default:
	}
	if !deadline.IsZero() && time.Now().After(deadline) {
		return NewTimeoutError("Write", string(d.transport.Type()))
	}
	return nil
}

// admissionDeadline resolves the effective deadline from the context and the
// configured timeout, taken at entry so time spent waiting on the lock counts.
func (d *Device) admissionDeadline(ctx context.Context) time.Time {
	if deadline, ok := ctx.Deadline(); ok {
		return deadline
	}
	if d.config.Timeout > 0 {
		return time.Now().Add(d.config.Timeout)
	}
	return time.Time{}
}

// transmitLocked places the completed frame on the wire. Called with the
// write lock held.
func (d *Device) transmitLocked(total int) (int, error) {
	debugf("transmitting frame: %d payload bytes, crc trailer % X",
		total-frame.TrailerSize, d.buf[total-frame.TrailerSize:total])

	if err := d.transport.Transmit(d.buf[:total]); err != nil {
		return 0, fmt.Errorf("transmit failed: %w", err)
	}
	return total, nil
}

// Attached reports whether the session still owns its hardware handles.
func (d *Device) Attached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.detached && d.transport.IsConnected()
}

// Close detaches the session: it stops accepting frames and releases the
// transport's hardware handles. An in-flight frame completes first.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.detached {
		return nil
	}
	d.detached = true

	if err := d.transport.Close(); err != nil {
		return fmt.Errorf("closing transport: %w", err)
	}

	debugln("device detached, transport released")
	return nil
}
