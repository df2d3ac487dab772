// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

package gpio

import (
	"bytes"
	"errors"
	"testing"
	"time"

	monsys "github.com/leyyce/monitoring-system-driver"
	"github.com/leyyce/monitoring-system-driver/internal/frame"
	"github.com/leyyce/monitoring-system-driver/internal/vwire"
)

func noHold(time.Duration) {}

func newTestTransport(t *testing.T, recv *vwire.Receiver, opts ...Option) *Transport {
	t.Helper()
	opts = append([]Option{WithHold(noHold)}, opts...)
	transport, err := NewFromPins(recv.DataPin(), recv.ClockPin(), opts...)
	if err != nil {
		t.Fatalf("NewFromPins() unexpected error: %v", err)
	}
	return transport
}

func TestTransmitBitOrder(t *testing.T) {
	t.Parallel()
	recv := vwire.NewReceiver()
	transport := newTestTransport(t, recv)

	// 0xA5 = 0b10100101, emitted LSB first.
	if err := transport.Transmit([]byte{0xA5}); err != nil {
		t.Fatalf("Transmit() unexpected error: %v", err)
	}

	want := []byte{1, 0, 1, 0, 0, 1, 0, 1}
	got := recv.Bits()
	if !bytes.Equal(got, want) {
		t.Errorf("sampled bits = %v, want %v", got, want)
	}
}

func TestTransmitFrameRoundTrip(t *testing.T) {
	t.Parallel()
	recv := vwire.NewReceiver()
	transport := newTestTransport(t, recv)

	payload := []byte{0x01, 0x02, 0x03}
	frameBytes, err := frame.Build(payload)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	if err := transport.Transmit(frameBytes); err != nil {
		t.Fatalf("Transmit() unexpected error: %v", err)
	}

	if got := recv.BitCount(); got != 56 {
		t.Errorf("BitCount() = %d, want 56", got)
	}

	gotPayload, crc, err := recv.Frame()
	if err != nil {
		t.Fatalf("receiver rejected frame: %v", err)
	}
	if !bytes.Equal(gotPayload, payload) {
		t.Errorf("received payload = % X, want % X", gotPayload, payload)
	}
	if crc != 0xAA437FE2 {
		t.Errorf("received crc = 0x%08X, want 0xAA437FE2", crc)
	}
}

func TestTransmitIdlePostcondition(t *testing.T) {
	t.Parallel()
	recv := vwire.NewReceiver()
	transport := newTestTransport(t, recv)

	// The last bit on the wire is 1 (bit 7 of 0xFF); the data line must
	// still end low.
	if err := transport.Transmit([]byte{0xFF}); err != nil {
		t.Fatalf("Transmit() unexpected error: %v", err)
	}
	if recv.DataLineHigh() {
		t.Error("data line left high after transmission")
	}
}

func TestTransmitTiming(t *testing.T) {
	t.Parallel()
	recv := vwire.NewReceiver()

	var holds []time.Duration
	record := func(d time.Duration) { holds = append(holds, d) }

	timing := Timing{
		Settle: 1 * time.Microsecond,
		Sample: 2 * time.Microsecond,
		Guard:  3 * time.Microsecond,
	}
	transport := newTestTransport(t, recv, WithHold(record), WithTiming(timing))

	if err := transport.Transmit([]byte{0x0F}); err != nil {
		t.Fatalf("Transmit() unexpected error: %v", err)
	}

	if len(holds) != 8*3 {
		t.Fatalf("recorded %d holds, want %d", len(holds), 8*3)
	}
	for i := 0; i < len(holds); i += 3 {
		if holds[i] != timing.Settle || holds[i+1] != timing.Sample || holds[i+2] != timing.Guard {
			t.Fatalf("bit %d holds = %v, want [%v %v %v]",
				i/3, holds[i:i+3], timing.Settle, timing.Sample, timing.Guard)
		}
	}
}

func TestTransmitLineFailure(t *testing.T) {
	t.Parallel()
	recv := vwire.NewReceiver()
	transport := newTestTransport(t, recv)

	recv.ClockPin().SetFail(errors.New("line gone"))

	err := transport.Transmit([]byte{0x01})
	if !errors.Is(err, monsys.ErrLineWrite) {
		t.Fatalf("Transmit() error = %v, want ErrLineWrite", err)
	}
	if monsys.IsRetryable(err) {
		t.Error("mid-frame line failure must not be retryable")
	}
}

func TestTransmitAfterClose(t *testing.T) {
	t.Parallel()
	recv := vwire.NewReceiver()
	transport := newTestTransport(t, recv)

	if err := transport.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	if transport.IsConnected() {
		t.Error("IsConnected() = true after Close")
	}

	err := transport.Transmit([]byte{0x01})
	if !errors.Is(err, monsys.ErrTransportClosed) {
		t.Errorf("Transmit() after Close error = %v, want ErrTransportClosed", err)
	}
}

func TestWithTimingRejectsNonPositiveHolds(t *testing.T) {
	t.Parallel()
	recv := vwire.NewReceiver()

	_, err := NewFromPins(recv.DataPin(), recv.ClockPin(),
		WithTiming(Timing{Settle: 0, Sample: time.Microsecond, Guard: time.Microsecond}))
	if err == nil {
		t.Fatal("NewFromPins() accepted zero settle hold")
	}
}

func TestDefaultTiming(t *testing.T) {
	t.Parallel()
	timing := DefaultTiming()
	if timing.Settle != 100*time.Microsecond ||
		timing.Sample != 200*time.Microsecond ||
		timing.Guard != 100*time.Microsecond {
		t.Errorf("DefaultTiming() = %+v, want 100us/200us/100us", timing)
	}
	if timing.BitPeriod() != 400*time.Microsecond {
		t.Errorf("BitPeriod() = %v, want 400us", timing.BitPeriod())
	}
}

// TestDeviceWriteThroughGPIO drives the whole pipeline: Device admission,
// frame building, bit serialization, and the simulated receiver's checksum
// verification.
func TestDeviceWriteThroughGPIO(t *testing.T) {
	t.Parallel()
	recv := vwire.NewReceiver()
	transport := newTestTransport(t, recv)

	device, err := monsys.New(transport)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	payload := []byte{0x10, 0x01, 0x00, 0xFF}
	n, err := device.Write(payload)
	if err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}
	if n != len(payload)+monsys.TrailerSize {
		t.Errorf("Write() = %d, want %d", n, len(payload)+monsys.TrailerSize)
	}

	gotPayload, crc, err := recv.Frame()
	if err != nil {
		t.Fatalf("receiver rejected frame: %v", err)
	}
	if !bytes.Equal(gotPayload, payload) {
		t.Errorf("received payload = % X, want % X", gotPayload, payload)
	}
	if crc != 0xA262F2C6 {
		t.Errorf("received crc = 0x%08X, want 0xA262F2C6", crc)
	}
	if recv.DataLineHigh() {
		t.Error("data line left high after transmission")
	}

	if err := device.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	if _, err := device.Write(payload); !errors.Is(err, monsys.ErrNotAttached) {
		t.Errorf("Write() after Close error = %v, want ErrNotAttached", err)
	}
}
