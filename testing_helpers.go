// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

package monsys

import (
	"sync"
	"time"
)

// MockTransport records transmitted frames for assertions in tests. Failures
// are scriptable per call via TransmitFunc.
type MockTransport struct {
	TransmitFunc func(frame []byte) error
	frames       [][]byte
	mu           sync.Mutex
	closed       bool
}

// NewMockTransport creates a connected mock transport.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Transmit records a copy of the frame, or delegates to TransmitFunc if set.
// The hook runs outside the mock's lock, so tests probing for overlapping
// transmissions are not serialized by the mock itself.
func (m *MockTransport) Transmit(frame []byte) error {
	m.mu.Lock()
	closed := m.closed
	transmitFunc := m.TransmitFunc
	m.mu.Unlock()

	if closed {
		return ErrTransportClosed
	}
	if transmitFunc != nil {
		return transmitFunc(frame)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = append(m.frames, append([]byte(nil), frame...))
	return nil
}

// Frames returns copies of every frame transmitted so far.
func (m *MockTransport) Frames() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([][]byte, len(m.frames))
	for i, f := range m.frames {
		out[i] = append([]byte(nil), f...)
	}
	return out
}

// Close marks the transport as closed.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// IsConnected returns true until Close is called.
func (m *MockTransport) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

// Type returns TransportMock.
func (*MockTransport) Type() TransportType {
	return TransportMock
}

// BlockingMockTransport blocks Transmit until Unblock is called, the timeout
// expires, or the transport is closed. Used to test that concurrent writes
// are serialized and that Close waits for the in-flight frame.
type BlockingMockTransport struct {
	blockChan chan struct{}
	frames    [][]byte
	timeout   time.Duration
	mu        sync.Mutex
	closed    bool
}

// NewBlockingMockTransport creates a new blocking mock transport.
func NewBlockingMockTransport() *BlockingMockTransport {
	return &BlockingMockTransport{
		blockChan: make(chan struct{}),
		timeout:   5 * time.Second,
	}
}

// Transmit blocks until Unblock, timeout, or Close, then records the frame.
func (m *BlockingMockTransport) Transmit(frame []byte) error {
	m.mu.Lock()
	blockChan := m.blockChan
	closed := m.closed
	timeout := m.timeout
	m.mu.Unlock()

	if closed {
		return ErrTransportClosed
	}

	select {
	case <-blockChan:
	case <-time.After(timeout):
		return NewTimeoutError("Transmit", "mock")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrTransportClosed
	}
	m.frames = append(m.frames, append([]byte(nil), frame...))
	return nil
}

// Unblock allows one blocked Transmit to proceed.
func (m *BlockingMockTransport) Unblock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		close(m.blockChan)
		m.blockChan = make(chan struct{})
	}
}

// Frames returns copies of every frame transmitted so far.
func (m *BlockingMockTransport) Frames() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([][]byte, len(m.frames))
	for i, f := range m.frames {
		out[i] = append([]byte(nil), f...)
	}
	return out
}

// SetTimeout configures how long a blocked Transmit waits before giving up.
func (m *BlockingMockTransport) SetTimeout(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = timeout
}

// Close unblocks all operations and marks the transport as closed.
func (m *BlockingMockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.blockChan)
	}
	return nil
}

// IsConnected returns true until Close is called.
func (m *BlockingMockTransport) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

// Type returns TransportMock.
func (*BlockingMockTransport) Type() TransportType {
	return TransportMock
}
