// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

package frame

// BitSequence walks a completed frame in transmission order: byte index
// ascending, and within each byte from bit 0 (least significant) to bit 7.
// A sequence yields exactly 8*len(frame) bits and can be restarted with
// Reset. It holds no state beyond its position, so distinct frames never
// share serializer state.
type BitSequence struct {
	frame []byte
	i     int // byte index
	j     uint // bit index within frame[i]
}

// NewBitSequence returns a serializer positioned at the first bit of frame.
func NewBitSequence(frame []byte) *BitSequence {
	return &BitSequence{frame: frame}
}

// Next returns the next bit in wire order. ok is false once the sequence is
// exhausted.
func (s *BitSequence) Next() (bit byte, ok bool) {
	if s.i >= len(s.frame) {
		return 0, false
	}
	bit = (s.frame[s.i] >> s.j) & 1
	s.j++
	if s.j == 8 {
		s.j = 0
		s.i++
	}
	return bit, true
}

// Len returns the total number of bits in the sequence.
func (s *BitSequence) Len() int {
	return 8 * len(s.frame)
}

// Reset rewinds the sequence to the first bit.
func (s *BitSequence) Reset() {
	s.i, s.j = 0, 0
}
