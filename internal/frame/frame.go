// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrPayloadTooLarge is returned when a payload does not leave room for the
// checksum trailer inside the working buffer.
var ErrPayloadTooLarge = errors.New("payload too large for frame buffer")

// Seal appends the checksum trailer for the n payload bytes already sitting
// in buf[:n] and returns the total frame length, n+TrailerSize. The trailer
// is written after the last payload byte, never overlapping it.
func Seal(buf []byte, n int) (int, error) {
	if n+TrailerSize > len(buf) {
		return 0, fmt.Errorf("%w: %d payload bytes, %d buffer bytes",
			ErrPayloadTooLarge, n, len(buf))
	}

	binary.LittleEndian.PutUint32(buf[n:n+TrailerSize], Checksum(buf[:n]))
	return n + TrailerSize, nil
}

// BuildInto assembles a complete frame in buf: the payload bytes followed by
// the 4-byte little-endian JAMCRC trailer. It returns the total frame length,
// len(payload)+TrailerSize.
//
// The bounds check runs before any byte is copied, so a rejected payload
// leaves buf untouched.
func BuildInto(buf, payload []byte) (int, error) {
	if len(payload)+TrailerSize > len(buf) {
		return 0, fmt.Errorf("%w: %d payload bytes, %d buffer bytes",
			ErrPayloadTooLarge, len(payload), len(buf))
	}

	return Seal(buf, copy(buf, payload))
}

// Build is the allocating variant of BuildInto. The returned slice is exactly
// the frame, with no residual capacity beyond the trailer.
func Build(payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("%w: %d payload bytes, max %d",
			ErrPayloadTooLarge, len(payload), MaxPayload)
	}

	buf := make([]byte, len(payload)+TrailerSize)
	if _, err := BuildInto(buf, payload); err != nil {
		return nil, err
	}
	return buf, nil
}
