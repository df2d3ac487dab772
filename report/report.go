// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

// Package report encodes the application-level monitoring report the
// userspace agent hands to the driver: one receiver address byte followed by
// up to 256 metric samples, each a one-byte metric ID and a little-endian
// 16-bit value. A maximal report plus the driver's checksum trailer is where
// the 773-byte frame ceiling comes from.
//
// The driver core treats the payload as opaque bytes and only enforces the
// ceiling; this package is the producer-side counterpart used by the command
// line tools and tests.
package report

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MaxSamples is the most samples one report can carry.
const MaxSamples = 256

// sampleSize is the encoded size of one sample: ID byte plus 16-bit value.
const sampleSize = 3

// ErrTooManySamples is returned when a report exceeds MaxSamples.
var ErrTooManySamples = errors.New("too many samples in report")

// ErrTruncated is returned when decoding input that does not divide into an
// address byte plus whole samples.
var ErrTruncated = errors.New("truncated report")

// Sample is one metric reading.
type Sample struct {
	Value uint16
	ID    byte
}

// Report is one complete monitoring report addressed to a receiver.
type Report struct {
	Samples []Sample
	Address byte
}

// EncodedSize returns the payload size Encode would produce.
func (r *Report) EncodedSize() int {
	return 1 + sampleSize*len(r.Samples)
}

// Encode serializes the report into the wire payload: address byte, then for
// each sample the metric ID followed by the little-endian value.
func (r *Report) Encode() ([]byte, error) {
	if len(r.Samples) > MaxSamples {
		return nil, fmt.Errorf("%w: %d samples, max %d",
			ErrTooManySamples, len(r.Samples), MaxSamples)
	}

	buf := make([]byte, 0, r.EncodedSize())
	buf = append(buf, r.Address)
	for _, s := range r.Samples {
		buf = append(buf, s.ID)
		buf = binary.LittleEndian.AppendUint16(buf, s.Value)
	}
	return buf, nil
}

// Decode parses a payload produced by Encode. Used by tests standing in for
// the receiver firmware.
func Decode(payload []byte) (*Report, error) {
	if len(payload) < 1 || (len(payload)-1)%sampleSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(payload))
	}

	count := (len(payload) - 1) / sampleSize
	if count > MaxSamples {
		return nil, fmt.Errorf("%w: %d samples, max %d", ErrTooManySamples, count, MaxSamples)
	}

	r := &Report{Address: payload[0]}
	for i := 0; i < count; i++ {
		s := payload[1+i*sampleSize:]
		r.Samples = append(r.Samples, Sample{
			ID:    s[0],
			Value: binary.LittleEndian.Uint16(s[1:3]),
		})
	}
	return r, nil
}
