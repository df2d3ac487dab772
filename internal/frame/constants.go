// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

// Package frame implements the wire frame of the monitoring system link:
// payload bytes followed by a 4-byte little-endian CRC-32/JAMCRC trailer,
// serialized least-significant bit first for the clocked two-wire transport.
package frame

// Frame size limits.
//
// The ceiling comes from the application-level report layout consumed by the
// remote microcontroller: 1 address byte + up to 256 metric IDs (1 byte each)
// + up to 256 metric values (2 bytes each) + the 4 trailer bytes = 773.
const (
	// MaxBufferSize is the hard ceiling on a complete frame, trailer included.
	MaxBufferSize = 773

	// TrailerSize is the length of the appended checksum trailer.
	TrailerSize = 4

	// MaxPayload is the largest payload that still leaves room for the trailer.
	MaxPayload = MaxBufferSize - TrailerSize
)
