// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

package frame

import "hash/crc32"

// Checksum computes the CRC-32/JAMCRC of data: IEEE 802.3 polynomial, seed
// 0xFFFFFFFF, no final inversion. This is the convention the remote
// microcontroller decodes, and matches crc32(0xFFFFFFFF, ...) in the Linux
// kernel. The checksum of empty input is the seed itself, 0xFFFFFFFF.
func Checksum(data []byte) uint32 {
	// ChecksumIEEE seeds with all-ones and inverts the result; undoing the
	// final inversion yields JAMCRC.
	return ^crc32.ChecksumIEEE(data)
}
