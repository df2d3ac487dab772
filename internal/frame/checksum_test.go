// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

package frame

import "testing"

func TestChecksum(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data []byte
		want uint32
	}{
		{
			name: "empty data is the seed",
			data: []byte{},
			want: 0xFFFFFFFF,
		},
		{
			name: "nil data is the seed",
			data: nil,
			want: 0xFFFFFFFF,
		},
		{
			name: "single zero byte",
			data: []byte{0x00},
			want: 0x2DFD1072,
		},
		{
			name: "single byte",
			data: []byte{0xA5},
			want: 0x8B414715,
		},
		{
			name: "reference report bytes",
			data: []byte{0x01, 0x02, 0x03},
			want: 0xAA437FE2,
		},
		{
			name: "ascii text",
			data: []byte("hello"),
			want: 0xC9EF5979,
		},
		{
			name: "address plus sample",
			data: []byte{0x10, 0x01, 0x00, 0xFF},
			want: 0xA262F2C6,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Checksum(tt.data); got != tt.want {
				t.Errorf("Checksum() = 0x%08X, want 0x%08X", got, tt.want)
			}
		})
	}
}

func TestChecksumDeterministic(t *testing.T) {
	t.Parallel()
	data := make([]byte, MaxPayload)
	for i := range data {
		data[i] = byte(i * 31)
	}
	first := Checksum(data)
	for i := 0; i < 3; i++ {
		if got := Checksum(data); got != first {
			t.Fatalf("Checksum() not deterministic: 0x%08X then 0x%08X", first, got)
		}
	}
}
