// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	monsys "github.com/leyyce/monitoring-system-driver"
)

func TestEncode(t *testing.T) {
	t.Parallel()
	r := &Report{
		Address: 0x07,
		Samples: []Sample{
			{ID: 0x01, Value: 300},
			{ID: 0x02, Value: 600},
		},
	}

	payload, err := r.Encode()
	require.NoError(t, err)

	// Address, then per sample: ID and little-endian value.
	assert.Equal(t, []byte{0x07, 0x01, 0x2C, 0x01, 0x02, 0x58, 0x02}, payload)
	assert.Equal(t, r.EncodedSize(), len(payload))
}

func TestEncodeEmptyReport(t *testing.T) {
	t.Parallel()
	r := &Report{Address: 0x10}

	payload, err := r.Encode()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x10}, payload)
}

func TestEncodeTooManySamples(t *testing.T) {
	t.Parallel()
	r := &Report{Samples: make([]Sample, MaxSamples+1)}

	_, err := r.Encode()
	assert.ErrorIs(t, err, ErrTooManySamples)
}

// A maximal report must be exactly what the driver still accepts: the frame
// ceiling was derived from this layout.
func TestMaximalReportFillsFrame(t *testing.T) {
	t.Parallel()
	r := &Report{Address: 0x01, Samples: make([]Sample, MaxSamples)}

	payload, err := r.Encode()
	require.NoError(t, err)
	assert.Equal(t, monsys.MaxPayload, len(payload))
}

func TestDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	want := &Report{
		Address: 0x42,
		Samples: []Sample{
			{ID: 0xA0, Value: 0xBEEF},
			{ID: 0xA1, Value: 0},
			{ID: 0xA2, Value: 0xFFFF},
		},
	}

	payload, err := want.Encode()
	require.NoError(t, err)

	got, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeTruncated(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		payload []byte
	}{
		{"empty", nil},
		{"partial sample", []byte{0x01, 0x02, 0x03}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(tt.payload)
			assert.ErrorIs(t, err, ErrTruncated)
		})
	}
}
