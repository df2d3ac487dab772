// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

package monsys

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestTransportErrorFormatting(t *testing.T) {
	t.Parallel()
	underlying := errors.New("line gone")
	err := NewTransportError("Transmit", "GPIO17", underlying, ErrorTypePermanent)

	msg := err.Error()
	for _, want := range []string{"Transmit", "GPIO17", "line gone"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}

	if !errors.Is(err, underlying) {
		t.Error("errors.Is() did not reach the wrapped error")
	}

	bare := NewTransportError("Close", "GPIO27", nil, ErrorTypePermanent)
	if !strings.Contains(bare.Error(), "Close") {
		t.Errorf("Error() without cause = %q", bare.Error())
	}
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err           error
		name          string
		wantType      ErrorType
		wantRetryable bool
	}{
		{
			name:          "not ready is transient",
			err:           NewNotReadyError("Write", "gpio"),
			wantType:      ErrorTypeTransient,
			wantRetryable: true,
		},
		{
			name:          "line failure is permanent",
			err:           NewLineError("Transmit", "GPIO17", errors.New("line gone")),
			wantType:      ErrorTypePermanent,
			wantRetryable: false,
		},
		{
			name:          "admission timeout",
			err:           NewTimeoutError("Write", "gpio"),
			wantType:      ErrorTypeTimeout,
			wantRetryable: false,
		},
		{
			name:          "bare sentinel maps like its constructor",
			err:           fmt.Errorf("write rejected: %w", ErrNotAttached),
			wantType:      ErrorTypeTransient,
			wantRetryable: true,
		},
		{
			name:          "unknown errors default to permanent",
			err:           errors.New("something else"),
			wantType:      ErrorTypePermanent,
			wantRetryable: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GetErrorType(tt.err); got != tt.wantType {
				t.Errorf("GetErrorType() = %v, want %v", got, tt.wantType)
			}
			if got := IsRetryable(tt.err); got != tt.wantRetryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.wantRetryable)
			}
		})
	}
}

func TestIsRetryableNil(t *testing.T) {
	t.Parallel()
	if IsRetryable(nil) {
		t.Error("IsRetryable(nil) = true")
	}
}

func TestLineErrorWrapsSentinel(t *testing.T) {
	t.Parallel()
	err := NewLineError("Transmit", "GPIO17", errors.New("line gone"))
	if !errors.Is(err, ErrLineWrite) {
		t.Error("NewLineError() does not wrap ErrLineWrite")
	}
}
