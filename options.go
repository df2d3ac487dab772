// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

package monsys

import (
	"fmt"
	"time"
)

// Option is a functional option for configuring a Device.
type Option func(*Device) error

// WithTimeout sets the admission deadline for writes. A write that cannot
// start transmitting within the timeout (typically because another frame
// holds the wire) fails with a timeout error instead of waiting forever.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout < 0 {
			return fmt.Errorf("negative timeout: %v", timeout)
		}
		d.config.Timeout = timeout
		return nil
	}
}

// WithConfig replaces the whole device configuration.
func WithConfig(config *DeviceConfig) Option {
	return func(d *Device) error {
		if config == nil {
			return fmt.Errorf("nil device config")
		}
		d.config = config
		return nil
	}
}
