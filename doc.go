// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

/*
Package monsys is the transport driver for the monitoring system link: it
takes one opaque application frame per write (metric IDs and values produced
by the userspace agent), appends a CRC-32/JAMCRC trailer, and delivers the
framed bytes to the remote microcontroller over a pluggable wire transport.

The production transport is a software-clocked two-wire link driven entirely
through GPIO toggling (transport/gpio). Two earlier hardware-bus generations
survive as transport/i2c, and transport/uart covers the development bench
over USB-serial. All transports carry the same frame bytes; only the gpio
transport owns the bit-level signaling.

Basic usage:

	import (
	    monsys "github.com/leyyce/monitoring-system-driver"
	    "github.com/leyyce/monitoring-system-driver/transport/gpio"
	)

	transport, err := gpio.New("GPIO17", "GPIO27")
	if err != nil {
	    log.Fatal(err)
	}

	device, err := monsys.New(transport)
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	n, err := device.Write(payload)

Write blocks until the whole frame is on the wire; writes are serialized, so
two concurrent frames never interleave their line toggles. The link is one
way: there is no acknowledgement from the receiver and no retransmission.
*/
package monsys
