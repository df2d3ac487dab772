// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

// sendframe transmits one frame to the monitoring receiver and exits. The
// payload comes from a hex string, a file, stdin, or from -sample id=value
// pairs encoded as a monitoring report.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	monsys "github.com/leyyce/monitoring-system-driver"
	"github.com/leyyce/monitoring-system-driver/internal/frame"
	"github.com/leyyce/monitoring-system-driver/report"
)

type config struct {
	transport *string
	dataPin   *string
	clockPin  *string
	bus       *string
	port      *string
	hexInput  *string
	file      *string
	baudRate  *int
	timeout   *time.Duration
	address   *uint
	stdin     *bool
	debug     *bool
	samples   sampleList
}

func parseFlags() *config {
	cfg := &config{
		transport: flag.String("transport", "gpio", "Transport to the receiver: gpio, i2c or uart"),
		dataPin:   flag.String("data", "GPIO17", "Data line name for the gpio transport"),
		clockPin:  flag.String("clock", "GPIO27", "Clock line name for the gpio transport"),
		bus:       flag.String("bus", "1", "Bus name for the i2c transport (e.g. 1 or /dev/i2c-1)"),
		port:      flag.String("port", "/dev/ttyUSB0", "Serial port for the uart transport"),
		hexInput:  flag.String("hex", "", "Payload as a hex string (e.g. '01 02 03')"),
		file:      flag.String("file", "", "Read the payload from a file"),
		baudRate:  flag.Int("baud", 115200, "Baud rate for the uart transport"),
		timeout:   flag.Duration("timeout", 5*time.Second, "Admission deadline for the write"),
		address:   flag.Uint("address", 0x01, "Receiver address byte for -sample reports"),
		stdin:     flag.Bool("stdin", false, "Read the payload from stdin"),
		debug:     flag.Bool("debug", false, "Enable debug output"),
	}
	flag.Var(&cfg.samples, "sample",
		"Metric sample as id=value (repeatable); encoded as a monitoring report")
	flag.Parse()

	if *cfg.debug {
		monsys.SetDebugEnabled(true)
	}

	return cfg
}

func main() {
	cfg := parseFlags()

	if err := run(cfg); err != nil {
		log.Fatalf("sendframe: %v", err)
	}
}

func run(cfg *config) error {
	payload, err := buildPayload(cfg)
	if err != nil {
		return err
	}

	transport, err := newTransport(cfg)
	if err != nil {
		return fmt.Errorf("failed to attach transport: %w", err)
	}

	device, err := monsys.New(transport, monsys.WithTimeout(*cfg.timeout))
	if err != nil {
		_ = transport.Close()
		return err
	}
	defer func() {
		if err := device.Close(); err != nil {
			log.Printf("sendframe: detaching device: %v", err)
		}
	}()

	start := time.Now()
	n, err := device.Write(payload)
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}

	fmt.Printf("accepted %d bytes (%d payload + %d trailer) over %s in %v, crc 0x%08X\n",
		n, len(payload), monsys.TrailerSize, transport.Type(),
		time.Since(start).Round(time.Millisecond), frame.Checksum(payload))
	return nil
}

// buildPayload resolves the payload from exactly one of the input sources.
func buildPayload(cfg *config) ([]byte, error) {
	sources := 0
	for _, set := range []bool{*cfg.hexInput != "", *cfg.file != "", *cfg.stdin, len(cfg.samples) > 0} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, fmt.Errorf("need exactly one payload source (-hex, -file, -stdin or -sample), got %d", sources)
	}

	switch {
	case *cfg.hexInput != "":
		return parseHex(*cfg.hexInput)
	case *cfg.file != "":
		payload, err := os.ReadFile(*cfg.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
		return payload, nil
	case *cfg.stdin:
		// One byte past the ceiling, so oversized input is rejected by the
		// driver instead of silently cut here.
		payload, err := readAll(os.Stdin, monsys.MaxPayload+1)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload from stdin: %w", err)
		}
		return payload, nil
	default:
		if *cfg.address > 0xFF {
			return nil, fmt.Errorf("address 0x%X does not fit in one byte", *cfg.address)
		}
		r := &report.Report{Address: byte(*cfg.address), Samples: cfg.samples}
		payload, err := r.Encode()
		if err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		return payload, nil
	}
}
