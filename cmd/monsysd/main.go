// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

// monsysd hosts the control channel of the monitoring link: it creates a
// FIFO, accepts one application frame per write into it, and forwards the
// raw bytes unmodified to the driver. It is the userspace analog of the
// original /proc/monitoring-system endpoint.
//
// Each producer write into the FIFO must be one complete frame; writes up to
// PIPE_BUF (4096 on Linux, comfortably above the 769-byte payload ceiling)
// arrive atomically, so one read sees exactly one frame.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	monsys "github.com/leyyce/monitoring-system-driver"
	"golang.org/x/sys/unix"
)

type config struct {
	transport *string
	dataPin   *string
	clockPin  *string
	bus       *string
	port      *string
	fifoPath  *string
	baudRate  *int
	debug     *bool
}

func parseFlags() *config {
	cfg := &config{
		transport: flag.String("transport", "gpio", "Transport to the receiver: gpio, i2c or uart"),
		dataPin:   flag.String("data", "GPIO17", "Data line name for the gpio transport"),
		clockPin:  flag.String("clock", "GPIO27", "Clock line name for the gpio transport"),
		bus:       flag.String("bus", "1", "Bus name for the i2c transport (e.g. 1 or /dev/i2c-1)"),
		port:      flag.String("port", "/dev/ttyUSB0", "Serial port for the uart transport"),
		fifoPath:  flag.String("fifo", "/run/monsysd/control", "Path of the control FIFO"),
		baudRate:  flag.Int("baud", 115200, "Baud rate for the uart transport"),
		debug:     flag.Bool("debug", false, "Enable debug output"),
	}
	flag.Parse()

	if *cfg.debug {
		monsys.SetDebugEnabled(true)
	}

	return cfg
}

func main() {
	cfg := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("monsysd: %v", err)
	}
}

func run(ctx context.Context, cfg *config) error {
	transport, err := newTransport(cfg)
	if err != nil {
		return fmt.Errorf("failed to attach transport: %w", err)
	}

	device, err := monsys.New(transport)
	if err != nil {
		_ = transport.Close()
		return err
	}
	defer func() {
		if err := device.Close(); err != nil {
			log.Printf("monsysd: detaching device: %v", err)
		}
	}()

	fifo, err := openControlFIFO(*cfg.fifoPath)
	if err != nil {
		return err
	}
	defer func() { _ = fifo.Close() }()

	// Closing the FIFO unblocks the read loop on shutdown.
	go func() {
		<-ctx.Done()
		log.Print("monsysd: shutting down")
		_ = fifo.Close()
	}()

	log.Printf("monsysd: %s transport attached, control channel at %s",
		transport.Type(), *cfg.fifoPath)

	return serve(ctx, fifo, device)
}

// openControlFIFO creates the FIFO if needed and opens it. A FIFO left over
// from a previous run is reused; any other file in the way is an error.
//
// The FIFO is opened read-write so the daemon itself keeps a writer end
// alive: opening never blocks waiting for a producer, and the read loop
// never sees EOF when the last producer disconnects. Non-blocking mode hands
// the descriptor to the runtime poller, which makes Close interrupt a
// pending Read.
func openControlFIFO(path string) (*os.File, error) {
	if err := unix.Mkfifo(path, 0o622); err != nil {
		if !errors.Is(err, unix.EEXIST) {
			return nil, fmt.Errorf("failed to create FIFO %s: %w", path, err)
		}
		info, statErr := os.Stat(path)
		if statErr != nil {
			return nil, fmt.Errorf("failed to inspect %s: %w", path, statErr)
		}
		if info.Mode()&os.ModeNamedPipe == 0 {
			return nil, fmt.Errorf("%s exists and is not a FIFO", path)
		}
	}

	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open FIFO %s: %w", path, err)
	}
	return os.NewFile(uintptr(fd), path), nil
}

// readBufSize covers the largest atomic pipe write (PIPE_BUF, 4096 on
// Linux). A smaller buffer would split an oversized producer write across
// reads, rejecting the head but transmitting the tail as a fresh frame;
// reading the whole write at once keeps rejection wholesale.
const readBufSize = 4096

// serve reads one frame per Read and writes it through the device, until
// the context is cancelled or the channel reaches EOF.
func serve(ctx context.Context, fifo *os.File, device *monsys.Device) error {
	buf := make([]byte, readBufSize)

	for {
		n, err := fifo.Read(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, os.ErrClosed) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("control channel read: %w", err)
		}
		if n == 0 {
			continue
		}

		total, err := device.WriteContext(ctx, buf[:n])
		if err != nil {
			log.Printf("monsysd: frame rejected: %v", err)
			continue
		}
		log.Printf("monsysd: frame accepted, %d bytes on the wire", total)
	}
}
