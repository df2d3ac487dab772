// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/leyyce/monitoring-system-driver/report"
)

// sampleList collects repeated -sample id=value flags.
type sampleList []report.Sample

// String implements flag.Value.
func (s *sampleList) String() string {
	parts := make([]string, len(*s))
	for i, sample := range *s {
		parts[i] = fmt.Sprintf("%d=%d", sample.ID, sample.Value)
	}
	return strings.Join(parts, ",")
}

// Set implements flag.Value. Both id and value accept decimal or 0x-hex.
func (s *sampleList) Set(value string) error {
	idStr, valStr, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("sample %q: want id=value", value)
	}

	id, err := strconv.ParseUint(idStr, 0, 8)
	if err != nil {
		return fmt.Errorf("sample id %q: %w", idStr, err)
	}
	val, err := strconv.ParseUint(valStr, 0, 16)
	if err != nil {
		return fmt.Errorf("sample value %q: %w", valStr, err)
	}

	*s = append(*s, report.Sample{ID: byte(id), Value: uint16(val)})
	return nil
}

// parseHex decodes a hex payload, tolerating whitespace between bytes.
func parseHex(s string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' {
			return -1
		}
		return r
	}, s)

	payload, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid hex payload: %w", err)
	}
	return payload, nil
}

// readAll reads r to EOF, up to limit bytes.
func readAll(r io.Reader, limit int) ([]byte, error) {
	payload, err := io.ReadAll(io.LimitReader(r, int64(limit)))
	if err != nil {
		return nil, err
	}
	return payload, nil
}
