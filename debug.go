// monitoring-system-driver
// Copyright (c) 2025 Leya Wehner & Julian Frank
// SPDX-License-Identifier: GPL-2.0-or-later

package monsys

import (
	"log"
	"sync/atomic"
)

var debugEnabled atomic.Bool

// SetDebugEnabled toggles debug logging for the whole package. Off by
// default; the write path logs frame sizes and checksums when enabled.
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
}

func debugf(format string, args ...any) {
	if debugEnabled.Load() {
		log.Printf("monsys: "+format, args...)
	}
}

func debugln(args ...any) {
	if debugEnabled.Load() {
		log.Println(append([]any{"monsys:"}, args...)...)
	}
}
