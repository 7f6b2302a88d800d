// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import "errors"

var (
	// ErrNotReady is returned when an operation needs initialized display
	// hardware, either because Init was never called or because the
	// controller was put into deep sleep.
	ErrNotReady = errors.New("display not initialized")

	// ErrInvalidMode is returned for an update mode outside the known set.
	ErrInvalidMode = errors.New("invalid update mode")

	// ErrInvalidRegion is returned for a partial update region that is
	// misaligned or exceeds the display bounds.
	ErrInvalidRegion = errors.New("invalid update region")

	// ErrBusyTimeout is returned when the busy line does not clear within
	// the configured budget. The controller may be wedged; Recover is the
	// intended response, not a blind retry.
	ErrBusyTimeout = errors.New("busy line timeout")
)
