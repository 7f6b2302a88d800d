// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"fmt"
	"strconv"
	"strings"
)

// UpdateMode selects the strategy a flush executes.
type UpdateMode int

const (
	// Full refreshes the complete panel with the flashing waveform. Slow,
	// but the only mode guaranteed to clear ghosting.
	Full UpdateMode = iota
	// Partial refreshes only the configured region with the fast
	// waveform. Ghosting may accumulate.
	Partial
	// BaseMap writes the framebuffer into both RAM banks and refreshes
	// with the full waveform, establishing a baseline for later partial
	// updates.
	BaseMap
)

// String implements fmt.Stringer.
func (m UpdateMode) String() string {
	switch m {
	case Full:
		return "full"
	case Partial:
		return "partial"
	case BaseMap:
		return "base_map"
	default:
		return fmt.Sprintf("UpdateMode(%d)", int(m))
	}
}

// ParseUpdateMode parses the textual form used by the control surface.
func ParseUpdateMode(s string) (UpdateMode, error) {
	switch s {
	case "full":
		return Full, nil
	case "partial":
		return Partial, nil
	case "base_map":
		return BaseMap, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Region is a rectangular update area in pixels. X and Width must be
// multiples of 8 since the controller addresses its RAM in byte columns.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// String implements fmt.Stringer using the same "x,y,width,height" form
// accepted by ParseRegion.
func (r Region) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

func (r Region) validate(width, height int) error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: %s is empty", ErrInvalidRegion, r)
	}
	if r.X < 0 || r.Y < 0 {
		return fmt.Errorf("%w: %s has a negative origin", ErrInvalidRegion, r)
	}
	if r.X%8 != 0 || r.Width%8 != 0 {
		return fmt.Errorf("%w: x and width in %s must be multiples of 8", ErrInvalidRegion, r)
	}
	if r.X+r.Width > width || r.Y+r.Height > height {
		return fmt.Errorf("%w: %s exceeds the %dx%d display bounds", ErrInvalidRegion, r, width, height)
	}
	return nil
}

// ParseRegion parses a region from its textual "x,y,width,height" form.
// Bounds and alignment are checked against the device geometry when the
// region is applied, not here.
func ParseRegion(s string) (Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("%w: %q is not of the form x,y,width,height", ErrInvalidRegion, s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 16)
		if err != nil {
			return Region{}, fmt.Errorf("%w: %q: %v", ErrInvalidRegion, s, err)
		}
		v[i] = int(n)
	}
	return Region{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}
