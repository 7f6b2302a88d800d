// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"bytes"
	"image"
	"image/draw"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

func TestNewFramebuffer(t *testing.T) {
	fb := NewFramebuffer(image.Rect(0, 0, 12, 3))

	// 12 pixels round up to 2 bytes per row.
	if fb.Stride != 2 {
		t.Errorf("Stride = %d, want 2", fb.Stride)
	}
	if diff := cmp.Diff(fb.Pix, bytes.Repeat([]byte{0xFF}, 6)); diff != "" {
		t.Errorf("Pix difference (-got +want):\n%s", diff)
	}
}

func TestFramebufferSetBit(t *testing.T) {
	fb := NewFramebuffer(image.Rect(0, 0, 16, 2))

	fb.SetBit(0, 0, image1bit.Off)
	fb.SetBit(9, 1, image1bit.Off)

	want := []byte{0x7F, 0xFF, 0xFF, 0xBF}
	if diff := cmp.Diff(fb.Pix, want); diff != "" {
		t.Errorf("Pix difference (-got +want):\n%s", diff)
	}

	if got := fb.BitAt(0, 0); got != image1bit.Off {
		t.Errorf("BitAt(0, 0) = %v, want Off", got)
	}
	if got := fb.BitAt(1, 0); got != image1bit.On {
		t.Errorf("BitAt(1, 0) = %v, want On", got)
	}

	fb.SetBit(0, 0, image1bit.On)
	if got := fb.BitAt(0, 0); got != image1bit.On {
		t.Errorf("BitAt(0, 0) after set = %v, want On", got)
	}

	// Out of bounds writes are dropped, reads return Off.
	fb.SetBit(-1, 0, image1bit.Off)
	fb.SetBit(16, 0, image1bit.Off)
	fb.SetBit(0, 2, image1bit.Off)
	if got := fb.BitAt(16, 0); got != image1bit.Off {
		t.Errorf("BitAt(16, 0) = %v, want Off", got)
	}
}

func TestFramebufferFill(t *testing.T) {
	fb := NewFramebuffer(image.Rect(0, 0, 16, 2))

	fb.Fill(image1bit.Off)
	if diff := cmp.Diff(fb.Pix, bytes.Repeat([]byte{0x00}, 4)); diff != "" {
		t.Errorf("Pix after Fill(Off) difference (-got +want):\n%s", diff)
	}

	fb.Fill(image1bit.On)
	if diff := cmp.Diff(fb.Pix, bytes.Repeat([]byte{0xFF}, 4)); diff != "" {
		t.Errorf("Pix after Fill(On) difference (-got +want):\n%s", diff)
	}
}

func TestFramebufferDraw(t *testing.T) {
	fb := NewFramebuffer(image.Rect(0, 0, 16, 2))

	// Standard library composition writes through the draw.Image surface.
	draw.Src.Draw(fb, image.Rect(8, 0, 16, 1), &image.Uniform{C: image1bit.Off}, image.Point{})

	want := []byte{0xFF, 0x00, 0xFF, 0xFF}
	if diff := cmp.Diff(fb.Pix, want); diff != "" {
		t.Errorf("Pix difference (-got +want):\n%s", diff)
	}
}
