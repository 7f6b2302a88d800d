// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"bytes"
	"image"
	"image/color"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Framebuffer is the 1 bit per pixel pixel store shared between the caller
// and the update engine. Bits are MSB first within each byte, rows are laid
// out top to bottom with a stride of (width+7)/8 bytes. A 0 bit is a black
// pixel, a 1 bit is white, matching the controller's RAM layout so rows can
// be sent to the panel without repacking.
type Framebuffer struct {
	// Pix holds the pixel bits. The update engine reads it; Set and Fill
	// write it.
	Pix []byte
	// Stride is the byte distance between vertically adjacent pixels.
	Stride int

	rect image.Rectangle
}

// NewFramebuffer returns an all-white framebuffer covering r.
func NewFramebuffer(r image.Rectangle) *Framebuffer {
	stride := (r.Dx() + 7) / 8
	return &Framebuffer{
		Pix:    bytes.Repeat([]byte{0xFF}, stride*r.Dy()),
		Stride: stride,
		rect:   r,
	}
}

// ColorModel implements image.Image.
func (f *Framebuffer) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements image.Image.
func (f *Framebuffer) Bounds() image.Rectangle {
	return f.rect
}

// At implements image.Image.
func (f *Framebuffer) At(x, y int) color.Color {
	return f.BitAt(x, y)
}

// BitAt returns the bit at the specified pixel.
func (f *Framebuffer) BitAt(x, y int) image1bit.Bit {
	if !(image.Point{X: x, Y: y}.In(f.rect)) {
		return image1bit.Off
	}
	offset, mask := f.pixelOffset(x, y)
	return image1bit.Bit(f.Pix[offset]&mask != 0)
}

// Set implements draw.Image.
func (f *Framebuffer) Set(x, y int, c color.Color) {
	f.SetBit(x, y, image1bit.BitModel.Convert(c).(image1bit.Bit))
}

// SetBit sets the bit at the specified pixel. Out of bounds coordinates are
// ignored.
func (f *Framebuffer) SetBit(x, y int, b image1bit.Bit) {
	if !(image.Point{X: x, Y: y}.In(f.rect)) {
		return
	}
	offset, mask := f.pixelOffset(x, y)
	if b {
		f.Pix[offset] |= mask
	} else {
		f.Pix[offset] &^= mask
	}
}

// Fill sets every pixel to b.
func (f *Framebuffer) Fill(b image1bit.Bit) {
	fill := byte(0x00)
	if b {
		fill = 0xFF
	}
	for i := range f.Pix {
		f.Pix[i] = fill
	}
}

func (f *Framebuffer) pixelOffset(x, y int) (int, byte) {
	x -= f.rect.Min.X
	y -= f.rect.Min.Y
	return y*f.Stride + x/8, 0x80 >> uint(x%8)
}

var _ image.Image = &Framebuffer{}
