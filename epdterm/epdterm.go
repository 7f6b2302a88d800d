// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epdterm implements a display.Drawer that renders a monochrome
// e-paper framebuffer to the terminal (stdout) using ANSI color codes.
//
// Useful to check layouts and partial update regions without a panel wired
// up.
package epdterm

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Opts represents the options available for this display.
type Opts struct {
	Width   int
	Height  int
	Palette *ansi256.Palette

	_ struct{}
}

// Dev is an e-paper panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	bounds  image.Rectangle
	palette ansi256.Palette

	pixels []image1bit.Bit
	buf    bytes.Buffer
}

// New returns a Dev that displays at the console.
//
// The emulated panel starts out white, like a freshly cleared one.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	d := &Dev{
		w:       colorable.NewColorableStdout(),
		bounds:  image.Rect(0, 0, opts.Width, opts.Height),
		palette: *p,
		pixels:  make([]image1bit.Bit, opts.Width*opts.Height),
	}
	for i := range d.pixels {
		d.pixels[i] = image1bit.On
	}
	return d
}

func (d *Dev) String() string {
	return fmt.Sprintf("EPDTerm{%dx%d}", d.bounds.Dx(), d.bounds.Dy())
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes so later output is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.bounds
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.bounds)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := src.At(x-r.Min.X+sp.X, y-r.Min.Y+sp.Y)
			bit := image1bit.BitModel.Convert(c).(image1bit.Bit)
			d.pixels[y*d.bounds.Dx()+x] = bit
		}
	}
	return d.refresh()
}

// refresh repaints the whole emulated panel. Two pixel rows share one text
// row so the aspect ratio roughly matches a square pixel grid.
func (d *Dev) refresh() error {
	d.buf.Reset()
	w := d.bounds.Dx()
	for y := 0; y < d.bounds.Dy(); y += 2 {
		_, _ = d.buf.WriteString("\033[0m")
		for x := 0; x < w; x++ {
			// A cell is white only when both rows of the pair
			// are; finer rendering is not worth it for a preview.
			c := d.cellColor(x, y)
			_, _ = io.WriteString(&d.buf, d.palette.Block(c))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

func (d *Dev) cellColor(x, y int) color.NRGBA {
	w := d.bounds.Dx()
	on := d.pixels[y*w+x]
	if y+1 < d.bounds.Dy() {
		on = on && d.pixels[(y+1)*w+x]
	}
	if on {
		return color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	}
	return color.NRGBA{A: 0xFF}
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
