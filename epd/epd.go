// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"
)

const (
	resetDelay      = 10 * time.Millisecond
	deepSleepSettle = 10 * time.Millisecond

	defaultInitTimeout   = 2 * time.Second
	defaultUpdateTimeout = 10 * time.Second
)

// Opts defines the display configuration. Width and Height are required and
// immutable for the device's lifetime.
type Opts struct {
	Width  int
	Height int

	// Profile selects the controller revision parameters. Defaults to
	// SSD1681.
	Profile *Profile

	// Speed is the SPI clock. Defaults to 4MHz, the fastest the stock
	// panel's level shifter handles reliably.
	Speed physic.Frequency

	// InitTimeout bounds the busy waits during initialization. Defaults
	// to 2s.
	InitTimeout time.Duration
	// UpdateTimeout bounds the busy wait after a refresh is triggered.
	// Defaults to 10s.
	UpdateTimeout time.Duration
}

// EPD2in13 contains the configuration for the common 2.13" 128x250 panel.
var EPD2in13 = Opts{
	Width:  128,
	Height: 250,
}

// EPD1in54 contains the configuration for the 1.54" 200x200 panel.
var EPD1in54 = Opts{
	Width:  200,
	Height: 200,
}

func (o *Opts) bytesPerLine() int {
	return (o.Width + 7) / 8
}

func (o *Opts) screenSize() int {
	return o.bytesPerLine() * o.Height
}

// Dev is a handle to an e-paper display.
//
// One mutex guards the update mode, the partial region, the initialized flag
// and every multi-step hardware sequence. A second Flush therefore blocks
// until the first completes; interleaving two sequences would corrupt the
// controller's RAM addressing state.
type Dev struct {
	c conn.Conn

	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn

	opts *Opts

	sleep func(time.Duration)

	mu          sync.Mutex
	fb          *Framebuffer
	mode        UpdateMode
	region      Region
	regionSet   bool
	initialized bool
}

// New creates a handler for the display. The cs, rst and busy pins may be
// nil: a nil cs leaves chip select to the bus, a nil busy degrades the busy
// waits to trusting the datasheet timings.
func New(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("epd: invalid %dx%d geometry", opts.Width, opts.Height)
	}

	o := *opts
	if o.Profile == nil {
		o.Profile = &SSD1681
	}
	if o.InitTimeout <= 0 {
		o.InitTimeout = defaultInitTimeout
	}
	if o.UpdateTimeout <= 0 {
		o.UpdateTimeout = defaultUpdateTimeout
	}
	if o.Speed <= 0 {
		o.Speed = 4 * physic.MegaHertz
	}

	c, err := p.Connect(o.Speed, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	d := &Dev{
		c:     c,
		dc:    dc,
		cs:    cs,
		rst:   rst,
		busy:  busy,
		opts:  &o,
		sleep: time.Sleep,
		fb:    NewFramebuffer(image.Rect(0, 0, o.Width, o.Height)),
		mode:  Full,
	}

	return d, nil
}

// NewHat creates a handler for the display wired to the default Raspberry Pi
// HAT pins.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	dc := rpi.P1_22
	cs := rpi.P1_24
	rst := rpi.P1_11
	busy := rpi.P1_18
	return New(p, dc, cs, rst, busy, opts)
}

// Init resets and initializes the display hardware. It must be called once
// after New and again after DeepSleep or any failed sequence before further
// updates are possible.
func (d *Dev) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.initLocked()
}

func (d *Dev) initLocked() error {
	d.initialized = false

	eh := errorHandler{d: d}
	d.pulseReset(&eh)
	initDisplay(&eh, d.opts)
	if eh.err != nil {
		return eh.err
	}

	d.initialized = true
	return nil
}

// Recover attempts to unwedge a stuck controller. It sends a deep sleep
// command first, ignoring the outcome since a wedged controller may not
// acknowledge it, then runs the full reset and init sequence. On failure the
// device stays uninitialized.
func (d *Dev) Recover() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	eh := errorHandler{d: d}
	deepSleep(&eh, d.opts)
	d.sleep(deepSleepSettle)

	return d.initLocked()
}

// Flush sends the framebuffer to the panel using the current update mode and
// blocks until the refresh completes or the update timeout expires. In
// Partial mode without a configured region the whole frame is refreshed with
// the partial waveform.
func (d *Dev) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flushLocked()
}

func (d *Dev) flushLocked() error {
	if !d.initialized {
		return ErrNotReady
	}

	eh := errorHandler{d: d}

	switch d.mode {
	case Full:
		fullUpdate(&eh, d.opts, d.fb.Pix)
	case Partial:
		r := d.region
		if !d.regionSet {
			r = Region{Width: d.opts.Width, Height: d.opts.Height}
		}
		if err := r.validate(d.opts.Width, d.opts.Height); err != nil {
			return err
		}
		if d.opts.Profile.ResetBeforePartial {
			d.pulseReset(&eh)
		}
		partialUpdate(&eh, d.opts, d.fb.Pix, r)
	case BaseMap:
		baseMapUpdate(&eh, d.opts, d.fb.Pix)
	default:
		return ErrInvalidMode
	}

	return eh.err
}

// SetMode changes the update strategy used by subsequent flushes. No
// hardware traffic happens. Switching to Full clears any configured partial
// region so a stale region cannot resurface on a later switch back to
// Partial.
func (d *Dev) SetMode(mode UpdateMode) error {
	switch mode {
	case Full, Partial, BaseMap:
	default:
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.mode = mode
	if mode == Full {
		d.region = Region{}
		d.regionSet = false
	}
	return nil
}

// Mode returns the current update mode.
func (d *Dev) Mode() UpdateMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// SetRegion configures the partial update region. No hardware traffic
// happens. An invalid region is rejected and the previously configured
// region stays in effect.
func (d *Dev) SetRegion(r Region) error {
	if err := r.validate(d.opts.Width, d.opts.Height); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.region = r
	d.regionSet = true
	return nil
}

// Region returns the configured partial update region. The second return
// value is false when no region is configured and partial flushes fall back
// to the full frame.
func (d *Dev) Region() (Region, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.region, d.regionSet
}

// DeepSleep puts the controller into its low-power mode. RAM contents are
// lost; Init is required before the next update.
func (d *Dev) DeepSleep() error {
	d.mu.Lock()
	if !d.initialized {
		d.mu.Unlock()
		return ErrNotReady
	}

	eh := errorHandler{d: d}
	deepSleep(&eh, d.opts)
	if eh.err == nil {
		d.initialized = false
	}
	d.mu.Unlock()

	if eh.err == nil {
		// Let the controller latch the sleep state before any further
		// bus activity.
		d.sleep(deepSleepSettle)
	}
	return eh.err
}

// Clear drives the panel to uniform white using a full refresh. The
// framebuffer contents are not modified.
func (d *Dev) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return ErrNotReady
	}

	eh := errorHandler{d: d}
	clearDisplay(&eh, d.opts)
	return eh.err
}

// Draw composes src into the framebuffer and flushes. It implements
// display.Drawer.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	draw.Src.Draw(d.fb, dstRect, src, srcPts)
	return d.flushLocked()
}

// Framebuffer returns the shared pixel store. The caller draws into it and
// then calls Flush; access is not synchronized against an in-flight flush.
func (d *Dev) Framebuffer() *Framebuffer {
	return d.fb
}

// Halt clears the panel and puts the controller to sleep.
func (d *Dev) Halt() error {
	if err := d.Clear(); err != nil {
		return err
	}
	return d.DeepSleep()
}

// Bounds returns the bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.fb.Bounds()
}

// ColorModel returns a 1 bit color model.
func (d *Dev) ColorModel() color.Model {
	return d.fb.ColorModel()
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("epd.Dev{%s, %s, Width: %d, Height: %d}", d.c, d.dc, d.opts.Width, d.opts.Height)
}

func (d *Dev) pulseReset(eh *errorHandler) {
	eh.rstOut(gpio.Low)
	d.sleep(resetDelay)
	eh.rstOut(gpio.High)
	d.sleep(resetDelay)
}

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}
