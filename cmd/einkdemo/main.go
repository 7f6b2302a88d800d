// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// einkdemo renders test patterns to an e-paper panel, or to the terminal
// with -preview. The clock pattern exercises partial updates: the dial is
// drawn once with a full refresh and the time then ticks inside a partial
// region without flashing the rest of the panel.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/pamir-ai-pkgs/eink-go/epd"
	"github.com/pamir-ai-pkgs/eink-go/epdterm"
	"github.com/pamir-ai-pkgs/eink-go/internal/config"
	"github.com/pamir-ai-pkgs/eink-go/internal/log"
)

var (
	configPath = flag.String("config", "", "panel description YAML, empty for the stock 2.13\" HAT")
	pattern    = flag.String("pattern", "checkerboard", "pattern to render: checkerboard, stripes, text or clock")
	preview    = flag.Bool("preview", false, "render to the terminal instead of the panel")
	ticks      = flag.Int("ticks", 30, "number of partial clock updates before exiting")
	verbose    = flag.Bool("v", false, "debug logging")
)

func mainImpl() error {
	flag.Parse()
	if flag.NArg() != 0 {
		return fmt.Errorf("unexpected argument: %s", flag.Arg(0))
	}
	if *verbose {
		log.SetLevel(log.LevelDebug)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	var drawer display.Drawer
	var dev *epd.Dev
	if *preview {
		drawer = epdterm.New(&epdterm.Opts{Width: cfg.Width, Height: cfg.Height})
	} else {
		dev, err = attach(cfg)
		if err != nil {
			return err
		}
		if err := dev.Init(); err != nil {
			return err
		}
		defer func() {
			if err := dev.DeepSleep(); err != nil {
				log.Error("deep sleep failed", err)
			}
		}()
		drawer = dev
	}

	bounds := drawer.Bounds()
	log.Info("rendering", "pattern", *pattern, "size", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()))

	switch *pattern {
	case "checkerboard":
		return draw(drawer, checkerboard(bounds, 8))
	case "stripes":
		return draw(drawer, stripes(bounds, 8))
	case "text":
		img, err := text(bounds, "Hello e-paper")
		if err != nil {
			return err
		}
		return draw(drawer, img)
	case "clock":
		return clock(drawer, dev)
	default:
		return fmt.Errorf("unknown pattern %q", *pattern)
	}
}

func draw(d display.Drawer, img image.Image) error {
	return d.Draw(d.Bounds(), img, image.Point{})
}

// checkerboard fills the frame with alternating cell-sized squares.
func checkerboard(bounds image.Rectangle, cell int) image.Image {
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	for y := 0; y < bounds.Dy(); y += cell {
		for x := 0; x < bounds.Dx(); x += cell {
			if (x/cell+y/cell)%2 == 0 {
				dc.DrawRectangle(float64(x), float64(y), float64(cell), float64(cell))
			}
		}
	}
	dc.Fill()
	return dc.Image()
}

// stripes fills the frame with horizontal bars.
func stripes(bounds image.Rectangle, h int) image.Image {
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	for y := 0; y < bounds.Dy(); y += 2 * h {
		dc.DrawRectangle(0, float64(y), float64(bounds.Dx()), float64(h))
	}
	dc.Fill()
	return dc.Image()
}

// text renders a centered string in a rounded frame.
func text(bounds image.Rectangle, s string) (image.Image, error) {
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: 16}))

	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	dc.DrawRoundedRectangle(4, 4, w-8, h-8, 10)
	dc.Stroke()
	dc.DrawStringAnchored(s, w/2, h/2, 0.5, 0.5)
	return dc.Image(), nil
}

// clock draws the static dial with a full refresh, then ticks the time text
// inside a partial region once per second. Without a real panel the partial
// machinery has nothing to show, so -preview just redraws everything.
func clock(drawer display.Drawer, dev *epd.Dev) error {
	bounds := drawer.Bounds()
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return err
	}
	face := truetype.NewFace(f, &truetype.Options{Size: 24})

	// The time text lives in a byte-aligned band across the middle.
	rw := bounds.Dx() / 8 * 8
	region := epd.Region{X: 0, Y: bounds.Dy()/2 - 16, Width: rw, Height: 32}

	render := func(now time.Time) image.Image {
		dc := gg.NewContext(bounds.Dx(), bounds.Dy())
		dc.SetRGB(1, 1, 1)
		dc.Clear()
		dc.SetRGB(0, 0, 0)
		dc.DrawRectangle(2, 2, float64(bounds.Dx()-4), float64(bounds.Dy()-4))
		dc.Stroke()
		dc.SetFontFace(face)
		dc.DrawStringAnchored(now.Format("15:04:05"), float64(bounds.Dx())/2, float64(bounds.Dy())/2, 0.5, 0.5)
		return dc.Image()
	}

	if dev == nil {
		// Preview path.
		for i := 0; i < *ticks; i++ {
			if err := draw(drawer, render(time.Now())); err != nil {
				return err
			}
			time.Sleep(time.Second)
		}
		return nil
	}

	// Prime the base map so partial updates diff against the dial.
	if err := dev.SetMode(epd.BaseMap); err != nil {
		return err
	}
	if err := draw(dev, render(time.Now())); err != nil {
		return err
	}

	if err := dev.SetMode(epd.Partial); err != nil {
		return err
	}
	if err := dev.SetRegion(region); err != nil {
		return err
	}
	for i := 0; i < *ticks; i++ {
		time.Sleep(time.Second)
		if err := draw(dev, render(time.Now())); err != nil {
			return err
		}
	}
	return dev.SetMode(epd.Full)
}

// attach opens the SPI port and GPIO lines named by the configuration.
func attach(cfg *config.Config) (*epd.Dev, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	p, err := spireg.Open(cfg.SPI)
	if err != nil {
		return nil, err
	}
	dc := gpioreg.ByName(cfg.Pins.DC)
	if dc == nil {
		return nil, fmt.Errorf("dc pin %s not found", cfg.Pins.DC)
	}
	cs, err := optionalPin(cfg.Pins.CS)
	if err != nil {
		return nil, err
	}
	rst, err := optionalPin(cfg.Pins.Reset)
	if err != nil {
		return nil, err
	}
	busy, err := optionalPin(cfg.Pins.Busy)
	if err != nil {
		return nil, err
	}

	profile := epd.SSD1681
	profile.ResetBeforePartial = *cfg.ResetBeforePartial
	opts := &epd.Opts{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Profile:       &profile,
		Speed:         physic.Frequency(cfg.SpeedHz) * physic.Hertz,
		InitTimeout:   cfg.InitTimeout.Std(),
		UpdateTimeout: cfg.UpdateTimeout.Std(),
	}
	return epd.New(p, dc, cs, rst, busy, opts)
}

// optionalPin resolves a pin name, treating the empty string as an unwired
// line instead of an error.
func optionalPin(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("pin %s not found", name)
	}
	return p, nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "einkdemo: %s.\n", err)
		os.Exit(1)
	}
}
