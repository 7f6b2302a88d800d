// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// einkctl drives a single operation against an attached e-paper panel: set
// the update mode or partial region, trigger a refresh, clear the screen,
// recover a wedged controller or put it to sleep. It is the command line
// counterpart of the driver's control surface and is mostly useful for
// scripting and bring-up.
package main

import (
	"flag"
	"fmt"
	"os"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/pamir-ai-pkgs/eink-go/epd"
	"github.com/pamir-ai-pkgs/eink-go/internal/config"
	"github.com/pamir-ai-pkgs/eink-go/internal/log"
)

var (
	configPath = flag.String("config", "", "panel description YAML, empty for the stock 2.13\" HAT")
	mode       = flag.String("mode", "", "update mode to select: full, partial or base_map")
	region     = flag.String("region", "", "partial region as x,y,w,h with x and w multiples of 8")
	update     = flag.Bool("update", false, "flush the framebuffer to the panel")
	clear      = flag.Bool("clear", false, "drive the panel to uniform white")
	doRecover  = flag.Bool("recover", false, "recover a wedged controller before anything else")
	sleep      = flag.Bool("sleep", false, "put the controller into deep sleep when done")
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

	dev, err := attach(cfg)
	if err != nil {
		return err
	}

	if *doRecover {
		log.Info("recovering controller")
		if err := dev.Recover(); err != nil {
			return err
		}
	} else {
		if err := dev.Init(); err != nil {
			return err
		}
	}
	log.Debug("panel ready", "dev", dev.String())

	if *mode != "" {
		m, err := epd.ParseUpdateMode(*mode)
		if err != nil {
			return err
		}
		if err := dev.SetMode(m); err != nil {
			return err
		}
		log.Info("update mode set", "mode", m)
	}

	if *region != "" {
		r, err := epd.ParseRegion(*region)
		if err != nil {
			return err
		}
		if err := dev.SetRegion(r); err != nil {
			return err
		}
		log.Info("partial region set", "region", r)
	}

	if *clear {
		log.Info("clearing panel")
		if err := dev.Clear(); err != nil {
			return err
		}
	}

	if *update {
		log.Info("flushing", "mode", dev.Mode())
		if err := dev.Flush(); err != nil {
			return err
		}
	}

	if *sleep {
		log.Info("entering deep sleep")
		if err := dev.DeepSleep(); err != nil {
			return err
		}
	}

	return nil
}

// attach opens the SPI port and GPIO lines named by the configuration and
// hands them to the driver.
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
		fmt.Fprintf(os.Stderr, "einkctl: %s.\n", err)
		os.Exit(1)
	}
}
