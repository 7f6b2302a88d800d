// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eink.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
width: 200
height: 200
spi: SPI0.0
speed_hz: 2000000
pins:
  dc: GPIO22
  busy: GPIO18
init_timeout: 1s
update_timeout: 5s
reset_before_partial: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Width != 200 || cfg.Height != 200 {
		t.Errorf("geometry = %dx%d, want 200x200", cfg.Width, cfg.Height)
	}
	if cfg.SPI != "SPI0.0" {
		t.Errorf("SPI = %q, want SPI0.0", cfg.SPI)
	}
	if cfg.SpeedHz != 2000000 {
		t.Errorf("SpeedHz = %d, want 2000000", cfg.SpeedHz)
	}

	if cfg.InitTimeout.Std() != time.Second {
		t.Errorf("InitTimeout = %s, want 1s", cfg.InitTimeout.Std())
	}
	if cfg.UpdateTimeout.Std() != 5*time.Second {
		t.Errorf("UpdateTimeout = %s, want 5s", cfg.UpdateTimeout.Std())
	}

	// Explicit pins are kept, missing ones get the stock wiring.
	want := Pins{DC: "GPIO22", CS: "GPIO8", Reset: "GPIO17", Busy: "GPIO18"}
	if diff := cmp.Diff(cfg.Pins, want); diff != "" {
		t.Errorf("Pins difference (-got +want):\n%s", diff)
	}

	if cfg.ResetBeforePartial == nil || *cfg.ResetBeforePartial {
		t.Error("ResetBeforePartial = true, want explicit false to stick")
	}
}

func TestLoadMissingGeometry(t *testing.T) {
	for _, content := range []string{
		"spi: SPI0.0\n",
		"width: 128\n",
		"height: 250\n",
		"width: -128\nheight: 250\n",
	} {
		if _, err := Load(writeConfig(t, content)); err == nil {
			t.Errorf("Load() of %q succeeded, want error", content)
		}
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if diff := cmp.Diff(cfg, Default()); diff != "" {
		t.Errorf("Load(\"\") difference (-got +want):\n%s", diff)
	}
}

func TestLoadBadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "width: [not a number\n")); err == nil {
		t.Error("Load() of malformed YAML succeeded, want error")
	}
}
