// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epd controls monochrome SPI e-paper panels driven by SSD1681-class
// controllers.
//
// The device exposes a 1 bit per pixel framebuffer and three update
// strategies: a full refresh that rewrites the whole panel with the
// high-quality flashing waveform, a fast partial refresh restricted to a
// byte-aligned rectangular region, and a base-map update that primes both of
// the controller's RAM banks with the same reference image so that later
// partial updates accumulate less ghosting.
//
// Datasheet
//
// https://www.solomon-systech.com/product/ssd1681/
package epd
