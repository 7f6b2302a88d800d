// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package eink is a container for the e-paper display driver and its
// tooling.
//
// The driver itself lives in package epd. Package epdterm emulates a panel
// on the terminal, and the commands under cmd/ provide scripting and demo
// front ends.
package eink
