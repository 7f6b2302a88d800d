// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

// Profile parameterizes the command data bytes that differ between
// controller revisions. The command opcodes themselves are shared across the
// family; revisions disagree on waveform selectors, border settings and
// whether a hardware reset is needed before each partial update.
type Profile struct {
	// DataEntry is the data entry mode for normal operation (X increment,
	// Y decrement).
	DataEntry byte
	// DataEntryClear is the data entry mode used while clearing the panel
	// (Y increment, matching a top-to-bottom scan).
	DataEntryClear byte

	// BorderFull is the border waveform for full refreshes.
	BorderFull byte
	// BorderPartial locks the border so partial refreshes do not flash it.
	BorderPartial byte

	// RefreshFull and RefreshPartial are the display update control 2
	// selectors for the two waveforms.
	RefreshFull    byte
	RefreshPartial byte

	// TempSensor selects the temperature compensation source.
	TempSensor byte

	// DeepSleep is the deep sleep mode byte. The default does not retain
	// RAM contents, so the display must be initialized again after waking.
	DeepSleep byte

	// ResetBeforePartial pulses the hardware reset line before every
	// partial update. Some panel/controller pairings drift towards a
	// darker background without it.
	ResetBeforePartial bool
}

// SSD1681 is the profile for the SSD1681 controller.
var SSD1681 = Profile{
	DataEntry:          0x01,
	DataEntryClear:     0x03,
	BorderFull:         0x05,
	BorderPartial:      0x80,
	RefreshFull:        0xF7,
	RefreshPartial:     0xFF,
	TempSensor:         0x80,
	DeepSleep:          0x01,
	ResetBeforePartial: true,
}
