// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"bytes"
	"time"
)

// Commands
const (
	driverOutputControl            byte = 0x01
	deepSleepMode                  byte = 0x10
	dataEntryModeSetting           byte = 0x11
	swReset                        byte = 0x12
	tempSensorSelect               byte = 0x18
	masterActivation               byte = 0x20
	displayUpdateControl1          byte = 0x21
	displayUpdateControl2          byte = 0x22
	writeRAMBW                     byte = 0x24
	writeRAMRed                    byte = 0x26
	borderWaveformControl          byte = 0x3C
	setRAMXAddressStartEndPosition byte = 0x44
	setRAMYAddressStartEndPosition byte = 0x45
	setRAMXAddressCounter          byte = 0x4E
	setRAMYAddressCounter          byte = 0x4F
)

type controller interface {
	sendCommand(byte)
	sendData([]byte)
	sendByte(byte)
	waitBusy(time.Duration)
}

// setRAMWindow programs the addressable RAM window and resets both address
// counters to its origin. X coordinates are converted to byte columns. The
// controller auto-increments its internal pointer during the following data
// burst, so the window must be reprogrammed before every RAM write and the
// bounds/counter order is fixed.
func setRAMWindow(ctrl controller, xStart, yStart, xEnd, yEnd int) {
	ctrl.sendCommand(setRAMXAddressStartEndPosition)
	ctrl.sendData([]byte{
		byte((xStart / 8) & 0xFF),
		byte((xEnd / 8) & 0xFF),
	})

	ctrl.sendCommand(setRAMYAddressStartEndPosition)
	ctrl.sendData([]byte{
		byte(yStart & 0xFF),
		byte((yStart >> 8) & 0xFF),
		byte(yEnd & 0xFF),
		byte((yEnd >> 8) & 0xFF),
	})

	ctrl.sendCommand(setRAMXAddressCounter)
	ctrl.sendByte(byte((xStart / 8) & 0xFF))

	ctrl.sendCommand(setRAMYAddressCounter)
	ctrl.sendData([]byte{
		byte(yStart & 0xFF),
		byte((yStart >> 8) & 0xFF),
	})
}

// initDisplay issues the command sequence bringing the controller into a
// known operating state. The hardware reset pulse preceding it is driven by
// Dev since it is a GPIO operation, not command traffic.
func initDisplay(ctrl controller, opts *Opts) {
	ctrl.waitBusy(opts.InitTimeout)
	ctrl.sendCommand(swReset)
	ctrl.waitBusy(opts.InitTimeout)

	ctrl.sendCommand(driverOutputControl)
	ctrl.sendData([]byte{
		byte((opts.Height - 1) & 0xFF),
		byte(((opts.Height - 1) >> 8) & 0xFF),
		0x00,
	})

	ctrl.sendCommand(dataEntryModeSetting)
	ctrl.sendByte(opts.Profile.DataEntry)

	ctrl.sendCommand(setRAMXAddressStartEndPosition)
	ctrl.sendData([]byte{0x00, byte(opts.bytesPerLine() - 1)})

	ctrl.sendCommand(setRAMYAddressStartEndPosition)
	ctrl.sendData([]byte{
		byte((opts.Height - 1) & 0xFF),
		byte(((opts.Height - 1) >> 8) & 0xFF),
		0x00,
		0x00,
	})

	ctrl.sendCommand(borderWaveformControl)
	ctrl.sendByte(opts.Profile.BorderFull)

	ctrl.sendCommand(displayUpdateControl1)
	ctrl.sendData([]byte{0x00, 0x80})

	ctrl.sendCommand(tempSensorSelect)
	ctrl.sendByte(opts.Profile.TempSensor)

	ctrl.sendCommand(setRAMXAddressCounter)
	ctrl.sendByte(0x00)

	ctrl.sendCommand(setRAMYAddressCounter)
	ctrl.sendData([]byte{
		byte((opts.Height - 1) & 0xFF),
		byte(((opts.Height - 1) >> 8) & 0xFF),
	})

	ctrl.waitBusy(opts.InitTimeout)
}

// fullUpdate refreshes the whole panel. The buffer goes into both RAM banks:
// the secondary bank would otherwise hold stale data that the differential
// waveform turns into a residual image.
func fullUpdate(ctrl controller, opts *Opts, pix []byte) {
	setRAMWindow(ctrl, 0, opts.Height-1, opts.Width-1, 0)

	ctrl.sendCommand(writeRAMBW)
	ctrl.sendData(pix)

	ctrl.sendCommand(writeRAMRed)
	ctrl.sendData(pix)

	ctrl.sendCommand(borderWaveformControl)
	ctrl.sendByte(opts.Profile.BorderFull)

	ctrl.sendCommand(displayUpdateControl2)
	ctrl.sendByte(opts.Profile.RefreshFull)

	ctrl.sendCommand(masterActivation)
	ctrl.waitBusy(opts.UpdateTimeout)
}

// partialUpdate refreshes only r. Each row sends exactly width/8 bytes from
// the row's slice of the buffer; anything more would auto-increment past the
// window edge into adjacent columns.
func partialUpdate(ctrl controller, opts *Opts, pix []byte, r Region) {
	ctrl.sendCommand(borderWaveformControl)
	ctrl.sendByte(opts.Profile.BorderPartial)

	setRAMWindow(ctrl, r.X, r.Y+r.Height-1, r.X+r.Width-1, r.Y)

	ctrl.sendCommand(writeRAMBW)

	rowBytes := r.Width / 8
	for y := r.Y; y < r.Y+r.Height; y++ {
		offset := y*opts.bytesPerLine() + r.X/8
		ctrl.sendData(pix[offset : offset+rowBytes])
	}

	ctrl.sendCommand(displayUpdateControl2)
	ctrl.sendByte(opts.Profile.RefreshPartial)

	ctrl.sendCommand(masterActivation)
	ctrl.waitBusy(opts.UpdateTimeout)
}

// baseMapUpdate writes the buffer into both RAM banks as foreground data and
// refreshes with the full waveform, so later partial updates compute their
// deltas against this image.
func baseMapUpdate(ctrl controller, opts *Opts, pix []byte) {
	ctrl.sendCommand(writeRAMBW)
	ctrl.sendData(pix)

	ctrl.sendCommand(writeRAMRed)
	ctrl.sendData(pix)

	ctrl.sendCommand(displayUpdateControl2)
	ctrl.sendByte(opts.Profile.RefreshFull)

	ctrl.sendCommand(masterActivation)
	ctrl.waitBusy(opts.UpdateTimeout)
}

// clearDisplay drives the panel to uniform white. The data entry direction
// is flipped to Y increment for a clean top-to-bottom fill and restored
// afterwards, together with the full-frame window.
func clearDisplay(ctrl controller, opts *Opts) {
	ctrl.sendCommand(dataEntryModeSetting)
	ctrl.sendByte(opts.Profile.DataEntryClear)

	setRAMWindow(ctrl, 0, 0, opts.Width-1, opts.Height-1)

	blank := bytes.Repeat([]byte{0xFF}, opts.screenSize())

	ctrl.sendCommand(writeRAMBW)
	ctrl.sendData(blank)

	ctrl.sendCommand(writeRAMRed)
	ctrl.sendData(blank)

	ctrl.sendCommand(borderWaveformControl)
	ctrl.sendByte(opts.Profile.BorderFull)

	ctrl.sendCommand(displayUpdateControl2)
	ctrl.sendByte(opts.Profile.RefreshFull)

	ctrl.sendCommand(masterActivation)
	ctrl.waitBusy(opts.UpdateTimeout)

	ctrl.sendCommand(dataEntryModeSetting)
	ctrl.sendByte(opts.Profile.DataEntry)

	setRAMWindow(ctrl, 0, opts.Height-1, opts.Width-1, 0)
}

// deepSleep sends the deep sleep command. RAM contents are lost; only a
// hardware reset followed by initDisplay wakes the controller up again.
func deepSleep(ctrl controller, opts *Opts) {
	ctrl.sendCommand(deepSleepMode)
	ctrl.sendByte(opts.Profile.DeepSleep)
}
