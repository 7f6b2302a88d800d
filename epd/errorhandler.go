// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// busyPollInterval is how often the busy line is sampled while waiting.
const busyPollInterval = 5 * time.Millisecond

// errorHandler is a wrapper for error management. The first error wins and
// turns every later call into a no-op, so a multi-step command sequence can
// be written without checking each transfer individually.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil || eh.d.rst == nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.dc.Out(l)
}

func (eh *errorHandler) csOut(l gpio.Level) {
	if eh.err != nil || eh.d.cs == nil {
		return
	}
	eh.err = eh.d.cs.Out(l)
}

func (eh *errorHandler) cTx(w []byte, r []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.c.Tx(w, r)
}

func (eh *errorHandler) sendCommand(cmd byte) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.Low)
	eh.csOut(gpio.Low)
	eh.cTx([]byte{cmd}, nil)
	eh.csOut(gpio.High)
}

func (eh *errorHandler) sendData(data []byte) {
	if eh.err != nil || len(data) == 0 {
		return
	}

	eh.dcOut(gpio.High)
	eh.csOut(gpio.Low)
	eh.cTx(data, nil)
	eh.csOut(gpio.High)
}

func (eh *errorHandler) sendByte(b byte) {
	eh.sendData([]byte{b})
}

// waitBusy blocks until the busy line deasserts or the timeout elapses.
// Without a wired busy line it returns immediately, trusting the datasheet
// timings. The calling goroutine is suspended between polls.
func (eh *errorHandler) waitBusy(timeout time.Duration) {
	if eh.err != nil || eh.d.busy == nil {
		return
	}

	for elapsed := time.Duration(0); elapsed < timeout; elapsed += busyPollInterval {
		if eh.d.busy.Read() == gpio.Low {
			return
		}
		eh.d.sleep(busyPollInterval)
	}

	eh.err = fmt.Errorf("%w after %s", ErrBusyTimeout, timeout)
}
