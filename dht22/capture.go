// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht22

import (
	"time"

	"go.uber.org/atomic"
	"periph.io/x/conn/v3/gpio"
)

// maxPulses is the number of high pulses seen during one transmission: the
// ready and response pulses of the handshake, 40 data bits and the idle level
// the sensor leaves the line in.
const maxPulses = 43

// capture records the width of high pulses on the line.
//
// edge runs in the edge context. It doesn't block or allocate. start and
// level belong to whichever side currently owns the capture: the watcher while
// it is armed, the caller of Probe otherwise. The handoff happens through the
// arm and idle channels of Dev. Only n and open are shared while armed.
type capture struct {
	pulses [maxPulses]time.Duration
	n      atomic.Uint32
	open   atomic.Bool
	start  time.Duration
	level  gpio.Level
}

// reset drops every recorded pulse and starts accepting edges with the line
// at level l.
func (c *capture) reset(l gpio.Level, now time.Duration) {
	c.n.Store(0)
	c.start = now
	c.level = l
	c.open.Store(true)
}

// edge processes the level l sampled at now. It returns false once the
// capture stopped accepting pulses. The level is tracked either way.
func (c *capture) edge(l gpio.Level, now time.Duration) bool {
	prev := c.level
	c.level = l
	if !c.open.Load() {
		return false
	}
	switch {
	case prev == gpio.Low && l == gpio.High:
		c.start = now
	case prev == gpio.High && l == gpio.Low:
		i := c.n.Load()
		if i >= maxPulses {
			c.open.Store(false)
			return false
		}
		c.pulses[i] = now - c.start
		c.n.Store(i + 1)
	}
	return true
}

// seal terminates a pulse still high at now and stops accepting edges. It
// must only be called once the watcher is idle.
func (c *capture) seal(now time.Duration) {
	if c.level == gpio.High {
		c.edge(gpio.Low, now)
	}
	c.open.Store(false)
}

// widths returns the recorded pulses. The slice aliases the buffer, it is
// only valid until the next reset.
func (c *capture) widths() []time.Duration {
	return c.pulses[:c.n.Load()]
}

// clear marks the buffer as consumed.
func (c *capture) clear() {
	c.open.Store(false)
	c.n.Store(0)
}
