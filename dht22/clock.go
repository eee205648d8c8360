// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht22

import (
	"time"

	"periph.io/x/host/v3/cpu"
)

// Clock is the time source of a Dev.
type Clock interface {
	// Now returns a monotonic timestamp. Only differences are meaningful.
	Now() time.Duration
	// Delay busy waits for d. It is used for the microsecond holds of the
	// start signal, where being descheduled would stretch the pulse.
	Delay(d time.Duration)
	// Sleep yields for at least d.
	Sleep(d time.Duration)
}

// hostClock is the Clock used when Opts.Clock is nil.
type hostClock struct {
	epoch time.Time
}

func newHostClock() *hostClock {
	return &hostClock{epoch: time.Now()}
}

func (c *hostClock) Now() time.Duration {
	return time.Since(c.epoch)
}

func (c *hostClock) Delay(d time.Duration) {
	cpu.Nanospin(d)
}

func (c *hostClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
