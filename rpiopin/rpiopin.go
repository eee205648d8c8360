// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rpiopin exposes a Raspberry Pi BCM283x GPIO line as a gpio.PinIO by
// driving the memory mapped GPIO registers directly.
//
// Edge detection relies on the GPEDS event detect registers, which latch an
// edge even if nobody is polling at that moment. That makes it usable for
// protocols like the DHT22 one when the kernel GPIO drivers are too slow to
// report every edge.
//
// Call Open before creating pins and Close when done.
package rpiopin

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/stianeikeland/go-rpio/v4"
	"go.uber.org/atomic"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3/cpu"
)

// numPins is the number of GPIO lines of the BCM283x.
const numPins = 54

// pollInterval is the spin between two reads of the event detect register.
const pollInterval = 2 * time.Microsecond

var (
	ErrNotImplemented = errors.New("rpiopin: not implemented")
	ErrNotOpen        = errors.New("rpiopin: Open was not called")
)

var opened atomic.Bool

// Open maps the GPIO registers in memory.
func Open() error {
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("rpiopin: %w", err)
	}
	opened.Store(true)
	return nil
}

// Close unmaps the GPIO registers. Pins must not be used afterwards.
func Close() error {
	opened.Store(false)
	return rpio.Close()
}

// Pin is a BCM GPIO line.
type Pin struct {
	n rpio.Pin

	mu   sync.Mutex
	pull gpio.Pull
	edge gpio.Edge
	out  bool
}

// New returns the GPIO line with the BCM number.
func New(number int) (*Pin, error) {
	if number < 0 || number >= numPins {
		return nil, fmt.Errorf("rpiopin: invalid pin number %d", number)
	}
	if !opened.Load() {
		return nil, ErrNotOpen
	}
	return &Pin{n: rpio.Pin(number), pull: gpio.PullNoChange}, nil
}

func (p *Pin) String() string {
	return p.Name()
}

// Halt disables edge detection.
func (p *Pin) Halt() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.edge != gpio.NoEdge {
		p.n.Detect(rpio.NoEdge)
		p.edge = gpio.NoEdge
	}
	return nil
}

// Name returns the name of the GPIO pin.
func (p *Pin) Name() string {
	return fmt.Sprintf("GPIO%d", p.n)
}

// Number returns the BCM number of the GPIO pin.
func (p *Pin) Number() int {
	return int(p.n)
}

// Deprecated: returns "In" or "Out"
func (p *Pin) Function() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out {
		return "Out"
	}
	return "In"
}

// In configures the pin as an input. The edge detection state is cleared.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	rp, err := toPull(pull)
	if err != nil {
		return err
	}
	re, err := toEdge(edge)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n.Input()
	if pull != gpio.PullNoChange {
		p.n.Pull(rp)
		p.pull = pull
	}
	p.n.Detect(re)
	p.edge = edge
	p.out = false
	return nil
}

// Read returns the current level.
func (p *Pin) Read() gpio.Level {
	return p.n.Read() == rpio.High
}

// WaitForEdge spins until an edge is latched or timeout expires. A negative
// timeout waits forever.
func (p *Pin) WaitForEdge(timeout time.Duration) bool {
	p.mu.Lock()
	edge := p.edge
	p.mu.Unlock()
	if edge == gpio.NoEdge {
		return false
	}
	start := time.Now()
	for !p.n.EdgeDetected() {
		if timeout >= 0 && time.Since(start) >= timeout {
			return false
		}
		cpu.Nanospin(pollInterval)
	}
	return true
}

// Pull returns the last pull set by In.
func (p *Pin) Pull() gpio.Pull {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pull
}

// DefaultPull is unknown, it depends on the line.
func (p *Pin) DefaultPull() gpio.Pull {
	return gpio.PullNoChange
}

// Out disables edge detection and drives l.
func (p *Pin) Out(l gpio.Level) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.edge != gpio.NoEdge {
		p.n.Detect(rpio.NoEdge)
		p.edge = gpio.NoEdge
	}
	if l {
		p.n.High()
	} else {
		p.n.Low()
	}
	p.n.Output()
	p.out = true
	return nil
}

// Not implemented.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return ErrNotImplemented
}

func toPull(pull gpio.Pull) (rpio.Pull, error) {
	switch pull {
	case gpio.Float, gpio.PullNoChange:
		return rpio.PullOff, nil
	case gpio.PullDown:
		return rpio.PullDown, nil
	case gpio.PullUp:
		return rpio.PullUp, nil
	default:
		return rpio.PullOff, fmt.Errorf("rpiopin: unsupported pull %s", pull)
	}
}

func toEdge(edge gpio.Edge) (rpio.Edge, error) {
	switch edge {
	case gpio.NoEdge:
		return rpio.NoEdge, nil
	case gpio.RisingEdge:
		return rpio.RiseEdge, nil
	case gpio.FallingEdge:
		return rpio.FallEdge, nil
	case gpio.BothEdges:
		return rpio.AnyEdge, nil
	default:
		return rpio.NoEdge, fmt.Errorf("rpiopin: unsupported edge %s", edge)
	}
}

var _ gpio.PinIO = &Pin{}
