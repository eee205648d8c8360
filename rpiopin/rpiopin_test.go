// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rpiopin

import (
	"errors"
	"testing"

	"github.com/stianeikeland/go-rpio/v4"
	"periph.io/x/conn/v3/gpio"
)

func TestNew(t *testing.T) {
	for _, n := range []int{-1, numPins, 100} {
		if _, err := New(n); err == nil {
			t.Errorf("New(%d) accepted invalid pin", n)
		}
	}
	if _, err := New(4); !errors.Is(err, ErrNotOpen) {
		t.Errorf("New(4) before Open returned %v", err)
	}
}

func TestToPull(t *testing.T) {
	for _, tc := range []struct {
		in   gpio.Pull
		want rpio.Pull
	}{
		{gpio.Float, rpio.PullOff},
		{gpio.PullNoChange, rpio.PullOff},
		{gpio.PullDown, rpio.PullDown},
		{gpio.PullUp, rpio.PullUp},
	} {
		got, err := toPull(tc.in)
		if err != nil {
			t.Errorf("toPull(%s): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("toPull(%s) = %d, expected %d", tc.in, got, tc.want)
		}
	}
	if _, err := toPull(gpio.Pull(99)); err == nil {
		t.Error("toPull accepted invalid pull")
	}
}

func TestToEdge(t *testing.T) {
	for _, tc := range []struct {
		in   gpio.Edge
		want rpio.Edge
	}{
		{gpio.NoEdge, rpio.NoEdge},
		{gpio.RisingEdge, rpio.RiseEdge},
		{gpio.FallingEdge, rpio.FallEdge},
		{gpio.BothEdges, rpio.AnyEdge},
	} {
		got, err := toEdge(tc.in)
		if err != nil {
			t.Errorf("toEdge(%s): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("toEdge(%s) = %d, expected %d", tc.in, got, tc.want)
		}
	}
	if _, err := toEdge(gpio.Edge(99)); err == nil {
		t.Error("toEdge accepted invalid edge")
	}
}

func TestPin_noEdge(t *testing.T) {
	// Doesn't touch the registers.
	p := &Pin{n: 4}
	if p.WaitForEdge(0) {
		t.Error("WaitForEdge() without edge detection returned true")
	}
	if s := p.String(); s != "GPIO4" {
		t.Errorf("String() = %q", s)
	}
	if n := p.Number(); n != 4 {
		t.Errorf("Number() = %d", n)
	}
	if f := p.Function(); f != "In" {
		t.Errorf("Function() = %q", f)
	}
	if err := p.Halt(); err != nil {
		t.Error(err)
	}
	if err := p.PWM(gpio.DutyHalf, 0); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("PWM() returned %v", err)
	}
}
