// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht22

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"periph.io/x/conn/v3/physic"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFrame(t *testing.T) {
	for _, tc := range []struct {
		f     Frame
		valid bool
		temp  float64
		hum   float64
	}{
		{f: Frame{21, 5, 39, 20, 85}, valid: true, temp: 21.5, hum: 41},
		{f: Frame{21, 5, 39, 2, 67}, valid: true, temp: 21.5, hum: 39.2},
		{f: Frame{21, 5, 39, 20, 84}, valid: false, temp: 21.5, hum: 41},
		{f: Frame{0, 0, 0, 0, 0}, valid: true, temp: 0, hum: 0},
		{f: Frame{200, 9, 100, 0, 53}, valid: true, temp: 200.9, hum: 100},
	} {
		if v := tc.f.Valid(); v != tc.valid {
			t.Errorf("%s: Valid() = %t", tc.f, v)
		}
		if v := tc.f.Temperature(); !almostEqual(v, tc.temp) {
			t.Errorf("%s: Temperature() = %g, expected %g", tc.f, v, tc.temp)
		}
		if v := tc.f.Humidity(); !almostEqual(v, tc.hum) {
			t.Errorf("%s: Humidity() = %g, expected %g", tc.f, v, tc.hum)
		}
	}
}

func TestFrame_Env(t *testing.T) {
	var e physic.Env
	e.Pressure = physic.Pascal
	Frame{21, 5, 39, 2, 67}.Env(&e)
	if want := physic.ZeroCelsius + 21*physic.Celsius + physic.Celsius/2; e.Temperature != want {
		t.Errorf("temperature %s(%d) != %s(%d)", e.Temperature, e.Temperature, want, want)
	}
	if want := 39*physic.PercentRH + 2*physic.PercentRH/10; e.Humidity != want {
		t.Errorf("humidity %s(%d) != %s(%d)", e.Humidity, e.Humidity, want, want)
	}
	if e.Pressure != 0 {
		t.Errorf("pressure %s", e.Pressure)
	}
}

func TestFrame_String(t *testing.T) {
	if s := (Frame{21, 5, 39, 20, 85}).String(); s != "[21 5 39 20 85]" {
		t.Errorf("String() = %q", s)
	}
}

func TestValidate(t *testing.T) {
	d := &Dev{}
	if err := d.validate(Frame{21, 5, 39, 20, 85}); err != nil {
		t.Fatal(err)
	}
	if d.status != StatusOK || !almostEqual(d.temperature, 21.5) || !almostEqual(d.humidity, 41) {
		t.Errorf("status %s temperature %g humidity %g", d.status, d.temperature, d.humidity)
	}

	err := d.validate(Frame{21, 5, 39, 20, 84})
	var cerr *ChecksumError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ChecksumError, got %v", err)
	}
	if cerr.Frame != (Frame{21, 5, 39, 20, 84}) {
		t.Errorf("ChecksumError frame %s", cerr.Frame)
	}
	if d.status != StatusChecksumError || d.temperature != 0 || d.humidity != 0 {
		t.Errorf("status %s temperature %g humidity %g", d.status, d.temperature, d.humidity)
	}
	if d.frame != (Frame{}) {
		t.Errorf("frame %s was not zeroed", d.frame)
	}
}

func TestValidate_random(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	d := &Dev{}
	for range 1000 {
		var f Frame
		r.Read(f[:])
		sum := byte(int(f[0]) + int(f[1]) + int(f[2]) + int(f[3]))

		f[checksum] = sum
		if err := d.validate(f); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if !almostEqual(d.temperature, float64(f[0])+float64(f[1])/10) ||
			!almostEqual(d.humidity, float64(f[2])+float64(f[3])/10) {
			t.Fatalf("%s: temperature %g humidity %g", f, d.temperature, d.humidity)
		}

		f[checksum] = sum + byte(1+r.Intn(255))
		if err := d.validate(f); err == nil {
			t.Fatalf("%s: accepted", f)
		}
		if d.status != StatusChecksumError || d.temperature != 0 || d.humidity != 0 {
			t.Fatalf("%s: status %s temperature %g humidity %g", f, d.status, d.temperature, d.humidity)
		}
	}
}

func TestStatus_String(t *testing.T) {
	for s, want := range map[Status]string{
		StatusOK:            "OK",
		StatusChecksumError: "ChecksumError",
		StatusPlatformError: "PlatformError",
		StatusNoProbe:       "NoProbe",
		StatusInvalidSensor: "InvalidSensor",
		Status(42):          "Status(42)",
	} {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, expected %q", int(s), got, want)
		}
	}
}
