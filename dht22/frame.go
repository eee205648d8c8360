// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht22

import (
	"fmt"

	"github.com/GermanBionicSystems/dht22/common"
	"periph.io/x/conn/v3/physic"
)

const (
	tempInt = iota
	tempDec
	humInt
	humDec
	checksum

	frameLen
)

// Frame is the 5 byte payload sent by the sensor: temperature integer,
// temperature decimal, humidity integer, humidity decimal and check byte.
type Frame [frameLen]byte

// Checksum returns the check byte computed from the four data bytes.
func (f Frame) Checksum() byte {
	return common.Sum8(f[:checksum])
}

// Valid returns true if the received check byte matches Checksum.
//
// An all zero frame is valid.
func (f Frame) Valid() bool {
	return f.Checksum() == f[checksum]
}

// Temperature returns the temperature in °C.
//
// The high bit of the integer byte is not treated as a sign.
func (f Frame) Temperature() float64 {
	return float64(f[tempInt]) + float64(f[tempDec])/10
}

// Humidity returns the relative humidity in %.
func (f Frame) Humidity() float64 {
	return float64(f[humInt]) + float64(f[humDec])/10
}

// Env writes the frame values into e in periph units. Pressure is always 0.
func (f Frame) Env(e *physic.Env) {
	e.Temperature = physic.ZeroCelsius +
		physic.Temperature(f[tempInt])*physic.Celsius +
		physic.Temperature(f[tempDec])*(physic.Celsius/10)
	e.Humidity = physic.RelativeHumidity(f[humInt])*physic.PercentRH +
		physic.RelativeHumidity(f[humDec])*(physic.PercentRH/10)
	e.Pressure = 0
}

func (f Frame) String() string {
	return fmt.Sprintf("[%d %d %d %d %d]", f[tempInt], f[tempDec], f[humInt], f[humDec], f[checksum])
}
