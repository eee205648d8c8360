// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dht22 controls an AOSONG DHT22 (AM2302) temperature and humidity
// sensor attached to a single GPIO line.
//
// The sensor talks a proprietary single-wire protocol. The host pulls the line
// low for about 1ms, releases it, and the sensor answers with 40 bits encoded
// as the width of high pulses: roughly 26-28µs for a 0 and 70µs for a 1.
//
// The driver measures those widths from edge events. A goroutine per Dev
// blocks in gpio.PinIn.WaitForEdge and timestamps every transition into a
// fixed size buffer, the same job an interrupt handler does on a
// microcontroller. Probe runs the start sequence and waits for the
// transmission window, Decode turns the captured widths into a Frame.
//
// The pin must support gpio.BothEdges. On Linux that is the case for the
// gpioioctl and sysfs drivers of periph.io/x/host; the rpiopin package
// provides an alternative backend based on the BCM283x event detect registers.
//
// Temperatures below 0°C are not decoded: the sign bit of the temperature
// integer byte is reported as part of the value.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/Sensors/Temperature/DHT22.pdf
package dht22
