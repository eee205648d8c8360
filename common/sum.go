// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, the 8-bit additive checksum of AOSONG single-wire sensors.
package common

// Sum8 returns the low 8 bits of the arithmetic sum of bytes. It is the check
// value AOSONG DHT/AM23xx sensors append to their single-wire frames.
func Sum8(bytes []byte) byte {
	var sum byte
	for _, val := range bytes {
		sum += val
	}
	return sum
}
