// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht22

import "time"

const (
	// handshakePulses are the ready and response pulses preceding the data.
	handshakePulses = 2
	frameBits       = 8 * frameLen
)

// decodeFrame packs the pulse widths into a frame, most significant bit first.
// A pulse wider than threshold is a 1. The first handshakePulses and the last
// pulse are skipped. Bits missing from a short capture are left at 0.
//
// It returns the frame and the number of bits that were actually decoded.
func decodeFrame(widths []time.Duration, threshold time.Duration) (Frame, int) {
	var f Frame
	bit := 0
	for i := handshakePulses; i < len(widths)-1 && bit < frameBits; i++ {
		if widths[i] > threshold {
			f[bit/8] |= 0x80 >> (bit % 8)
		}
		bit++
	}
	return f, bit
}
