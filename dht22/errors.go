// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht22

import (
	"errors"
	"fmt"
)

// Status is the outcome of the last operation run on a Dev.
type Status int

const (
	// StatusOK means the last operation succeeded.
	StatusOK Status = iota
	// StatusChecksumError means a frame was received but its check byte did
	// not match.
	StatusChecksumError
	// StatusPlatformError means a pin operation failed. See
	// Dev.LastPlatformError for the underlying error.
	StatusPlatformError
	// StatusNoProbe means no successful Probe preceded Decode.
	StatusNoProbe
	// StatusInvalidSensor means the Dev is nil or was closed.
	StatusInvalidSensor
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusChecksumError:
		return "ChecksumError"
	case StatusPlatformError:
		return "PlatformError"
	case StatusNoProbe:
		return "NoProbe"
	case StatusInvalidSensor:
		return "InvalidSensor"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

var (
	// ErrInvalidSensor is returned by every operation called on a nil or closed
	// Dev.
	ErrInvalidSensor = errors.New("dht22: invalid sensor")
	// ErrNotProbed is returned by Decode when no capture is pending.
	ErrNotProbed = errors.New("dht22: Probe was not called")
	// ErrNotInitialized is returned by Probe when Init was not called.
	ErrNotInitialized = errors.New("dht22: Init was not called")
)

// ChecksumError is returned when the check byte of a received frame does not
// match the sum of the four data bytes. It is not fatal, the next Probe may
// succeed.
type ChecksumError struct {
	Frame Frame
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("dht22: checksum mismatch: frame %s, expected 0x%02x", e.Frame, e.Frame.Checksum())
}

// PlatformError wraps an error returned by the GPIO pin.
type PlatformError struct {
	Op  string
	Err error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("dht22: %s: %v", e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}
