// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package devices is a container for the DHT22 driver and its companions.
//
// See package dht22 for the driver, rpiopin for a register level GPIO backend
// and gauge for a terminal display of the readings.
package devices
