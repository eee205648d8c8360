// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// dht22 polls a DHT22 sensor and prints its readings.
//
// Flags default to the DHT22_* environment variables, which are also loaded
// from a .env file in the working directory when present.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/dht22/dht22"
	"github.com/GermanBionicSystems/dht22/gauge"
	"github.com/GermanBionicSystems/dht22/rpiopin"
	"github.com/joho/godotenv"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

type config struct {
	pin      string
	backend  string
	interval time.Duration
	window   time.Duration
	debug    bool
	gauge    bool
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getenvBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

func parseConfig() config {
	// A missing .env is fine.
	_ = godotenv.Load()

	var cfg config
	flag.StringVar(&cfg.pin, "pin", getenv("DHT22_PIN", "GPIO4"), "pin name (periph) or BCM number (rpio)")
	flag.StringVar(&cfg.backend, "backend", getenv("DHT22_BACKEND", "periph"), "GPIO backend: periph or rpio")
	flag.DurationVar(&cfg.interval, "interval", getenvDuration("DHT22_INTERVAL", 3*time.Second), "polling interval, at least 2s")
	flag.DurationVar(&cfg.window, "window", getenvDuration("DHT22_WINDOW", dht22.DefaultOpts.TransmissionWindow), "transmission window")
	flag.BoolVar(&cfg.debug, "debug", getenvBool("DHT22_DEBUG"), "enable debug logs")
	flag.BoolVar(&cfg.gauge, "gauge", getenvBool("DHT22_GAUGE"), "draw readings as a color bar")
	flag.Parse()
	return cfg
}

func openPin(cfg config) (gpio.PinIO, func() error, error) {
	switch cfg.backend {
	case "periph":
		if _, err := host.Init(); err != nil {
			return nil, nil, err
		}
		p := gpioreg.ByName(cfg.pin)
		if p == nil {
			return nil, nil, fmt.Errorf("no pin %q", cfg.pin)
		}
		return p, func() error { return nil }, nil
	case "rpio":
		n, err := strconv.Atoi(cfg.pin)
		if err != nil {
			return nil, nil, fmt.Errorf("rpio needs a BCM pin number: %w", err)
		}
		if err := rpiopin.Open(); err != nil {
			return nil, nil, err
		}
		p, err := rpiopin.New(n)
		if err != nil {
			_ = rpiopin.Close()
			return nil, nil, err
		}
		return p, rpiopin.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.backend)
	}
}

func mainImpl() error {
	cfg := parseConfig()
	logger := dht22.NewDefaultLogger(cfg.debug)
	if cfg.interval < 2*time.Second {
		return errors.New("interval must be at least 2s")
	}

	p, release, err := openPin(cfg)
	if err != nil {
		return err
	}
	defer release()

	opts := dht22.DefaultOpts
	opts.TransmissionWindow = cfg.window
	opts.Logger = logger
	d, err := dht22.New(p, &opts)
	if err != nil {
		return err
	}
	defer d.Close()
	if err := d.Init(); err != nil {
		return err
	}
	logger.Infof("polling %s every %s", d, cfg.interval)

	var g *gauge.Dev
	if cfg.gauge {
		if g, err = gauge.New(nil); err != nil {
			return err
		}
		defer g.Halt()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	t := time.NewTicker(cfg.interval)
	defer t.Stop()
	for {
		select {
		case <-sig:
			logger.Infof("got signal, stopping")
			return nil
		case <-t.C:
		}
		if err := d.Probe(); err != nil {
			logger.Errorf("probe failed: %v (%s)", err, d.LastError())
			continue
		}
		var cerr *dht22.ChecksumError
		if err := d.Decode(); errors.As(err, &cerr) {
			logger.Warnf("discarding reading: %v", err)
			continue
		} else if err != nil {
			logger.Errorf("decode failed: %v", err)
			continue
		}
		if g != nil {
			var e physic.Env
			d.Frame().Env(&e)
			if err := g.Show(e); err != nil {
				return err
			}
			continue
		}
		logger.Infof("temperature %.1f°C humidity %.1f%%", d.Temperature(), d.Humidity())
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "dht22: %s.\n", err)
		os.Exit(1)
	}
}
