// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht22

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// edgePoll bounds how long the watcher blocks in WaitForEdge before checking
// whether it was disarmed.
const edgePoll = time.Millisecond

// minInterval is the sampling period of the sensor.
const minInterval = 2 * time.Second

// Opts holds the configuration options for the device. Zero fields take the
// value of DefaultOpts.
type Opts struct {
	// StartLow is how long the line is held low to wake the sensor up.
	StartLow time.Duration
	// StartHigh is how long the line is driven high before it is released.
	StartHigh time.Duration
	// TransmissionWindow is how long Probe waits for the sensor to send its
	// frame. It must be longer than the worst case frame, about 5ms.
	TransmissionWindow time.Duration
	// IdleRecovery is the delay after the line is driven back high.
	IdleRecovery time.Duration
	// BitThreshold is the pulse width above which a bit is a 1.
	BitThreshold time.Duration
	// Clock defaults to the host monotonic clock.
	Clock Clock
	// Logger defaults to NullLogger.
	Logger Logger
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	StartLow:           1000 * time.Microsecond,
	StartHigh:          30 * time.Microsecond,
	TransmissionWindow: 10 * time.Millisecond,
	IdleRecovery:       1000 * time.Microsecond,
	BitThreshold:       30 * time.Microsecond,
}

// Dev is a handle to a DHT22 sensor.
type Dev struct {
	p    gpio.PinIO
	opts Opts
	clk  Clock
	log  Logger

	mu          sync.Mutex
	status      Status
	platformErr error
	frame       Frame
	temperature float64
	humidity    float64
	probed      bool
	closed      bool
	watching    bool

	capture capture

	// Edge watcher handshake. Probe sends on arm, clears armed when the
	// window closes and then waits on idle.
	armed atomic.Bool
	arm   chan struct{}
	idle  chan struct{}
	done  chan struct{}
	wg    sync.WaitGroup

	cmu  sync.Mutex
	stop chan struct{}
	swg  sync.WaitGroup
}

// New returns a handle to the DHT22 sensor connected to p. The opts can be
// nil.
//
// The pin is left untouched until Init is called.
func New(p gpio.PinIO, opts *Opts) (*Dev, error) {
	if p == nil {
		return nil, ErrInvalidSensor
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{
		p:      p,
		opts:   *opts,
		status: StatusNoProbe,
		arm:    make(chan struct{}),
		idle:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	if d.opts.StartLow <= 0 {
		d.opts.StartLow = DefaultOpts.StartLow
	}
	if d.opts.StartHigh <= 0 {
		d.opts.StartHigh = DefaultOpts.StartHigh
	}
	if d.opts.TransmissionWindow <= 0 {
		d.opts.TransmissionWindow = DefaultOpts.TransmissionWindow
	}
	if d.opts.IdleRecovery <= 0 {
		d.opts.IdleRecovery = DefaultOpts.IdleRecovery
	}
	if d.opts.BitThreshold <= 0 {
		d.opts.BitThreshold = DefaultOpts.BitThreshold
	}
	d.clk = d.opts.Clock
	if d.clk == nil {
		d.clk = newHostClock()
	}
	d.log = d.opts.Logger
	if d.log == nil {
		d.log = NullLogger{}
	}
	d.capture.level = gpio.High
	return d, nil
}

// Init drives the line high, which is its idle state, and starts watching it
// for edges. It can be called again to recover from a platform error.
func (d *Dev) Init() error {
	if d == nil {
		return ErrInvalidSensor
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrInvalidSensor
	}
	d.platformErr = nil
	if err := d.p.Out(gpio.High); err != nil {
		return d.fail("idle high", err)
	}
	if !d.watching {
		d.watching = true
		d.wg.Add(1)
		go d.watch()
	}
	d.status = StatusNoProbe
	d.log.Debugf("dht22: %s: line idle high, watching edges", d.p)
	return nil
}

// Close stops the edge watcher and halts the pin. Every later call on d
// returns ErrInvalidSensor.
func (d *Dev) Close() error {
	if d == nil {
		return ErrInvalidSensor
	}
	if err := d.Halt(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrInvalidSensor
	}
	d.closed = true
	if d.watching {
		close(d.done)
		d.wg.Wait()
		d.watching = false
	}
	d.status = StatusInvalidSensor
	if err := d.p.Halt(); err != nil {
		return d.fail("halt", err)
	}
	return nil
}

// Probe sends the start signal and records the sensor answer. Call Decode
// afterwards to turn the recording into a reading.
//
// Probe blocks for about 12ms with the default options. A pin error aborts
// it immediately and is returned as a *PlatformError.
func (d *Dev) Probe() error {
	if d == nil {
		return ErrInvalidSensor
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.probe()
}

// Decode converts the pulses recorded by the last Probe into a Frame and
// updates Temperature and Humidity.
//
// It returns a *ChecksumError if the frame is corrupted, in which case both
// readings are reset to 0, and ErrNotProbed if there is no recording to
// decode.
func (d *Dev) Decode() error {
	if d == nil {
		return ErrInvalidSensor
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.decode()
}

// Temperature returns the last temperature decoded, in °C.
func (d *Dev) Temperature() float64 {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.temperature
}

// Humidity returns the last relative humidity decoded, in %.
func (d *Dev) Humidity() float64 {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.humidity
}

// Frame returns the last frame decoded. It is zero if the last Decode failed.
func (d *Dev) Frame() Frame {
	if d == nil {
		return Frame{}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

// LastError returns the status of the last operation.
func (d *Dev) LastError() Status {
	if d == nil {
		return StatusInvalidSensor
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// LastPlatformError returns the error of the last failed pin operation, or nil
// if the last operation touching the pin succeeded.
func (d *Dev) LastPlatformError() error {
	if d == nil {
		return ErrInvalidSensor
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.platformErr
}

// Sense probes and decodes the sensor. Implements physic.SenseEnv.
//
// Don't call it more often than every 2 seconds, the sensor answers with the
// previous reading otherwise.
func (d *Dev) Sense(e *physic.Env) error {
	e.Temperature = 0
	e.Pressure = 0
	e.Humidity = 0
	if d == nil {
		return ErrInvalidSensor
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.probe(); err != nil {
		return err
	}
	if err := d.decode(); err != nil {
		return err
	}
	d.frame.Env(e)
	return nil
}

// SenseContinuous returns a channel that receives a reading every interval.
// Failed readings are skipped. The minimum interval is 2 seconds. Call Halt
// to stop.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if d == nil {
		return nil, ErrInvalidSensor
	}
	if interval < minInterval {
		return nil, fmt.Errorf("dht22: invalid duration %s, minimum %s", interval, minInterval)
	}
	d.cmu.Lock()
	defer d.cmu.Unlock()
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return nil, ErrInvalidSensor
	}
	if d.stop != nil {
		return nil, errors.New("dht22: SenseContinuous already running")
	}
	stop := make(chan struct{})
	ch := make(chan physic.Env, 16)
	d.stop = stop
	d.swg.Add(1)
	go func() {
		defer d.swg.Done()
		defer close(ch)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				var e physic.Env
				if err := d.Sense(&e); err != nil {
					d.log.Warnf("dht22: %s: %v", d.p, err)
					if errors.Is(err, ErrInvalidSensor) {
						return
					}
					continue
				}
				select {
				case ch <- e:
				case <-stop:
					return
				}
			}
		}
	}()
	return ch, nil
}

// Halt stops a running SenseContinuous. Implements conn.Resource.
func (d *Dev) Halt() error {
	if d == nil {
		return ErrInvalidSensor
	}
	d.cmu.Lock()
	defer d.cmu.Unlock()
	if d.stop == nil {
		return nil
	}
	close(d.stop)
	d.swg.Wait()
	d.stop = nil
	return nil
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = physic.Celsius / 10
	e.Pressure = 0
	e.Humidity = physic.PercentRH / 10
}

func (d *Dev) String() string {
	return fmt.Sprintf("dht22{%s}", d.p)
}

func (d *Dev) probe() error {
	if d.closed {
		return ErrInvalidSensor
	}
	if !d.watching {
		return ErrNotInitialized
	}
	d.frame = Frame{}
	d.probed = false
	d.platformErr = nil
	d.log.Debugf("dht22: %s: frame reset, starting handshake", d.p)

	if err := d.p.Out(gpio.Low); err != nil {
		return d.fail("start low", err)
	}
	// Transitions driven by the host are recorded like the ones driven by
	// the sensor, so the ready pulse is the first one in the buffer.
	d.capture.reset(gpio.Low, d.clk.Now())
	d.clk.Delay(d.opts.StartLow)

	if err := d.p.Out(gpio.High); err != nil {
		d.capture.clear()
		return d.fail("start high", err)
	}
	d.capture.edge(gpio.High, d.clk.Now())
	d.clk.Delay(d.opts.StartHigh)

	d.armed.Store(true)
	d.arm <- struct{}{}
	if err := d.p.In(gpio.PullUp, gpio.BothEdges); err != nil {
		d.disarm()
		d.capture.clear()
		return d.fail("input", err)
	}
	d.clk.Sleep(d.opts.TransmissionWindow)
	d.disarm()
	d.capture.seal(d.clk.Now())

	if err := d.p.Out(gpio.High); err != nil {
		d.capture.clear()
		return d.fail("idle high", err)
	}
	d.clk.Sleep(d.opts.IdleRecovery)

	d.probed = true
	d.status = StatusOK
	d.log.Debugf("dht22: %s: handshake done, %d pulses captured", d.p, len(d.capture.widths()))
	return nil
}

func (d *Dev) decode() error {
	if d.closed {
		return ErrInvalidSensor
	}
	if !d.probed {
		d.temperature = 0
		d.humidity = 0
		d.status = StatusNoProbe
		return ErrNotProbed
	}
	d.probed = false
	f, bits := decodeFrame(d.capture.widths(), d.opts.BitThreshold)
	d.capture.clear()
	if bits < frameBits {
		d.log.Warnf("dht22: %s: only %d of %d bits received", d.p, bits, frameBits)
	}
	d.log.Debugf("dht22: %s: frame %s", d.p, f)
	return d.validate(f)
}

// validate updates the readings from f.
func (d *Dev) validate(f Frame) error {
	if !f.Valid() {
		d.frame = Frame{}
		d.temperature = 0
		d.humidity = 0
		d.status = StatusChecksumError
		return &ChecksumError{Frame: f}
	}
	d.frame = f
	d.temperature = f.Temperature()
	d.humidity = f.Humidity()
	d.status = StatusOK
	return nil
}

func (d *Dev) fail(op string, err error) error {
	d.status = StatusPlatformError
	d.platformErr = err
	d.log.Errorf("dht22: %s: %s: %v", d.p, op, err)
	return &PlatformError{Op: op, Err: err}
}

// disarm stops the edge watcher and waits until it no longer touches the
// capture.
func (d *Dev) disarm() {
	d.armed.Store(false)
	<-d.idle
}

// watch is the edge context of the Dev. It stays parked until Probe arms it.
func (d *Dev) watch() {
	defer d.wg.Done()
	for {
		select {
		case <-d.done:
			return
		case <-d.arm:
		}
		for d.armed.Load() {
			if !d.p.WaitForEdge(edgePoll) {
				continue
			}
			now := d.clk.Now()
			d.capture.edge(d.p.Read(), now)
		}
		d.idle <- struct{}{}
	}
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
