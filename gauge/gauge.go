// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gauge implements a 1D display.Drawer that shows environmental
// readings on a terminal (stdout) using ANSI color codes.
//
// The temperature is drawn as a bar going from blue at Opts.Min to red at
// Opts.Max, followed by the reading in text.
package gauge

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
)

// Opts represents the options available for this display.
type Opts struct {
	// X is the number of cells of the bar.
	X int
	// Min and Max are the temperatures of an empty and a full bar.
	Min physic.Temperature
	Max physic.Temperature
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// W defaults to stdout.
	W io.Writer

	_ struct{}
}

// DefaultOpts covers the measurement range of the DHT22.
var DefaultOpts = Opts{
	X:   40,
	Min: physic.ZeroCelsius - 40*physic.Celsius,
	Max: physic.ZeroCelsius + 80*physic.Celsius,
}

// Dev is a bar gauge that outputs to the console.
type Dev struct {
	w       io.Writer
	l       int
	min     physic.Temperature
	max     physic.Temperature
	palette ansi256.Palette

	pixels []byte
	label  string
	buf    bytes.Buffer
}

// New returns a Dev that displays at the console. The opts can be nil.
func New(opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.X <= 0 {
		return nil, errors.New("gauge: X must be positive")
	}
	if opts.Max <= opts.Min {
		return nil, errors.New("gauge: Max must be above Min")
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	d := &Dev{
		w:       w,
		l:       opts.X,
		min:     opts.Min,
		max:     opts.Max,
		palette: *p,
		pixels:  make([]byte, 3*opts.X),
	}
	return d, nil
}

func (d *Dev) String() string {
	return "Gauge"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors and moves to the next line.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Show draws e. Pressure is ignored.
func (d *Dev) Show(e physic.Env) error {
	lit := d.cells(e.Temperature)
	for i := 0; i < d.l; i++ {
		c := color.NRGBA{}
		if i < lit {
			c = d.shade(i)
		}
		d.pixels[3*i] = c.R
		d.pixels[3*i+1] = c.G
		d.pixels[3*i+2] = c.B
	}
	d.label = fmt.Sprintf("%s %s", e.Temperature, e.Humidity)
	_, err := d.refresh()
	return err
}

// Write accepts a stream of raw RGB pixels and writes it to the console.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels)%3 != 0 {
		return 0, errors.New("gauge: invalid RGB stream length")
	}
	copy(d.pixels, pixels)
	d.label = ""
	return d.refresh()
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rectangle{Max: image.Point{X: d.l, Y: 1}}
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	srcR := src.Bounds()
	srcR.Min = srcR.Min.Add(sp)
	if dX := r.Dx(); dX < srcR.Dx() {
		srcR.Max.X = srcR.Min.X + dX
	}
	if dY := r.Dy(); dY < srcR.Dy() {
		srcR.Max.Y = srcR.Min.Y + dY
	}
	deltaX3 := 3 * (r.Min.X - srcR.Min.X)
	for sX := srcR.Min.X; sX < srcR.Max.X; sX++ {
		r16, g16, b16, _ := src.At(sX, srcR.Min.Y).RGBA()
		dX3 := 3*sX + deltaX3
		d.pixels[dX3] = byte(r16 >> 8)
		d.pixels[dX3+1] = byte(g16 >> 8)
		d.pixels[dX3+2] = byte(b16 >> 8)
	}
	d.label = ""
	_, err := d.refresh()
	return err
}

// cells returns how many cells t fills.
func (d *Dev) cells(t physic.Temperature) int {
	switch {
	case t <= d.min:
		return 0
	case t >= d.max:
		return d.l
	}
	frac := float64(t-d.min) / float64(d.max-d.min)
	return int(frac*float64(d.l) + 0.5)
}

// shade returns the color of cell i of a full bar.
func (d *Dev) shade(i int) color.NRGBA {
	r := byte(255)
	if d.l > 1 {
		r = byte(255 * i / (d.l - 1))
	}
	return color.NRGBA{R: r, G: 0x20, B: 255 - r, A: 255}
}

func (d *Dev) refresh() (int, error) {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for i := 0; i < len(d.pixels)/3; i++ {
		c := color.NRGBA{d.pixels[3*i], d.pixels[3*i+1], d.pixels[3*i+2], 255}
		_, _ = io.WriteString(&d.buf, d.palette.Block(c))
	}
	_, _ = d.buf.WriteString("\033[0m ")
	_, _ = d.buf.WriteString(d.label)
	_, err := d.buf.WriteTo(d.w)
	return len(d.pixels), err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
