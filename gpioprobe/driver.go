// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpioprobe

import (
	"context"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Driver implements swd.Driver by bit-banging gpio.PinIO lines resolved
// from periph's central pin registry (populated at process init by
// whichever board package — allwinner, nanopi, or the Linux GPIO
// character device driver itself — matches the running hardware).
type Driver struct {
	clk  gpio.PinOut
	dio  gpio.PinIO
	dioIsOutput bool
}

// New resolves clkName and dioName through gpioreg and returns a Driver
// bit-banging them as SWCLK and SWDIO respectively. clkName's pin must
// support PinOut; dioName's pin must support PinIO (both directions) since
// SWDIO is switched between drive and release at every turnaround.
func New(clkName, dioName string) (*Driver, error) {
	clk := gpioreg.ByName(clkName)
	if clk == nil {
		return nil, fmt.Errorf("gpioprobe: unknown pin %q for SWCLK", clkName)
	}
	dioPin := gpioreg.ByName(dioName)
	if dioPin == nil {
		return nil, fmt.Errorf("gpioprobe: unknown pin %q for SWDIO", dioName)
	}
	dio, ok := dioPin.(gpio.PinIO)
	if !ok {
		return nil, fmt.Errorf("gpioprobe: pin %q does not support bidirectional use", dioName)
	}
	return NewFromPins(clk, dio)
}

// NewFromPins builds a Driver directly from already-resolved pins, for
// callers (such as sysfsgpio) that locate their pins some other way than
// gpioreg's by-name lookup.
func NewFromPins(clk gpio.PinOut, dio gpio.PinIO) (*Driver, error) {
	if err := clk.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("gpioprobe: initializing SWCLK: %w", err)
	}
	d := &Driver{clk: clk, dio: dio}
	if err := d.driveDIO(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Driver) driveDIO() error {
	if d.dioIsOutput {
		return nil
	}
	if err := d.dio.Out(gpio.Low); err != nil {
		return fmt.Errorf("gpioprobe: switching SWDIO to output: %w", err)
	}
	d.dioIsOutput = true
	return nil
}

func (d *Driver) releaseDIO() error {
	if !d.dioIsOutput {
		return nil
	}
	if err := d.dio.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return fmt.Errorf("gpioprobe: switching SWDIO to input: %w", err)
	}
	d.dioIsOutput = false
	return nil
}

// clockOutBit drives SWCLK low, drives SWDIO to bit, then raises SWCLK,
// the standard SWD host-drives-MOSI sample convention.
func (d *Driver) clockOutBit(bit gpio.Level) error {
	if err := d.clk.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.dio.Out(bit); err != nil {
		return err
	}
	return d.clk.Out(gpio.High)
}

// clockInBit raises SWCLK after driving it low, sampling SWDIO while high.
func (d *Driver) clockInBit() (gpio.Level, error) {
	if err := d.clk.Out(gpio.Low); err != nil {
		return gpio.Low, err
	}
	if err := d.clk.Out(gpio.High); err != nil {
		return gpio.Low, err
	}
	return d.dio.Read(), nil
}

func (d *Driver) shiftOut(data uint32, bits int) error {
	if err := d.driveDIO(); err != nil {
		return err
	}
	for i := 0; i < bits; i++ {
		bit := gpio.Low
		if data&(1<<uint(i)) != 0 {
			bit = gpio.High
		}
		if err := d.clockOutBit(bit); err != nil {
			return fmt.Errorf("gpioprobe: shiftOut bit %d: %w", i, err)
		}
	}
	return nil
}

func (d *Driver) shiftIn(bits int) (uint32, error) {
	var v uint32
	for i := 0; i < bits; i++ {
		lvl, err := d.clockInBit()
		if err != nil {
			return 0, fmt.Errorf("gpioprobe: shiftIn bit %d: %w", i, err)
		}
		if lvl == gpio.High {
			v |= 1 << uint(i)
		}
	}
	return v, nil
}

// MOSI8 shifts the low bits of b out LSB-first.
func (d *Driver) MOSI8(ctx context.Context, b byte, bits int, lsbFirst bool) (int, error) {
	if err := d.shiftOut(uint32(b), bits); err != nil {
		return 0, err
	}
	return bits, nil
}

// MOSI32 shifts the low bits of w out LSB-first.
func (d *Driver) MOSI32(ctx context.Context, w uint32, bits int, lsbFirst bool) (int, error) {
	if err := d.shiftOut(w, bits); err != nil {
		return 0, err
	}
	return bits, nil
}

// MISO8 shifts bits in LSB-first.
func (d *Driver) MISO8(ctx context.Context, bits int, lsbFirst bool) (byte, int, error) {
	v, err := d.shiftIn(bits)
	return byte(v), bits, err
}

// MISO32 shifts bits in LSB-first.
func (d *Driver) MISO32(ctx context.Context, bits int, lsbFirst bool) (uint32, int, error) {
	v, err := d.shiftIn(bits)
	return v, bits, err
}

// MOSITRN drives clks idle clocks with SWDIO as an output (host resuming
// control of the bus).
func (d *Driver) MOSITRN(ctx context.Context, clks int) error {
	return d.shiftOut(0, clks)
}

// MISOTRN releases SWDIO to high-impedance and drives clks idle clocks so
// the target can start driving it.
func (d *Driver) MISOTRN(ctx context.Context, clks int) error {
	if err := d.releaseDIO(); err != nil {
		return err
	}
	for i := 0; i < clks; i++ {
		if _, err := d.clockInBit(); err != nil {
			return fmt.Errorf("gpioprobe: MISOTRN: %w", err)
		}
	}
	return nil
}
