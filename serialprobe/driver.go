// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package serialprobe implements swd.Driver over a serial-attached command
// bridge: a small microcontroller firmware that exposes raw SWD bit shifts
// as short framed commands over a UART, reached here through
// github.com/daedaluz/goserial's termios-backed Port.
package serialprobe

import (
	"context"
	"fmt"
	"time"

	serial "github.com/daedaluz/goserial"
)

// Frame opcodes understood by the bridge firmware. Each request is
// [op, bits] optionally followed by 4 little-endian data bytes for MOSI
// ops; each response is a single status byte followed by the phase's
// result bytes, if any.
const (
	opMOSI   byte = 'O'
	opMISO   byte = 'I'
	opMOSITR byte = 'T'
	opMISOTR byte = 't'

	statusOK byte = 0
)

// Driver bridges swd.Driver calls to a serial command bridge.
type Driver struct {
	port    *serial.Port
	timeout time.Duration
}

// Open opens the named serial device (e.g. "/dev/ttyUSB0") and wraps it as
// a Driver. The baud argument is accepted but not applied to the port.
func Open(name string, baud int) (*Driver, error) {
	opts := serial.NewOptions().SetReadTimeout(500 * time.Millisecond)
	p, err := serial.Open(name, opts)
	if err != nil {
		return nil, fmt.Errorf("serialprobe: open %s: %w", name, err)
	}
	return &Driver{port: p, timeout: 500 * time.Millisecond}, nil
}

// Close releases the underlying serial port.
func (d *Driver) Close() error {
	return d.port.Close()
}

func (d *Driver) writeFrame(op byte, bits int, data uint32, hasData bool) error {
	frame := []byte{op, byte(bits)}
	if hasData {
		frame = append(frame, byte(data), byte(data>>8), byte(data>>16), byte(data>>24))
	}
	if _, err := d.port.Write(frame); err != nil {
		return fmt.Errorf("serialprobe: write: %w", err)
	}
	return nil
}

func (d *Driver) readResponse(nData int) ([]byte, error) {
	buf := make([]byte, 1+nData)
	got := 0
	for got < len(buf) {
		n, err := d.port.ReadTimeout(buf[got:], d.timeout)
		if err != nil {
			return nil, fmt.Errorf("serialprobe: read: %w", err)
		}
		if n == 0 {
			return nil, fmt.Errorf("serialprobe: read timed out waiting for bridge response")
		}
		got += n
	}
	if buf[0] != statusOK {
		return nil, fmt.Errorf("serialprobe: bridge returned status %#02x", buf[0])
	}
	return buf[1:], nil
}

func (d *Driver) shiftOut(data uint32, bits int) error {
	if err := d.writeFrame(opMOSI, bits, data, true); err != nil {
		return err
	}
	_, err := d.readResponse(0)
	return err
}

func (d *Driver) shiftIn(bits int) (uint32, error) {
	if err := d.writeFrame(opMISO, bits, 0, false); err != nil {
		return 0, err
	}
	nBytes := (bits + 7) / 8
	resp, err := d.readResponse(nBytes)
	if err != nil {
		return 0, err
	}
	var v uint32
	for i, b := range resp {
		v |= uint32(b) << uint(8*i)
	}
	return v, nil
}

// MOSI8 shifts the low bits of b out through the bridge.
func (d *Driver) MOSI8(ctx context.Context, b byte, bits int, lsbFirst bool) (int, error) {
	if err := d.shiftOut(uint32(b), bits); err != nil {
		return 0, err
	}
	return bits, nil
}

// MOSI32 shifts the low bits of w out through the bridge.
func (d *Driver) MOSI32(ctx context.Context, w uint32, bits int, lsbFirst bool) (int, error) {
	if err := d.shiftOut(w, bits); err != nil {
		return 0, err
	}
	return bits, nil
}

// MISO8 reads bits through the bridge, right-justified.
func (d *Driver) MISO8(ctx context.Context, bits int, lsbFirst bool) (byte, int, error) {
	v, err := d.shiftIn(bits)
	return byte(v), bits, err
}

// MISO32 reads bits through the bridge, right-justified.
func (d *Driver) MISO32(ctx context.Context, bits int, lsbFirst bool) (uint32, int, error) {
	v, err := d.shiftIn(bits)
	return v, bits, err
}

// MOSITRN asks the bridge to idle clks clocks with the data line driven.
func (d *Driver) MOSITRN(ctx context.Context, clks int) error {
	if err := d.writeFrame(opMOSITR, clks, 0, false); err != nil {
		return err
	}
	_, err := d.readResponse(0)
	return err
}

// MISOTRN asks the bridge to idle clks clocks with the data line released.
func (d *Driver) MISOTRN(ctx context.Context, clks int) error {
	if err := d.writeFrame(opMISOTR, clks, 0, false); err != nil {
		return err
	}
	_, err := d.readResponse(0)
	return err
}
