// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdiprobe

import (
	"context"
	"fmt"

	"periph.io/x/d2xx"
)

// Driver implements swd.Driver over an MPSSE-capable FTDI device's ADBus,
// bit-banging SWCLK/SWDIO through the MPSSE shift-command engine.
type Driver struct {
	h d2xx.Handle
}

// Open opens the i'th FTDI device (0-indexed, as enumerated by the d2xx
// driver) and switches it into MPSSE mode for SWD use.
func Open(i int) (*Driver, error) {
	h, e := d2xx.Open(i)
	if e != 0 {
		return nil, fmt.Errorf("ftdiprobe: d2xx.Open(%d): %s", i, e)
	}
	d := &Driver{h: h}
	if err := d.init(); err != nil {
		_ = h.Close()
		return nil, err
	}
	return d, nil
}

func (d *Driver) init() error {
	if e := d.h.SetUSBParameters(65536, 0); e != 0 {
		return fmt.Errorf("ftdiprobe: SetUSBParameters: %s", e)
	}
	if e := d.h.SetTimeouts(5000, 5000); e != 0 {
		return fmt.Errorf("ftdiprobe: SetTimeouts: %s", e)
	}
	if e := d.h.SetLatencyTimer(1); e != 0 {
		return fmt.Errorf("ftdiprobe: SetLatencyTimer: %s", e)
	}
	if e := d.h.ResetDevice(); e != 0 {
		return fmt.Errorf("ftdiprobe: ResetDevice: %s", e)
	}
	const bitModeMpsse = 0x02
	if e := d.h.SetBitMode(0, bitModeMpsse); e != 0 {
		return fmt.Errorf("ftdiprobe: SetBitMode(mpsse): %s", e)
	}
	cmd := []byte{
		mpsseClock30MHz, mpsseClockNormal, mpsseClock2Phase, mpsseLoopbackOff,
		mpsseGPIOSetD, pinSWCLK | pinSWDIOOut, gpioDirOutputs,
	}
	if _, e := d.h.Write(cmd); e != 0 {
		return fmt.Errorf("ftdiprobe: MPSSE init write: %s", e)
	}
	return nil
}

// Close releases the underlying device handle.
func (d *Driver) Close() error {
	e := d.h.Close()
	if e != 0 {
		return fmt.Errorf("ftdiprobe: Close: %s", e)
	}
	return nil
}

func (d *Driver) shiftOut(data uint32, bits int) error {
	if bits == 0 {
		return nil
	}
	var cmd []byte
	n := bits
	for n > 0 {
		chunk := n
		if chunk > 8 {
			chunk = 8
		}
		b := byte(data) & (0xFF >> (8 - chunk))
		data >>= uint(chunk)
		op := mpsseDataOut | mpsseDataOutFall | mpsseDataLSBF | mpsseDataBit
		cmd = append(cmd, op, byte(chunk-1), b)
		n -= chunk
	}
	_, e := d.h.Write(cmd)
	if e != 0 {
		return fmt.Errorf("ftdiprobe: shiftOut: %s", e)
	}
	return nil
}

func (d *Driver) shiftIn(bits int) (uint32, error) {
	if bits == 0 {
		return 0, nil
	}
	var cmd []byte
	n := bits
	for n > 0 {
		chunk := n
		if chunk > 8 {
			chunk = 8
		}
		op := mpsseDataIn | mpsseDataLSBF | mpsseDataBit
		cmd = append(cmd, op, byte(chunk-1))
		n -= chunk
	}
	cmd = append(cmd, mpsseFlush)
	if _, e := d.h.Write(cmd); e != 0 {
		return 0, fmt.Errorf("ftdiprobe: shiftIn write: %s", e)
	}
	nBytes := (bits + 7) / 8
	buf := make([]byte, nBytes)
	if _, err := readAll(d.h, buf); err != nil {
		return 0, fmt.Errorf("ftdiprobe: shiftIn read: %w", err)
	}
	var v uint32
	shift := uint(0)
	remaining := bits
	for _, b := range buf {
		chunk := remaining
		if chunk > 8 {
			chunk = 8
		}
		// MPSSE right-justifies each partial-byte LSB-first read.
		v |= uint32(b&(0xFF>>(8-chunk))) << shift
		shift += uint(chunk)
		remaining -= chunk
	}
	return v, nil
}

func readAll(h d2xx.Handle, buf []byte) (int, error) {
	got := 0
	for got < len(buf) {
		n, e := h.Read(buf[got:])
		if e != 0 {
			return got, fmt.Errorf("%s", e)
		}
		got += n
	}
	return got, nil
}

// MOSI8 shifts out the low bits of b, SWDIO driven as an output.
func (d *Driver) MOSI8(ctx context.Context, b byte, bits int, lsbFirst bool) (int, error) {
	if err := d.shiftOut(uint32(b), bits); err != nil {
		return 0, err
	}
	return bits, nil
}

// MOSI32 shifts out the low bits of w.
func (d *Driver) MOSI32(ctx context.Context, w uint32, bits int, lsbFirst bool) (int, error) {
	if err := d.shiftOut(w, bits); err != nil {
		return 0, err
	}
	return bits, nil
}

// MISO8 shifts in bits from SWDIO-in and right-justifies them.
func (d *Driver) MISO8(ctx context.Context, bits int, lsbFirst bool) (byte, int, error) {
	v, err := d.shiftIn(bits)
	return byte(v), bits, err
}

// MISO32 shifts in bits from SWDIO-in and right-justifies them.
func (d *Driver) MISO32(ctx context.Context, bits int, lsbFirst bool) (uint32, int, error) {
	v, err := d.shiftIn(bits)
	return v, bits, err
}

// MOSITRN idles the clock for clks cycles with SWDIO-out driven, the
// turnaround performed when the host resumes driving the bus.
func (d *Driver) MOSITRN(ctx context.Context, clks int) error {
	return d.shiftOut(0x1, clks)
}

// MISOTRN idles the clock for clks cycles without driving SWDIO-out, the
// turnaround performed when the host releases the bus to the target. The
// MPSSE engine cannot stop driving ADBus1 mid-stream, so this clocks
// SWDIO-out high (pulled, not actively asserted low) while the target's
// drive on SWDIO-in is what the next MISO phase actually samples.
func (d *Driver) MISOTRN(ctx context.Context, clks int) error {
	return d.shiftOut(0x1, clks)
}
