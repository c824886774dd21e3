// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package swd

import (
	"context"
	"fmt"
)

// fakeDriver is an in-memory Driver loopback used by the tests in this
// package. It records every MOSI phase in mosiLog and serves MISO phases
// from a scripted response queue, the way a hardware probe would serve
// bits clocked in from a real target.
type fakeDriver struct {
	mosiLog []fakeMOSI

	acks      []byte
	data      []uint32
	parities  []byte
	trnErr    error
	failAfter int // if >0, MOSI/MISO calls past this count return an error
	calls     int
}

type fakeMOSI struct {
	kind ElemKind
	val  uint32
	bits int
}

func (f *fakeDriver) nextErr() error {
	f.calls++
	if f.failAfter > 0 && f.calls > f.failAfter {
		return fmt.Errorf("fakeDriver: simulated transport failure")
	}
	return nil
}

func (f *fakeDriver) MOSI8(ctx context.Context, b byte, bits int, lsbFirst bool) (int, error) {
	if err := f.nextErr(); err != nil {
		return 0, err
	}
	f.mosiLog = append(f.mosiLog, fakeMOSI{val: uint32(b), bits: bits})
	return bits, nil
}

func (f *fakeDriver) MOSI32(ctx context.Context, w uint32, bits int, lsbFirst bool) (int, error) {
	if err := f.nextErr(); err != nil {
		return 0, err
	}
	f.mosiLog = append(f.mosiLog, fakeMOSI{val: w, bits: bits})
	return bits, nil
}

func (f *fakeDriver) MISO8(ctx context.Context, bits int, lsbFirst bool) (byte, int, error) {
	if err := f.nextErr(); err != nil {
		return 0, 0, err
	}
	// 3-bit reads are ACKs, 1-bit reads are parity; dispatch on bits since
	// the fake has no visibility into the element kind.
	if bits == 3 {
		if len(f.acks) == 0 {
			return 0, 0, fmt.Errorf("fakeDriver: ack script exhausted")
		}
		v := f.acks[0]
		f.acks = f.acks[1:]
		return v, bits, nil
	}
	if len(f.parities) == 0 {
		return 0, 0, fmt.Errorf("fakeDriver: parity script exhausted")
	}
	v := f.parities[0]
	f.parities = f.parities[1:]
	return v, bits, nil
}

func (f *fakeDriver) MISO32(ctx context.Context, bits int, lsbFirst bool) (uint32, int, error) {
	if err := f.nextErr(); err != nil {
		return 0, 0, err
	}
	if len(f.data) == 0 {
		return 0, 0, fmt.Errorf("fakeDriver: data script exhausted")
	}
	v := f.data[0]
	f.data = f.data[1:]
	return v, bits, nil
}

func (f *fakeDriver) MOSITRN(ctx context.Context, clks int) error {
	return f.trnErr
}

func (f *fakeDriver) MISOTRN(ctx context.Context, clks int) error {
	return f.trnErr
}

// okDriver returns a fakeDriver scripted to succeed a single read of data
// with a correct parity bit.
func okDriver(data uint32) *fakeDriver {
	return &fakeDriver{
		acks:     []byte{AckOK},
		data:     []uint32{data},
		parities: []byte{ParityEven32(data)},
	}
}
