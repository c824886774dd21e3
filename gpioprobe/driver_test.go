// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpioprobe

import (
	"context"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// fakePin is an in-memory gpio.PinIO used to drive gpioprobe's bit-bang
// logic without real hardware. clockLog records every level SWCLK was set
// to; dioIn feeds the bits MISOTRN/MISO should sample as input.
type fakePin struct {
	name      string
	isOutput  bool
	level     gpio.Level
	clockLog  *[]gpio.Level
	dioIn     []gpio.Level
	dioInPos  int
}

func (p *fakePin) String() string   { return p.name }
func (p *fakePin) Halt() error      { return nil }
func (p *fakePin) Name() string     { return p.name }
func (p *fakePin) Number() int      { return 0 }
func (p *fakePin) Function() string { return "" }
func (p *fakePin) Func() pin.Func   { return pin.FuncNone }

func (p *fakePin) SupportedFuncs() []pin.Func { return nil }
func (p *fakePin) SetFunc(pin.Func) error     { return nil }

func (p *fakePin) In(gpio.Pull, gpio.Edge) error {
	p.isOutput = false
	return nil
}

func (p *fakePin) Read() gpio.Level {
	if p.dioIn != nil {
		if p.dioInPos < len(p.dioIn) {
			l := p.dioIn[p.dioInPos]
			p.dioInPos++
			return l
		}
		return gpio.Low
	}
	return p.level
}

func (p *fakePin) WaitForEdge(time.Duration) bool { return false }
func (p *fakePin) Pull() gpio.Pull                { return gpio.PullNoChange }
func (p *fakePin) DefaultPull() gpio.Pull         { return gpio.PullNoChange }

func (p *fakePin) Out(l gpio.Level) error {
	p.isOutput = true
	p.level = l
	if p.clockLog != nil {
		*p.clockLog = append(*p.clockLog, l)
	}
	return nil
}

func (p *fakePin) PWM(gpio.Duty, physic.Frequency) error { return nil }

func TestShiftOutClocksLSBFirst(t *testing.T) {
	var clockLog []gpio.Level
	clk := &fakePin{name: "clk", clockLog: &clockLog}
	var dioLog []gpio.Level
	dio := &fakePin{name: "dio", clockLog: &dioLog}
	d, err := NewFromPins(clk, dio)
	if err != nil {
		t.Fatalf("NewFromPins: %v", err)
	}

	if err := d.shiftOut(0b101, 3); err != nil {
		t.Fatalf("shiftOut: %v", err)
	}
	// Each bit period: clock driven low, then high: 2 per bit plus the 1
	// issued by NewFromPins's initial clk.Out(gpio.Low).
	want := 1 + 3*2
	if len(clockLog) != want {
		t.Fatalf("clockLog length = %d, want %d", len(clockLog), want)
	}
	// SWDIO: the Low set by NewFromPins, then bit0, bit1, bit2 of 0b101.
	wantDIO := []gpio.Level{gpio.Low, gpio.High, gpio.Low, gpio.High}
	if len(dioLog) != len(wantDIO) {
		t.Fatalf("dioLog = %v, want %v", dioLog, wantDIO)
	}
	for i := range wantDIO {
		if dioLog[i] != wantDIO[i] {
			t.Fatalf("dioLog = %v, want %v", dioLog, wantDIO)
		}
	}
}

func TestShiftInSamplesMSBLast(t *testing.T) {
	clk := &fakePin{name: "clk"}
	dio := &fakePin{name: "dio", dioIn: []gpio.Level{gpio.High, gpio.Low, gpio.High}}
	d, err := NewFromPins(clk, dio)
	if err != nil {
		t.Fatalf("NewFromPins: %v", err)
	}
	if err := d.releaseDIO(); err != nil {
		t.Fatalf("releaseDIO: %v", err)
	}
	v, err := d.shiftIn(3)
	if err != nil {
		t.Fatalf("shiftIn: %v", err)
	}
	// LSB-first: bit0=High(1), bit1=Low(0), bit2=High(1) -> 0b101 = 5.
	if v != 5 {
		t.Fatalf("shiftIn = %d, want 5", v)
	}
}

func TestMOSITRNAndMISOTRNToggleDirection(t *testing.T) {
	clk := &fakePin{name: "clk"}
	dio := &fakePin{name: "dio"}
	d, err := NewFromPins(clk, dio)
	if err != nil {
		t.Fatalf("NewFromPins: %v", err)
	}
	if !d.dioIsOutput {
		t.Fatalf("expected SWDIO to start driven")
	}
	if err := d.MISOTRN(context.Background(), 1); err != nil {
		t.Fatalf("MISOTRN: %v", err)
	}
	if d.dioIsOutput {
		t.Fatalf("MISOTRN should release SWDIO to input")
	}
	if err := d.MOSITRN(context.Background(), 1); err != nil {
		t.Fatalf("MOSITRN: %v", err)
	}
	if !d.dioIsOutput {
		t.Fatalf("MOSITRN should drive SWDIO back to output")
	}
}
