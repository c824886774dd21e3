// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sysfs provides legacy /sys/class/gpio access for GPIO pins, used
// as sysfsgpio's fallback when the Linux GPIO character device (gpioioctl)
// is unavailable. It exports the subset of gpio.PinIO that bit-banging a
// clock and a data line over polled value/direction files needs; it does
// not support edge-triggered interrupts the way a full periph gpio sysfs
// driver would, since SWD has no use for them.
package sysfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// Pins is all the pins exported by GPIO sysfs, keyed by their kernel GPIO
// number. Populated once by Init; callers should treat it as read-only.
var Pins map[int]*Pin

// Pin represents one GPIO pin accessed through /sys/class/gpio.
type Pin struct {
	number int
	name   string
	root   string // e.g. /sys/class/gpio/gpio17/

	mu        sync.Mutex
	err       error
	direction direction
	fValue    *os.File
	fDir      *os.File
}

func (p *Pin) String() string { return p.name }

// Halt is a no-op; this driver does not hold interrupt state to release.
func (p *Pin) Halt() error { return nil }

// Name implements pin.Pin.
func (p *Pin) Name() string { return p.name }

// Number implements pin.Pin.
func (p *Pin) Number() int { return p.number }

// In implements gpio.PinIn. Only gpio.NoEdge is supported.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	if edge != gpio.NoEdge {
		return p.wrap(errors.New("edge-triggered interrupts are not supported"))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.open(); err != nil {
		return p.wrap(err)
	}
	if p.direction != dIn {
		if _, err := p.fDir.WriteString("in"); err != nil {
			return p.wrap(err)
		}
		p.direction = dIn
	}
	return nil
}

// Read implements gpio.PinIn.
func (p *Pin) Read() gpio.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fValue == nil {
		return gpio.Low
	}
	var b [1]byte
	if _, err := p.fValue.ReadAt(b[:], 0); err != nil {
		return gpio.Low
	}
	if b[0] == '1' {
		return gpio.High
	}
	return gpio.Low
}

// WaitForEdge is unsupported by this fallback driver and always returns
// false immediately.
func (p *Pin) WaitForEdge(_ time.Duration) bool { return false }

// Pull always reports PullNoChange: sysfs exposes no pull-resistor control.
func (p *Pin) Pull() gpio.Pull { return gpio.PullNoChange }

// DefaultPull always reports PullNoChange.
func (p *Pin) DefaultPull() gpio.Pull { return gpio.PullNoChange }

// Function implements pin.Pin.
func (p *Pin) Function() string { return string(p.Func()) }

// Func implements pin.PinFunc.
func (p *Pin) Func() pin.Func {
	switch p.direction {
	case dIn:
		if p.Read() == gpio.High {
			return gpio.IN_HIGH
		}
		return gpio.IN_LOW
	case dOut:
		if p.Read() == gpio.High {
			return gpio.OUT_HIGH
		}
		return gpio.OUT_LOW
	default:
		return pin.FuncNone
	}
}

// SupportedFuncs implements pin.PinFunc.
func (p *Pin) SupportedFuncs() []pin.Func { return []pin.Func{gpio.IN, gpio.OUT} }

// SetFunc implements pin.PinFunc.
func (p *Pin) SetFunc(f pin.Func) error {
	switch f {
	case gpio.IN:
		return p.In(gpio.PullNoChange, gpio.NoEdge)
	case gpio.OUT_HIGH:
		return p.Out(gpio.High)
	case gpio.OUT, gpio.OUT_LOW:
		return p.Out(gpio.Low)
	default:
		return p.wrap(errors.New("unsupported function"))
	}
}

// PWM is unsupported by sysfs GPIO; SWD never drives a PWM waveform.
func (p *Pin) PWM(gpio.Duty, physic.Frequency) error {
	return p.wrap(errors.New("PWM not supported"))
}

// Out implements gpio.PinOut.
func (p *Pin) Out(l gpio.Level) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.open(); err != nil {
		return p.wrap(err)
	}
	if p.direction != dOut {
		if _, err := p.fDir.WriteString("out"); err != nil {
			return p.wrap(err)
		}
		p.direction = dOut
	}
	v := "0"
	if l == gpio.High {
		v = "1"
	}
	if _, err := p.fValue.WriteAt([]byte(v), 0); err != nil {
		return p.wrap(err)
	}
	return nil
}

func (p *Pin) open() error {
	if p.fValue != nil {
		return nil
	}
	if p.err != nil {
		return p.err
	}
	fv, err := os.OpenFile(p.root+"value", os.O_RDWR, 0)
	if err != nil {
		p.err = err
		return err
	}
	fd, err := os.OpenFile(p.root+"direction", os.O_RDWR, 0)
	if err != nil {
		_ = fv.Close()
		p.err = err
		return err
	}
	p.fValue = fv
	p.fDir = fd
	return nil
}

func (p *Pin) wrap(err error) error {
	return fmt.Errorf("sysfs-gpio (%s): %w", p, err)
}

type direction int

const (
	dUnknown direction = 0
	dIn      direction = 1
	dOut     direction = 2
)

// Init enumerates every /sys/class/gpio/gpiochipN entry, exports its pins
// and registers them into Pins and periph's gpioreg so gpioprobe.New and
// sysfsgpio.Open can resolve them.
func Init() error {
	items, err := filepath.Glob("/sys/class/gpio/gpiochip*")
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return errors.New("sysfs: no GPIO chip found")
	}
	export, err := os.OpenFile("/sys/class/gpio/export", os.O_WRONLY, 0)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("sysfs: need more access, try running as root: %w", err)
		}
		return err
	}
	defer export.Close()

	Pins = map[int]*Pin{}
	for _, item := range items {
		base, err := readInt(item + "/base")
		if err != nil {
			return err
		}
		count, err := readInt(item + "/ngpio")
		if err != nil {
			return err
		}
		for i := base; i < base+count; i++ {
			if _, ok := Pins[i]; ok {
				continue
			}
			p := &Pin{number: i, name: fmt.Sprintf("GPIO%d", i), root: fmt.Sprintf("/sys/class/gpio/gpio%d/", i)}
			Pins[i] = p
			if _, err := export.WriteString(strconv.Itoa(i)); err != nil && !os.IsExist(err) {
				// Busy/already-exported pins are expected; everything else is
				// surfaced lazily on first In()/Out() via p.open() instead of
				// aborting the whole enumeration.
				continue
			}
			_ = gpioreg.Register(p)
		}
	}
	return nil
}

func readInt(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	s := string(b)
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return strconv.Atoi(s)
}
