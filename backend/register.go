// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package backend

import (
	"fmt"
	"strconv"

	"github.com/cortexswd/swd"
	"github.com/cortexswd/swd/ftdiprobe"
	"github.com/cortexswd/swd/gpioprobe"
	"github.com/cortexswd/swd/serialprobe"
	"github.com/cortexswd/swd/sysfsgpio"
)

func init() {
	Register("gpio", openGPIO)
	Register("ftdi", openFTDI)
	Register("sysfsgpio", openSysfsGPIO)
	Register("serial", openSerial)
}

func openGPIO(args map[string]string) (swd.Driver, error) {
	clk, dio := args["clk"], args["dio"]
	if clk == "" || dio == "" {
		return nil, fmt.Errorf("backend/gpio: need clk= and dio= pin names")
	}
	return gpioprobe.New(clk, dio)
}

func openFTDI(args map[string]string) (swd.Driver, error) {
	idx := 0
	if s, ok := args["index"]; ok {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("backend/ftdi: bad index %q: %w", s, err)
		}
		idx = n
	}
	return ftdiprobe.Open(idx)
}

func openSysfsGPIO(args map[string]string) (swd.Driver, error) {
	clkS, dioS := args["clk"], args["dio"]
	if clkS == "" || dioS == "" {
		return nil, fmt.Errorf("backend/sysfsgpio: need clk= and dio= sysfs GPIO numbers")
	}
	clk, err := strconv.Atoi(clkS)
	if err != nil {
		return nil, fmt.Errorf("backend/sysfsgpio: bad clk %q: %w", clkS, err)
	}
	dio, err := strconv.Atoi(dioS)
	if err != nil {
		return nil, fmt.Errorf("backend/sysfsgpio: bad dio %q: %w", dioS, err)
	}
	return sysfsgpio.Open(clk, dio)
}

func openSerial(args map[string]string) (swd.Driver, error) {
	port := args["port"]
	if port == "" {
		return nil, fmt.Errorf("backend/serial: need port= device path")
	}
	baud := 115200
	if s, ok := args["baud"]; ok {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("backend/serial: bad baud %q: %w", s, err)
		}
		baud = n
	}
	return serialprobe.Open(port, baud)
}
