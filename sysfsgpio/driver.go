// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sysfsgpio is the legacy fallback for gpioprobe: it resolves
// SWCLK/SWDIO by raw pin number through the /sys/class/gpio sysfs tree
// instead of the GPIO character device, for kernels or distributions
// where /dev/gpiochipN is unavailable.
package sysfsgpio

import (
	"fmt"

	"github.com/cortexswd/swd/gpioprobe"
	"github.com/cortexswd/swd/sysfs"
)

// Open resolves clkNum and dioNum as sysfs GPIO numbers and returns a
// gpioprobe.Driver bit-banging them as SWCLK and SWDIO. It calls
// sysfs.Init if Pins has not been populated yet.
func Open(clkNum, dioNum int) (*gpioprobe.Driver, error) {
	if sysfs.Pins == nil {
		if err := sysfs.Init(); err != nil {
			return nil, fmt.Errorf("sysfsgpio: %w", err)
		}
	}
	clk, ok := sysfs.Pins[clkNum]
	if !ok {
		return nil, fmt.Errorf("sysfsgpio: no sysfs pin %d for SWCLK", clkNum)
	}
	dio, ok := sysfs.Pins[dioNum]
	if !ok {
		return nil, fmt.Errorf("sysfsgpio: no sysfs pin %d for SWDIO", dioNum)
	}
	return gpioprobe.NewFromPins(clk, dio)
}
