// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package backend

import (
	"fmt"
	"os"

	"periph.io/x/conn/v3/driver/driverreg"

	// Make sure the board and character-device GPIO drivers are
	// registered, the way periph's own host_linux.go gathers its
	// drivers behind a single Init call.
	_ "github.com/cortexswd/swd/gpioioctl"
	_ "github.com/cortexswd/swd/nanopi"
)

// init runs once at package load, after the drivers above have added
// themselves to driverreg's registry via their own init() functions.
// driverreg.Init() is what actually invokes each driver's Init method
// and populates gpioreg with the pins openGPIO resolves by name;
// registering a driver without this call leaves its init()-time
// MustRegister inert.
func init() {
	if _, err := driverreg.Init(); err != nil {
		// A failed driver (e.g. not running on the matching board) is not
		// fatal: other drivers, and the sysfsgpio/serial/ftdiprobe
		// backends that don't depend on gpioreg at all, still work.
		fmt.Fprintf(os.Stderr, "backend: driverreg.Init: %v\n", err)
	}
}
