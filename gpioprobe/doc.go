// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gpioprobe implements swd.Driver by bit-banging two GPIO lines
// (SWCLK and SWDIO) resolved by name through periph.io/x/conn's gpioreg
// registry, backed by the Linux GPIO character device (gpioioctl).
//
// SWDIO is switched between gpio.PinOut and gpio.PinIn as the protocol's
// turnaround phases demand; SWCLK is always driven by the host.
package gpioprobe
