// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ftdiprobe implements swd.Driver over an FTDI MPSSE controller
// (FT232H, FT2232H, FT4232H) via periph.io/x/d2xx, driving SWDIO/SWCLK with
// the MPSSE synchronous bit-bang opcodes.
//
// SWD's single bidirectional SWDIO line with an explicit host/target
// turnaround does not map onto the MPSSE SPI or I2C byte framing (both
// assume a fixed-role data line for the whole transaction), so this driver
// talks to the MPSSE engine directly with its low level opcodes.
package ftdiprobe
