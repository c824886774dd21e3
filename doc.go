// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package swd implements the host side of the ARM Serial Wire Debug (SWD)
// transport protocol used to drive the Debug Access Port of ARM Cortex-class
// microcontrollers.
//
// Every bus phase (request, turnaround, acknowledge, data, parity) is
// represented as a queue element that can be appended to a per-Context
// command queue and later flushed through a caller-supplied Driver, which
// performs the actual bit-level I/O over whatever physical adapter (FTDI,
// bit-banged GPIO, USB probe) the host provides. See the ftdiprobe,
// gpioprobe, sysfsgpio and serialprobe packages for Driver implementations.
//
// A Context is not safe for concurrent use; callers that need parallel
// probes instantiate independent Contexts, each with its own queue and
// Driver.
package swd
