// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdiprobe

// MPSSE opcodes, grounded on the periph ftdi package's own constant table
// (AN_135 MPSSE Basics / AN_108 Command Processor).
const (
	mpsseDataOut     byte = 0x10 // enable output, default on rising edge
	mpsseDataIn      byte = 0x20 // enable input, default on rising edge
	mpsseDataOutFall byte = 0x01 // clock data out on falling edge instead
	mpsseDataLSBF    byte = 0x08 // LSB first instead of MSB first
	mpsseDataBit     byte = 0x02 // bit-length transfer instead of byte-length

	mpsseGPIOSetD  byte = 0x80 // <op>,<value>,<direction> on ADBus
	mpsseGPIOReadD byte = 0x81

	mpsseClock30MHz     byte = 0x8A
	mpsseClockNormal    byte = 0x97
	mpsseClock2Phase    byte = 0x8D
	mpsseLoopbackOff    byte = 0x85
	mpsseClockDivisor   byte = 0x86
	mpsseFlush          byte = 0x87
)

// ADBus pin assignment used by this driver: TCK/SWCLK on D0, TDI/SWDIO-out
// on D1, TDO/SWDIO-in on D2. A two-pin SWDIO split (rather than one true
// bidirectional pin) is the standard way to drive SWD from an MPSSE engine,
// since the MPSSE shift commands always assign TDI and TDO to fixed,
// distinct pins.
const (
	pinSWCLK = 1 << 0
	pinSWDIOOut = 1 << 1
	pinSWDIOIn  = 1 << 2
)

// gpioDirOutputs is the ADBus direction mask while driving (SWDIO-out is an
// output, SWDIO-in is always an input so the target can drive it).
const gpioDirOutputs = pinSWCLK | pinSWDIOOut
