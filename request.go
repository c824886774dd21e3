// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package swd

// MakeRequest packs the 8-bit SWD request header: Start(1) | APnDP | RnW |
// A[2:3] | Parity | Stop(0) | Park(1). Parity is even parity over APnDP,
// RnW, A2 and A3. addr is the 2-bit register select (0..3); see
// ParseRequest for the inverse.
func MakeRequest(apndp, rnw bool, addr int) (byte, error) {
	if addr < 0 || addr > 3 {
		return 0, &Error{Kind: KindAddr, Op: "MakeRequest", Msg: "address out of range"}
	}
	var req byte = 1 << 0 // Start
	if apndp {
		req |= 1 << 1
	}
	if rnw {
		req |= 1 << 2
	}
	req |= byte(addr&0x3) << 3
	parity := ParityEven8((req >> 1) & 0x0F)
	req |= parity << 5
	// Stop bit (bit 6) stays 0.
	req |= 1 << 7 // Park
	return req, nil
}

// ParseRequest decodes a request byte back into its fields and reports
// whether the start/stop/parity/park framing bits were all well formed.
func ParseRequest(b byte) (apndp, rnw bool, addr int, ok bool) {
	start := b & 0x1
	apndpBit := (b >> 1) & 0x1
	rnwBit := (b >> 2) & 0x1
	a := (b >> 3) & 0x3
	parity := (b >> 5) & 0x1
	stop := (b >> 6) & 0x1
	park := (b >> 7) & 0x1

	apndp = apndpBit == 1
	rnw = rnwBit == 1
	addr = int(a)

	wantParity := ParityEven8((b >> 1) & 0x0F)
	ok = start == 1 && stop == 0 && park == 1 && parity == wantParity
	return apndp, rnw, addr, ok
}
