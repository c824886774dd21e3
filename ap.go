// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package swd

import "context"

// ApBankSelect decomposes a full AP register address into its bank
// (bits[7:4], written into SELECT.APBANKSEL) and register-select
// (bits[3:2], the 2-bit request address), and writes SELECT only when the
// cached bank or AP number differs from what is already selected.
func (c *Context) ApBankSelect(ctx context.Context, apsel byte, addr int) (regAddr int, err error) {
	bank := byte(addr) & 0xF0
	regAddr = (addr >> 2) & 0x3

	if c.ap.apValid && c.ap.apsel == apsel && c.ap.apbank == bank {
		return regAddr, nil
	}
	sel := uint32(apsel)<<SelectAPSELShift | uint32(bank)&SelectAPBANKSELMask
	if c.dp.selectValid && c.dp.selectValue&SelectCTRLSEL != 0 {
		sel |= SelectCTRLSEL
	}
	if err := c.DPWrite(ctx, AddrSELECT, sel); err != nil {
		return regAddr, err
	}
	c.ap.apsel = apsel
	c.ap.apbank = bank
	c.ap.apValid = true
	return regAddr, nil
}

// ApSelect is an alias retained for callers that only need to force the
// bank/AP selection without performing an access, e.g. before a sequence of
// raw transactExecute calls.
func (c *Context) ApSelect(ctx context.Context, apsel byte, bank byte) error {
	_, err := c.ApBankSelect(ctx, apsel, int(bank))
	return err
}

// APRead performs an AP register read. Because the AP access pipeline is
// one transaction deep, the value clocked out during the AP transaction
// itself is stale (it belongs to the *previous* AP access); the real result
// is only available after an explicit DP RDBUFF read, which this method
// always performs before returning.
func (c *Context) APRead(ctx context.Context, apsel byte, addr int) (uint32, error) {
	regAddr, err := c.ApBankSelect(ctx, apsel, addr)
	if err != nil {
		return 0, err
	}
	if _, _, err := c.transactExecute(ctx, true, true, regAddr, 0, true); err != nil {
		return 0, err
	}
	return c.DPRead(ctx, AddrRDBUFF)
}

// APWrite performs an AP register write.
func (c *Context) APWrite(ctx context.Context, apsel byte, addr int, data uint32) error {
	regAddr, err := c.ApBankSelect(ctx, apsel, addr)
	if err != nil {
		return err
	}
	_, _, err = c.transactExecute(ctx, true, false, regAddr, data, true)
	return err
}
