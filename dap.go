// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package swd

import "context"

// DAPReset queues and flushes the line-reset sequence (>=50 high clocks
// followed by idle), invalidating the DP/AP select caches since the target
// debug port state is no longer known.
func (c *Context) DAPReset(ctx context.Context) error {
	first, err := c.EnqueueMOSIDAPReset()
	if err != nil {
		return err
	}
	if err := c.FlushTail(ctx, first); err != nil {
		return err
	}
	c.dp.selectValid = false
	c.ap.apValid = false
	return nil
}

// DAPSelect performs the JTAG-to-SWD line select sequence (§6), then a line
// reset and a dummy IDCODE read to flush the target's protocol-select
// state machine, per the original library's dap_select behavior.
func (c *Context) DAPSelect(ctx context.Context) error {
	first, err := c.EnqueueMOSIJTAGToSWD()
	if err != nil {
		return err
	}
	if err := c.FlushTail(ctx, first); err != nil {
		return err
	}
	if err := c.DAPReset(ctx); err != nil {
		return err
	}
	if _, err := c.DPRead(ctx, AddrIDCODE); err != nil {
		return err
	}
	return nil
}

// DAPDetect performs DAPSelect and returns the target's IDCODE, the
// standard way of confirming a live SWD link.
func (c *Context) DAPDetect(ctx context.Context) (uint32, error) {
	if err := c.DAPSelect(ctx); err != nil {
		return 0, err
	}
	return c.DPRead(ctx, AddrIDCODE)
}
