// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package swd

import "context"

// FlushAll drives every queued element through the Driver, in order.
func (c *Context) FlushAll(ctx context.Context) error {
	return c.flushRange(ctx, c.q.head, c.q.tail)
}

// FlushHead drives from the queue's root up to and including to.
func (c *Context) FlushHead(ctx context.Context, to ElementID) error {
	return c.flushRange(ctx, c.q.findRoot(to), to)
}

// FlushTail drives from from up to and including the queue's tail.
func (c *Context) FlushTail(ctx context.Context, from ElementID) error {
	return c.flushRange(ctx, from, c.q.findTail(from))
}

// FlushOne drives exactly the element id.
func (c *Context) FlushOne(ctx context.Context, id ElementID) error {
	return c.flushRange(ctx, id, id)
}

// FlushLast drives only the current tail element.
func (c *Context) FlushLast(ctx context.Context) error {
	return c.flushRange(ctx, c.q.tail, c.q.tail)
}

// flushRange drives elements from..to inclusive. Direction is latched by
// the first element seen and must be consistent with TRN-adjacency: a
// direction change is only legal immediately after a TRN element. See §5.
func (c *Context) flushRange(ctx context.Context, from, to ElementID) error {
	if from == 0 || to == 0 {
		return &Error{Kind: KindNullQueue, Op: "flushRange", Msg: "empty range"}
	}
	c.clearCancel()

	var lastDir Direction
	haveDir := false
	id := from
	for {
		if c.cancelled() {
			return &Error{Kind: KindQueue, Op: "flushRange", Msg: "cancelled"}
		}
		el := c.q.get(id)
		if el == nil {
			return &Error{Kind: KindQueue, Op: "flushRange", Msg: "dangling element id"}
		}
		if !el.done {
			dir := el.kind.Direction()
			isTRN := el.kind == MOSITRN || el.kind == MISOTRN
			if haveDir && dir != lastDir && dir != DirUndefined && !isTRN {
				return &Error{Kind: KindDirection, Op: "flushRange", Msg: "direction change without TRN"}
			}
			if err := c.driveElement(ctx, el); err != nil {
				return err
			}
			lastDir = dir
			haveDir = true
		}
		if id == to {
			break
		}
		id = el.next
		if id == 0 {
			break
		}
	}
	return nil
}

// driveElement dispatches a single element to the bound Driver and stores
// its result (data, or an outSlot write-back).
func (c *Context) driveElement(ctx context.Context, el *element) error {
	lsb := true
	switch el.kind {
	case MOSIRequest, MOSIData, MOSIParity, MOSIBitBang, MOSIControl:
		if el.bits <= 8 {
			if _, err := c.drv.MOSI8(ctx, byte(el.data32), el.bits, lsb); err != nil {
				return wrapErr("driveElement", KindDriver, err)
			}
		} else {
			if _, err := c.drv.MOSI32(ctx, el.data32, el.bits, lsb); err != nil {
				return wrapErr("driveElement", KindDriver, err)
			}
		}
	case MOSITRN:
		if err := c.drv.MOSITRN(ctx, el.bits); err != nil {
			return wrapErr("driveElement", KindDriver, err)
		}
	case MISOTRN:
		if err := c.drv.MISOTRN(ctx, el.bits); err != nil {
			return wrapErr("driveElement", KindDriver, err)
		}
	case MISOACK, MISOParity, MISOBitBang:
		v, _, err := c.drv.MISO8(ctx, el.bits, lsb)
		if err != nil {
			return wrapErr("driveElement", KindDriver, err)
		}
		el.data32 = uint32(v)
		if el.slot != nil {
			if el.slot.u8 != nil {
				*el.slot.u8 = v
			} else if el.kind == MISOACK {
				c.out.lastAck = v
			} else {
				c.out.lastParity = v
			}
		}
	case MISOData:
		v, _, err := c.drv.MISO32(ctx, el.bits, lsb)
		if err != nil {
			return wrapErr("driveElement", KindDriver, err)
		}
		el.data32 = v
		if el.slot != nil {
			if el.slot.u32 != nil {
				*el.slot.u32 = v
			} else {
				c.out.lastData32 = v
			}
		}
	default:
		return &Error{Kind: KindBadCmdType, Op: "driveElement"}
	}
	el.done = true
	return nil
}
