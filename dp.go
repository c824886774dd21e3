// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package swd

import "context"

// doTransactionEnqueue builds the full speculative request/ack/data/parity
// sequence for a single DP or AP access, assuming the transaction will
// succeed (ACK=OK), and returns the id of its first element. This is the
// shape used when a caller wants to pipeline many transactions before any
// of them are flushed: unlike the EXECUTE path, nothing here inspects the
// ACK before the data phase is queued.
func (c *Context) doTransactionEnqueue(apndp, rnw bool, addr int, dataIn uint32, dataOut *uint32, ackOut *byte, parityOut *byte) (ElementID, error) {
	req, err := MakeRequest(apndp, rnw, addr)
	if err != nil {
		return 0, err
	}
	head, err := c.EnqueueMOSIRequest(req)
	if err != nil {
		return 0, err
	}
	if _, err := c.EnqueueMISOTRN(); err != nil {
		return 0, err
	}
	if _, err := c.EnqueueMISOAck(ackOut); err != nil {
		return 0, err
	}
	if rnw {
		if _, err := c.EnqueueMISOData(dataOut); err != nil {
			return 0, err
		}
		if _, err := c.EnqueueMISOParity(parityOut); err != nil {
			return 0, err
		}
		if _, err := c.EnqueueMOSITRN(); err != nil {
			return 0, err
		}
	} else {
		if _, err := c.EnqueueMOSITRN(); err != nil {
			return 0, err
		}
		if _, err := c.EnqueueMOSIData(dataIn); err != nil {
			return 0, err
		}
		if _, err := c.EnqueueMOSIParity(ParityEven32(dataIn)); err != nil {
			return 0, err
		}
	}
	return head, nil
}

// doTransactionExecuteRaw performs exactly one request/ack attempt with no
// retry: it flushes request+TRN+ack, inspects the ack, and only queues and
// flushes the data phase when ack is OK — on a real target no data or
// parity clocks occur once ack is WAIT or FAULT, so building them
// speculatively (as ENQUEUE mode does) would be wrong here.
func (c *Context) doTransactionExecuteRaw(ctx context.Context, apndp, rnw bool, addr int, dataIn uint32) (ack byte, data uint32, err error) {
	req, err := MakeRequest(apndp, rnw, addr)
	if err != nil {
		return 0, 0, err
	}
	headID, err := c.EnqueueMOSIRequest(req)
	if err != nil {
		return 0, 0, err
	}
	if _, err = c.EnqueueMISOTRN(); err != nil {
		return 0, 0, err
	}
	ackID, err := c.EnqueueMISOAck(nil)
	if err != nil {
		return 0, 0, err
	}
	if err = c.FlushHead(ctx, ackID); err != nil {
		return 0, 0, err
	}
	ack = byte(c.q.get(ackID).data32)

	if ack != AckOK {
		if _, err = c.EnqueueMOSITRN(); err != nil {
			return ack, 0, err
		}
		if err = c.FlushLast(ctx); err != nil {
			return ack, 0, err
		}
		return ack, 0, nil
	}

	if rnw {
		dataID, err := c.EnqueueMISOData(nil)
		if err != nil {
			return ack, 0, err
		}
		parID, err := c.EnqueueMISOParity(nil)
		if err != nil {
			return ack, 0, err
		}
		if _, err = c.EnqueueMOSITRN(); err != nil {
			return ack, 0, err
		}
		if err = c.FlushTail(ctx, dataID); err != nil {
			return ack, 0, err
		}
		data = c.q.get(dataID).data32
		parity := byte(c.q.get(parID).data32)
		if parity != ParityEven32(data) {
			return ack, data, &Error{Kind: KindParity, Op: "doTransactionExecuteRaw", Ack: ack}
		}
		return ack, data, nil
	}

	if _, err = c.EnqueueMOSITRN(); err != nil {
		return ack, 0, err
	}
	if _, err = c.EnqueueMOSIData(dataIn); err != nil {
		return ack, 0, err
	}
	if _, err = c.EnqueueMOSIParity(ParityEven32(dataIn)); err != nil {
		return ack, 0, err
	}
	if err = c.FlushTail(ctx, headID); err != nil {
		return ack, 0, err
	}
	return ack, dataIn, nil
}

// transactExecute wraps doTransactionExecuteRaw with the WAIT-retry loop
// (§4.6): on AckWait it clears the sticky error bits via ABORT and replays
// the identical request, bounded by cfg.RetryCount. When a retried attempt
// finally succeeds on a read, it fences the result with a mandatory RDBUFF
// DP read, matching the original library's behavior in both its DP and AP
// read retry paths. allowFence is false for the fence read itself, so the
// fence never recurses.
func (c *Context) transactExecute(ctx context.Context, apndp, rnw bool, addr int, dataIn uint32, allowFence bool) (byte, uint32, error) {
	retries := 0
	var ack byte
	var data uint32
	var err error
retry:
	for {
		ack, data, err = c.doTransactionExecuteRaw(ctx, apndp, rnw, addr, dataIn)
		if err != nil {
			return ack, data, err
		}
		switch ack {
		case AckOK:
			break retry
		case AckWait:
			retries++
			if retries > c.cfg.RetryCount {
				return ack, data, &Error{Kind: KindMaxRetry, Op: "transactExecute", Ack: ack}
			}
			if _, aerr := c.DAPErrorsHandle(ctx, abortSafeMask); aerr != nil {
				return ack, data, aerr
			}
		case AckFault:
			return ack, data, &Error{Kind: KindAckFault, Op: "transactExecute", Ack: ack}
		default:
			return ack, data, &Error{Kind: KindAckUnknown, Op: "transactExecute", Ack: ack}
		}
	}
	isFenceRead := !apndp && addr == AddrRDBUFF
	if retries > 0 && rnw && allowFence && !isFenceRead {
		if _, ferr := c.DPRead(ctx, AddrRDBUFF); ferr != nil {
			return ack, data, ferr
		}
	}
	c.updateDPCache(apndp, rnw, addr, data)
	return ack, data, nil
}

// updateDPCache keeps the SELECT/CTRLSTAT shadow values current so
// ApSelect/ApBankSelect can elide redundant SELECT writes.
func (c *Context) updateDPCache(apndp, rnw bool, addr int, data uint32) {
	if apndp {
		return
	}
	if !rnw && addr == AddrSELECT {
		c.dp.selectValue = data
		c.dp.selectValid = true
	}
	if rnw && addr == AddrCTRLSTAT {
		c.dp.ctrlstat = data
	}
}

// DAPErrorsHandle clears the sticky error bits named by mask by writing
// ABORT, then re-reads CTRL/STAT so the caller can observe the result.
// DAPABORT is never included automatically; pass it in mask explicitly if
// a full debug-port abort is actually intended.
func (c *Context) DAPErrorsHandle(ctx context.Context, mask uint32) (uint32, error) {
	if err := c.DPWrite(ctx, AddrABORT, mask&(abortSafeMask|AbortDAPABORT)); err != nil {
		return 0, err
	}
	return c.DPRead(ctx, AddrCTRLSTAT)
}

// DPRead performs a DP register read, transparently retrying on WAIT.
func (c *Context) DPRead(ctx context.Context, addr int) (uint32, error) {
	_, data, err := c.transactExecute(ctx, false, true, addr, 0, true)
	return data, err
}

// DPWrite performs a DP register write, transparently retrying on WAIT.
func (c *Context) DPWrite(ctx context.Context, addr int, data uint32) error {
	_, _, err := c.transactExecute(ctx, false, false, addr, data, true)
	return err
}
