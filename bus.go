// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package swd

// enqueue appends e to the queue, applying the MaxCmdQLen guard: past the
// limit it logs a warning in permissive mode, or refuses in Strict mode.
func (c *Context) enqueue(op string, e element) (ElementID, error) {
	if c.q.count >= c.cfg.MaxCmdQLen {
		if c.cfg.Strict {
			return 0, &Error{Kind: KindOutOfMem, Op: op, Msg: "command queue full"}
		}
		c.log.WithFields(logFields(op, c.q.count)).Warn("command queue exceeds configured MaxCmdQLen")
	}
	return c.q.append(e), nil
}

func logFields(op string, qlen int) map[string]interface{} {
	return map[string]interface{}{"op": op, "qlen": qlen}
}

// EnqueueMOSIRequest queues the 8-bit request header phase.
func (c *Context) EnqueueMOSIRequest(req byte) (ElementID, error) {
	return c.enqueue("EnqueueMOSIRequest", element{kind: MOSIRequest, bits: 8, data32: uint32(req)})
}

// EnqueueMOSITRN queues a host-driven turnaround of the context's configured
// length.
func (c *Context) EnqueueMOSITRN() (ElementID, error) {
	return c.enqueue("EnqueueMOSITRN", element{kind: MOSITRN, bits: c.cfg.TRNLen})
}

// EnqueueMISOTRN queues a high-impedance turnaround of the context's
// configured length.
func (c *Context) EnqueueMISOTRN() (ElementID, error) {
	return c.enqueue("EnqueueMISOTRN", element{kind: MISOTRN, bits: c.cfg.TRNLen})
}

// EnqueueMISOAck queues a 3-bit ACK read phase. ack, if non-nil, receives
// the value after flush; otherwise the context's default storage is used.
func (c *Context) EnqueueMISOAck(ack *byte) (ElementID, error) {
	slot := &outSlot{u8: ack}
	return c.enqueue("EnqueueMISOAck", element{kind: MISOACK, bits: 3, slot: slot})
}

// EnqueueMOSIData queues a 32-bit MOSI data phase.
func (c *Context) EnqueueMOSIData(data uint32) (ElementID, error) {
	return c.enqueue("EnqueueMOSIData", element{kind: MOSIData, bits: 32, data32: data})
}

// EnqueueMISOData queues a 32-bit MISO data phase. data, if non-nil,
// receives the value after flush.
func (c *Context) EnqueueMISOData(data *uint32) (ElementID, error) {
	slot := &outSlot{u32: data}
	return c.enqueue("EnqueueMISOData", element{kind: MISOData, bits: 32, slot: slot})
}

// EnqueueMOSIParity queues a 1-bit MOSI parity phase.
func (c *Context) EnqueueMOSIParity(parity byte) (ElementID, error) {
	return c.enqueue("EnqueueMOSIParity", element{kind: MOSIParity, bits: 1, data32: uint32(parity & 1)})
}

// EnqueueMISOParity queues a 1-bit MISO parity phase. parity, if non-nil,
// receives the value after flush.
func (c *Context) EnqueueMISOParity(parity *byte) (ElementID, error) {
	slot := &outSlot{u8: parity}
	return c.enqueue("EnqueueMISOParity", element{kind: MISOParity, bits: 1, slot: slot})
}

// EnqueueMOSIControl queues an arbitrary MOSI bit-bang phase of bits length,
// reversing the bit order within each byte first if the context's ShiftDir
// is MSBFirst.
func (c *Context) EnqueueMOSIControl(data uint32, bits int) (ElementID, error) {
	if c.cfg.ShiftDir == MSBFirst {
		buf := []byte{byte(data), byte(data >> 8), byte(data >> 16), byte(data >> 24)}
		BitSwapBuffer(buf)
		data = uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	}
	return c.enqueue("EnqueueMOSIControl", element{kind: MOSIControl, bits: bits, data32: data})
}

// EnqueueMOSIDAPReset queues the §6 line-reset byte pattern (>=50 high
// clocks followed by at least 8 idle clocks).
func (c *Context) EnqueueMOSIDAPReset() (ElementID, error) {
	return c.enqueueBytePattern("EnqueueMOSIDAPReset", lineResetBytes)
}

// EnqueueMOSIJTAGToSWD queues the JTAG-to-SWD line-select sequence.
func (c *Context) EnqueueMOSIJTAGToSWD() (ElementID, error) {
	return c.enqueueBytePattern("EnqueueMOSIJTAGToSWD", jtagToSWDBytes)
}

// EnqueueMOSISWDToJTAG queues the SWD-to-JTAG line-select sequence.
func (c *Context) EnqueueMOSISWDToJTAG() (ElementID, error) {
	return c.enqueueBytePattern("EnqueueMOSISWDToJTAG", swdToJTAGBytes)
}

func (c *Context) enqueueBytePattern(op string, pattern []byte) (ElementID, error) {
	var first ElementID
	for i, b := range pattern {
		id, err := c.enqueue(op, element{kind: MOSIBitBang, bits: 8, data32: uint32(b)})
		if err != nil {
			return first, err
		}
		if i == 0 {
			first = id
		}
	}
	return first, nil
}
