// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package swd

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a library Error, mirroring the original
// SWD_ERROR_CODE taxonomy (queue errors, protocol-composition errors, ACK
// states, driver/transport failures).
type Kind int

const (
	KindNone Kind = iota
	KindNullContext
	KindNullPointer
	KindNullQueue
	KindNullTrn
	KindParam
	KindRange
	KindAddr
	KindAPnDP
	KindRnW
	KindBadOpcode
	KindOutOfMem
	KindQueue
	KindQueueRoot
	KindQueueTail
	KindQueueNotFree
	KindBadCmdType
	KindBadCmdData
	KindNoDataCmd
	KindNoParityCmd
	KindDataPtr
	KindParityPtr
	KindAckMissing
	KindAckMismatch
	KindAckOrder
	KindParity
	KindAck
	KindAckWait
	KindAckFault
	KindAckUnknown
	KindAckNotDone
	KindTurnaround
	KindDirection
	KindDriver
	KindMaxRetry
	KindTransport
	KindLogLevel
	KindDefinition
)

var kindNames = [...]string{
	"none", "null-context", "null-pointer", "null-queue", "null-trn",
	"param", "range", "addr", "apndp", "rnw", "bad-opcode", "out-of-mem",
	"queue", "queue-root", "queue-tail", "queue-not-free", "bad-cmd-type",
	"bad-cmd-data", "no-data-cmd", "no-parity-cmd", "data-ptr", "parity-ptr",
	"ack-missing", "ack-mismatch", "ack-order", "parity", "ack", "ack-wait",
	"ack-fault", "ack-unknown", "ack-not-done", "turnaround", "direction",
	"driver", "max-retry", "transport", "log-level", "definition",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Error is the error type returned throughout this package. Ack carries the
// raw 3-bit acknowledge value for the AckXxx kinds; Err wraps an underlying
// driver error where applicable.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Ack  byte
	Err  error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("swd: %s: %s", e.Op, e.Kind)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, &swd.Error{Kind: swd.KindAckWait}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// IsKind reports whether err is (or wraps) an *Error of the given Kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

func wrapErr(op string, kind Kind, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}
