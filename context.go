// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package swd

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// dpCache remembers the DP-side state that lets AP/DP transactions elide
// redundant SELECT writes.
type dpCache struct {
	selectValid bool
	selectValue uint32
	ctrlstat    uint32
}

// apCache remembers the currently selected AP and its bank.
type apCache struct {
	apsel    byte
	apbank   byte
	apValid  bool
}

// txLog holds the context-owned default output storage an outSlot falls
// back to when a caller enqueues a read without supplying its own
// destination pointer.
type txLog struct {
	lastData8   byte
	lastData32  uint32
	lastAck     byte
	lastParity  byte
}

// Context is the library's stateful object: one command queue, one driver
// binding, and the DP/AP caches that make repeated register access cheap.
// A Context is not safe for concurrent use by multiple goroutines; callers
// needing concurrent access must serialize their own calls.
type Context struct {
	drv    Driver
	cfg    Config
	log    *logrus.Logger
	q      *queue
	dp     dpCache
	ap     apCache
	out    txLog
	cancel atomic.Bool
}

// NewContext builds a Context bound to drv with cfg. normalize replaces a
// zero TRNLen, MaxCmdQLen or RetryCount with DefaultConfig's value; other
// zero fields are kept as given (a zero LogLevel is LogSilent). If logger
// is nil a logrus logger is created from cfg.LogLevel.
func NewContext(drv Driver, cfg Config, logger *logrus.Logger) (*Context, error) {
	if drv == nil {
		return nil, &Error{Kind: KindNullContext, Op: "NewContext", Msg: "nil driver"}
	}
	cfg.normalize()
	if logger == nil {
		logger = newLogger(cfg.LogLevel)
	}
	return &Context{
		drv: drv,
		cfg: cfg,
		log: logger,
		q:   newQueue(),
	}, nil
}

// Cancel requests cooperative cancellation of any flush in progress. It
// takes effect between queue elements, never mid-element (§5).
func (c *Context) Cancel() {
	c.cancel.Store(true)
}

func (c *Context) clearCancel() {
	c.cancel.Store(false)
}

func (c *Context) cancelled() bool {
	return c.cancel.Load()
}

// Deinit releases the queue. force bypasses the "all elements flushed"
// check.
func (c *Context) Deinit(force bool) error {
	return c.q.freeAll(force)
}

// QueueLen reports the number of elements currently queued.
func (c *Context) QueueLen() int {
	return c.q.count
}
