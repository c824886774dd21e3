// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package backend is the registry of swd.Driver transports: gpioprobe,
// ftdiprobe, sysfsgpio and serialprobe each register an opener under a
// short name here, the way periph's host package gathers its board and
// bus drivers behind a single Init call.
package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cortexswd/swd"
)

// Opener constructs a swd.Driver from backend-specific string args, e.g.
// {"clk": "GPIO17", "dio": "GPIO27"} for gpioprobe or {"index": "0"} for
// ftdiprobe. Each backend decides how to treat a missing key; keys a
// backend does not use are ignored.
type Opener func(args map[string]string) (swd.Driver, error)

var (
	mu       sync.Mutex
	openers  = map[string]Opener{}
)

// Register adds an Opener under name. It is meant to be called from an
// init() in the backend's own registration file below, never by a
// consumer of this package. Registering the same name twice panics, the
// same way periph's driverreg.Register rejects duplicate driver names.
func Register(name string, open Opener) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := openers[name]; ok {
		panic(fmt.Sprintf("backend: %q already registered", name))
	}
	openers[name] = open
}

// Names returns the sorted list of registered backend names.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, 0, len(openers))
	for n := range openers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Open builds the swd.Driver registered under name, passing it args.
func Open(name string, args map[string]string) (swd.Driver, error) {
	mu.Lock()
	open, ok := openers[name]
	mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("backend: unknown transport %q (have: %v)", name, Names())
	}
	return open(args)
}
