// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Command swd-detect selects a transport backend, performs the SWD line
// select sequence and prints the target's IDCODE, the minimal smoke test
// for a new probe or wiring.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cortexswd/swd"
	"github.com/cortexswd/swd/backend"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "swd-detect:", err)
		os.Exit(1)
	}
}

func run() error {
	transport := flag.String("transport", "gpio", fmt.Sprintf("transport backend (%s)", strings.Join(backend.Names(), ", ")))
	argsFlag := flag.String("args", "", "comma-separated key=value backend args, e.g. clk=GPIO17,dio=GPIO27")
	verbose := flag.Bool("v", false, "enable debug logging")
	timeout := flag.Duration("timeout", 5*time.Second, "overall detect timeout")
	flag.Parse()

	args := parseArgs(*argsFlag)

	drv, err := backend.Open(*transport, args)
	if err != nil {
		return err
	}

	cfg := swd.DefaultConfig()
	if *verbose {
		cfg.LogLevel = swd.LogDebug
	}

	c, err := swd.NewContext(drv, cfg, nil)
	if err != nil {
		return fmt.Errorf("swd.NewContext: %w", err)
	}
	defer func() {
		if err := c.Deinit(true); err != nil {
			logrus.WithError(err).Warn("deinit")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	idcode, err := c.DAPDetect(ctx)
	if err != nil {
		return fmt.Errorf("DAPDetect: %w", err)
	}
	fmt.Printf("IDCODE: 0x%08X\n", idcode)
	return nil
}

func parseArgs(s string) map[string]string {
	args := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		args[k] = v
	}
	return args
}
