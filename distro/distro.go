// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package distro recreates the single piece of board-detection the
// nanopi pinout table needs: reading the device tree model string, used
// by its Present() function to confirm it is running
// on the board they describe. The original retrieval pack did not carry
// periph's own distro package, so this is a minimal, stdlib-only
// reconstruction of DTModel rather than a stub for a third-party
// dependency.
package distro

import (
	"os"
	"strings"
)

// DTModel returns the Linux device tree "model" string, e.g.
// "FriendlyARM NanoPi NEO", or "" if it cannot be read (non-ARM hosts,
// containers without /proc/device-tree, and so on).
func DTModel() string {
	for _, path := range []string{
		"/proc/device-tree/model",
		"/sys/firmware/devicetree/base/model",
	} {
		b, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return strings.TrimRight(string(b), "\x00\n")
	}
	return ""
}
