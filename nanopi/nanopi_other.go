// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !arm && !arm64

package nanopi

const isArm = false
