// Copyright 2024 The Cortex SWD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package swd

import (
	"io"

	"github.com/sirupsen/logrus"
)

// newLogger builds a logrus.Logger honoring the Context's configured
// LogLevel. LogSilent discards all output rather than merely raising the
// level, matching the original library's "silent means silent" behavior.
func newLogger(level LogLevel) *logrus.Logger {
	l := logrus.New()
	l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if level == LogSilent {
		l.SetOutput(io.Discard)
		return l
	}
	l.SetLevel(levelToLogrus(level))
	return l
}

func levelToLogrus(level LogLevel) logrus.Level {
	switch level {
	case LogError:
		return logrus.ErrorLevel
	case LogWarning:
		return logrus.WarnLevel
	case LogInfo:
		return logrus.InfoLevel
	case LogDebug:
		return logrus.DebugLevel
	default:
		return logrus.WarnLevel
	}
}
