// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type testingLog struct {
	testing.TB
	sync.Mutex
}

func (t *testingLog) Write(b []byte) (int, error) {
	t.Lock()
	defer t.Unlock()
	t.Logf("%s", b)
	return len(b), nil
}

// CreateLoggerForTest returns a logger that writes into the test output.
func CreateLoggerForTest(t testing.TB) *zap.Logger {
	log := &testingLog{TB: t}
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(log),
		zap.DebugLevel,
	)).Named(t.Name())
}
