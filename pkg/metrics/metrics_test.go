// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() {
		Register(reg)
	})

	StmtPrepareCounter.Inc()
	cnt, err := ReadCounter(StmtPrepareCounter)
	require.NoError(t, err)
	require.GreaterOrEqual(t, cnt, 1)
}
