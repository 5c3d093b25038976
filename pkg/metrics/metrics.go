// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const (
	ModuleClient = "mysqlstmt"

	LabelStmt = "stmt"

	LblRes = "res"

	LblHit  = "hit"
	LblMiss = "miss"
)

// Register registers all statement metrics with the given registerer.
// The library never touches the default registry on its own.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(StmtPrepareCounter)
	reg.MustRegister(StmtExecuteCounter)
	reg.MustRegister(StmtCacheCounter)
	reg.MustRegister(StmtEvictionCounter)
	reg.MustRegister(LongDataChunkCounter)
}

// ReadCounter reads the value from the counter. It is only used for testing.
func ReadCounter(counter prometheus.Counter) (int, error) {
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		return 0, err
	}
	return int(metric.Counter.GetValue()), nil
}
