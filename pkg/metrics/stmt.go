// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	StmtPrepareCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: ModuleClient,
			Subsystem: LabelStmt,
			Name:      "prepare_total",
			Help:      "Counter of statement prepare round trips.",
		})

	StmtExecuteCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: ModuleClient,
			Subsystem: LabelStmt,
			Name:      "execute_total",
			Help:      "Counter of statement execute requests sent.",
		})

	StmtCacheCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ModuleClient,
			Subsystem: LabelStmt,
			Name:      "cache_total",
			Help:      "Counter of statement cache lookups.",
		}, []string{LblRes})

	StmtEvictionCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: ModuleClient,
			Subsystem: LabelStmt,
			Name:      "evictions_total",
			Help:      "Counter of cache evictions that closed the displaced statement.",
		})

	LongDataChunkCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: ModuleClient,
			Subsystem: LabelStmt,
			Name:      "long_data_chunks_total",
			Help:      "Counter of COM_STMT_SEND_LONG_DATA chunks sent.",
		})
)
