// Copyright 2025 RegionForge Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Exporter interface {
	Export()
}

const (
	filesProcessedKey = "files_processed"
	chunksTrimmedKey  = "chunks_trimmed"
	bytesReclaimedKey = "bytes_reclaimed"
	trimDurationKey   = "duration_seconds"
	namespace         = "mctrim"
	subsystem         = "trim"
)

var (
	filesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      filesProcessedKey,
			Help:      "The total number of region files handled. Broken down by outcome.",
		},
		[]string{"outcome"},
	)

	chunksTrimmed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      chunksTrimmedKey,
			Help:      "The total number of chunks cleared from region files. Broken down by file name.",
		},
		[]string{"container"},
	)

	bytesReclaimed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      bytesReclaimedKey,
			Help:      "The total bytes reclaimed by rewriting region files. Broken down by file name.",
		},
		[]string{"container"},
	)

	trimDuration = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      trimDurationKey,
			Help:      "The total duration of trimming region files. Broken down by file name.",
		},
		[]string{"container"},
	)
)

var register sync.Once
var Registry *prometheus.Registry
var exporter Exporter

func sinceInSeconds(start time.Time) float64 {
	return time.Since(start).Seconds()
}

// Register registers metrics. This is always called only once.
func Register(exp Exporter) {
	register.Do(func() {
		Registry = prometheus.NewRegistry()
		Registry.MustRegister(filesProcessed, chunksTrimmed, bytesReclaimed, trimDuration)
		exporter = exp
	})
}

func Export() {
	if exporter != nil {
		exporter.Export()
	}
}

func FileProcessed(outcome string) {
	filesProcessed.WithLabelValues(outcome).Inc()
}

func ChunksTrimmed(container string, count int) {
	chunksTrimmed.WithLabelValues(container).Add(float64(count))
}

func BytesReclaimed(container string, n int64) {
	// Counters reject negative values. A rewrite can grow a container
	// when its slots shared sectors, compaction duplicates those.
	if n < 0 {
		return
	}
	bytesReclaimed.WithLabelValues(container).Add(float64(n))
}

func TrimDuration(container string, start time.Time) {
	trimDuration.WithLabelValues(container).Add(sinceInSeconds(start))
}
