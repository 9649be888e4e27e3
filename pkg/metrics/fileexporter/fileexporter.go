// Copyright 2025 RegionForge Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package fileexporter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/regionforge/mctrim/pkg/metrics"
)

type FileExporter struct{ name string }

func New(name string) *FileExporter {
	return &FileExporter{
		name: name,
	}
}

func (exp *FileExporter) Export() {
	if err := prometheus.WriteToTextfile(exp.name, metrics.Registry); err != nil {
		logrus.Errorf("write metrics file %s: %s", exp.name, err)
	}
}
