// Copyright 2025 RegionForge Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

// The mctrim CLI tool walks the region files of a Minecraft dimension
// and clears every chunk a retention criteria matches, compacting the
// rewritten files and deleting the ones left with no chunks at all.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/regionforge/mctrim/pkg/metrics"
	"github.com/regionforge/mctrim/pkg/metrics/fileexporter"
	"github.com/regionforge/mctrim/pkg/trimmer"
)

var versionGitCommit string
var versionBuildTime string

func setupLogLevel(c *cli.Context) error {
	logLevel, err := logrus.ParseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	logrus.SetLevel(logLevel)
	return nil
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	version := fmt.Sprintf("%s.%s", versionGitCommit, versionBuildTime)

	app := &cli.App{
		Name:    "mctrim",
		Usage:   "Minecraft region file trimmer",
		Version: version,
	}

	app.Commands = []*cli.Command{
		{
			Name:  "trim",
			Usage: "Clear rarely visited chunks from the region files of a dimension",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "info", Usage: "Set log level (panic, fatal, error, warn, info, debug, trace)", EnvVars: []string{"LOG_LEVEL"}},
				&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "Dimension directory holding the region/poi/entities layout to trim", EnvVars: []string{"INPUT"}},
				&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Directory receiving the trimmed files, defaults to rewriting the input in place", EnvVars: []string{"OUTPUT"}},
				&cli.StringFlag{Name: "backup", Aliases: []string{"b"}, Usage: "Copy every region file the trim changes into this directory first, must differ from input and output", EnvVars: []string{"BACKUP"}},
				&cli.StringFlag{Name: "criteria", Aliases: []string{"c"}, Required: true, Usage: fmt.Sprintf("Retention criteria deciding which chunks are cleared, one of %v", trimmer.CriteriaNames()), EnvVars: []string{"CRITERIA"}},
				&cli.IntFlag{Name: "workers", Aliases: []string{"p"}, Value: 1, Usage: "Number of region files trimmed in parallel, 0 picks one worker per CPU but one", EnvVars: []string{"WORKERS"}},
				&cli.StringFlag{Name: "metrics-file", Usage: "Write Prometheus text format metrics to this file when the batch finishes", EnvVars: []string{"METRICS_FILE"}},
			},
			Action: func(c *cli.Context) error {
				if err := setupLogLevel(c); err != nil {
					return err
				}

				tr, err := trimmer.New(trimmer.Opt{
					Input:    c.String("input"),
					Output:   c.String("output"),
					Backup:   c.String("backup"),
					Criteria: c.String("criteria"),
					Workers:  c.Int("workers"),
				})
				if err != nil {
					return err
				}

				if metricsFile := c.String("metrics-file"); metricsFile != "" {
					metrics.Register(fileexporter.New(metricsFile))
					defer metrics.Export()
				}

				_, err = tr.Run()
				return err
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}
