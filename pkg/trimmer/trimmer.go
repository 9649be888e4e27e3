// Copyright 2025 RegionForge Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

// Package trimmer applies a retention criteria to every region file of
// a dimension. Chunks the criteria matches are cleared and the changed
// files compacted on rewrite; a file left with no chunks at all is
// deleted.
package trimmer

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/regionforge/mctrim/pkg/metrics"
	"github.com/regionforge/mctrim/pkg/region"
	"github.com/regionforge/mctrim/pkg/utils"
)

// Outcome classifies what happened to one region file.
type Outcome string

const (
	// Unchanged files had no chunk cleared and were not rewritten.
	Unchanged Outcome = "unchanged"
	// Rewritten files lost chunks and were compacted to the output.
	Rewritten Outcome = "rewritten"
	// Deleted files had every chunk cleared, so no output remains.
	Deleted Outcome = "deleted"
	// Failed files could not be processed.
	Failed Outcome = "failed"
	// Skipped files were left untouched after an earlier failure in
	// the same worker's share.
	Skipped Outcome = "skipped"
)

// FileResult records the fate of one region file.
type FileResult struct {
	Name      string
	Outcome   Outcome
	Trimmed   int
	Reclaimed int64
	Err       error
}

// Summary aggregates a whole batch in input order.
type Summary struct {
	Results   []FileResult
	Trimmed   int
	Reclaimed int64
}

// Count returns how many files ended with the given outcome.
func (s *Summary) Count(outcome Outcome) int {
	n := 0
	for _, res := range s.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Opt configures a trim batch.
type Opt struct {
	Input    string
	Output   string // empty rewrites in place
	Backup   string // empty disables backups
	Criteria string
	Workers  int // 1 runs sequentially, 0 picks a worker per CPU but one
}

// Trimmer runs one retention criteria over the region files of a
// dimension.
type Trimmer struct {
	paths   *Paths
	match   region.Predicate
	workers int
}

func New(opt Opt) (*Trimmer, error) {
	match, err := Criterion(opt.Criteria)
	if err != nil {
		return nil, err
	}
	paths, err := NewPaths(opt.Input, opt.Output, opt.Backup)
	if err != nil {
		return nil, err
	}
	workers := opt.Workers
	if workers == 0 {
		workers = runtime.NumCPU() - 1
	}
	if workers < 1 {
		workers = 1
	}
	return &Trimmer{paths: paths, match: match, workers: workers}, nil
}

// Paths exposes the resolved directory layout of the run.
func (t *Trimmer) Paths() *Paths {
	return t.paths
}

// Run processes every region file under the input layout. Files are
// dealt round robin to a fixed set of workers, so each file belongs to
// exactly one worker and the workers share nothing but the filesystem.
// A worker that hits a broken file drops the rest of its own share and
// leaves the other workers alone; Run reports the first such error
// after every worker has drained, alongside the full summary.
func (t *Trimmer) Run() (*Summary, error) {
	start := time.Now()
	files, err := Regions(t.paths.Input.Region)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	if len(files) == 0 {
		logrus.Infof("no region files under %s", t.paths.Input.Region)
		return summary, nil
	}

	workers := t.workers
	if workers > len(files) {
		workers = len(files)
	}
	shares := make([][]string, workers)
	for i, file := range files {
		shares[i%workers] = append(shares[i%workers], file)
	}

	logrus.Infof("trimming %d region files with %d workers", len(files), workers)

	results := make([][]FileResult, workers)
	eg := errgroup.Group{}
	for w := range shares {
		w := w
		eg.Go(func() error {
			var err error
			results[w], err = t.processShare(shares[w])
			return err
		})
	}
	runErr := eg.Wait()

	// Stitch the per worker shares back into input order.
	summary.Results = make([]FileResult, len(files))
	for w, share := range results {
		for k, res := range share {
			summary.Results[k*workers+w] = res
		}
	}
	for _, res := range summary.Results {
		summary.Trimmed += res.Trimmed
		summary.Reclaimed += res.Reclaimed
		metrics.FileProcessed(string(res.Outcome))
	}

	logrus.Infof("processed %d region files in %s: %d rewritten, %d deleted, %d unchanged, %d failed, %d skipped; %d chunks trimmed, %s reclaimed",
		len(summary.Results), time.Since(start).Round(time.Millisecond),
		summary.Count(Rewritten), summary.Count(Deleted), summary.Count(Unchanged),
		summary.Count(Failed), summary.Count(Skipped),
		summary.Trimmed, humanize.Bytes(uint64(summary.Reclaimed)))

	return summary, runErr
}

func (t *Trimmer) processShare(files []string) ([]FileResult, error) {
	results := make([]FileResult, 0, len(files))
	var failed error
	for _, path := range files {
		if failed != nil {
			logrus.Warnf("skipping %s after previous error", filepath.Base(path))
			results = append(results, FileResult{Name: filepath.Base(path), Outcome: Skipped})
			continue
		}
		res := t.processFile(path)
		if res.Err != nil {
			logrus.Errorf("trim %s: %s", res.Name, res.Err)
			failed = res.Err
		}
		results = append(results, res)
	}
	return results, failed
}

func (t *Trimmer) processFile(path string) FileResult {
	start := time.Now()
	name := filepath.Base(path)
	res := FileResult{Name: name}
	defer metrics.TrimDuration(name, start)

	fail := func(err error) FileResult {
		res.Outcome = Failed
		res.Err = err
		return res
	}

	info, err := os.Stat(path)
	if err != nil {
		return fail(errors.Wrap(err, "stat container"))
	}

	reg, err := region.ParseRegionFile(path)
	if err != nil {
		return fail(err)
	}

	trimmed, err := reg.Trim(t.match)
	if err != nil {
		return fail(err)
	}
	res.Trimmed = trimmed

	outPath := filepath.Join(t.paths.Output.Region, name)
	if !reg.Dirty() {
		if outPath != path {
			if err := utils.CopyFile(path, outPath); err != nil {
				return fail(err)
			}
		}
		logrus.Debugf("unchanged %s", name)
		res.Outcome = Unchanged
		return res
	}

	if t.paths.HasBackup() {
		if err := utils.CopyFile(path, filepath.Join(t.paths.Backup.Region, name)); err != nil {
			return fail(errors.Wrap(err, "back up container"))
		}
	}

	data := reg.Bytes()
	written, err := region.WriteContainer(outPath, data)
	if err != nil {
		return fail(err)
	}
	if written {
		res.Outcome = Rewritten
		res.Reclaimed = info.Size() - int64(len(data))
		logrus.Infof("trimmed %s: %d chunks cleared, %s reclaimed", name, trimmed, humanize.Bytes(uint64(res.Reclaimed)))
	} else {
		res.Outcome = Deleted
		res.Reclaimed = info.Size()
		logrus.Infof("trimmed %s: %d chunks cleared, nothing remains, file deleted", name, trimmed)
	}
	metrics.ChunksTrimmed(name, trimmed)
	metrics.BytesReclaimed(name, res.Reclaimed)
	return res
}
