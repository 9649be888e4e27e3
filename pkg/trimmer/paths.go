// Copyright 2025 RegionForge Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package trimmer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/regionforge/mctrim/pkg/utils"
)

// ContainerExt is the extension of region container files.
const ContainerExt = ".mca"

// Layout is the trio of container directories a dimension keeps under
// one root. Only the region directory is batch processed; poi and
// entities belong to the layout so output and backup trees stay
// complete.
type Layout struct {
	Region   string
	POI      string
	Entities string
}

func makeLayout(root string) (Layout, error) {
	l := Layout{
		Region:   filepath.Join(root, "region"),
		POI:      filepath.Join(root, "poi"),
		Entities: filepath.Join(root, "entities"),
	}
	for _, dir := range []string{l.Region, l.POI, l.Entities} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Layout{}, errors.Wrap(err, "create container directory")
		}
	}
	return l, nil
}

// Paths resolves the directory layout of one trim run.
type Paths struct {
	Input  Layout
	Output Layout
	// Backup stays zero when no backup was requested.
	Backup Layout
}

// NewPaths validates the root directories and creates the layout. An
// empty output means rewriting in place. The backup root must differ
// from both input and output, otherwise a backup could be clobbered by
// the very run it belongs to.
func NewPaths(input, output, backup string) (*Paths, error) {
	input, err := filepath.Abs(input)
	if err != nil {
		return nil, errors.Wrap(err, "resolve input directory")
	}
	if !utils.IsPathExists(input) {
		return nil, errors.Errorf("input directory %s does not exist", input)
	}
	if !utils.IsDir(input) {
		return nil, errors.Errorf("input path %s is not a directory", input)
	}

	if utils.IsEmptyString(output) {
		output = input
	}
	output, err = filepath.Abs(output)
	if err != nil {
		return nil, errors.Wrap(err, "resolve output directory")
	}

	p := &Paths{}
	if p.Input, err = makeLayout(input); err != nil {
		return nil, errors.Wrap(err, "input layout")
	}
	if p.Output, err = makeLayout(output); err != nil {
		return nil, errors.Wrap(err, "output layout")
	}

	if !utils.IsEmptyString(backup) {
		backup, err = filepath.Abs(backup)
		if err != nil {
			return nil, errors.Wrap(err, "resolve backup directory")
		}
		if backup == input {
			return nil, errors.New("backup directory must differ from the input directory")
		}
		if backup == output {
			return nil, errors.New("backup directory must differ from the output directory")
		}
		if p.Backup, err = makeLayout(backup); err != nil {
			return nil, errors.Wrap(err, "backup layout")
		}
	}
	return p, nil
}

// HasBackup reports whether the run writes backups.
func (p *Paths) HasBackup() bool {
	return p.Backup.Region != ""
}

// Regions lists the region container files in dir, non-recursively and
// sorted by name.
func Regions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "list region directory")
	}
	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), ContainerExt) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
