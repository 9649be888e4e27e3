// Copyright 2025 RegionForge Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package trimmer

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/regionforge/mctrim/pkg/region"
)

// The game advances 20 ticks per second, so one minute of player
// presence accumulates 1200 ticks of InhabitedTime.
const ticksPerSecond = 20

func inhabitedAtMost(ticks uint64) region.Predicate {
	return func(c *region.Chunk) (bool, error) {
		v, err := c.InhabitedTime()
		if err != nil {
			return false, err
		}
		return v <= ticks, nil
	}
}

// criteria maps the selectable retention rule names to their predicates.
// Every rule trims chunks whose InhabitedTime has not passed the named
// amount of play time.
var criteria = map[string]region.Predicate{
	"inhabited_time<15s": inhabitedAtMost(15 * ticksPerSecond),
	"inhabited_time<30s": inhabitedAtMost(30 * ticksPerSecond),
	"inhabited_time<1m":  inhabitedAtMost(1 * 60 * ticksPerSecond),
	"inhabited_time<2m":  inhabitedAtMost(2 * 60 * ticksPerSecond),
	"inhabited_time<3m":  inhabitedAtMost(3 * 60 * ticksPerSecond),
	"inhabited_time<5m":  inhabitedAtMost(5 * 60 * ticksPerSecond),
	"inhabited_time<10m": inhabitedAtMost(10 * 60 * ticksPerSecond),
}

// CriteriaNames returns the selectable criteria names, sorted for help
// and error output.
func CriteriaNames() []string {
	names := make([]string, 0, len(criteria))
	for name := range criteria {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Criterion resolves a criteria name to its predicate.
func Criterion(name string) (region.Predicate, error) {
	match, ok := criteria[name]
	if !ok {
		return nil, errors.Errorf("unknown criteria %q, choose one of %v", name, CriteriaNames())
	}
	return match, nil
}
