// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sfx

import (
	"fmt"
	"time"

	"zikichombo.org/sfx/buffers"
)

// Execute runs every transform in the tree once over input, a frame of raw
// samples at least as long as RootFormat().ElementCount() (a longer slice
// is accepted; only its prefix is read). It returns the output Buffers of
// every named feature, keyed by the name AddFeature registered it under.
//
// Fails with ErrTreeIsNotPrepared if PrepareForExecution has not run, or
// ErrInvalidInputBuffers if input is too short.
func (t *Tree) Execute(input []int16) (map[string]*buffers.Buffers, error) {
	if !t.prepared {
		return nil, ErrTreeIsNotPrepared
	}
	need := t.root.format.ElementCount()
	if len(input) < need {
		return nil, fmt.Errorf("%w: need %d samples, got %d", ErrInvalidInputBuffers, need, len(input))
	}
	t.root.buf.CopyInt16(input[:need])

	for n := t.root.next; n != nil; n = n.next {
		start := time.Now()
		if err := n.tr.Do(n.parent.buf, n.buf); err != nil {
			return nil, fmt.Errorf("sfx: transform %q: %w", n.tr.Name(), err)
		}
		n.elapsed += time.Since(start)
		if t.validateAfterEach {
			if err := n.buf.Validate(); err != nil {
				return nil, fmt.Errorf("%w: transform %q: %v", ErrTransformResultedInInvalidBuffers, n.tr.Name(), err)
			}
		}
		if t.dumpBuffersAfterEach {
			t.log.Debugf("sfx: %s -> %s", n.tr.Name(), n.buf.ToString())
		}
	}

	results := make(map[string]*buffers.Buffers, len(t.byName))
	for name, n := range t.byName {
		results[name] = n.buf
	}
	return results, nil
}

// ExecutionTimeReport returns, for every distinct transform name present in
// the tree, the cumulative wall-clock duration spent in that transform's
// Do across every Execute call so far (summed over every node using that
// transform, since a shared prefix node's time is spent once per Execute
// but counts toward its transform's total). Before the first Execute every
// duration in the report is zero; before PrepareForExecution the report is
// empty.
func (t *Tree) ExecutionTimeReport() map[string]time.Duration {
	report := make(map[string]time.Duration)
	for _, n := range t.allNodes {
		if n.tr == nil {
			continue
		}
		report[n.tr.Name()] += n.elapsed
	}
	return report
}
