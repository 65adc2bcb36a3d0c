// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sfx

import (
	"time"

	"zikichombo.org/sfx/buffers"
	"zikichombo.org/sfx/format"
	"zikichombo.org/sfx/transform"
)

// node is one vertex of a transform tree: either the synthetic root (tr ==
// nil, format == the tree's raw input format) or the application of one
// transform to its parent's output. Children are deduplicated by
// Fingerprint, so two features sharing a prefix of identical transforms
// share every node along that prefix.
type node struct {
	id     int // assigned by PrepareForExecution; -1 until then
	parent *node
	tr     transform.Transform

	format format.Format
	count  int // number of parallel buffer instances at this node

	children   map[string]*node // fingerprint -> child
	childOrder []*node          // insertion order, for deterministic execution

	// featureName is non-empty when this node is exactly the terminal node
	// of a named feature (AddFeature's chain ends here).
	featureName string

	next *node // execution-order successor, set by PrepareForExecution

	buf *buffers.Buffers // bound into the tree's arena by PrepareForExecution

	birth, death int
	elapsed      time.Duration
}

func newNode(parent *node, tr transform.Transform, f format.Format, count int) *node {
	return &node{
		id:       -1,
		parent:   parent,
		tr:       tr,
		format:   f,
		count:    count,
		children: make(map[string]*node),
	}
}

// sizeInBytes is the total arena footprint this node needs: count parallel
// instances of format.
func (n *node) sizeInBytes() int {
	return n.count * n.format.SizeInBytes()
}

// isLeafFeature reports whether this node is the terminal node of at least
// one named feature (its buffer must survive until the caller consumes
// Execute's result, not just until its last internal child runs).
func (n *node) isLeafFeature() bool {
	return n.featureName != ""
}
