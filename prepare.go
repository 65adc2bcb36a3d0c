// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sfx

import (
	"fmt"

	"zikichombo.org/sfx/alloc"
	"zikichombo.org/sfx/buffers"
)

// PrepareForExecution fixes the tree's structure, assigns a deterministic
// topological execution order (parent before child, siblings in insertion
// order), computes each node's lifetime, solves the sliding-blocks buffer
// reuse allocation, and binds every node's Buffers into one shared arena.
//
// Fails with ErrTreeIsEmpty if no feature was ever added, or
// ErrTreeAlreadyPrepared if already called. After a successful call,
// AddFeature fails and Execute becomes usable.
func (t *Tree) PrepareForExecution() error {
	if t.prepared {
		return ErrTreeAlreadyPrepared
	}
	if len(t.byName) == 0 {
		return ErrTreeIsEmpty
	}
	if err := t.checkConnectivity(); err != nil {
		return err
	}

	t.allNodes = nil
	assignID(t.root, &t.allNodes)
	last := len(t.allNodes) - 1

	allocNodes := make([]alloc.Node, len(t.allNodes))
	for i, n := range t.allNodes {
		if n.isLeafFeature() {
			n.death = last
		} else if len(n.childOrder) > 0 {
			n.death = n.childOrder[len(n.childOrder)-1].id
		} else {
			n.death = n.id
		}
		n.birth = n.id
		allocNodes[i] = alloc.Node{ID: n.id, Birth: n.birth, Death: n.death, Size: n.sizeInBytes()}
	}

	placements, arenaSize := alloc.Solve(allocNodes)
	arena, err := allocateArena(arenaSize)
	if err != nil {
		return err
	}
	t.arena = arena

	offsetByID := make(map[int]int, len(placements))
	for _, p := range placements {
		offsetByID[p.ID] = p.Offset
	}
	for _, n := range t.allNodes {
		sz := n.sizeInBytes()
		off := offsetByID[n.id]
		n.buf = buffers.New(n.format, n.count, t.arena[off:off+sz])
	}

	for i := 0; i+1 < len(t.allNodes); i++ {
		t.allNodes[i].next = t.allNodes[i+1]
	}

	t.log.Debugf("sfx: prepared tree with %d nodes, %d bytes arena", len(t.allNodes), arenaSize)
	t.prepared = true
	return nil
}

// allocateArena allocates the shared arena, turning a runtime panic from an
// implausibly large solved arena size into ErrFailedToAllocateBuffers
// rather than crashing the caller.
func allocateArena(size int) (arena []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			arena = nil
			err = fmt.Errorf("%w: %v", ErrFailedToAllocateBuffers, r)
		}
	}()
	return make([]byte, size), nil
}

// assignID performs a preorder DFS (parent before children, children in
// insertion order), appending every visited node to order and stamping its
// id as its index within order.
func assignID(n *node, order *[]*node) {
	n.id = len(*order)
	*order = append(*order, n)
	for _, c := range n.childOrder {
		assignID(c, order)
	}
}

// checkConnectivity reports whether every node reachable from byName is
// also reachable from root by walking parent pointers, a structural
// sanity check in the spirit of the teacher's connectivity check over its
// processing graph.
func (t *Tree) checkConnectivity() error {
	for name, n := range t.byName {
		reached := false
		seen := map[*node]bool{}
		for cur := n; cur != nil; cur = cur.parent {
			if seen[cur] {
				return fmt.Errorf("sfx: cycle detected reaching feature %q", name)
			}
			seen[cur] = true
			if cur == t.root {
				reached = true
				break
			}
		}
		if !reached {
			return fmt.Errorf("sfx: feature %q is not reachable from the tree root", name)
		}
	}
	return nil
}
