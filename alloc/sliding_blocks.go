// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package alloc implements the sliding-blocks buffer-reuse allocator: given
// a set of nodes each with a lifetime interval and a byte size, it assigns
// a byte offset to every node such that no two nodes with overlapping
// lifetimes overlap in byte range. Each node goes to the lowest free offset
// (first fit); the resulting arena is not guaranteed to be the smallest
// possible.
//
// The original C++ implementation's Solve method ships empty in the
// retrieved source (src/allocators/sliding_blocks_allocator.cc) — this is
// built from spec §4.5's description alone.
package alloc

import "sort"

// Node is one allocation request: an opaque ID, a lifetime interval
// [Birth, Death] in execution order, and a byte Size.
type Node struct {
	ID    int
	Birth int
	Death int
	Size  int
}

// Placement is the offset assigned to a Node.ID.
type Placement struct {
	ID     int
	Offset int
}

// liveBlock is an already-placed node still within its lifetime.
type liveBlock struct {
	offset, size, death int
}

// Solve assigns an offset to every node such that for any two nodes whose
// lifetimes overlap, their byte ranges are disjoint, and returns the
// placements alongside the total arena size = max(offset+size). Each node
// takes the lowest offset free of every already-placed block it overlaps
// in lifetime; the arena is not guaranteed minimal (a straight chain can
// need more than its largest adjacent pair of sizes).
//
// Nodes are processed in ascending Birth order; nodes sharing a Birth are
// processed largest-Size first, which minimizes skyline jaggedness. The
// result is deterministic for a given input order.
func Solve(nodes []Node) ([]Placement, int) {
	order := make([]int, len(nodes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		na, nb := nodes[order[a]], nodes[order[b]]
		if na.Birth != nb.Birth {
			return na.Birth < nb.Birth
		}
		return na.Size > nb.Size
	})

	placements := make([]Placement, len(nodes))
	var live []liveBlock
	arena := 0

	for _, idx := range order {
		n := nodes[idx]

		// Prune blocks that can no longer overlap any node from here on:
		// Birth is non-decreasing in processing order, so once a block's
		// death falls behind the current node's birth it can never
		// overlap a later node either.
		kept := live[:0]
		for _, lb := range live {
			if lb.death >= n.Birth {
				kept = append(kept, lb)
			}
		}
		live = kept

		sort.Slice(live, func(i, j int) bool { return live[i].offset < live[j].offset })

		offset := firstFitGap(live, n.Size)

		placements[idx] = Placement{ID: n.ID, Offset: offset}
		live = append(live, liveBlock{offset: offset, size: n.Size, death: n.Death})
		if end := offset + n.Size; end > arena {
			arena = end
		}
	}

	return placements, arena
}

// firstFitGap walks the skyline (already sorted by offset) and returns the
// smallest y such that [y, y+size) is disjoint from every live block,
// including the unbounded gap above the topmost block.
func firstFitGap(skyline []liveBlock, size int) int {
	y := 0
	for _, lb := range skyline {
		if lb.offset-y >= size {
			return y
		}
		if end := lb.offset + lb.size; end > y {
			y = end
		}
	}
	return y
}
