// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package alloc

import "testing"

// overlap reports whether two lifetime intervals intersect.
func overlap(b1, d1, b2, d2 int) bool {
	return b1 <= d2 && b2 <= d1
}

func checkNonOverlap(t *testing.T, nodes []Node, placements []Placement) {
	t.Helper()
	byID := make(map[int]Placement, len(placements))
	for _, p := range placements {
		byID[p.ID] = p
	}
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			if !overlap(a.Birth, a.Death, b.Birth, b.Death) {
				continue
			}
			pa, pb := byID[a.ID], byID[b.ID]
			aEnd, bEnd := pa.Offset+a.Size, pb.Offset+b.Size
			if pa.Offset < bEnd && pb.Offset < aEnd {
				t.Errorf("nodes %d and %d overlap in lifetime [%d,%d]/[%d,%d] and in bytes [%d,%d)/[%d,%d)",
					a.ID, b.ID, a.Birth, a.Death, b.Birth, b.Death, pa.Offset, aEnd, pb.Offset, bEnd)
			}
		}
	}
}

func TestNonOverlapInvariant(t *testing.T) {
	nodes := []Node{
		{ID: 0, Birth: 0, Death: 2, Size: 10},
		{ID: 1, Birth: 1, Death: 3, Size: 20},
		{ID: 2, Birth: 2, Death: 2, Size: 5},
		{ID: 3, Birth: 3, Death: 5, Size: 8},
		{ID: 4, Birth: 4, Death: 4, Size: 30},
		{ID: 5, Birth: 5, Death: 5, Size: 1},
	}
	placements, _ := Solve(nodes)
	checkNonOverlap(t, nodes, placements)
}

// TestLinearPipelineArenaTightness exercises spec's property 3: for a
// straight-line pipeline (no branching), only two buffers are ever live at
// once, so arena size should equal max(size(N_i)+size(parent(N_i))).
func TestLinearPipelineArenaTightness(t *testing.T) {
	sizes := []int{4, 9, 2, 16, 3, 25}
	nodes := make([]Node, len(sizes))
	for i, s := range sizes {
		death := i
		if i+1 < len(sizes) {
			death = i + 1
		}
		nodes[i] = Node{ID: i, Birth: i, Death: death, Size: s}
	}
	_, arena := Solve(nodes)

	want := 0
	for i := 0; i+1 < len(sizes); i++ {
		if pair := sizes[i] + sizes[i+1]; pair > want {
			want = pair
		}
	}
	if sizes[len(sizes)-1] > want {
		want = sizes[len(sizes)-1]
	}
	if arena > want {
		t.Errorf("arena = %d, want <= %d (max adjacent-pair sum)", arena, want)
	}
}

func TestAllocatorReuseBound(t *testing.T) {
	sizes := []int{7, 3, 12, 5, 9, 2}
	nodes := make([]Node, len(sizes))
	maxAdjacent := 0
	for i, s := range sizes {
		if i+1 < len(sizes) {
			if pair := s + sizes[i+1]; pair > maxAdjacent {
				maxAdjacent = pair
			}
		}
	}
	for i, s := range sizes {
		nodes[i] = Node{ID: i, Birth: i, Death: minInt(i+1, len(sizes)-1), Size: s}
	}
	_, arena := Solve(nodes)
	if arena > maxAdjacent {
		t.Errorf("arena = %d, want <= %d", arena, maxAdjacent)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func TestDeterminism(t *testing.T) {
	nodes := []Node{
		{ID: 0, Birth: 0, Death: 3, Size: 10},
		{ID: 1, Birth: 1, Death: 2, Size: 6},
		{ID: 2, Birth: 2, Death: 4, Size: 14},
		{ID: 3, Birth: 3, Death: 3, Size: 2},
		{ID: 4, Birth: 4, Death: 4, Size: 8},
	}
	p1, a1 := Solve(nodes)
	p2, a2 := Solve(nodes)
	if a1 != a2 {
		t.Fatalf("arena sizes differ: %d vs %d", a1, a2)
	}
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Errorf("placement %d differs: %+v vs %+v", i, p1[i], p2[i])
		}
	}
}
