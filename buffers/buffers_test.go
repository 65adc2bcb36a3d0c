// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package buffers

import (
	"errors"
	"math"
	"testing"

	"zikichombo.org/sfx/format"
)

func TestFloat64RoundTrip(t *testing.T) {
	f := format.NewFloat(4)
	b := NewOwned(f, 2)
	v0 := b.Float64(0)
	for i := range v0 {
		v0[i] = float64(i)
	}
	v1 := b.Float64(1)
	for i := range v1 {
		v1[i] = float64(10 + i)
	}
	got0 := b.Float64(0)
	for i := 0; i < 4; i++ {
		if got0[i] != float64(i) {
			t.Errorf("instance 0[%d] = %f, want %f", i, got0[i], float64(i))
		}
	}
}

func TestValidateCatchesNaN(t *testing.T) {
	f := format.NewFloat(3)
	b := NewOwned(f, 1)
	v := b.Float64(0)
	v[0], v[1], v[2] = 1, 2, 3
	if err := b.Validate(); err != nil {
		t.Fatalf("unexpected error on finite buffer: %v", err)
	}
	v[1] = math.NaN()
	if err := b.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("got %v, want ErrInvalid", err)
	}
}

func TestValidateCatchesInf(t *testing.T) {
	f := format.NewFloat(2)
	b := NewOwned(f, 1)
	v := b.Float64(0)
	v[0] = 1
	v[1] = math.Inf(1)
	if err := b.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("got %v, want ErrInvalid", err)
	}
}

func TestAssignInsufficientMemory(t *testing.T) {
	small := NewOwned(format.NewFloat(2), 1)
	big := NewOwned(format.NewFloat(4), 1)
	if err := Assign(small, big); !errors.Is(err, ErrInsufficientAllocatedMemory) {
		t.Errorf("got %v, want ErrInsufficientAllocatedMemory", err)
	}
	if err := Assign(big, small); err != nil {
		t.Errorf("unexpected error assigning into bigger dst: %v", err)
	}
}

func TestInt16Raw(t *testing.T) {
	f := format.NewRaw(0, 4)
	b := NewOwned(f, 1)
	b.CopyInt16([]int16{1, 2, 3, 4})
	got := b.Int16(0)
	for i, want := range []int16{1, 2, 3, 4} {
		if got[i] != want {
			t.Errorf("Int16(0)[%d] = %d, want %d", i, got[i], want)
		}
	}
	if err := b.Validate(); err != nil {
		t.Errorf("int16 buffers should always validate, got %v", err)
	}
}
