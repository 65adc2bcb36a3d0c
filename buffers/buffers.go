// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package buffers provides the Buffers container: a vector of N instances
// of one format, viewing a contiguous byte region the container does not
// necessarily own.
package buffers

import (
	"fmt"
	"unsafe"

	"zikichombo.org/sfx/format"
)

// Buffers is a vector of Count() instances of Format(), backed by a byte
// region that may be borrowed (arena-allocated) or owned.
//
// Invariant: Count()*Format().SizeInBytes() <= len(mem).
type Buffers struct {
	format format.Format
	count  int
	mem    []byte
	owns   bool
}

// New creates a Buffers view of format f, with count instances, over mem.
// mem is borrowed: the caller (typically the tree's arena) retains
// ownership. mem must be at least count*f.SizeInBytes() bytes.
func New(f format.Format, count int, mem []byte) *Buffers {
	need := count * f.SizeInBytes()
	if len(mem) < need {
		panic(fmt.Sprintf("buffers: region of %d bytes too small for %d instances of %s (%d bytes)",
			len(mem), count, f.ID(), need))
	}
	return &Buffers{format: f, count: count, mem: mem[:need]}
}

// NewOwned allocates its own backing memory for count instances of f.
// Used for standalone buffers outside of a tree's arena, e.g. in tests.
func NewOwned(f format.Format, count int) *Buffers {
	b := &Buffers{format: f, count: count, owns: true}
	b.mem = make([]byte, count*f.SizeInBytes())
	return b
}

// Format returns the shared format of every instance.
func (b *Buffers) Format() format.Format { return b.format }

// Count returns the number of parallel instances.
func (b *Buffers) Count() int { return b.count }

// SizeInBytes returns the total byte footprint of all instances.
func (b *Buffers) SizeInBytes() int { return b.count * b.format.SizeInBytes() }

// Owns reports whether this Buffers owns its backing memory.
func (b *Buffers) Owns() bool { return b.owns }

// Bytes returns the raw byte range of the i-th instance.
func (b *Buffers) Bytes(i int) []byte {
	sz := b.format.SizeInBytes()
	start := i * sz
	return b.mem[start : start+sz]
}

// Int16 views the i-th instance as a slice of int16 samples. Valid only
// when Format().Kind() == format.Int16Raw.
func (b *Buffers) Int16(i int) []int16 {
	raw := b.Bytes(i)
	n := b.format.ElementCount()
	if n == 0 || len(raw) == 0 {
		return nil
	}
	return unsafe.Slice((*int16)(unsafe.Pointer(&raw[0])), n)
}

// Float64 views the i-th instance as a slice of float64 samples. Valid for
// format.FloatRaw and format.WindowedFloat.
func (b *Buffers) Float64(i int) []float64 {
	raw := b.Bytes(i)
	n := b.format.ElementCount()
	if n == 0 || len(raw) == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&raw[0])), n)
}

// FixedArray views the i-th instance as a flat slice of
// ElementCount()*FixedLen() float64s (ElementCount vectors of FixedLen
// each). Valid only when Format().Kind() == format.FixedArray.
func (b *Buffers) FixedArray(i int) []float64 {
	raw := b.Bytes(i)
	n := b.format.ElementCount() * b.format.FixedLen()
	if n == 0 || len(raw) == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&raw[0])), n)
}

// Assign copies src into dst's backing memory. It fails with
// ErrInsufficientAllocatedMemory if dst's total byte size is smaller than
// src's.
func Assign(dst, src *Buffers) error {
	srcSize := src.SizeInBytes()
	dstSize := dst.SizeInBytes()
	if dstSize < srcSize {
		return fmt.Errorf("%w: src %s (%d bytes) into dst %s (%d bytes)",
			ErrInsufficientAllocatedMemory, src.ToString(), srcSize, dst.ToString(), dstSize)
	}
	copy(dst.mem, src.mem[:srcSize])
	return nil
}

// ToString renders a short human-readable summary, used in error messages
// and dumps.
func (b *Buffers) ToString() string {
	return fmt.Sprintf("Buffers{format=%s, count=%d}", b.format.ID(), b.count)
}

// CopyInt16 copies raw int16 PCM samples into the 0-th (and only, for a
// root buffer) instance. Used to load the input frame at the start of
// execution.
func (b *Buffers) CopyInt16(samples []int16) {
	dst := b.Int16(0)
	copy(dst, samples)
}
