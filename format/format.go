// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package format describes the structural shape of buffers that flow
// between transforms: element kind, element count, and kind-specific
// parameters such as sample rate or fixed-array width.
package format

import (
	"fmt"

	"zikichombo.org/sound/freq"
)

// Kind identifies the element kind of a Format.
type Kind int

const (
	// Int16Raw is a format of raw int16 PCM samples.
	Int16Raw Kind = iota
	// FloatRaw is a format of float64 samples, not yet windowed.
	FloatRaw
	// WindowedFloat is a format of float64 samples framed into windows.
	WindowedFloat
	// FixedArray is a format of fixed-size float64 vectors, e.g. a
	// filter-bank or cepstral-coefficient output.
	FixedArray
)

func (k Kind) String() string {
	switch k {
	case Int16Raw:
		return "int16-raw"
	case FloatRaw:
		return "float-raw"
	case WindowedFloat:
		return "windowed-float"
	case FixedArray:
		return "array-of-fixed"
	default:
		return "unknown-kind"
	}
}

// bytesPerElement gives the per-element byte footprint of a Kind. For
// FixedArray it is the size of one float64 member; SizeInBytes scales it
// by FixedLen.
func bytesPerElement(k Kind) int {
	switch k {
	case Int16Raw:
		return 2
	case FloatRaw, WindowedFloat:
		return 8
	case FixedArray:
		return 8
	default:
		return 0
	}
}

// Format is a structural description of a buffer: its element kind, the
// logical number of elements, and kind-specific attributes (sample rate,
// fixed-array length). Two formats are equal iff every attribute matches.
//
// A Format is immutable once bound to an edge in a transform tree; the
// Set* methods are only safe to call on a Format not yet shared across
// nodes (see spec §4.1).
type Format struct {
	kind         Kind
	elementCount int

	// SampleRate is set for root (raw audio) formats.
	sampleRate freq.T

	// fixedLen is the per-element vector length for FixedArray.
	fixedLen int
}

// NewRaw builds the root int16-raw format: one instance of elementCount
// int16 samples at the given sample rate.
func NewRaw(sampleRate freq.T, elementCount int) Format {
	return Format{kind: Int16Raw, elementCount: elementCount, sampleRate: sampleRate}
}

// NewFloat builds a float-raw format of elementCount float64 samples.
func NewFloat(elementCount int) Format {
	return Format{kind: FloatRaw, elementCount: elementCount}
}

// NewWindowed builds a windowed-float format: elementCount samples per
// window.
func NewWindowed(elementCount int) Format {
	return Format{kind: WindowedFloat, elementCount: elementCount}
}

// NewFixedArray builds a format of elementCount fixed-length float64
// vectors, each of length veclen (e.g. filter-bank bin count).
func NewFixedArray(elementCount, veclen int) Format {
	return Format{kind: FixedArray, elementCount: elementCount, fixedLen: veclen}
}

// Kind returns the element kind.
func (f Format) Kind() Kind { return f.kind }

// ElementCount returns the logical element count (e.g. samples per window,
// or frequency bins).
func (f Format) ElementCount() int { return f.elementCount }

// SampleRate returns the sample rate for root formats; zero otherwise.
func (f Format) SampleRate() freq.T { return f.sampleRate }

// FixedLen returns the per-element vector length for FixedArray formats.
func (f Format) FixedLen() int { return f.fixedLen }

// SetElementCount sets the logical element count. Only safe to call before
// the Format is shared across nodes.
func (f *Format) SetElementCount(n int) { f.elementCount = n }

// SetFixedLen sets the per-element vector length for FixedArray formats.
// Only safe to call before the Format is shared across nodes.
func (f *Format) SetFixedLen(n int) { f.fixedLen = n }

// Equals reports structural equality: every attribute must match.
func (f Format) Equals(other Format) bool {
	return f.kind == other.kind &&
		f.elementCount == other.elementCount &&
		f.sampleRate == other.sampleRate &&
		f.fixedLen == other.fixedLen
}

// SizeInBytes returns element_count * bytes_per_element(kind); for
// FixedArray, bytes_per_element scales with FixedLen.
func (f Format) SizeInBytes() int {
	if f.kind == FixedArray {
		return f.elementCount * f.fixedLen * 8
	}
	return f.elementCount * bytesPerElement(f.kind)
}

// ID returns a canonical identifier suitable for logging and dot export.
func (f Format) ID() string {
	switch f.kind {
	case Int16Raw:
		return fmt.Sprintf("int16-raw[%d]@%s", f.elementCount, f.sampleRate)
	case FixedArray:
		return fmt.Sprintf("array-of-fixed<%d>[%d]", f.fixedLen, f.elementCount)
	default:
		return fmt.Sprintf("%s[%d]", f.kind, f.elementCount)
	}
}

func (f Format) String() string { return f.ID() }
