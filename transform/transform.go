// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package transform declares the contract every DSP operation in a
// transform tree must satisfy: a declared input/output format, a parameter
// schema, and a pure Do(input, output) step. Concrete transforms live in
// package catalog; this package only fixes the interface the tree drives.
package transform

import (
	"fmt"
	"sort"
	"strings"

	"zikichombo.org/sfx/buffers"
	"zikichombo.org/sfx/format"
)

// ChangeKind enumerates how a transform's buffers count (the number of
// parallel instances) scales from input to output.
type ChangeKind int

const (
	// Identity means the output has the same buffers count as the input.
	Identity ChangeKind = iota
	// Multiplicative means the output count is inputCount*Factor (e.g.
	// windowing, which multiplies by the number of frames).
	Multiplicative
	// Fixed means the output always has Factor instances, regardless of
	// input count (e.g. aggregation transforms that collapse to one).
	Fixed
)

// BuffersCountChange describes how a transform's output buffers count
// relates to its input buffers count.
type BuffersCountChange struct {
	Kind   ChangeKind
	Factor int
}

// Apply computes the output buffers count given an input buffers count.
func (c BuffersCountChange) Apply(inputCount int) int {
	switch c.Kind {
	case Identity:
		return inputCount
	case Multiplicative:
		return inputCount * c.Factor
	case Fixed:
		return c.Factor
	default:
		return inputCount
	}
}

// IdentityChange is the zero-value, most common BuffersCountChange.
var IdentityChange = BuffersCountChange{Kind: Identity}

// MultiplicativeChange returns a BuffersCountChange that multiplies input
// count by factor.
func MultiplicativeChange(factor int) BuffersCountChange {
	return BuffersCountChange{Kind: Multiplicative, Factor: factor}
}

// FixedChange returns a BuffersCountChange that always yields n instances.
func FixedChange(n int) BuffersCountChange {
	return BuffersCountChange{Kind: Fixed, Factor: n}
}

// Transform is the contract the tree invokes for every interior node.
// Implementations are created fresh by a catalog Factory, configured via
// SetParameter, bound to an input format, initialized once, then Do is
// called once per Execute call.
type Transform interface {
	// Name is the catalog name this instance was created under.
	Name() string

	// SetParameter validates name against the transform's declared schema
	// and applies value. Fails with ErrInvalidParameter on an unknown key,
	// ErrInvalidParameterValue if value fails to parse.
	SetParameter(name, value string) error

	// BindInputFormat validates compatibility with f and may adjust the
	// output format accordingly (on_format_changed). Fails with
	// ErrInvalidInputFormat.
	BindInputFormat(f format.Format) error

	// InputFormat returns the bound input format; valid after
	// BindInputFormat.
	InputFormat() format.Format

	// OutputFormat returns the (possibly format-changed) output format;
	// valid after BindInputFormat.
	OutputFormat() format.Format

	// Initialize performs one-shot precomputation (FFT plans, filter
	// banks). Must be idempotent and is called exactly once before the
	// first Do.
	Initialize() error

	// Do writes exactly out.Count() output instances from in. Do must be
	// pure with respect to its declared I/O and must not retain pointers
	// into in or out past the call.
	Do(in, out *buffers.Buffers) error

	// BuffersCountChange reports how the number of parallel instances
	// scales from input to output.
	BuffersCountChange() BuffersCountChange

	// Inverse reports whether this instance was configured to run its
	// inverse operation.
	Inverse() bool

	// Fingerprint is the canonical form of (name, sorted parameters,
	// input format id, inverse flag) used for dedup and cache lookups.
	// Valid only after BindInputFormat.
	Fingerprint() string
}

// Fingerprint computes the canonical fingerprint string for a transform
// instance, given its name, raw parameters, bound input format id, and
// inverse flag. Parameters are sorted by key so that equivalent parameter
// sets always produce the same fingerprint regardless of insertion order.
func Fingerprint(name string, params map[string]string, inputFormatID string, inverse bool) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%s", k, params[k])
	}
	b.WriteByte(')')
	b.WriteByte('@')
	b.WriteString(inputFormatID)
	if inverse {
		b.WriteString("~inv")
	}
	return b.String()
}

// Factory creates a fresh, unconfigured Transform instance.
type Factory func() Transform
