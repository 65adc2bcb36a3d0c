// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package transform

import "zikichombo.org/sfx/format"

// Base is an embeddable helper implementing the bookkeeping every concrete
// transform needs: name, bound formats, raw parameters, inverse flag, and
// Fingerprint. Concrete transforms embed Base and only need to implement
// SetParameter (schema-specific validation), BindInputFormat (format
// compatibility + on_format_changed), Initialize, Do, and
// BuffersCountChange.
type Base struct {
	name         string
	params       map[string]string
	inputFormat  format.Format
	outputFormat format.Format
	inverse      bool
	bound        bool
}

// NewBase constructs a Base for a transform registered under name.
func NewBase(name string) Base {
	return Base{name: name, params: map[string]string{}}
}

// Name implements Transform.
func (b *Base) Name() string { return b.name }

// Inverse implements Transform.
func (b *Base) Inverse() bool { return b.inverse }

// SetInverse sets the inverse flag. The tree calls this from AddFeature for
// a Step whose Inverse field is set.
func (b *Base) SetInverse(v bool) { b.inverse = v }

// RememberParam records name=value in the raw parameter map used by
// Fingerprint. Concrete transforms call this after validating the value.
func (b *Base) RememberParam(name, value string) { b.params[name] = value }

// Param returns a previously remembered parameter value.
func (b *Base) Param(name string) (string, bool) {
	v, ok := b.params[name]
	return v, ok
}

// Params returns the raw parameter map.
func (b *Base) Params() map[string]string { return b.params }

// SetInputFormat records the bound input format.
func (b *Base) SetInputFormat(f format.Format) { b.inputFormat = f; b.bound = true }

// SetOutputFormat records the (possibly format-changed) output format.
func (b *Base) SetOutputFormat(f format.Format) { b.outputFormat = f }

// InputFormat implements Transform.
func (b *Base) InputFormat() format.Format { return b.inputFormat }

// OutputFormat implements Transform.
func (b *Base) OutputFormat() format.Format { return b.outputFormat }

// Fingerprint implements Transform using the canonical Fingerprint helper.
func (b *Base) Fingerprint() string {
	return Fingerprint(b.name, b.params, b.inputFormat.ID(), b.inverse)
}

// DependencyParams may be implemented by transforms whose behavior depends
// on a parameter registered by an earlier transform in the same pipeline
// (spec §4.3's DependencyParameterUnknown). Transforms that don't need
// cross-transform parameters simply don't implement this optional
// interface.
type DependencyParams interface {
	// DependencyParams returns the names of parameters this transform
	// expects an ancestor in its pipeline to have already registered.
	DependencyParams() []string
}
