// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package catalog

import (
	"fmt"
	"strconv"

	"zikichombo.org/sfx/buffers"
	"zikichombo.org/sfx/format"
	"zikichombo.org/sfx/transform"
)

// Selector passes through a contiguous sub-range [start, start+count) of
// each input vector, used to drop e.g. a DCT's zeroth (energy) coefficient
// or keep only a leading subset of filter-bank bins.
type Selector struct {
	transform.Base
	start, count int
}

// NewSelector creates an unconfigured Selector transform.
func NewSelector() *Selector {
	return &Selector{Base: transform.NewBase("Selector")}
}

// SetParameter implements transform.Transform. Recognized parameters: start
// (default 0), and either count or length (both keep the named number of
// elements from start; length is the name spec pipelines use to keep the
// first N coefficients of a DCT/filter bank, e.g. "length=13").
func (s *Selector) SetParameter(name, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fmt.Errorf("%w: %s=%q", transform.ErrInvalidParameterValue, name, value)
	}
	switch name {
	case "start":
		s.start = n
	case "count", "length":
		s.count = n
	default:
		return fmt.Errorf("%w: %q", transform.ErrInvalidParameter, name)
	}
	s.Base.RememberParam(name, value)
	return nil
}

// BindInputFormat implements transform.Transform.
func (s *Selector) BindInputFormat(f format.Format) error {
	if f.Kind() != format.WindowedFloat {
		return fmt.Errorf("%w: Selector requires a float vector input, got %s", transform.ErrInvalidInputFormat, f.ID())
	}
	if s.count == 0 {
		s.count = f.ElementCount() - s.start
	}
	if s.start < 0 || s.count <= 0 || s.start+s.count > f.ElementCount() {
		return fmt.Errorf("%w: Selector range [%d,%d) out of bounds for %s", transform.ErrInvalidParameterValue, s.start, s.start+s.count, f.ID())
	}
	s.Base.SetInputFormat(f)
	s.Base.SetOutputFormat(format.NewWindowed(s.count))
	return nil
}

// Initialize implements transform.Transform; Selector has no precomputation.
func (s *Selector) Initialize() error { return nil }

// BuffersCountChange implements transform.Transform.
func (s *Selector) BuffersCountChange() transform.BuffersCountChange {
	return transform.IdentityChange
}

// Do implements transform.Transform.
func (s *Selector) Do(in, out *buffers.Buffers) error {
	for i := 0; i < in.Count(); i++ {
		copy(out.Float64(i), in.Float64(i)[s.start:s.start+s.count])
	}
	return nil
}
