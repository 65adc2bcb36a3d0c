// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package catalog

import (
	"fmt"

	"zikichombo.org/sfx/buffers"
	"zikichombo.org/sfx/format"
	"zikichombo.org/sfx/transform"
)

// Rectify applies half-wave rectification (max(0, x)), or full-wave
// (abs(x)) when the "full" parameter is set. Grounded on
// original_source/src/transforms/rectify.cc.
type Rectify struct {
	transform.Base
	full bool
}

// NewRectify creates an unconfigured Rectify transform.
func NewRectify() *Rectify {
	return &Rectify{Base: transform.NewBase("Rectify")}
}

// SetParameter implements transform.Transform. Recognized parameter: full
// (bool, default false -> half-wave).
func (r *Rectify) SetParameter(name, value string) error {
	if name != "full" {
		return fmt.Errorf("%w: %q", transform.ErrInvalidParameter, name)
	}
	switch value {
	case "true":
		r.full = true
	case "false":
		r.full = false
	default:
		return fmt.Errorf("%w: full=%q", transform.ErrInvalidParameterValue, value)
	}
	r.Base.RememberParam(name, value)
	return nil
}

// BindInputFormat implements transform.Transform.
func (r *Rectify) BindInputFormat(f format.Format) error {
	if f.Kind() != format.WindowedFloat {
		return fmt.Errorf("%w: Rectify requires a float vector input, got %s", transform.ErrInvalidInputFormat, f.ID())
	}
	r.Base.SetInputFormat(f)
	r.Base.SetOutputFormat(format.NewWindowed(f.ElementCount()))
	return nil
}

// Initialize implements transform.Transform; Rectify has no precomputation.
func (r *Rectify) Initialize() error { return nil }

// BuffersCountChange implements transform.Transform.
func (r *Rectify) BuffersCountChange() transform.BuffersCountChange {
	return transform.IdentityChange
}

// Do implements transform.Transform.
func (r *Rectify) Do(in, out *buffers.Buffers) error {
	for i := 0; i < in.Count(); i++ {
		src, dst := in.Float64(i), out.Float64(i)
		for j, v := range src {
			if r.full {
				if v < 0 {
					v = -v
				}
			} else if v < 0 {
				v = 0
			}
			dst[j] = v
		}
	}
	return nil
}
