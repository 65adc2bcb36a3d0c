// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package catalog

import (
	"fmt"
	"math"

	"zikichombo.org/sfx/buffers"
	"zikichombo.org/sfx/format"
	"zikichombo.org/sfx/transform"
)

// Magnitude collapses interleaved (real, imag) RDFT output into per-bin
// magnitude. Grounded on original_source/src/transforms/magnitude.h.
type Magnitude struct {
	transform.Base
	bins int
}

// NewMagnitude creates an unconfigured Magnitude transform.
func NewMagnitude() *Magnitude {
	return &Magnitude{Base: transform.NewBase("Magnitude")}
}

// SetParameter implements transform.Transform. Magnitude takes no parameters.
func (m *Magnitude) SetParameter(name, value string) error {
	return fmt.Errorf("%w: %q", transform.ErrInvalidParameter, name)
}

// BindInputFormat implements transform.Transform.
func (m *Magnitude) BindInputFormat(f format.Format) error {
	if f.Kind() != format.WindowedFloat || f.ElementCount()%2 != 0 {
		return fmt.Errorf("%w: Magnitude requires interleaved real/imag input, got %s", transform.ErrInvalidInputFormat, f.ID())
	}
	m.Base.SetInputFormat(f)
	m.bins = f.ElementCount() / 2
	m.Base.SetOutputFormat(format.NewWindowed(m.bins))
	return nil
}

// Initialize implements transform.Transform; Magnitude has no precomputation.
func (m *Magnitude) Initialize() error { return nil }

// BuffersCountChange implements transform.Transform.
func (m *Magnitude) BuffersCountChange() transform.BuffersCountChange {
	return transform.IdentityChange
}

// Do implements transform.Transform.
func (m *Magnitude) Do(in, out *buffers.Buffers) error {
	for i := 0; i < in.Count(); i++ {
		src := in.Float64(i)
		dst := out.Float64(i)
		for j := 0; j < m.bins; j++ {
			re, im := src[2*j], src[2*j+1]
			dst[j] = math.Sqrt(re*re + im*im)
		}
	}
	return nil
}
