// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package catalog

import (
	"fmt"

	"zikichombo.org/sfx/buffers"
	"zikichombo.org/sfx/format"
	"zikichombo.org/sfx/transform"
)

// SubbandEnergy collapses each subband instance produced by DWPT into a
// single energy scalar, one instance per subband per frame. Grounded on
// original_source/src/transforms/subband_energy.cc.
type SubbandEnergy struct {
	transform.Base
}

// NewSubbandEnergy creates an unconfigured SubbandEnergy transform.
func NewSubbandEnergy() *SubbandEnergy {
	return &SubbandEnergy{Base: transform.NewBase("SubbandEnergy")}
}

// SetParameter implements transform.Transform. SubbandEnergy takes no
// parameters.
func (e *SubbandEnergy) SetParameter(name, value string) error {
	return fmt.Errorf("%w: %q", transform.ErrInvalidParameter, name)
}

// BindInputFormat implements transform.Transform.
func (e *SubbandEnergy) BindInputFormat(f format.Format) error {
	if f.Kind() != format.WindowedFloat {
		return fmt.Errorf("%w: SubbandEnergy requires a subband instance input, got %s", transform.ErrInvalidInputFormat, f.ID())
	}
	e.Base.SetInputFormat(f)
	e.Base.SetOutputFormat(format.NewWindowed(1))
	return nil
}

// Initialize implements transform.Transform; SubbandEnergy has no
// precomputation.
func (e *SubbandEnergy) Initialize() error { return nil }

// BuffersCountChange implements transform.Transform: one energy scalar per
// subband instance.
func (e *SubbandEnergy) BuffersCountChange() transform.BuffersCountChange {
	return transform.IdentityChange
}

// Do implements transform.Transform.
func (e *SubbandEnergy) Do(in, out *buffers.Buffers) error {
	for i := 0; i < in.Count(); i++ {
		sum := 0.0
		for _, v := range in.Float64(i) {
			sum += v * v
		}
		out.Float64(i)[0] = sum
	}
	return nil
}
