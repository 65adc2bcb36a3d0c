// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package catalog

import (
	"fmt"

	"zikichombo.org/sfx/buffers"
	"zikichombo.org/sfx/format"
	"zikichombo.org/sfx/transform"
)

// SpectralEnergy computes the squared magnitude of each complex number in
// an interleaved (real, imag) RDFT spectrum, one power value per bin.
// Grounded on original_source/src/transforms/energy.h ("Calculates the
// squared magnitude of each complex number, that is, the sum of squared
// real and imaginary parts"), which is per-bin rather than a reduction to
// one scalar per frame — feeding directly into FilterBank the way spec.md's
// canonical MFCC pipeline chains RDFT -> SpectralEnergy -> FilterBank.
type SpectralEnergy struct {
	transform.Base
	bins int
}

// NewSpectralEnergy creates an unconfigured SpectralEnergy transform.
func NewSpectralEnergy() *SpectralEnergy {
	return &SpectralEnergy{Base: transform.NewBase("SpectralEnergy")}
}

// SetParameter implements transform.Transform. SpectralEnergy takes no
// parameters.
func (e *SpectralEnergy) SetParameter(name, value string) error {
	return fmt.Errorf("%w: %q", transform.ErrInvalidParameter, name)
}

// BindInputFormat implements transform.Transform. Requires interleaved
// (real, imag) pairs, i.e. an even-length float vector such as RDFT's
// output.
func (e *SpectralEnergy) BindInputFormat(f format.Format) error {
	if f.Kind() != format.WindowedFloat || f.ElementCount()%2 != 0 {
		return fmt.Errorf("%w: SpectralEnergy requires interleaved real/imag input, got %s", transform.ErrInvalidInputFormat, f.ID())
	}
	e.Base.SetInputFormat(f)
	e.bins = f.ElementCount() / 2
	e.Base.SetOutputFormat(format.NewWindowed(e.bins))
	return nil
}

// Initialize implements transform.Transform; SpectralEnergy has no
// precomputation.
func (e *SpectralEnergy) Initialize() error { return nil }

// BuffersCountChange implements transform.Transform.
func (e *SpectralEnergy) BuffersCountChange() transform.BuffersCountChange {
	return transform.IdentityChange
}

// Do implements transform.Transform.
func (e *SpectralEnergy) Do(in, out *buffers.Buffers) error {
	for i := 0; i < in.Count(); i++ {
		src := in.Float64(i)
		dst := out.Float64(i)
		for j := 0; j < e.bins; j++ {
			re, im := src[2*j], src[2*j+1]
			dst[j] = re*re + im*im
		}
	}
	return nil
}
