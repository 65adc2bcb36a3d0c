// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package catalog

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"

	"zikichombo.org/sfx/buffers"
	"zikichombo.org/sfx/format"
	"zikichombo.org/sfx/transform"
)

// RDFT computes the real discrete Fourier transform of each windowed frame,
// producing interleaved (real, imag) pairs for the n/2+1 non-redundant
// coefficients. Grounded on original_source/src/transforms/rdft.cc, reusing
// gonum's real FFT rather than reimplementing one (gonum.org/v1/gonum/dsp/fourier
// is also depended on elsewhere in the retrieved pack's DSP repos).
type RDFT struct {
	transform.Base
	fft  *fourier.FFT
	bins int
}

// NewRDFT creates an unconfigured RDFT transform.
func NewRDFT() *RDFT {
	return &RDFT{Base: transform.NewBase("RDFT")}
}

// SetParameter implements transform.Transform. RDFT takes no parameters.
func (r *RDFT) SetParameter(name, value string) error {
	return fmt.Errorf("%w: %q", transform.ErrInvalidParameter, name)
}

// BindInputFormat implements transform.Transform.
func (r *RDFT) BindInputFormat(f format.Format) error {
	if f.Kind() != format.WindowedFloat && f.Kind() != format.FloatRaw {
		return fmt.Errorf("%w: RDFT requires a windowed or raw float input, got %s", transform.ErrInvalidInputFormat, f.ID())
	}
	r.Base.SetInputFormat(f)
	r.bins = f.ElementCount()/2 + 1
	r.Base.SetOutputFormat(format.NewWindowed(2 * r.bins))
	return nil
}

// Initialize implements transform.Transform: precompute the FFT plan.
func (r *RDFT) Initialize() error {
	r.fft = fourier.NewFFT(r.Base.InputFormat().ElementCount())
	return nil
}

// BuffersCountChange implements transform.Transform: one spectrum per frame.
func (r *RDFT) BuffersCountChange() transform.BuffersCountChange {
	return transform.IdentityChange
}

// Do implements transform.Transform.
func (r *RDFT) Do(in, out *buffers.Buffers) error {
	for i := 0; i < in.Count(); i++ {
		coeffs := r.fft.Coefficients(nil, in.Float64(i))
		dst := out.Float64(i)
		for j, c := range coeffs {
			dst[2*j] = real(c)
			dst[2*j+1] = imag(c)
		}
	}
	return nil
}
