// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package catalog

import (
	"fmt"
	"math"
	"strconv"

	"zikichombo.org/sfx/buffers"
	"zikichombo.org/sfx/format"
	"zikichombo.org/sfx/transform"
)

// DCT computes a type-II discrete cosine transform by direct summation,
// optionally truncated to the first coeffs outputs (the typical MFCC
// cepstral truncation). No wavelet/DCT library turned up anywhere in the
// retrieved pack (see DESIGN.md); direct summation is O(n^2) but n is a
// small filter-bank count here, so the stdlib fallback is inconsequential.
type DCT struct {
	transform.Base
	n      int
	coeffs int
	table  [][]float64 // table[k][n] = cos(pi/N*(n+0.5)*k)
}

// NewDCT creates an unconfigured DCT transform.
func NewDCT() *DCT {
	return &DCT{Base: transform.NewBase("DCT")}
}

// SetParameter implements transform.Transform. Recognized parameter: coeffs
// (optional, truncates output to the first coeffs coefficients).
func (d *DCT) SetParameter(name, value string) error {
	if name != "coeffs" {
		return fmt.Errorf("%w: %q", transform.ErrInvalidParameter, name)
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("%w: coeffs=%q", transform.ErrInvalidParameterValue, value)
	}
	d.coeffs = n
	d.Base.RememberParam(name, value)
	return nil
}

// BindInputFormat implements transform.Transform.
func (d *DCT) BindInputFormat(f format.Format) error {
	if f.Kind() != format.WindowedFloat {
		return fmt.Errorf("%w: DCT requires a float vector input, got %s", transform.ErrInvalidInputFormat, f.ID())
	}
	d.Base.SetInputFormat(f)
	d.n = f.ElementCount()
	if d.coeffs == 0 || d.coeffs > d.n {
		d.coeffs = d.n
	}
	d.Base.SetOutputFormat(format.NewWindowed(d.coeffs))
	return nil
}

// Initialize implements transform.Transform: precompute the cosine table.
func (d *DCT) Initialize() error {
	d.table = make([][]float64, d.coeffs)
	for k := 0; k < d.coeffs; k++ {
		row := make([]float64, d.n)
		for n := 0; n < d.n; n++ {
			row[n] = math.Cos(math.Pi / float64(d.n) * (float64(n) + 0.5) * float64(k))
		}
		d.table[k] = row
	}
	return nil
}

// BuffersCountChange implements transform.Transform.
func (d *DCT) BuffersCountChange() transform.BuffersCountChange {
	return transform.IdentityChange
}

// Do implements transform.Transform.
func (d *DCT) Do(in, out *buffers.Buffers) error {
	for i := 0; i < in.Count(); i++ {
		src, dst := in.Float64(i), out.Float64(i)
		for k, row := range d.table {
			sum := 0.0
			for n, c := range row {
				sum += src[n] * c
			}
			dst[k] = sum
		}
	}
	return nil
}
