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

func melOf(hz float64) float64   { return 2595 * math.Log10(1+hz/700) }
func invMelOf(mel float64) float64 { return 700 * (math.Pow(10, mel/2595) - 1) }

// FilterBank applies a bank of triangular mel-scale filters to a magnitude
// spectrum, collapsing each frame's bins into bins-per-frame filter-bank
// energies. Grounded on original_source/tests/mfcc.cc's FilterBank stage.
type FilterBank struct {
	transform.Base
	bins    int
	rate    float64
	minFreq float64
	maxFreq float64
	squared bool
	weights [][]float64 // weights[filter][fftBin]
}

// NewFilterBank creates an unconfigured FilterBank transform.
func NewFilterBank() *FilterBank {
	return &FilterBank{Base: transform.NewBase("FilterBank")}
}

// SetParameter implements transform.Transform. Recognized parameters: bins
// (required, filter count), rate (required, sample rate in Hz), minfreq and
// maxfreq (optional, default 0 and rate/2).
func (fb *FilterBank) SetParameter(name, value string) error {
	switch name {
	case "bins":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: bins=%q", transform.ErrInvalidParameterValue, value)
		}
		fb.bins = n
	case "rate":
		r, err := strconv.ParseFloat(value, 64)
		if err != nil || r <= 0 {
			return fmt.Errorf("%w: rate=%q", transform.ErrInvalidParameterValue, value)
		}
		fb.rate = r
	case "minfreq":
		r, err := strconv.ParseFloat(value, 64)
		if err != nil || r < 0 {
			return fmt.Errorf("%w: minfreq=%q", transform.ErrInvalidParameterValue, value)
		}
		fb.minFreq = r
	case "maxfreq":
		r, err := strconv.ParseFloat(value, 64)
		if err != nil || r <= 0 {
			return fmt.Errorf("%w: maxfreq=%q", transform.ErrInvalidParameterValue, value)
		}
		fb.maxFreq = r
	case "squared":
		switch value {
		case "true":
			fb.squared = true
		case "false":
			fb.squared = false
		default:
			return fmt.Errorf("%w: squared=%q", transform.ErrInvalidParameterValue, value)
		}
	default:
		return fmt.Errorf("%w: %q", transform.ErrInvalidParameter, name)
	}
	fb.Base.RememberParam(name, value)
	return nil
}

// BindInputFormat implements transform.Transform.
func (fb *FilterBank) BindInputFormat(f format.Format) error {
	if f.Kind() != format.WindowedFloat {
		return fmt.Errorf("%w: FilterBank requires a magnitude spectrum input, got %s", transform.ErrInvalidInputFormat, f.ID())
	}
	if fb.bins == 0 || fb.rate == 0 {
		return fmt.Errorf("%w: FilterBank requires bins and rate parameters", transform.ErrInvalidParameterValue)
	}
	if fb.maxFreq == 0 {
		fb.maxFreq = fb.rate / 2
	}
	fb.Base.SetInputFormat(f)
	fb.Base.SetOutputFormat(format.NewWindowed(fb.bins))
	return nil
}

// Initialize implements transform.Transform: precompute the triangular
// filter weights over the bound FFT bin count.
func (fb *FilterBank) Initialize() error {
	fftBins := fb.Base.InputFormat().ElementCount()
	nfft := 2 * (fftBins - 1)

	lowMel, highMel := melOf(fb.minFreq), melOf(fb.maxFreq)
	points := make([]float64, fb.bins+2)
	for i := range points {
		mel := lowMel + float64(i)*(highMel-lowMel)/float64(fb.bins+1)
		points[i] = invMelOf(mel)
	}
	binOf := func(hz float64) int {
		return int(math.Floor((float64(nfft) + 1) * hz / fb.rate))
	}
	fb.weights = make([][]float64, fb.bins)
	for i := 0; i < fb.bins; i++ {
		left, center, right := binOf(points[i]), binOf(points[i+1]), binOf(points[i+2])
		w := make([]float64, fftBins)
		for b := left; b < center && b < fftBins; b++ {
			if b >= 0 && center > left {
				w[b] = float64(b-left) / float64(center-left)
			}
		}
		for b := center; b < right && b < fftBins; b++ {
			if b >= 0 && right > center {
				w[b] = float64(right-b) / float64(right-center)
			}
		}
		fb.weights[i] = w
	}
	return nil
}

// BuffersCountChange implements transform.Transform.
func (fb *FilterBank) BuffersCountChange() transform.BuffersCountChange {
	return transform.IdentityChange
}

// Do implements transform.Transform. When squared is set, each spectral
// bin is treated as a magnitude and squared to a power value before
// weighting, matching the power-spectrum variant of mel filter banking.
func (fb *FilterBank) Do(in, out *buffers.Buffers) error {
	for i := 0; i < in.Count(); i++ {
		src := in.Float64(i)
		dst := out.Float64(i)
		for f, w := range fb.weights {
			sum := 0.0
			for b, wv := range w {
				if wv == 0 {
					continue
				}
				v := src[b]
				if fb.squared {
					v *= v
				}
				sum += v * wv
			}
			dst[f] = sum
		}
	}
	return nil
}
