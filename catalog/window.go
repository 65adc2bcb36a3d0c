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

// windowKind enumerates the analysis window shapes, grounded on
// original_source/tests/primitives/window.cc (Rectangular, Hamming tested
// there; Hann added here). Hamming is used when no type is given.
type windowKind int

const (
	windowHamming windowKind = iota
	windowHann
	windowRectangular
)

func parseWindowKind(s string) (windowKind, error) {
	switch s {
	case "", "hamming":
		return windowHamming, nil
	case "hann":
		return windowHann, nil
	case "rectangular":
		return windowRectangular, nil
	default:
		return 0, fmt.Errorf("%w: unknown window type %q", transform.ErrInvalidParameterValue, s)
	}
}

func windowElement(k windowKind, length, i int) float64 {
	if length <= 1 {
		return 1
	}
	n := float64(length - 1)
	switch k {
	case windowRectangular:
		return 1
	case windowHann:
		return 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/n)
	default: // windowHamming
		return 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/n)
	}
}

// Window frames a raw sample stream into overlapping windows, applying an
// analysis window function. Grounded on
// original_source/tests/primitives/window.cc (window function shapes) and
// spec's MFCC scenario ("Window length=512").
type Window struct {
	transform.Base
	length int
	step   int
	kind   windowKind
	count  int
}

// NewWindow creates an unconfigured Window transform.
func NewWindow() *Window {
	return &Window{Base: transform.NewBase("Window")}
}

// SetParameter implements transform.Transform. Recognized parameters:
// length (required), step (default length/2), type (hamming|hann|rectangular).
func (w *Window) SetParameter(name, value string) error {
	switch name {
	case "length":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: length=%q", transform.ErrInvalidParameterValue, value)
		}
		w.length = n
		w.Base.RememberParam(name, value)
		return nil
	case "step":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: step=%q", transform.ErrInvalidParameterValue, value)
		}
		w.step = n
		w.Base.RememberParam(name, value)
		return nil
	case "type":
		k, err := parseWindowKind(value)
		if err != nil {
			return err
		}
		w.kind = k
		w.Base.RememberParam(name, value)
		return nil
	default:
		return fmt.Errorf("%w: %q", transform.ErrInvalidParameter, name)
	}
}

// BindInputFormat implements transform.Transform.
func (w *Window) BindInputFormat(f format.Format) error {
	if f.Kind() != format.Int16Raw && f.Kind() != format.FloatRaw {
		return fmt.Errorf("%w: Window requires raw samples, got %s", transform.ErrInvalidInputFormat, f.ID())
	}
	if w.length == 0 {
		return fmt.Errorf("%w: Window requires a length parameter", transform.ErrInvalidParameterValue)
	}
	if w.step == 0 {
		w.step = w.length / 2
	}
	w.Base.SetInputFormat(f)
	n := f.ElementCount()
	w.count = 0
	if n >= w.length {
		w.count = (n-w.length)/w.step + 1
	}
	w.Base.SetOutputFormat(format.NewWindowed(w.length))
	return nil
}

// Initialize implements transform.Transform; Window has no precomputation.
func (w *Window) Initialize() error { return nil }

// BuffersCountChange implements transform.Transform: one window instance
// produced per input instance's windows-per-frame count.
func (w *Window) BuffersCountChange() transform.BuffersCountChange {
	return transform.MultiplicativeChange(w.count)
}

// Do implements transform.Transform.
func (w *Window) Do(in, out *buffers.Buffers) error {
	kind := in.Format().Kind()
	for i := 0; i < out.Count(); i++ {
		start := i * w.step
		dst := out.Float64(i)
		switch kind {
		case format.Int16Raw:
			src := in.Int16(0)
			for j := 0; j < w.length; j++ {
				dst[j] = (float64(src[start+j]) / 32768.0) * windowElement(w.kind, w.length, j)
			}
		default:
			src := in.Float64(0)
			for j := 0; j < w.length; j++ {
				dst[j] = src[start+j] * windowElement(w.kind, w.length, j)
			}
		}
	}
	return nil
}
