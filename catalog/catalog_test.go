// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package catalog

import (
	"math"
	"testing"

	"zikichombo.org/sfx/buffers"
	"zikichombo.org/sfx/format"
)

func init() {
	RegisterAll()
}

func runTransform(t *testing.T, name string, params map[string]string, inFmt format.Format, inCount int, write func(*buffers.Buffers)) *buffers.Buffers {
	t.Helper()
	tr, err := Default.Create(name)
	if err != nil {
		t.Fatalf("Create(%q): %v", name, err)
	}
	for k, v := range params {
		if err := tr.SetParameter(k, v); err != nil {
			t.Fatalf("SetParameter(%q, %q): %v", k, v, err)
		}
	}
	if err := tr.BindInputFormat(inFmt); err != nil {
		t.Fatalf("BindInputFormat: %v", err)
	}
	if err := tr.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	in := buffers.NewOwned(inFmt, inCount)
	write(in)
	outCount := tr.BuffersCountChange().Apply(inCount)
	out := buffers.NewOwned(tr.OutputFormat(), outCount)
	if err := tr.Do(in, out); err != nil {
		t.Fatalf("Do: %v", err)
	}
	return out
}

func TestSelectorKeepsLeadingRange(t *testing.T) {
	out := runTransform(t, "Selector", map[string]string{"length": "3"}, format.NewWindowed(5), 1, func(b *buffers.Buffers) {
		copy(b.Float64(0), []float64{1, 2, 3, 4, 5})
	})
	want := []float64{1, 2, 3}
	got := out.Float64(0)
	if len(got) != len(want) {
		t.Fatalf("Selector output length = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("Selector output[%d] = %v, want %v", i, got[i], w)
		}
	}
}

func TestSelectorWithStart(t *testing.T) {
	out := runTransform(t, "Selector", map[string]string{"start": "2", "count": "2"}, format.NewWindowed(5), 1, func(b *buffers.Buffers) {
		copy(b.Float64(0), []float64{1, 2, 3, 4, 5})
	})
	want := []float64{3, 4}
	got := out.Float64(0)
	for i, w := range want {
		if got[i] != w {
			t.Errorf("Selector output[%d] = %v, want %v", i, got[i], w)
		}
	}
}

func TestSquareElementwise(t *testing.T) {
	out := runTransform(t, "Square", nil, format.NewWindowed(3), 1, func(b *buffers.Buffers) {
		copy(b.Float64(0), []float64{-2, 3, -4})
	})
	want := []float64{4, 9, 16}
	got := out.Float64(0)
	for i, w := range want {
		if got[i] != w {
			t.Errorf("Square output[%d] = %v, want %v", i, got[i], w)
		}
	}
}

func TestRectifyHalfWave(t *testing.T) {
	out := runTransform(t, "Rectify", nil, format.NewWindowed(3), 1, func(b *buffers.Buffers) {
		copy(b.Float64(0), []float64{-1, 2, -3})
	})
	want := []float64{0, 2, 0}
	got := out.Float64(0)
	for i, w := range want {
		if got[i] != w {
			t.Errorf("Rectify (half-wave) output[%d] = %v, want %v", i, got[i], w)
		}
	}
}

func TestRectifyFullWave(t *testing.T) {
	out := runTransform(t, "Rectify", map[string]string{"full": "true"}, format.NewWindowed(3), 1, func(b *buffers.Buffers) {
		copy(b.Float64(0), []float64{-1, 2, -3})
	})
	want := []float64{1, 2, 3}
	got := out.Float64(0)
	for i, w := range want {
		if got[i] != w {
			t.Errorf("Rectify (full-wave) output[%d] = %v, want %v", i, got[i], w)
		}
	}
}

func TestMixStereoAveragesChannels(t *testing.T) {
	tr, err := Default.Create("Mix")
	if err != nil {
		t.Fatalf("Create(\"Mix\"): %v", err)
	}
	inFmt := format.NewRaw(16000, 4)
	if err := tr.BindInputFormat(inFmt); err != nil {
		t.Fatalf("BindInputFormat: %v", err)
	}
	if err := tr.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	in := buffers.NewOwned(inFmt, 1)
	in.CopyInt16([]int16{10, 20, 30, 40})
	out := buffers.NewOwned(tr.OutputFormat(), 1)
	if err := tr.Do(in, out); err != nil {
		t.Fatalf("Do: %v", err)
	}
	want := []int16{15, 35}
	got := out.Int16(0)
	for i, w := range want {
		if got[i] != w {
			t.Errorf("Mix output[%d] = %d, want %d", i, got[i], w)
		}
	}
}

func TestSubbandEnergySumsSquares(t *testing.T) {
	out := runTransform(t, "SubbandEnergy", nil, format.NewWindowed(3), 1, func(b *buffers.Buffers) {
		copy(b.Float64(0), []float64{3, 4, 0})
	})
	want := 25.0
	if got := out.Float64(0)[0]; got != want {
		t.Errorf("SubbandEnergy output = %v, want %v", got, want)
	}
}

// TestDWPTSplitsIntoHaarSubbands exercises the documented Haar-wavelet-
// packet deviation from the original's Daubechies filter bank: one level
// of decomposition over a 4-sample frame should produce 2 subbands of 2
// samples each, matching a single Haar averages/differences split.
func TestDWPTSplitsIntoHaarSubbands(t *testing.T) {
	tr, err := Default.Create("DWPT")
	if err != nil {
		t.Fatalf("Create(\"DWPT\"): %v", err)
	}
	if err := tr.SetParameter("depth", "1"); err != nil {
		t.Fatalf("SetParameter(depth, 1): %v", err)
	}
	inFmt := format.NewWindowed(4)
	if err := tr.BindInputFormat(inFmt); err != nil {
		t.Fatalf("BindInputFormat: %v", err)
	}
	if tr.OutputFormat().ElementCount() != 2 {
		t.Fatalf("output element count = %d, want 2", tr.OutputFormat().ElementCount())
	}
	if err := tr.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	in := buffers.NewOwned(inFmt, 1)
	copy(in.Float64(0), []float64{2, 4, 6, 8})
	outCount := tr.BuffersCountChange().Apply(1)
	if outCount != 2 {
		t.Fatalf("BuffersCountChange().Apply(1) = %d, want 2 subbands", outCount)
	}
	out := buffers.NewOwned(tr.OutputFormat(), outCount)
	if err := tr.Do(in, out); err != nil {
		t.Fatalf("Do: %v", err)
	}

	const s = 0.7071067811865476
	wantAvg := []float64{6 * s, 14 * s}
	wantDiff := []float64{-2 * s, -2 * s}
	const eps = 1e-9
	gotAvg, gotDiff := out.Float64(0), out.Float64(1)
	for i := range wantAvg {
		if math.Abs(gotAvg[i]-wantAvg[i]) > eps {
			t.Errorf("averages subband[%d] = %v, want %v", i, gotAvg[i], wantAvg[i])
		}
		if math.Abs(gotDiff[i]-wantDiff[i]) > eps {
			t.Errorf("differences subband[%d] = %v, want %v", i, gotDiff[i], wantDiff[i])
		}
	}
}

func TestDWPTRejectsIndivisibleDepth(t *testing.T) {
	tr, err := Default.Create("DWPT")
	if err != nil {
		t.Fatalf("Create(\"DWPT\"): %v", err)
	}
	if err := tr.SetParameter("depth", "3"); err != nil {
		t.Fatalf("SetParameter(depth, 3): %v", err)
	}
	if err := tr.BindInputFormat(format.NewWindowed(5)); err == nil {
		t.Fatal("BindInputFormat: got nil error for depth not dividing frame length, want error")
	}
}
