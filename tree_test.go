// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sfx

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"zikichombo.org/sfx/buffers"
	"zikichombo.org/sfx/catalog"
	"zikichombo.org/sfx/format"
	"zikichombo.org/sfx/transform"
)

func init() {
	catalog.RegisterAll()
	if err := catalog.Default.Register("badLog", func() transform.Transform { return &badLogTransform{Base: transform.NewBase("badLog")} }); err != nil {
		panic(err)
	}
}

// badLogTransform is a test-only transform that passes its input through
// unchanged except for corrupting its first output element with NaN, used
// to exercise ErrTransformResultedInInvalidBuffers without depending on a
// real catalog transform's numerical edge cases.
type badLogTransform struct {
	transform.Base
}

func (b *badLogTransform) SetParameter(name, value string) error {
	return fmt.Errorf("%w: %q", transform.ErrInvalidParameter, name)
}

func (b *badLogTransform) BindInputFormat(f format.Format) error {
	b.Base.SetInputFormat(f)
	b.Base.SetOutputFormat(f)
	return nil
}

func (b *badLogTransform) Initialize() error { return nil }

func (b *badLogTransform) BuffersCountChange() transform.BuffersCountChange {
	return transform.IdentityChange
}

func (b *badLogTransform) Do(in, out *buffers.Buffers) error {
	for i := 0; i < out.Count(); i++ {
		copy(out.Float64(i), in.Float64(i))
	}
	if out.Count() > 0 {
		out.Float64(0)[0] = math.NaN()
	}
	return nil
}

func windowStep() Step {
	return Step{Transform: "Window", Params: map[string]string{"length": "512", "step": "256"}}
}

func rdftStep() Step { return Step{Transform: "RDFT"} }

func magnitudeStep() Step { return Step{Transform: "Magnitude"} }

func newTestTree(t *testing.T) *Tree {
	t.Helper()
	root := format.NewRaw(16000, 16000)
	return New(root, catalog.Default)
}

// TestSharedPrefixDedup exercises spec's dedup property: two features
// sharing the same leading transforms (same names, params, input format)
// share every node along that prefix.
func TestSharedPrefixDedup(t *testing.T) {
	tr := newTestTree(t)
	if err := tr.AddFeature("energy", []Step{windowStep(), rdftStep(),
		{Transform: "SpectralEnergy"}}); err != nil {
		t.Fatalf("AddFeature energy: %v", err)
	}
	if err := tr.AddFeature("mfcc", []Step{windowStep(), rdftStep(), magnitudeStep(),
		{Transform: "FilterBank", Params: map[string]string{"bins": "26", "rate": "16000"}},
		{Transform: "Log"},
		{Transform: "DCT", Params: map[string]string{"coeffs": "13"}},
	}); err != nil {
		t.Fatalf("AddFeature mfcc: %v", err)
	}

	windowNode := tr.root.childOrder[0]
	if len(tr.root.childOrder) != 1 {
		t.Fatalf("expected exactly one Window node shared by both features, got %d", len(tr.root.childOrder))
	}
	if len(windowNode.childOrder) != 1 {
		t.Fatalf("expected exactly one RDFT node shared by both features, got %d", len(windowNode.childOrder))
	}
	rdftNode := windowNode.childOrder[0]
	if len(rdftNode.childOrder) != 2 {
		t.Fatalf("expected RDFT to fan out to 2 distinct children (SpectralEnergy, Magnitude), got %d", len(rdftNode.childOrder))
	}
}

// TestDistinctParamsNoDedup ensures two features that differ only in a
// parameter value do NOT share the node at that point in the chain.
func TestDistinctParamsNoDedup(t *testing.T) {
	tr := newTestTree(t)
	if err := tr.AddFeature("w512", []Step{{Transform: "Window", Params: map[string]string{"length": "512"}}}); err != nil {
		t.Fatalf("AddFeature w512: %v", err)
	}
	if err := tr.AddFeature("w256", []Step{{Transform: "Window", Params: map[string]string{"length": "256"}}}); err != nil {
		t.Fatalf("AddFeature w256: %v", err)
	}
	if len(tr.root.childOrder) != 2 {
		t.Fatalf("expected 2 distinct Window nodes for distinct length params, got %d", len(tr.root.childOrder))
	}
}

// TestDuplicateNameRejected covers ErrChainNameAlreadyExists.
func TestDuplicateNameRejected(t *testing.T) {
	tr := newTestTree(t)
	step := []Step{windowStep()}
	if err := tr.AddFeature("w", step); err != nil {
		t.Fatalf("AddFeature w: %v", err)
	}
	err := tr.AddFeature("w", step)
	if !errors.Is(err, ErrChainNameAlreadyExists) {
		t.Fatalf("AddFeature w (again): got %v, want ErrChainNameAlreadyExists", err)
	}
}

// TestIdenticalChainNewNameRejected covers ErrChainAlreadyExists: the same
// exact transform chain added under a second name is rejected rather than
// silently aliased.
func TestIdenticalChainNewNameRejected(t *testing.T) {
	tr := newTestTree(t)
	if err := tr.AddFeature("w1", []Step{windowStep()}); err != nil {
		t.Fatalf("AddFeature w1: %v", err)
	}
	err := tr.AddFeature("w2", []Step{windowStep()})
	if !errors.Is(err, ErrChainAlreadyExists) {
		t.Fatalf("AddFeature w2 (identical chain): got %v, want ErrChainAlreadyExists", err)
	}
}

// TestUnregisteredTransformRejected covers ErrTransformNotRegistered.
func TestUnregisteredTransformRejected(t *testing.T) {
	tr := newTestTree(t)
	err := tr.AddFeature("bogus", []Step{{Transform: "NoSuchTransform"}})
	if !errors.Is(err, ErrTransformNotRegistered) {
		t.Fatalf("got %v, want ErrTransformNotRegistered", err)
	}
}

// TestAddFeatureRejectedAfterPrepare covers ErrTreeAlreadyPrepared.
func TestAddFeatureRejectedAfterPrepare(t *testing.T) {
	tr := newTestTree(t)
	if err := tr.AddFeature("w", []Step{windowStep()}); err != nil {
		t.Fatalf("AddFeature: %v", err)
	}
	if err := tr.PrepareForExecution(); err != nil {
		t.Fatalf("PrepareForExecution: %v", err)
	}
	err := tr.AddFeature("w2", []Step{windowStep()})
	if !errors.Is(err, ErrTreeAlreadyPrepared) {
		t.Fatalf("got %v, want ErrTreeAlreadyPrepared", err)
	}
}

// TestEmptyTreePrepareRejected covers ErrTreeIsEmpty.
func TestEmptyTreePrepareRejected(t *testing.T) {
	tr := newTestTree(t)
	err := tr.PrepareForExecution()
	if !errors.Is(err, ErrTreeIsEmpty) {
		t.Fatalf("got %v, want ErrTreeIsEmpty", err)
	}
}

// TestExecuteBeforePrepareRejected covers ErrTreeIsNotPrepared.
func TestExecuteBeforePrepareRejected(t *testing.T) {
	tr := newTestTree(t)
	if err := tr.AddFeature("w", []Step{windowStep()}); err != nil {
		t.Fatalf("AddFeature: %v", err)
	}
	_, err := tr.Execute(make([]int16, 16000))
	if !errors.Is(err, ErrTreeIsNotPrepared) {
		t.Fatalf("got %v, want ErrTreeIsNotPrepared", err)
	}
}

// mfccSteps is the canonical MFCC pipeline from spec.md's worked example and
// original_source/tests/mfcc.cc:43-46: Window -> RDFT -> SpectralEnergy ->
// FilterBank(squared) -> Log -> Square -> DCT -> Selector(16).
func mfccSteps() []Step {
	return []Step{
		windowStep(),
		rdftStep(),
		{Transform: "SpectralEnergy"},
		{Transform: "FilterBank", Params: map[string]string{"bins": "26", "rate": "16000", "squared": "true"}},
		{Transform: "Log"},
		{Transform: "Square"},
		{Transform: "DCT"},
		{Transform: "Selector", Params: map[string]string{"length": "16"}},
	}
}

// TestMFCCEndToEnd runs spec.md's canonical worked example literally —
// Window(512) -> RDFT -> SpectralEnergy -> FilterBank(squared=true) ->
// Log -> Square -> DCT -> Selector(16) — over a non-constant tone, and
// checks the result matches the spec's stated shape: one feature, 16
// coefficients per window, no NaNs.
func TestMFCCEndToEnd(t *testing.T) {
	tr := newTestTree(t)
	if err := tr.AddFeature("MFCC", mfccSteps()); err != nil {
		t.Fatalf("AddFeature MFCC: %v", err)
	}
	if err := tr.PrepareForExecution(); err != nil {
		t.Fatalf("PrepareForExecution: %v", err)
	}

	input := make([]int16, 16000)
	for i := range input {
		input[i] = int16(1000 * math.Sin(2*math.Pi*440*float64(i)/16000))
	}
	results, err := tr.Execute(input)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Execute returned %d features, want exactly 1", len(results))
	}
	mfcc, ok := results["MFCC"]
	if !ok {
		t.Fatal("Execute returned no buffer for feature \"MFCC\"")
	}
	if mfcc.Format().ElementCount() != 16 {
		t.Fatalf("mfcc coefficient count = %d, want 16", mfcc.Format().ElementCount())
	}
	wantWindows := (16000-512)/256 + 1
	if mfcc.Count() != wantWindows {
		t.Fatalf("mfcc window count = %d, want %d", mfcc.Count(), wantWindows)
	}
	if err := mfcc.Validate(); err != nil {
		t.Fatalf("mfcc.Validate(): %v", err)
	}
}

// TestMFCCConstantInputValidates mirrors original_source/tests/mfcc.cc's
// MFCCTrivial case: a frame of constant-valued samples drives every
// non-zeroth spectral bin toward zero, exercising Log's epsilon clamp.
// The pipeline must still produce a buffer that Validate accepts.
func TestMFCCConstantInputValidates(t *testing.T) {
	tr := newTestTree(t)
	if err := tr.AddFeature("MFCC", mfccSteps()); err != nil {
		t.Fatalf("AddFeature MFCC: %v", err)
	}
	if err := tr.PrepareForExecution(); err != nil {
		t.Fatalf("PrepareForExecution: %v", err)
	}

	input := make([]int16, 16000)
	for i := range input {
		input[i] = 128
	}
	results, err := tr.Execute(input)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	mfcc, ok := results["MFCC"]
	if !ok {
		t.Fatal("Execute returned no buffer for feature \"MFCC\"")
	}
	if err := mfcc.Validate(); err != nil {
		t.Fatalf("mfcc.Validate(): %v", err)
	}
}

// TestExecuteRejectsShortInput covers ErrInvalidInputBuffers.
func TestExecuteRejectsShortInput(t *testing.T) {
	tr := newTestTree(t)
	if err := tr.AddFeature("w", []Step{windowStep()}); err != nil {
		t.Fatalf("AddFeature: %v", err)
	}
	if err := tr.PrepareForExecution(); err != nil {
		t.Fatalf("PrepareForExecution: %v", err)
	}
	_, err := tr.Execute(make([]int16, 10))
	if !errors.Is(err, ErrInvalidInputBuffers) {
		t.Fatalf("got %v, want ErrInvalidInputBuffers", err)
	}
}

// TestValidateAfterEachTransformToggle covers spec §6's
// validate_after_each_transform toggle: off by default, Execute does not
// catch a transform's invalid output; turned on, it does.
func TestValidateAfterEachTransformToggle(t *testing.T) {
	tr := newTestTree(t)
	if err := tr.AddFeature("w", []Step{windowStep(), {Transform: "badLog"}}); err != nil {
		t.Fatalf("AddFeature: %v", err)
	}
	if err := tr.PrepareForExecution(); err != nil {
		t.Fatalf("PrepareForExecution: %v", err)
	}
	input := make([]int16, 16000)

	if _, err := tr.Execute(input); err != nil {
		t.Fatalf("Execute with validation off: got %v, want nil", err)
	}

	tr.SetValidateAfterEachTransform(true)
	_, err := tr.Execute(input)
	if !errors.Is(err, ErrTransformResultedInInvalidBuffers) {
		t.Fatalf("Execute with validation on: got %v, want ErrTransformResultedInInvalidBuffers", err)
	}
}

// TestExecutionTimeReportAccumulatesByTransformName covers spec §6's
// execution_time_report: keyed by transform name (not feature name), and
// accumulating (not overwriting) across repeated Execute calls.
func TestExecutionTimeReportAccumulatesByTransformName(t *testing.T) {
	tr := newTestTree(t)
	if err := tr.AddFeature("energy", []Step{windowStep(), rdftStep(), {Transform: "SpectralEnergy"}}); err != nil {
		t.Fatalf("AddFeature energy: %v", err)
	}
	if err := tr.PrepareForExecution(); err != nil {
		t.Fatalf("PrepareForExecution: %v", err)
	}
	input := make([]int16, 16000)

	if _, err := tr.Execute(input); err != nil {
		t.Fatalf("Execute #1: %v", err)
	}
	first := tr.ExecutionTimeReport()
	for _, name := range []string{"Window", "RDFT", "SpectralEnergy"} {
		if _, ok := first[name]; !ok {
			t.Fatalf("ExecutionTimeReport missing entry for transform %q: %v", name, first)
		}
	}
	if _, err := tr.Execute(input); err != nil {
		t.Fatalf("Execute #2: %v", err)
	}
	second := tr.ExecutionTimeReport()
	for name, d1 := range first {
		if d2 := second[name]; d2 < d1 {
			t.Fatalf("ExecutionTimeReport for %q did not accumulate: call #1 %v, call #2 %v", name, d1, d2)
		}
	}
}

// TestAllocatorReusesAcrossBranches ensures the arena stays smaller
// than the naive sum of every node's size once siblings stop overlapping
// in lifetime, exercising spec's allocator reuse property end to end
// through the tree (rather than directly against package alloc).
func TestAllocatorReusesAcrossBranches(t *testing.T) {
	tr := newTestTree(t)
	if err := tr.AddFeature("energy", []Step{windowStep(), rdftStep(), {Transform: "SpectralEnergy"}}); err != nil {
		t.Fatalf("AddFeature energy: %v", err)
	}
	if err := tr.AddFeature("mfcc", []Step{windowStep(), rdftStep(), magnitudeStep(),
		{Transform: "FilterBank", Params: map[string]string{"bins": "26", "rate": "16000"}},
		{Transform: "Log"},
		{Transform: "DCT", Params: map[string]string{"coeffs": "13"}},
	}); err != nil {
		t.Fatalf("AddFeature mfcc: %v", err)
	}
	if err := tr.PrepareForExecution(); err != nil {
		t.Fatalf("PrepareForExecution: %v", err)
	}

	naive := 0
	for _, n := range tr.allNodes {
		naive += n.sizeInBytes()
	}
	if len(tr.arena) >= naive {
		t.Fatalf("arena = %d bytes, want strictly less than naive sum %d bytes", len(tr.arena), naive)
	}
}
