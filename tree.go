// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package sfx builds and executes transform trees over fixed-size frames of
// audio: a set of named features, each a chain of DSP transforms rooted in
// one raw input format, sharing every prefix of transforms two features
// have in common, and executing over a single reusable arena.
package sfx

import (
	"fmt"

	"zikichombo.org/sfx/catalog"
	"zikichombo.org/sfx/format"
	"zikichombo.org/sfx/transform"
)

// Logger is the minimal logging façade a Tree uses to report structural
// decisions (dedup, allocation) and per-call diagnostics. internal/slog
// provides a zap-backed implementation; the zero value of noopLogger is
// used when no logger is configured.
type Logger interface {
	Debugf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Errorf(string, ...interface{}) {}

// Step is one link in a feature's transform chain: a catalog transform name
// plus the parameters to configure it with.
type Step struct {
	Transform string
	Params    map[string]string
	Inverse   bool
}

// Option configures a Tree at construction time.
type Option func(*Tree)

// WithLogger installs a non-default Logger.
func WithLogger(l Logger) Option {
	return func(t *Tree) { t.log = l }
}

// WithSIMD captures the process-wide SIMD-awareness flag at tree
// construction. Grounded on original_source/src/simd_aware.cc, which reads
// a static bool once at startup; SIMD awareness here is a tree-scoped,
// immutable config value rather than process-global mutable state.
func WithSIMD(v bool) Option {
	return func(t *Tree) { t.simdAware = v }
}

// WithValidateAfterEachTransform turns on per-node buffer validation
// (§4.7) after every transform invocation during Execute. Off by default,
// since validation is O(total bytes) per spec §4.7.
func WithValidateAfterEachTransform(v bool) Option {
	return func(t *Tree) { t.validateAfterEach = v }
}

// WithDumpBuffersAfterEachTransform logs each node's buffers (via
// buffers.Buffers.ToString) through the tree's Logger after every
// transform invocation during Execute. Off by default.
func WithDumpBuffersAfterEachTransform(v bool) Option {
	return func(t *Tree) { t.dumpBuffersAfterEach = v }
}

// Tree is a forest of shared transform chains rooted at one raw audio
// input format, built via AddFeature, fixed via PrepareForExecution, and
// run per frame via Execute.
type Tree struct {
	registry *catalog.Registry
	log      Logger

	simdAware            bool
	validateAfterEach    bool
	dumpBuffersAfterEach bool

	root   *node
	byName map[string]*node

	prepared bool
	allNodes []*node // topological order after PrepareForExecution; allNodes[0] == root
	arena    []byte
}

// New creates an empty Tree rooted at rootFormat (the raw input shape every
// feature's transform chain starts from), using registry to resolve
// transform names.
func New(rootFormat format.Format, registry *catalog.Registry, opts ...Option) *Tree {
	t := &Tree{
		registry: registry,
		log:      noopLogger{},
		root:     newNode(nil, nil, rootFormat, 1),
		byName:   make(map[string]*node),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// RootFormat returns the tree's raw input format.
func (t *Tree) RootFormat() format.Format { return t.root.format }

// SIMDAware reports the SIMD-awareness flag captured at construction.
func (t *Tree) SIMDAware() bool { return t.simdAware }

// SetValidateAfterEachTransform toggles per-node buffer validation during
// Execute. May be changed between calls to Execute.
func (t *Tree) SetValidateAfterEachTransform(v bool) { t.validateAfterEach = v }

// SetDumpBuffersAfterEachTransform toggles per-node buffer logging during
// Execute. May be changed between calls to Execute.
func (t *Tree) SetDumpBuffersAfterEachTransform(v bool) { t.dumpBuffersAfterEach = v }

// FeatureNames returns the names of every feature added so far.
func (t *Tree) FeatureNames() []string {
	names := make([]string, 0, len(t.byName))
	for n := range t.byName {
		names = append(names, n)
	}
	return names
}

// AddFeature registers a named feature as a chain of transform Steps
// applied in order starting from the tree's root format. Every prefix of
// steps identical (by Fingerprint) to a prefix already present in the tree
// is reused rather than rebuilt.
//
// Fails with ErrTreeAlreadyPrepared if PrepareForExecution has already run,
// ErrChainNameAlreadyExists if name is already registered,
// ErrTransformNotRegistered if a step names an unknown transform,
// ErrIncompatibleTransformFormat if a step rejects its parent's output
// format, ErrDependencyParameterUnknown if a step implements
// transform.DependencyParams and an ancestor never registered the
// parameter it depends on, and ErrChainAlreadyExists if the resulting leaf
// node is already the terminal node of a different named feature.
func (t *Tree) AddFeature(name string, steps []Step) error {
	if t.prepared {
		return ErrTreeAlreadyPrepared
	}
	if _, ok := t.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrChainNameAlreadyExists, name)
	}

	cur := t.root
	for i, step := range steps {
		tr, err := t.registry.Create(step.Transform)
		if err != nil {
			return fmt.Errorf("%w: step %d: %v", ErrTransformNotRegistered, i, err)
		}
		for k, v := range step.Params {
			if err := tr.SetParameter(k, v); err != nil {
				return fmt.Errorf("sfx: step %d (%s): %w", i, step.Transform, err)
			}
		}
		if step.Inverse {
			if inv, ok := tr.(interface{ SetInverse(bool) }); ok {
				inv.SetInverse(true)
			}
		}
		if dp, ok := tr.(transform.DependencyParams); ok {
			if err := t.checkDependencyParams(cur, dp); err != nil {
				return err
			}
		}
		if err := tr.BindInputFormat(cur.format); err != nil {
			return fmt.Errorf("%w: step %d (%s): %v", ErrIncompatibleTransformFormat, i, step.Transform, err)
		}
		fp := tr.Fingerprint()
		if existing, ok := cur.children[fp]; ok {
			t.log.Debugf("AddFeature %q: reusing existing node for step %d (%s), fingerprint %s", name, i, step.Transform, fp)
			cur = existing
			continue
		}
		if err := tr.Initialize(); err != nil {
			return fmt.Errorf("sfx: step %d (%s): initialize: %w", i, step.Transform, err)
		}
		count := tr.BuffersCountChange().Apply(cur.count)
		n := newNode(cur, tr, tr.OutputFormat(), count)
		cur.children[fp] = n
		cur.childOrder = append(cur.childOrder, n)
		cur = n
	}

	if cur == t.root {
		return fmt.Errorf("sfx: feature %q has no steps", name)
	}
	if cur.isLeafFeature() {
		return fmt.Errorf("%w: %q duplicates feature %q", ErrChainAlreadyExists, name, cur.featureName)
	}
	cur.featureName = name
	t.byName[name] = cur
	return nil
}

// checkDependencyParams verifies every name dp.DependencyParams() lists was
// registered by some ancestor of cur (inclusive).
func (t *Tree) checkDependencyParams(cur *node, dp transform.DependencyParams) error {
	for _, want := range dp.DependencyParams() {
		found := false
		for a := cur; a != nil && a.tr != nil; a = a.parent {
			if base, ok := a.tr.(interface{ Param(string) (string, bool) }); ok {
				if _, ok := base.Param(want); ok {
					found = true
					break
				}
			}
		}
		if !found {
			return fmt.Errorf("%w: %q", ErrDependencyParameterUnknown, want)
		}
	}
	return nil
}
