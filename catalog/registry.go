// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package catalog provides the name -> factory transform registry plus a
// representative set of concrete DSP transforms (window, RDFT, filter
// bank, DCT, ...) sufficient to exercise a transform tree end-to-end.
// spec.md treats the concrete transform library as an external
// collaborator; this package supplies one so the tree is testable.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"zikichombo.org/sfx/transform"
)

// ErrNotRegistered is returned by Create for an unknown transform name.
var ErrNotRegistered = errors.New("catalog: transform not registered")

// ErrAlreadyRegistered is returned by Register when name collides with an
// existing factory, reported eagerly per Design Notes ("Catalog
// self-registration... unknown or duplicate registrations are reported
// eagerly").
var ErrAlreadyRegistered = errors.New("catalog: transform already registered")

// Registry is a name -> factory registry. The zero value is an empty,
// ready-to-use registry.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]transform.Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]transform.Factory)}
}

// Register adds factory under name. Fails with ErrAlreadyRegistered if name
// is already taken.
func (r *Registry) Register(name string, factory transform.Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.factories == nil {
		r.factories = make(map[string]transform.Factory)
	}
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, name)
	}
	r.factories[name] = factory
	return nil
}

// Create instantiates a fresh Transform for name. Fails with
// ErrNotRegistered if name is unknown.
func (r *Registry) Create(name string) (transform.Transform, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	return f(), nil
}

// Names returns the sorted list of registered transform names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Default is the process-wide registry populated by RegisterAll, mirroring
// Design Notes' "explicit register_all_transforms() call during program
// startup" (replacing constructor-time, dynamic-initializer registration).
var Default = NewRegistry()

var registerOnce sync.Once

// RegisterAll populates Default with every transform in this package. It is
// idempotent: subsequent calls are no-ops.
func RegisterAll() {
	registerOnce.Do(func() {
		must := func(name string, f transform.Factory) {
			if err := Default.Register(name, f); err != nil {
				panic(err)
			}
		}
		must("Window", func() transform.Transform { return NewWindow() })
		must("RDFT", func() transform.Transform { return NewRDFT() })
		must("SpectralEnergy", func() transform.Transform { return NewSpectralEnergy() })
		must("Magnitude", func() transform.Transform { return NewMagnitude() })
		must("FilterBank", func() transform.Transform { return NewFilterBank() })
		must("Log", func() transform.Transform { return NewLog() })
		must("Square", func() transform.Transform { return NewSquare() })
		must("DCT", func() transform.Transform { return NewDCT() })
		must("Selector", func() transform.Transform { return NewSelector() })
		must("Rectify", func() transform.Transform { return NewRectify() })
		must("Mix", func() transform.Transform { return NewMixStereo() })
		must("SubbandEnergy", func() transform.Transform { return NewSubbandEnergy() })
		must("DWPT", func() transform.Transform { return NewDWPT() })
	})
}
