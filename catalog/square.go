// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package catalog

import (
	"fmt"

	"zikichombo.org/sfx/buffers"
	"zikichombo.org/sfx/format"
	"zikichombo.org/sfx/transform"
)

// Square applies an elementwise square.
type Square struct {
	transform.Base
}

// NewSquare creates an unconfigured Square transform.
func NewSquare() *Square {
	return &Square{Base: transform.NewBase("Square")}
}

// SetParameter implements transform.Transform. Square takes no parameters.
func (s *Square) SetParameter(name, value string) error {
	return fmt.Errorf("%w: %q", transform.ErrInvalidParameter, name)
}

// BindInputFormat implements transform.Transform.
func (s *Square) BindInputFormat(f format.Format) error {
	if f.Kind() != format.WindowedFloat {
		return fmt.Errorf("%w: Square requires a float vector input, got %s", transform.ErrInvalidInputFormat, f.ID())
	}
	s.Base.SetInputFormat(f)
	s.Base.SetOutputFormat(format.NewWindowed(f.ElementCount()))
	return nil
}

// Initialize implements transform.Transform; Square has no precomputation.
func (s *Square) Initialize() error { return nil }

// BuffersCountChange implements transform.Transform.
func (s *Square) BuffersCountChange() transform.BuffersCountChange {
	return transform.IdentityChange
}

// Do implements transform.Transform.
func (s *Square) Do(in, out *buffers.Buffers) error {
	for i := 0; i < in.Count(); i++ {
		src, dst := in.Float64(i), out.Float64(i)
		for j, v := range src {
			dst[j] = v * v
		}
	}
	return nil
}
