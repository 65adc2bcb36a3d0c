// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package catalog

import (
	"fmt"
	"math"

	"zikichombo.org/sfx/buffers"
	"zikichombo.org/sfx/format"
	"zikichombo.org/sfx/transform"
)

// logFloor keeps Log well-defined on zero or near-zero energies, matching
// the typical MFCC guard against log(0).
const logFloor = 1e-10

// Log applies an elementwise natural logarithm, floored at logFloor.
type Log struct {
	transform.Base
}

// NewLog creates an unconfigured Log transform.
func NewLog() *Log {
	return &Log{Base: transform.NewBase("Log")}
}

// SetParameter implements transform.Transform. Log takes no parameters.
func (l *Log) SetParameter(name, value string) error {
	return fmt.Errorf("%w: %q", transform.ErrInvalidParameter, name)
}

// BindInputFormat implements transform.Transform.
func (l *Log) BindInputFormat(f format.Format) error {
	if f.Kind() != format.WindowedFloat {
		return fmt.Errorf("%w: Log requires a float vector input, got %s", transform.ErrInvalidInputFormat, f.ID())
	}
	l.Base.SetInputFormat(f)
	l.Base.SetOutputFormat(format.NewWindowed(f.ElementCount()))
	return nil
}

// Initialize implements transform.Transform; Log has no precomputation.
func (l *Log) Initialize() error { return nil }

// BuffersCountChange implements transform.Transform.
func (l *Log) BuffersCountChange() transform.BuffersCountChange {
	return transform.IdentityChange
}

// Do implements transform.Transform.
func (l *Log) Do(in, out *buffers.Buffers) error {
	for i := 0; i < in.Count(); i++ {
		src, dst := in.Float64(i), out.Float64(i)
		for j, v := range src {
			if v < logFloor {
				v = logFloor
			}
			dst[j] = math.Log(v)
		}
	}
	return nil
}
