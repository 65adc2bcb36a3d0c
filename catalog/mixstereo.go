// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package catalog

import (
	"fmt"

	"zikichombo.org/sfx/buffers"
	"zikichombo.org/sfx/format"
	"zikichombo.org/sfx/transform"
)

// MixStereo averages interleaved stereo int16 samples down to mono,
// grounded on original_source/src/transforms/mix_stereo.h.
type MixStereo struct {
	transform.Base
	mono int
}

// NewMixStereo creates an unconfigured Mix transform.
func NewMixStereo() *MixStereo {
	return &MixStereo{Base: transform.NewBase("Mix")}
}

// SetParameter implements transform.Transform. Mix takes no parameters.
func (m *MixStereo) SetParameter(name, value string) error {
	return fmt.Errorf("%w: %q", transform.ErrInvalidParameter, name)
}

// BindInputFormat implements transform.Transform.
func (m *MixStereo) BindInputFormat(f format.Format) error {
	if f.Kind() != format.Int16Raw || f.ElementCount()%2 != 0 {
		return fmt.Errorf("%w: Mix requires interleaved stereo int16 input, got %s", transform.ErrInvalidInputFormat, f.ID())
	}
	m.Base.SetInputFormat(f)
	m.mono = f.ElementCount() / 2
	out := format.NewRaw(f.SampleRate(), m.mono)
	m.Base.SetOutputFormat(out)
	return nil
}

// Initialize implements transform.Transform; Mix has no precomputation.
func (m *MixStereo) Initialize() error { return nil }

// BuffersCountChange implements transform.Transform.
func (m *MixStereo) BuffersCountChange() transform.BuffersCountChange {
	return transform.IdentityChange
}

// Do implements transform.Transform.
func (m *MixStereo) Do(in, out *buffers.Buffers) error {
	for i := 0; i < in.Count(); i++ {
		src, dst := in.Int16(i), out.Int16(i)
		for j := 0; j < m.mono; j++ {
			l, r := int32(src[2*j]), int32(src[2*j+1])
			dst[j] = int16((l + r) / 2)
		}
	}
	return nil
}
