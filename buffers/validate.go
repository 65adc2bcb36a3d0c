// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package buffers

import (
	"fmt"
	"math"

	"zikichombo.org/sfx/format"
)

// Validate reports whether every element of every instance is valid under
// its kind's validator: finite (no NaN, no +/-Inf) for floating kinds,
// unconditional pass for integer kinds. Validation is O(total bytes).
func (b *Buffers) Validate() error {
	switch b.format.Kind() {
	case format.Int16Raw:
		return nil
	case format.FloatRaw, format.WindowedFloat:
		for i := 0; i < b.count; i++ {
			for j, v := range b.Float64(i) {
				if !validFloat(v) {
					return fmt.Errorf("%w: instance %d element %d = %v", ErrInvalid, i, j, v)
				}
			}
		}
		return nil
	case format.FixedArray:
		for i := 0; i < b.count; i++ {
			for j, v := range b.FixedArray(i) {
				if !validFloat(v) {
					return fmt.Errorf("%w: instance %d element %d = %v", ErrInvalid, i, j, v)
				}
			}
		}
		return nil
	default:
		return nil
	}
}

func validFloat(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
