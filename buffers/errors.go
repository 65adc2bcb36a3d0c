// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package buffers

import "errors"

// ErrInsufficientAllocatedMemory is returned when a buffers-to-buffers copy
// would overflow the destination's allocated region. Its presence indicates
// an allocator bug or misuse, not a recoverable runtime condition.
var ErrInsufficientAllocatedMemory = errors.New("buffers: insufficient allocated memory")

// ErrInvalid is returned by Validate when a buffer contains a non-finite
// float element.
var ErrInvalid = errors.New("buffers: invalid buffer contents")
