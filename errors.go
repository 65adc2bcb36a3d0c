// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sfx

import "errors"

// Lifecycle errors: fatal to the call that returns them.
var (
	ErrTreeAlreadyPrepared = errors.New("sfx: tree already prepared for execution")
	ErrTreeIsNotPrepared   = errors.New("sfx: tree has not been prepared for execution")
	ErrTreeIsEmpty         = errors.New("sfx: tree has no features")
)

// Errors reported at AddFeature time; per spec §7 these never reach
// PrepareForExecution.
var (
	ErrTransformNotRegistered      = errors.New("sfx: transform not registered")
	ErrIncompatibleTransformFormat = errors.New("sfx: transform incompatible with parent output format")
	ErrDependencyParameterUnknown  = errors.New("sfx: dependency parameter not registered by an ancestor transform")
	ErrChainNameAlreadyExists      = errors.New("sfx: feature name already exists")
	ErrChainAlreadyExists          = errors.New("sfx: feature is identical to a previously added feature under a different name")
)

// Errors reported at prepare/execute time.
var (
	ErrFailedToAllocateBuffers           = errors.New("sfx: failed to allocate arena buffers")
	ErrTransformResultedInInvalidBuffers = errors.New("sfx: transform produced invalid buffers")
	ErrInvalidInputBuffers               = errors.New("sfx: invalid input buffers")
)
