// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package transform

import "errors"

// Sentinel errors reported at AddFeature time; per spec §7 these never
// reach PrepareForExecution.
var (
	// ErrInvalidParameter is returned by SetParameter for an unknown key.
	ErrInvalidParameter = errors.New("transform: invalid parameter name")
	// ErrInvalidParameterValue is returned by SetParameter when a known
	// key's value fails to parse.
	ErrInvalidParameterValue = errors.New("transform: invalid parameter value")
	// ErrInvalidInputFormat is returned by BindInputFormat when the bound
	// transform cannot accept the given input format.
	ErrInvalidInputFormat = errors.New("transform: incompatible input format")
)
