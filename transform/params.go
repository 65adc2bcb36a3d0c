// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package transform

import (
	"fmt"
	"strings"
)

// ParseParams parses the parameter-string grammar from spec §6:
//
//	params_string := (key=value)(\s+key=value)*
//
// Whitespace separates pairs; '=' separates key and value; an empty string
// denotes no parameters.
func ParseParams(s string) (map[string]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return map[string]string{}, nil
	}
	fields := strings.Fields(s)
	res := make(map[string]string, len(fields))
	for _, field := range fields {
		eq := strings.IndexByte(field, '=')
		if eq < 0 {
			return nil, fmt.Errorf("transform: malformed parameter pair %q, want key=value", field)
		}
		key := field[:eq]
		val := field[eq+1:]
		if key == "" {
			return nil, fmt.Errorf("transform: malformed parameter pair %q, empty key", field)
		}
		res[key] = val
	}
	return res, nil
}
