// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package seqqc

import (
	"strings"
	"unicode"
)

// ParseIDs splits s on commas and whitespace, in any mix, into a set of
// non-empty IDs. It returns nil, meaning "no filter", when s holds no IDs.
func ParseIDs(s string) map[string]struct{} {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return nil
	}
	ids := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		ids[f] = struct{}{}
	}
	return ids
}
