// Copyright 2026 The dynproto Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

// JSONName derives the canonical proto3 JSON field name from a
// snake_case declared name: underscores are dropped and the letter that
// followed one is upper-cased, matching the lowerCamelCase algorithm used
// by internal/fileinit/name_pure.go's MakeJSONName.
func JSONName(name string) string {
	var b []byte
	var wasUnderscore bool
	for i := 0; i < len(name); i++ { // proto identifiers are always ASCII
		c := name[i]
		if c != '_' {
			isLower := 'a' <= c && c <= 'z'
			if wasUnderscore && isLower {
				c -= 'a' - 'A'
			}
			b = append(b, c)
		}
		wasUnderscore = c == '_'
	}
	return string(b)
}
