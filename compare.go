// Copyright 2025 The go-hashtable Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hashtable

import "strings"

// The default key comparator is ==, which covers strings, numerics, and
// pointer identity. The helpers below exist for tables whose notion of key
// equality is looser than ==; any of them can be passed to WithKeyEqual as
// long as the configured hash function agrees with it.

// FoldedStringEqual compares string keys ignoring case, for tables whose
// hash function also folds case before digesting.
func FoldedStringEqual(a, b string) bool {
	return strings.EqualFold(a, b)
}

// FixedLengthStringEqual returns a comparator that considers string keys
// equal when their first n bytes match, for tables configured with a fixed
// key length. Keys shorter than n compare equal only if identical.
func FixedLengthStringEqual(n int) EqualFn[string] {
	return func(a, b string) bool {
		if len(a) > n {
			a = a[:n]
		}
		if len(b) > n {
			b = b[:n]
		}
		return a == b
	}
}

// PointerEqual compares pointer keys by identity.
func PointerEqual[T any](a, b *T) bool {
	return a == b
}
