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

import "errors"

// ErrIterState is returned by Iterator.Remove when there is no last-yielded
// entry to remove: either Next has not been called yet, or Remove was already
// called since the last Next.
var ErrIterState = errors.New("hashtable: iterator remove without a preceding next")

// Iterator is a cursor over all entries of a Map, in bucket-then-chain order
// (which is unspecified from the caller's point of view). Obtain one from
// Map.Iter.
//
// An iterator is invalidated by any structural change to the table that does
// not go through the iterator's own Remove; using an invalidated iterator is
// undefined.
type Iterator[K comparable, V any] struct {
	m *Map[K, V]
	// bucketIndex is the bucket holding next.
	bucketIndex int
	next        *Entry[K, V]
	// prev is the entry yielded by the most recent Next, cleared by Remove.
	prev *Entry[K, V]
}

// Iter returns an iterator positioned at the table's first entry, or an
// exhausted iterator if the table is empty.
func (m *Map[K, V]) Iter() *Iterator[K, V] {
	it := &Iterator[K, V]{m: m}
	for i, e := range m.buckets {
		if e != nil {
			it.bucketIndex = i
			it.next = e
			break
		}
	}
	return it
}

// HasNext reports whether a subsequent Next will yield an entry.
func (it *Iterator[K, V]) HasNext() bool {
	return it.next != nil
}

// Next yields the queued entry and advances the cursor. Once the iterator is
// exhausted, Next returns (nil, false) and keeps doing so on every
// subsequent call.
func (it *Iterator[K, V]) Next() (*Entry[K, V], bool) {
	if it.next == nil {
		return nil, false
	}

	it.prev = it.next
	it.next = it.next.next

	if it.next == nil {
		for i := it.bucketIndex + 1; i < len(it.m.buckets); i++ {
			if e := it.m.buckets[i]; e != nil {
				it.bucketIndex = i
				it.next = e
				break
			}
		}
	}
	return it.prev, true
}

// Remove deletes the entry last yielded by Next from the table, using the
// ordinary delete path, and returns its value. Calling Remove before any
// Next, or twice without an intervening Next, returns ErrIterState.
func (it *Iterator[K, V]) Remove() (V, error) {
	if it.prev == nil {
		var zero V
		return zero, ErrIterState
	}
	value, _ := it.m.Delete(it.prev.key)
	it.prev = nil
	return value, nil
}
