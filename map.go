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

// Package hashtable implements a generic hash table that resolves collisions
// by separate chaining, similar in spirit to Java's classic HashMap. Keys map
// to buckets through a configurable hash function, each bucket holds the head
// of a singly-linked chain of entries, and the table doubles its bucket array
// when the number of entries crosses capacity*loadFactor.
//
// # Design
//
// The bucket array length is always a power of two so that a digest h maps to
// a bucket with h & (capacity-1). Each entry caches the digest computed at
// insertion time; growing the table rehomes entries using the cached digest
// and never rehashes key bytes. New entries are prepended to their chain, so
// order within a chain is newest-first and no iteration order is guaranteed.
//
// The zero value of the key type plays the role of the reserved "null" key:
// it is stored in bucket 0 with digest 0 and is never passed to the hash
// function. It behaves like any other key from the caller's point of view.
//
// Hashing, key equality, and memory allocation are all injected at
// construction through options (see WithHash, WithKeyEqual, WithAllocator),
// which makes it possible to run the table against an arena or an
// instrumented allocator without touching the core. The bundled hash
// functions are a djb2-style string hash and MurmurHash3 in 32- and 64-bit
// flavors; see hash.go.
//
// A Map is NOT goroutine-safe. Callers that share a table across goroutines
// must serialize access themselves.
package hashtable

import (
	"fmt"
	"math/bits"

	"github.com/venkat-oss/go-hashtable/array"
)

const (
	// DefaultCapacity is the bucket count used when New is given a
	// non-positive capacity hint.
	DefaultCapacity = 16
	// DefaultLoadFactor is the size/capacity ratio beyond which the table
	// grows.
	DefaultLoadFactor = 0.75

	// maxCapacity is the largest power of two representable in an int.
	// Once a table reaches it, growth attempts fail and the table keeps
	// operating over threshold.
	maxCapacity = 1 << (bits.UintSize - 2)

	debug = false
)

// Entry is a single key-value mapping in a bucket chain. The table owns the
// entry node itself; what the key and value refer to remains owned by the
// caller and is never touched by the table.
type Entry[K comparable, V any] struct {
	key   K
	value V
	// hash is the digest computed from the key when the entry was created.
	// Resizing reuses it instead of rehashing the key.
	hash uint64
	next *Entry[K, V]
}

// Key returns the entry's key.
func (e *Entry[K, V]) Key() K { return e.key }

// Value returns the entry's value.
func (e *Entry[K, V]) Value() V { return e.value }

// Map is an unordered map from keys to values with Put, Get, Delete, and
// iteration operations, built on bucket chains. The zero value is not usable;
// construct with New.
//
// A Map is NOT goroutine-safe.
type Map[K comparable, V any] struct {
	buckets []*Entry[K, V]
	// capacity == len(buckets), kept separately because Close nils the
	// slice while accessors must keep answering.
	capacity  int
	size      int
	threshold int

	loadFactor float64
	seed       uint32
	keyLen     int

	hash      HashFn[K]
	equal     EqualFn[K]
	allocator Allocator[K, V]
}

// New constructs a Map with the given initial capacity hint, rounded up to
// the next power of two (minimum 2). A non-positive hint selects
// DefaultCapacity. New returns nil only if a caller-supplied allocator fails
// to produce the bucket array.
func New[K comparable, V any](initialCapacity int, options ...Option[K, V]) *Map[K, V] {
	if initialCapacity <= 0 {
		initialCapacity = DefaultCapacity
	}
	m := &Map[K, V]{
		capacity:   roundPowTwo(initialCapacity),
		loadFactor: DefaultLoadFactor,
		keyLen:     KeyLengthVariable,
		allocator:  defaultAllocator[K, V]{},
	}
	for _, op := range options {
		op.apply(m)
	}
	if m.hash == nil {
		m.hash = defaultHash[K]()
	}
	if m.equal == nil {
		m.equal = func(a, b K) bool { return a == b }
	}
	m.buckets = m.allocator.AllocBuckets(m.capacity)
	if m.buckets == nil {
		return nil
	}
	m.threshold = int(float64(m.capacity) * m.loadFactor)
	return m
}

// Put creates a key-value mapping, replacing the value in place if the key is
// already mapped. It returns false only if the allocator fails to produce a
// new entry; the table is unchanged in that case.
//
// When the table is at or over threshold a doubling is attempted first. A
// failed doubling (allocator failure or capacity cap) is not fatal: the
// insert still proceeds against the current, more loaded bucket array.
func (m *Map[K, V]) Put(key K, value V) bool {
	if m.size >= m.threshold {
		m.resize(m.capacity << 1)
	}

	var zero K
	if key == zero {
		return m.putNullKey(value)
	}

	h := m.hash(key, m.keyLen, m.seed)
	i := int(h & uint64(m.capacity-1))

	for e := m.buckets[i]; e != nil; e = e.next {
		if e.key != zero && m.equal(e.key, key) {
			e.value = value
			return true
		}
	}

	e := m.allocator.AllocEntry()
	if e == nil {
		return false
	}
	e.key = key
	e.value = value
	e.hash = h
	e.next = m.buckets[i]

	m.buckets[i] = e
	m.size++
	m.checkInvariants()
	return true
}

// putNullKey creates or replaces the mapping for the reserved zero key. The
// entry lives in bucket 0 with digest 0 and the hash function is not
// consulted.
func (m *Map[K, V]) putNullKey(value V) bool {
	var zero K
	for e := m.buckets[0]; e != nil; e = e.next {
		if e.key == zero {
			e.value = value
			return true
		}
	}

	e := m.allocator.AllocEntry()
	if e == nil {
		return false
	}
	e.value = value
	e.next = m.buckets[0]

	m.buckets[0] = e
	m.size++
	m.checkInvariants()
	return true
}

// Get returns the value mapped to key, with ok=false if the key is not
// present.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	var zero K
	if key == zero {
		return m.getNullKey()
	}
	for e := m.buckets[m.index(key)]; e != nil; e = e.next {
		if e.key != zero && m.equal(e.key, key) {
			return e.value, true
		}
	}
	return value, false
}

func (m *Map[K, V]) getNullKey() (value V, ok bool) {
	var zero K
	for e := m.buckets[0]; e != nil; e = e.next {
		if e.key == zero {
			return e.value, true
		}
	}
	return value, false
}

// Contains reports whether key is present, without looking at the mapped
// value.
func (m *Map[K, V]) Contains(key K) bool {
	var zero K
	if key == zero {
		_, ok := m.getNullKey()
		return ok
	}
	for e := m.buckets[m.index(key)]; e != nil; e = e.next {
		if e.key != zero && m.equal(key, e.key) {
			return true
		}
	}
	return false
}

// Delete removes the mapping for key and returns the value it held, with
// ok=false and no mutation if the key is not present.
func (m *Map[K, V]) Delete(key K) (value V, ok bool) {
	var zero K
	if key == zero {
		return m.deleteNullKey()
	}

	i := m.index(key)
	var prev *Entry[K, V]
	for e := m.buckets[i]; e != nil; e = e.next {
		if e.key != zero && m.equal(key, e.key) {
			value = e.value
			if prev == nil {
				m.buckets[i] = e.next
			} else {
				prev.next = e.next
			}
			m.allocator.FreeEntry(e)
			m.size--
			m.checkInvariants()
			return value, true
		}
		prev = e
	}
	return value, false
}

func (m *Map[K, V]) deleteNullKey() (value V, ok bool) {
	var zero K
	var prev *Entry[K, V]
	for e := m.buckets[0]; e != nil; e = e.next {
		if e.key == zero {
			value = e.value
			if prev == nil {
				m.buckets[0] = e.next
			} else {
				prev.next = e.next
			}
			m.allocator.FreeEntry(e)
			m.size--
			m.checkInvariants()
			return value, true
		}
		prev = e
	}
	return value, false
}

// Clear removes every mapping, releasing all entries through the allocator.
// Capacity and threshold are unchanged; the table never shrinks.
func (m *Map[K, V]) Clear() {
	for i := range m.buckets {
		e := m.buckets[i]
		for e != nil {
			next := e.next
			m.allocator.FreeEntry(e)
			e = next
		}
		m.buckets[i] = nil
	}
	m.size = 0
	m.checkInvariants()
}

// Close releases every entry and the bucket array back to the allocator. It
// is unnecessary for tables using the default allocator. Close is
// idempotent; any other use of the Map after Close is invalid.
func (m *Map[K, V]) Close() {
	if m.buckets == nil {
		return
	}
	m.Clear()
	m.allocator.FreeBuckets(m.buckets)
	m.buckets = nil
}

// Len returns the number of key-value mappings.
func (m *Map[K, V]) Len() int { return m.size }

// Cap returns the current bucket count.
func (m *Map[K, V]) Cap() int { return m.capacity }

// Keys returns the table's keys as a new array sized to exactly Len()
// elements, in bucket-then-chain order. Returns nil if the array cannot be
// allocated.
func (m *Map[K, V]) Keys() *array.Array[K] {
	keys := array.New[K](m.size)
	if keys == nil {
		return nil
	}
	for _, e := range m.buckets {
		for ; e != nil; e = e.next {
			if !keys.Add(e.key) {
				return nil
			}
		}
	}
	return keys
}

// Values returns the table's values as a new array sized to exactly Len()
// elements, in bucket-then-chain order. Returns nil if the array cannot be
// allocated.
func (m *Map[K, V]) Values() *array.Array[V] {
	values := array.New[V](m.size)
	if values == nil {
		return nil
	}
	for _, e := range m.buckets {
		for ; e != nil; e = e.next {
			if !values.Add(e.value) {
				return nil
			}
		}
	}
	return values
}

// EachKey calls fn for every key in the table until fn returns false. The
// key must not be mutated by fn.
func (m *Map[K, V]) EachKey(fn func(key K) bool) {
	for _, e := range m.buckets {
		for ; e != nil; e = e.next {
			if !fn(e.key) {
				return
			}
		}
	}
}

// EachValue calls fn for every value in the table until fn returns false.
func (m *Map[K, V]) EachValue(fn func(value V) bool) {
	for _, e := range m.buckets {
		for ; e != nil; e = e.next {
			if !fn(e.value) {
				return
			}
		}
	}
}

// All calls yield for every key-value pair until yield returns false.
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	for _, e := range m.buckets {
		for ; e != nil; e = e.next {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// index returns the bucket index for key at the current capacity.
func (m *Map[K, V]) index(key K) int {
	h := m.hash(key, m.keyLen, m.seed)
	return int(h & uint64(m.capacity-1))
}

// resize grows the bucket array to newCapacity (a power of two) and rehomes
// every entry by its cached digest. It reports false, leaving the table
// untouched, if the capacity cap has been reached or the allocator fails.
func (m *Map[K, V]) resize(newCapacity int) bool {
	if m.capacity == maxCapacity {
		return false
	}

	newBuckets := m.allocator.AllocBuckets(newCapacity)
	if newBuckets == nil {
		return false
	}
	oldBuckets := m.buckets

	moveEntries(oldBuckets, newBuckets)

	m.buckets = newBuckets
	m.capacity = newCapacity
	m.threshold = int(float64(newCapacity) * m.loadFactor)

	m.allocator.FreeBuckets(oldBuckets)

	if debug {
		fmt.Printf("resize: capacity=%d->%d threshold=%d\n",
			len(oldBuckets), newCapacity, m.threshold)
	}
	m.checkInvariants()
	return true
}

// moveEntries relocates every chain node from src into dst by cached digest.
// Nodes are prepended, so chain order reverses relative to src; no order is
// promised to callers.
func moveEntries[K comparable, V any](src, dst []*Entry[K, V]) {
	mask := uint64(len(dst) - 1)
	for _, e := range src {
		for e != nil {
			next := e.next
			i := e.hash & mask

			e.next = dst[i]
			dst[i] = e

			e = next
		}
	}
}

// roundPowTwo rounds n up to the nearest power of two, clamped to
// [2, maxCapacity].
func roundPowTwo(n int) int {
	if n >= maxCapacity {
		return maxCapacity
	}
	if n <= 2 {
		return 2
	}
	return 1 << bits.Len(uint(n-1))
}

// checkInvariants verifies size bookkeeping and digest routing. Compiled out
// unless the invariants build tag is set.
func (m *Map[K, V]) checkInvariants() {
	if !invariantsEnabled {
		return
	}
	var zero K
	mask := uint64(m.capacity - 1)
	count := 0
	for i, e := range m.buckets {
		for ; e != nil; e = e.next {
			count++
			if e.key == zero {
				if i != 0 || e.hash != 0 {
					panic(fmt.Sprintf("invariant failed: null entry in bucket %d with hash %#x", i, e.hash))
				}
				continue
			}
			if int(e.hash&mask) != i {
				panic(fmt.Sprintf("invariant failed: entry with hash %#x in bucket %d, want %d",
					e.hash, i, e.hash&mask))
			}
		}
	}
	if count != m.size {
		panic(fmt.Sprintf("invariant failed: found %d entries, but size is %d", count, m.size))
	}
}
