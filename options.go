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

import "fmt"

// Option configures a Map while it is being created. Options cannot be
// applied after construction.
type Option[K comparable, V any] interface {
	apply(m *Map[K, V])
}

type hashOption[K comparable, V any] struct {
	hash HashFn[K]
}

func (op hashOption[K, V]) apply(m *Map[K, V]) {
	m.hash = op.hash
}

// WithHash is an option to specify the hash function to use for a Map[K,V].
func WithHash[K comparable, V any](hash HashFn[K]) Option[K, V] {
	return hashOption[K, V]{hash}
}

type equalOption[K comparable, V any] struct {
	equal EqualFn[K]
}

func (op equalOption[K, V]) apply(m *Map[K, V]) {
	m.equal = op.equal
}

// WithKeyEqual is an option to specify the key equality predicate for a
// Map[K,V]. The default is ==. The predicate and the hash function must
// agree: equal(a, b) implies hash(a) == hash(b).
func WithKeyEqual[K comparable, V any](equal EqualFn[K]) Option[K, V] {
	return equalOption[K, V]{equal}
}

type loadFactorOption[K comparable, V any] struct {
	loadFactor float64
}

func (op loadFactorOption[K, V]) apply(m *Map[K, V]) {
	if op.loadFactor <= 0 || op.loadFactor > 1 {
		panic(fmt.Sprintf("hashtable: load factor %v outside (0,1]", op.loadFactor))
	}
	m.loadFactor = op.loadFactor
}

// WithLoadFactor is an option to specify the size/capacity ratio that
// triggers growth. The factor must lie in (0,1]; anything else panics at
// construction.
func WithLoadFactor[K comparable, V any](loadFactor float64) Option[K, V] {
	return loadFactorOption[K, V]{loadFactor}
}

type seedOption[K comparable, V any] struct {
	seed uint32
}

func (op seedOption[K, V]) apply(m *Map[K, V]) {
	m.seed = op.seed
}

// WithSeed is an option to specify the seed passed unchanged into every hash
// call. The default is 0.
func WithSeed[K comparable, V any](seed uint32) Option[K, V] {
	return seedOption[K, V]{seed}
}

type keyLengthOption[K comparable, V any] struct {
	keyLen int
}

func (op keyLengthOption[K, V]) apply(m *Map[K, V]) {
	m.keyLen = op.keyLen
}

// WithKeyLength is an option to specify a fixed key length in bytes, for
// hash functions that need one (see PointerHash). The default is
// KeyLengthVariable.
func WithKeyLength[K comparable, V any](keyLen int) Option[K, V] {
	return keyLengthOption[K, V]{keyLen}
}

// Allocator specifies an interface for allocating and releasing the memory
// used by a Map: every chain entry and the bucket array itself go through
// it. The default allocator uses Go's builtin make/new and lets the GC
// reclaim memory.
//
// An allocator may signal allocation failure by returning nil, which the
// table reports through the affected operation's return value.
//
// If the allocator manually manages memory then Map.Close must be called so
// that FreeEntry and FreeBuckets run for everything still held by the table.
type Allocator[K comparable, V any] interface {
	// AllocEntry should return a zeroed entry, equivalent to
	// new(Entry[K,V]), or nil to signal failure.
	AllocEntry() *Entry[K, V]

	// FreeEntry may release an entry previously returned by AllocEntry.
	// The entry is unlinked and will not be touched again by the table.
	FreeEntry(e *Entry[K, V])

	// AllocBuckets should return a slice equivalent to
	// make([]*Entry[K,V], n), or nil to signal failure.
	AllocBuckets(n int) []*Entry[K, V]

	// FreeBuckets may release a slice previously returned by
	// AllocBuckets. Any entries it pointed to have already been rehomed
	// or freed.
	FreeBuckets(v []*Entry[K, V])
}

type defaultAllocator[K comparable, V any] struct{}

func (defaultAllocator[K, V]) AllocEntry() *Entry[K, V] {
	return &Entry[K, V]{}
}

func (defaultAllocator[K, V]) FreeEntry(*Entry[K, V]) {
}

func (defaultAllocator[K, V]) AllocBuckets(n int) []*Entry[K, V] {
	return make([]*Entry[K, V], n)
}

func (defaultAllocator[K, V]) FreeBuckets([]*Entry[K, V]) {
}

type allocatorOption[K comparable, V any] struct {
	allocator Allocator[K, V]
}

func (op allocatorOption[K, V]) apply(m *Map[K, V]) {
	m.allocator = op.allocator
}

// WithAllocator is an option to specify the Allocator to use for a Map[K,V].
func WithAllocator[K comparable, V any](allocator Allocator[K, V]) Option[K, V] {
	return allocatorOption[K, V]{allocator}
}
