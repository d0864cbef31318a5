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

// Package array provides a growable sequence container with an injectable
// allocator, used by the hashtable package as the output buffer for bulk key
// and value exports.
package array

// DefaultCapacity is the backing slice length used when New is given a
// non-positive capacity hint.
const DefaultCapacity = 8

// Allocator allocates and releases the backing storage of an Array. A nil
// return from AllocSlice signals allocation failure.
type Allocator[T any] interface {
	// AllocSlice should return a slice equivalent to make([]T, n), or nil
	// to signal failure.
	AllocSlice(n int) []T

	// FreeSlice may release a slice previously returned by AllocSlice.
	FreeSlice(v []T)
}

type defaultAllocator[T any] struct{}

func (defaultAllocator[T]) AllocSlice(n int) []T {
	return make([]T, n)
}

func (defaultAllocator[T]) FreeSlice([]T) {
}

// Option configures an Array while it is being created.
type Option[T any] interface {
	apply(a *Array[T])
}

type allocatorOption[T any] struct {
	allocator Allocator[T]
}

func (op allocatorOption[T]) apply(a *Array[T]) {
	a.allocator = op.allocator
}

// WithAllocator is an option to specify the Allocator to use for an
// Array[T].
func WithAllocator[T any](allocator Allocator[T]) Option[T] {
	return allocatorOption[T]{allocator}
}

// Array is a growable sequence of T. The zero value is not usable; construct
// with New.
//
// An Array is NOT goroutine-safe.
type Array[T any] struct {
	buf       []T
	size      int
	allocator Allocator[T]
}

// New constructs an Array whose backing storage holds capacityHint elements
// before the first growth. A non-positive hint selects DefaultCapacity. New
// returns nil only if a caller-supplied allocator fails to produce the
// backing slice.
func New[T any](capacityHint int, options ...Option[T]) *Array[T] {
	if capacityHint <= 0 {
		capacityHint = DefaultCapacity
	}
	a := &Array[T]{allocator: defaultAllocator[T]{}}
	for _, op := range options {
		op.apply(a)
	}
	a.buf = a.allocator.AllocSlice(capacityHint)
	if a.buf == nil {
		return nil
	}
	return a
}

// Add appends item, doubling the backing storage if it is full. It returns
// false only if the allocator fails to produce the larger slice; the array
// is unchanged in that case.
func (a *Array[T]) Add(item T) bool {
	if a.size == len(a.buf) {
		if !a.grow(len(a.buf) * 2) {
			return false
		}
	}
	a.buf[a.size] = item
	a.size++
	return true
}

func (a *Array[T]) grow(n int) bool {
	newBuf := a.allocator.AllocSlice(n)
	if newBuf == nil {
		return false
	}
	copy(newBuf, a.buf[:a.size])
	a.allocator.FreeSlice(a.buf)
	a.buf = newBuf
	return true
}

// Get returns the element at index i, with ok=false if i is out of range.
func (a *Array[T]) Get(i int) (item T, ok bool) {
	if i < 0 || i >= a.size {
		return item, false
	}
	return a.buf[i], true
}

// Len returns the number of elements.
func (a *Array[T]) Len() int { return a.size }

// Cap returns the current backing storage length.
func (a *Array[T]) Cap() int { return len(a.buf) }

// Slice returns the elements as a slice sharing the array's backing storage.
// The slice is valid until the next Add or Close.
func (a *Array[T]) Slice() []T { return a.buf[:a.size] }

// Close releases the backing storage through the allocator. It is
// unnecessary for arrays using the default allocator. Close is idempotent;
// any other use of the Array after Close is invalid.
func (a *Array[T]) Close() {
	if a.buf == nil {
		return
	}
	a.allocator.FreeSlice(a.buf)
	a.buf = nil
	a.size = 0
}
