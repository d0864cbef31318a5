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

package array

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasic(t *testing.T) {
	a := New[int](4)
	require.Equal(t, 0, a.Len())
	require.Equal(t, 4, a.Cap())

	for i := 0; i < 100; i++ {
		require.True(t, a.Add(i))
	}
	require.Equal(t, 100, a.Len())

	for i := 0; i < 100; i++ {
		v, ok := a.Get(i)
		require.True(t, ok)
		require.Equal(t, i, v)
	}

	_, ok := a.Get(100)
	require.False(t, ok)
	_, ok = a.Get(-1)
	require.False(t, ok)

	require.Equal(t, 100, len(a.Slice()))
	require.Equal(t, 42, a.Slice()[42])
}

func TestCapacityHint(t *testing.T) {
	require.Equal(t, DefaultCapacity, New[int](0).Cap())
	require.Equal(t, DefaultCapacity, New[int](-3).Cap())
	require.Equal(t, 17, New[int](17).Cap())

	// A hint sized to the final element count never regrows.
	a := New[int](50)
	for i := 0; i < 50; i++ {
		require.True(t, a.Add(i))
	}
	require.Equal(t, 50, a.Cap())
}

type countingAllocator[T any] struct {
	alloc int
	free  int
}

func (a *countingAllocator[T]) AllocSlice(n int) []T {
	a.alloc++
	return make([]T, n)
}

func (a *countingAllocator[T]) FreeSlice([]T) {
	a.free++
}

func TestAllocator(t *testing.T) {
	ca := &countingAllocator[int]{}
	a := New[int](4, WithAllocator[int](ca))
	require.Equal(t, 1, ca.alloc)

	for i := 0; i < 100; i++ {
		require.True(t, a.Add(i))
	}

	// 4 -> 8 -> 16 -> 32 -> 64 -> 128
	require.Equal(t, 6, ca.alloc)
	require.Equal(t, 5, ca.free)

	a.Close()
	require.Equal(t, 6, ca.free)
	a.Close() // idempotent
	require.Equal(t, 6, ca.free)
}

type failingAllocator[T any] struct {
	budget int
}

func (a *failingAllocator[T]) AllocSlice(n int) []T {
	if a.budget == 0 {
		return nil
	}
	a.budget--
	return make([]T, n)
}

func (a *failingAllocator[T]) FreeSlice([]T) {}

func TestAllocationFailure(t *testing.T) {
	require.Nil(t, New[int](4, WithAllocator[int](&failingAllocator[int]{})))

	a := New[int](2, WithAllocator[int](&failingAllocator[int]{budget: 1}))
	require.NotNil(t, a)
	require.True(t, a.Add(1))
	require.True(t, a.Add(2))
	// Growth fails; the array is unchanged and still usable.
	require.False(t, a.Add(3))
	require.Equal(t, 2, a.Len())
	v, ok := a.Get(1)
	require.True(t, ok)
	require.Equal(t, 2, v)
}
