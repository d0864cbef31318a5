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

import (
	"fmt"
	"io"
	"strconv"
	"testing"

	"github.com/aclements/go-perfevent/perfbench"
)

func BenchmarkMapGetHit(b *testing.B) {
	b.Run("impl=runtimeMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRuntimeMapGetHit[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkRuntimeMapGetHit[string], genKeys[string]))
	})
	b.Run("impl=chainedMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkChainedMapGetHit[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkChainedMapGetHit[string], genKeys[string]))
	})
}

func BenchmarkMapPutGrow(b *testing.B) {
	b.Run("impl=runtimeMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRuntimeMapPutGrow[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkRuntimeMapPutGrow[string], genKeys[string]))
	})
	b.Run("impl=chainedMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkChainedMapPutGrow[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkChainedMapPutGrow[string], genKeys[string]))
	})
}

func BenchmarkMapPutDelete(b *testing.B) {
	b.Run("impl=runtimeMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRuntimeMapPutDelete[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkRuntimeMapPutDelete[string], genKeys[string]))
	})
	b.Run("impl=chainedMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkChainedMapPutDelete[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkChainedMapPutDelete[string], genKeys[string]))
	})
}

func BenchmarkMapIter(b *testing.B) {
	b.Run("impl=runtimeMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRuntimeMapIter[int64], genKeys[int64]))
	})
	b.Run("impl=chainedMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkChainedMapIter[int64], genKeys[int64]))
	})
}

func BenchmarkStringHashers(b *testing.B) {
	keys := genKeys[string](0, 1024)
	hashers := []struct {
		name string
		fn   HashFn[string]
	}{
		{"djb2", StringHash[string]},
		{"murmur3", func(key string, _ int, seed uint32) uint64 {
			return BytesHash([]byte(key), seed)
		}},
		{"xxhash", XXStringHash[string]},
	}
	for _, h := range hashers {
		b.Run("h="+h.name, func(b *testing.B) {
			cs := perfbench.Open(b)
			var acc uint64
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				acc += h.fn(keys[i&1023], KeyLengthVariable, 0)
			}
			b.StopTimer()
			cs.Stop()
			fmt.Fprint(io.Discard, acc)
		})
	}
}

type benchTypes interface {
	int64 | string
}

func benchSizes[T benchTypes](
	f func(b *testing.B, n int, genKeys func(start, end int) []T), genKeys func(start, end int) []T,
) func(*testing.B) {
	var cases = []int{
		12, 24,
		128,
		1024,
		8192,
		1 << 16,
	}

	return func(b *testing.B) {
		for _, n := range cases {
			b.Run("len="+strconv.Itoa(n), func(b *testing.B) { f(b, n, genKeys) })
		}
	}
}

func genKeys[T benchTypes](start, end int) []T {
	keys := make([]T, end-start)
	for i := range keys {
		switch p := any(&keys[i]).(type) {
		case *int64:
			*p = int64(start + i)
		case *string:
			*p = strconv.Itoa(start + i)
		}
	}
	return keys
}

func benchmarkRuntimeMapGetHit[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	m := make(map[T]T, n)
	keys := genKeys(1, n+1)
	for _, k := range keys {
		m[k] = k
	}
	cs := perfbench.Open(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m[keys[i%n]]
	}
	b.StopTimer()
	cs.Stop()
}

func benchmarkChainedMapGetHit[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	m := New[T, T](n)
	keys := genKeys(1, n+1)
	for _, k := range keys {
		m.Put(k, k)
	}
	cs := perfbench.Open(b)
	b.ResetTimer()
	var ok bool
	for i := 0; i < b.N; i++ {
		_, ok = m.Get(keys[i%n])
	}
	b.StopTimer()
	cs.Stop()
	fmt.Fprint(io.Discard, ok)
}

func benchmarkRuntimeMapPutGrow[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	keys := genKeys(1, n+1)
	cs := perfbench.Open(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := make(map[T]T)
		for _, k := range keys {
			m[k] = k
		}
	}
	b.StopTimer()
	cs.Stop()
}

func benchmarkChainedMapPutGrow[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	keys := genKeys(1, n+1)
	cs := perfbench.Open(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := New[T, T](0)
		for _, k := range keys {
			m.Put(k, k)
		}
	}
	b.StopTimer()
	cs.Stop()
}

func benchmarkRuntimeMapPutDelete[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	m := make(map[T]T, n)
	keys := genKeys(1, n+1)
	for _, k := range keys {
		m[k] = k
	}
	cs := perfbench.Open(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := i % n
		delete(m, keys[j])
		m[keys[j]] = keys[j]
	}
	b.StopTimer()
	cs.Stop()
}

func benchmarkChainedMapPutDelete[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	m := New[T, T](n)
	keys := genKeys(1, n+1)
	for _, k := range keys {
		m.Put(k, k)
	}
	cs := perfbench.Open(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := i % n
		m.Delete(keys[j])
		m.Put(keys[j], keys[j])
	}
	b.StopTimer()
	cs.Stop()
}

func benchmarkRuntimeMapIter[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	m := make(map[T]T, n)
	for _, k := range genKeys(1, n+1) {
		m[k] = k
	}
	cs := perfbench.Open(b)
	b.ResetTimer()
	var count int
	for i := 0; i < b.N; i++ {
		for range m {
			count++
		}
	}
	b.StopTimer()
	cs.Stop()
	fmt.Fprint(io.Discard, count)
}

func benchmarkChainedMapIter[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	m := New[T, T](n)
	for _, k := range genKeys(1, n+1) {
		m.Put(k, k)
	}
	cs := perfbench.Open(b)
	b.ResetTimer()
	var count int
	for i := 0; i < b.N; i++ {
		m.All(func(k, v T) bool {
			count++
			return true
		})
	}
	b.StopTimer()
	cs.Stop()
	fmt.Fprint(io.Discard, count)
}
