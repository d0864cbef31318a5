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
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// HashFn maps a key plus the table's configured key length and seed to a
// digest. Digests must be deterministic: the same key, length, and seed must
// produce the same digest across calls and across process runs.
type HashFn[K comparable] func(key K, keyLen int, seed uint32) uint64

// EqualFn reports whether two keys are equal.
type EqualFn[K comparable] func(a, b K) bool

const (
	// KeyLengthVariable marks keys as variable-length. Hash functions that
	// need a byte count derive it from the key itself.
	KeyLengthVariable = -1

	// KeyLengthPointer is the fixed key length for pointer-sized keys
	// hashed by identity (see PointerHash).
	KeyLengthPointer = ptrSize

	// ptrSize is the size of a pointer in bytes: 4 on 32-bit targets, 8 on
	// 64-bit targets.
	ptrSize = bits.UintSize / 8
)

// StringHash is a djb2-style multiplicative string hash. The seed parameter
// is accepted but not mixed in, and the running hash folds in bytes starting
// at index 1 followed by a final zero byte; both quirks are long-standing
// behavior of this hash family and are kept so digests stay stable for
// callers that persist them. Use XXStringHash when compatibility with old
// digests does not matter.
func StringHash[K ~string](key K, _ int, _ uint32) uint64 {
	hash := uint64(5381)
	for i := 0; i < len(key); i++ {
		var b byte
		if i+1 < len(key) {
			b = key[i+1]
		}
		hash = ((hash << 5) + hash) ^ uint64(b)
	}
	return hash
}

// XXStringHash hashes a string with xxHash (XXH64). Unlike StringHash it
// honors the seed, by prefixing it to the hashed stream.
func XXStringHash[K ~string](key K, _ int, seed uint32) uint64 {
	if seed == 0 {
		return xxhash.Sum64String(string(key))
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], seed)
	d := xxhash.New()
	d.Write(b[:])
	d.WriteString(string(key))
	return d.Sum64()
}

// BytesHash hashes an arbitrary byte slice with MurmurHash3, selecting the
// 64-bit variant on 64-bit targets and the 32-bit variant otherwise.
func BytesHash(data []byte, seed uint32) uint64 {
	if ptrSize == 8 {
		return Murmur64(data, seed)
	}
	return uint64(Murmur32(data, seed))
}

// PointerHash mixes a pointer-sized key value itself rather than
// dereferencing it, for keys used by identity. keyLen is the configured key
// length, normally KeyLengthPointer.
func PointerHash(key uintptr, keyLen int, seed uint32) uint64 {
	if ptrSize == 8 {
		return pointerHash64(key, keyLen, seed)
	}
	return uint64(pointerHash32(key, keyLen, seed))
}

// Murmur64 is MurmurHash3's x64 variant, returning the first 64 bits of the
// 128-bit digest. The block constants, rotation amounts, descending tail
// cascade, and finalization mix are exactly those of Austin Appleby's
// reference implementation; changing any of them changes every digest, so
// they must not be "tidied up". Blocks are consumed little-endian, matching
// the reference layout on the platforms this family was defined for.
func Murmur64(data []byte, seed uint32) uint64 {
	nblocks := len(data) / 16

	h1 := uint64(seed)
	h2 := uint64(seed)

	const c1 = 0x87c37b91114253d5
	const c2 = 0x4cf5ad432745937f

	for i := 0; i < nblocks; i++ {
		k1 := binary.LittleEndian.Uint64(data[i*16:])
		k2 := binary.LittleEndian.Uint64(data[i*16+8:])

		k1 *= c1
		k1 = rotl64(k1, 31)
		k1 *= c2
		h1 ^= k1
		h1 = rotl64(h1, 27)
		h1 += h2
		h1 = h1*5 + 0x52dce729

		k2 *= c2
		k2 = rotl64(k2, 33)
		k2 *= c1
		h2 ^= k2
		h2 = rotl64(h2, 31)
		h2 += h1
		h2 = h2*5 + 0x38495ab5
	}

	tail := data[nblocks*16:]

	var k1, k2 uint64

	switch len(data) & 15 {
	case 15:
		k2 ^= uint64(tail[14]) << 48
		fallthrough
	case 14:
		k2 ^= uint64(tail[13]) << 40
		fallthrough
	case 13:
		k2 ^= uint64(tail[12]) << 32
		fallthrough
	case 12:
		k2 ^= uint64(tail[11]) << 24
		fallthrough
	case 11:
		k2 ^= uint64(tail[10]) << 16
		fallthrough
	case 10:
		k2 ^= uint64(tail[9]) << 8
		fallthrough
	case 9:
		k2 ^= uint64(tail[8])
		k2 *= c2
		k2 = rotl64(k2, 33)
		k2 *= c1
		h2 ^= k2
		fallthrough
	case 8:
		k1 ^= uint64(tail[7]) << 56
		fallthrough
	case 7:
		k1 ^= uint64(tail[6]) << 48
		fallthrough
	case 6:
		k1 ^= uint64(tail[5]) << 40
		fallthrough
	case 5:
		k1 ^= uint64(tail[4]) << 32
		fallthrough
	case 4:
		k1 ^= uint64(tail[3]) << 24
		fallthrough
	case 3:
		k1 ^= uint64(tail[2]) << 16
		fallthrough
	case 2:
		k1 ^= uint64(tail[1]) << 8
		fallthrough
	case 1:
		k1 ^= uint64(tail[0])
		k1 *= c1
		k1 = rotl64(k1, 31)
		k1 *= c2
		h1 ^= k1
	}

	h1 ^= uint64(len(data))
	h2 ^= uint64(len(data))

	h1 += h2
	h2 += h1

	h1 = fmix64(h1)
	h2 = fmix64(h2)

	h1 += h2
	h2 += h1

	return h1
}

// Murmur32 is MurmurHash3's x86 32-bit variant.
func Murmur32(data []byte, seed uint32) uint32 {
	nblocks := len(data) / 4

	h1 := seed

	const c1 = 0xcc9e2d51
	const c2 = 0x1b873593

	for i := 0; i < nblocks; i++ {
		k1 := binary.LittleEndian.Uint32(data[i*4:])

		k1 *= c1
		k1 = rotl32(k1, 15)
		k1 *= c2

		h1 ^= k1
		h1 = rotl32(h1, 13)
		h1 = h1*5 + 0xe6546b64
	}

	tail := data[nblocks*4:]

	var k1 uint32

	switch len(data) & 3 {
	case 3:
		k1 ^= uint32(tail[2]) << 16
		fallthrough
	case 2:
		k1 ^= uint32(tail[1]) << 8
		fallthrough
	case 1:
		k1 ^= uint32(tail[0])
		k1 *= c1
		k1 = rotl32(k1, 15)
		k1 *= c2
		h1 ^= k1
	}

	h1 ^= uint32(len(data))
	h1 = fmix32(h1)

	return h1
}

// pointerHash64 mixes the key value in 8-bit pieces extracted at 2*i shifts.
// Pointer-sized keys have power-of-two length so there is no tail to mix.
func pointerHash64(key uintptr, keyLen int, seed uint32) uint64 {
	nblocks := keyLen / 4

	h1 := uint64(seed)
	h2 := uint64(seed)

	const c1 = 0x87c37b91114253d5
	const c2 = 0x4cf5ad432745937f

	for i := 0; i < nblocks; i++ {
		k1 := uint64(key>>(2*uint(i))) & 0xff
		k2 := rotl64(k1, 13)

		k1 *= c1
		k1 = rotl64(k1, 31)
		k1 *= c2
		h1 ^= k1
		h1 = rotl64(h1, 27)
		h1 += h2
		h1 = h1*5 + 0x52dce729

		k2 *= c2
		k2 = rotl64(k2, 33)
		k2 *= c1
		h2 ^= k2
		h2 = rotl64(h2, 31)
		h2 += h1
		h2 = h2*5 + 0x38495ab5
	}

	h1 ^= uint64(keyLen)
	h2 ^= uint64(keyLen)

	h1 += h2
	h2 += h1

	h1 = fmix64(h1)
	h2 = fmix64(h2)

	h1 += h2
	h2 += h1

	return h1
}

func pointerHash32(key uintptr, keyLen int, seed uint32) uint32 {
	nblocks := keyLen / 4

	h1 := seed

	const c1 = 0xcc9e2d51
	const c2 = 0x1b873593

	for i := 0; i < nblocks; i++ {
		k1 := uint32(key>>(2*uint(i))) & 0xff

		k1 *= c1
		k1 = rotl32(k1, 15)
		k1 *= c2

		h1 ^= k1
		h1 = rotl32(h1, 13)
		h1 = h1*5 + 0xe6546b64
	}

	h1 ^= uint32(keyLen)
	h1 = fmix32(h1)

	return h1
}

// fmix64 is the finalization avalanche for the 64-bit mixer.
func fmix64(k uint64) uint64 {
	k ^= k >> 33
	k *= 0xff51afd7ed558ccd
	k ^= k >> 33
	k *= 0xc4ceb9fe1a85ec53
	k ^= k >> 33
	return k
}

func fmix32(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

func rotl64(x uint64, r uint) uint64 {
	return (x << r) | (x >> (64 - r))
}

func rotl32(x uint32, r uint) uint32 {
	return (x << r) | (x >> (32 - r))
}

// defaultHash returns the bundled hash function for K: StringHash for
// strings, a MurmurHash3 digest of the fixed-width little-endian encoding
// for the numeric types, and PointerHash for uintptr. Other key types have
// no default and require WithHash.
func defaultHash[K comparable]() HashFn[K] {
	var zero K
	switch any(zero).(type) {
	case string:
		return func(key K, keyLen int, seed uint32) uint64 {
			return StringHash(any(key).(string), keyLen, seed)
		}
	case int:
		return func(key K, _ int, seed uint32) uint64 {
			return uint64Hash(uint64(any(key).(int)), seed)
		}
	case int8:
		return func(key K, _ int, seed uint32) uint64 {
			return BytesHash([]byte{byte(any(key).(int8))}, seed)
		}
	case int16:
		return func(key K, _ int, seed uint32) uint64 {
			var b [2]byte
			binary.LittleEndian.PutUint16(b[:], uint16(any(key).(int16)))
			return BytesHash(b[:], seed)
		}
	case int32:
		return func(key K, _ int, seed uint32) uint64 {
			return uint32Hash(uint32(any(key).(int32)), seed)
		}
	case int64:
		return func(key K, _ int, seed uint32) uint64 {
			return uint64Hash(uint64(any(key).(int64)), seed)
		}
	case uint:
		return func(key K, _ int, seed uint32) uint64 {
			return uint64Hash(uint64(any(key).(uint)), seed)
		}
	case uint8:
		return func(key K, _ int, seed uint32) uint64 {
			return BytesHash([]byte{any(key).(uint8)}, seed)
		}
	case uint16:
		return func(key K, _ int, seed uint32) uint64 {
			var b [2]byte
			binary.LittleEndian.PutUint16(b[:], any(key).(uint16))
			return BytesHash(b[:], seed)
		}
	case uint32:
		return func(key K, _ int, seed uint32) uint64 {
			return uint32Hash(any(key).(uint32), seed)
		}
	case uint64:
		return func(key K, _ int, seed uint32) uint64 {
			return uint64Hash(any(key).(uint64), seed)
		}
	case float32:
		return func(key K, _ int, seed uint32) uint64 {
			return uint32Hash(math.Float32bits(any(key).(float32)), seed)
		}
	case float64:
		return func(key K, _ int, seed uint32) uint64 {
			return uint64Hash(math.Float64bits(any(key).(float64)), seed)
		}
	case uintptr:
		return func(key K, keyLen int, seed uint32) uint64 {
			if keyLen == KeyLengthVariable {
				keyLen = KeyLengthPointer
			}
			return PointerHash(any(key).(uintptr), keyLen, seed)
		}
	default:
		panic(fmt.Sprintf("hashtable: no default hash for key type %T; provide WithHash", zero))
	}
}

func uint64Hash(v uint64, seed uint32) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return BytesHash(b[:], seed)
}

func uint32Hash(v uint32, seed uint32) uint64 {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return BytesHash(b[:], seed)
}
