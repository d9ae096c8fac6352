// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package spx

// fromLittleEndian interprets up to 8 bytes as a little-endian integer.
func fromLittleEndian(x []byte) uint64 {
	if len(x) > 8 {
		panic("unreachable")
	}
	total := uint64(0)
	for i := len(x) - 1; i >= 0; i-- {
		total = total<<8 | uint64(x[i])
	}
	return total
}

// lowBits returns a mask of the b least significant bits, 0 <= b <= 64.
func lowBits(b uint32) uint64 {
	return ^uint64(0) >> (64 - b)
}

// toBigEndian writes x into n bytes, most significant first.
func toBigEndian(x uint32, n uint32) []byte {
	s := make([]byte, n)
	for i := range n {
		s[n-1-i] = byte(x)
		x >>= 8
	}
	return s
}

// baseW splits x into outLen digits of lgw bits, most significant first.
func baseW(x []byte, lgw uint32, outLen uint32) []uint32 {
	if len(x) < int((outLen*lgw+7)/8) {
		panic("unreachable")
	}
	in := 0
	bits := uint32(0)
	total := uint32(0)
	digits := make([]uint32, outLen)
	for out := range outLen {
		for bits < lgw {
			total = (total << 8) + uint32(x[in])
			in++
			bits += 8
		}
		bits -= lgw
		digits[out] = (total >> bits) & ((1 << lgw) - 1)
	}
	return digits
}
