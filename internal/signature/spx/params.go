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

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/bits"
)

var (
	// ErrInvalidParameters is returned for parameter sets that cannot be
	// instantiated.
	ErrInvalidParameters = errors.New("spx: invalid parameters")
	// ErrInvalidKeyLength is returned when decoding a key of the wrong size.
	ErrInvalidKeyLength = errors.New("spx: invalid key length")
	// ErrInvalidSeedLength is returned when a key generation seed has the wrong size.
	ErrInvalidSeedLength = errors.New("spx: invalid seed length")
	// ErrInvalidSignatureLength is returned when a signature has the wrong
	// size. It is distinct from a signature that fails to verify.
	ErrInvalidSignatureLength = errors.New("spx: invalid signature length")
)

type params struct {
	name string

	// Security parameter, total hypertree height, number of layers,
	// subtree height, FORS tree height, number of FORS trees and log2 of
	// the Winternitz parameter. Note that h = d * hp.
	n   uint32
	h   uint32
	d   uint32
	hp  uint32
	a   uint32
	k   uint32
	lgw uint32

	// Derived WOTS+ parameters.
	w    uint32
	len1 uint32
	len2 uint32
	len  uint32

	// Derived sizes in bytes, unless named bits.
	wotsBytes    uint32
	forsMsgBytes uint32
	forsBytes    uint32
	treeBits     uint32
	treeBytes    uint32
	leafBytes    uint32
	digestBytes  uint32
	layerBytes   uint32
	sigBytes     uint32

	workers workers
}

type paramsOpts struct {
	name string
	n    uint32
	h    uint32
	d    uint32
	a    uint32
	k    uint32
	lgw  uint32
}

func newParams(o paramsOpts) (*params, error) {
	switch {
	case o.n == 0 || o.n > sha256.Size:
		return nil, fmt.Errorf("%w: n = %d must be in [1, %d]", ErrInvalidParameters, o.n, sha256.Size)
	case o.lgw != 4 && o.lgw != 8:
		return nil, fmt.Errorf("%w: log2(w) = %d must be 4 or 8", ErrInvalidParameters, o.lgw)
	case o.d == 0 || o.d > 256:
		return nil, fmt.Errorf("%w: d = %d must be in [1, 256]", ErrInvalidParameters, o.d)
	case o.h == 0 || o.h%o.d != 0:
		return nil, fmt.Errorf("%w: h = %d is not a positive multiple of d = %d", ErrInvalidParameters, o.h, o.d)
	case o.h/o.d > 16:
		return nil, fmt.Errorf("%w: subtree height %d exceeds 16", ErrInvalidParameters, o.h/o.d)
	case (o.h/o.d)*(o.d-1) > 64:
		return nil, fmt.Errorf("%w: tree index of %d bits exceeds 64", ErrInvalidParameters, (o.h/o.d)*(o.d-1))
	case o.a == 0 || o.k == 0 || o.a >= 32 || uint64(o.k)<<o.a > 1<<32:
		return nil, fmt.Errorf("%w: FORS with k = %d trees of height a = %d does not fit a 32-bit index", ErrInvalidParameters, o.k, o.a)
	}
	w := uint32(1) << o.lgw
	len1 := (8*o.n + o.lgw - 1) / o.lgw
	log2 := func(x uint32) uint32 { return uint32(bits.Len32(x) - 1) }
	len2 := log2(len1*(w-1))/o.lgw + 1
	p := &params{
		name: o.name,
		n:    o.n,
		h:    o.h,
		d:    o.d,
		hp:   o.h / o.d,
		a:    o.a,
		k:    o.k,
		lgw:  o.lgw,
		w:    w,
		len1: len1,
		len2: len2,
		len:  len1 + len2,
	}
	if p.len > 256 {
		return nil, fmt.Errorf("%w: %d WOTS+ chains do not fit the chain field", ErrInvalidParameters, p.len)
	}
	p.wotsBytes = p.len * p.n
	p.forsMsgBytes = (p.k*p.a + 7) / 8
	p.forsBytes = p.k * (p.a + 1) * p.n
	p.treeBits = p.hp * (p.d - 1)
	p.treeBytes = (p.treeBits + 7) / 8
	p.leafBytes = (p.hp + 7) / 8
	p.digestBytes = p.forsMsgBytes + p.treeBytes + p.leafBytes
	p.layerBytes = p.wotsBytes + p.hp*p.n
	p.sigBytes = p.n + p.forsBytes + p.d*p.layerBytes
	p.workers = 1
	return p, nil
}

func mustNewParams(o paramsOpts) *params {
	p, err := newParams(o)
	if err != nil {
		panic(err)
	}
	return p
}

// Predefined parameter sets of SPHINCS+ with SHA-256 and simple tweakable
// hashing. All use w = 16.
var (
	// SHA256_128s defines parameters for SPHINCS+-SHA256-128s-simple.
	SHA256_128s = mustNewParams(paramsOpts{name: "SPHINCS+-SHA256-128s-simple", n: 16, h: 63, d: 7, a: 12, k: 14, lgw: 4})
	// SHA256_128f defines parameters for SPHINCS+-SHA256-128f-simple.
	SHA256_128f = mustNewParams(paramsOpts{name: "SPHINCS+-SHA256-128f-simple", n: 16, h: 66, d: 22, a: 6, k: 33, lgw: 4})
	// SHA256_192s defines parameters for SPHINCS+-SHA256-192s-simple.
	SHA256_192s = mustNewParams(paramsOpts{name: "SPHINCS+-SHA256-192s-simple", n: 24, h: 63, d: 7, a: 14, k: 17, lgw: 4})
	// SHA256_192f defines parameters for SPHINCS+-SHA256-192f-simple.
	SHA256_192f = mustNewParams(paramsOpts{name: "SPHINCS+-SHA256-192f-simple", n: 24, h: 66, d: 22, a: 8, k: 33, lgw: 4})
	// SHA256_256s defines parameters for SPHINCS+-SHA256-256s-simple.
	SHA256_256s = mustNewParams(paramsOpts{name: "SPHINCS+-SHA256-256s-simple", n: 32, h: 64, d: 8, a: 14, k: 22, lgw: 4})
	// SHA256_256f defines parameters for SPHINCS+-SHA256-256f-simple.
	SHA256_256f = mustNewParams(paramsOpts{name: "SPHINCS+-SHA256-256f-simple", n: 32, h: 68, d: 17, a: 9, k: 35, lgw: 4})
)

var byName = map[string]*params{
	SHA256_128s.name: SHA256_128s,
	SHA256_128f.name: SHA256_128f,
	SHA256_192s.name: SHA256_192s,
	SHA256_192f.name: SHA256_192f,
	SHA256_256s.name: SHA256_256s,
	SHA256_256f.name: SHA256_256f,
}

// ByName returns the predefined parameter set with the given name, such as
// "SPHINCS+-SHA256-128f-simple".
func ByName(name string) (*params, bool) {
	p, ok := byName[name]
	return p, ok
}

// Name returns the name of the parameter set.
func (p *params) Name() string {
	return p.name
}

// WithParallelism returns a copy of the parameter set whose operations use
// up to n goroutines. n < 2 selects sequential execution.
func (p *params) WithParallelism(n int) *params {
	c := *p
	c.workers = workers(max(n, 1))
	return &c
}

// PublicKeyLength returns the length of an encoded public key.
func (p *params) PublicKeyLength() int {
	return int(2 * p.n)
}

// SecretKeyLength returns the length of an encoded secret key.
func (p *params) SecretKeyLength() int {
	return int(4 * p.n)
}

// SeedLength returns the length of a key generation seed.
func (p *params) SeedLength() int {
	return int(3 * p.n)
}

// SignatureLength returns the length of a signature.
func (p *params) SignatureLength() int {
	return int(p.sigBytes)
}

// signatureView gives typed access to the parts of a signature:
//
//	| R (n) | FORS (k (a+1) n) | layer 0 | ... | layer d-1 |
//
// with every layer being | WOTS+ signature (len n) | auth path (hp n) |.
// The length is checked once when the view is created.
type signatureView struct {
	p *params
	b []byte
}

func (p *params) viewSignature(sig []byte) (signatureView, error) {
	if uint32(len(sig)) != p.sigBytes {
		return signatureView{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSignatureLength, len(sig), p.sigBytes)
	}
	return signatureView{p: p, b: sig}, nil
}

func (v signatureView) randomizer() []byte {
	return v.b[:v.p.n:v.p.n]
}

func (v signatureView) fors() []byte {
	end := v.p.n + v.p.forsBytes
	return v.b[v.p.n:end:end]
}

func (v signatureView) layer(i uint32) (wotsSig, authPath []byte) {
	p := v.p
	if i >= p.d {
		panic(fmt.Sprintf("spx: layer %d out of range", i))
	}
	off := p.n + p.forsBytes + i*p.layerBytes
	mid := off + p.wotsBytes
	end := off + p.layerBytes
	return v.b[off:mid:mid], v.b[mid:end:end]
}
