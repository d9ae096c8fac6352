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

// Package spx implements the SPHINCS+ stateless hash-based signature scheme
// instantiated with SHA-256 and simple tweakable hashing
// (https://sphincs.org/data/sphincs+-round2-specification.pdf).
//
// A signature is R || SIG_FORS || SIG_HT: a randomizer, a FORS few-time
// signature of the message digest, and a hypertree signature of the FORS
// public key. The implementation is constant time assuming that SHA-256
// is constant time.
package spx

import (
	"crypto/rand"
	"fmt"
	"slices"
)

// PublicKey represents a SPHINCS+ public key.
type PublicKey struct {
	pkSeed []byte
	pkRoot []byte
	// Corresponding parameters.
	p *params
	h *hasher
}

// SecretKey represents a SPHINCS+ secret key.
type SecretKey struct {
	skSeed []byte
	skPRF  []byte
	pkSeed []byte
	pkRoot []byte
	// Corresponding parameters.
	p *params
	h *hasher
}

func (p *params) keygenInternal(skSeed, skPRF, pkSeed []byte) (*SecretKey, *PublicKey) {
	h := p.newHasher(pkSeed)
	// The public root is the root of the single subtree on the top layer.
	var topAddr address
	topAddr.setLayer(p.d - 1)
	topAddr.setType(addressTree)
	authPath := make([]byte, p.hp*p.n)
	pkRoot := h.treehash(authPath, skSeed, 0, 0, p.hp, h.wotsGenLeaf, &topAddr, p.workers)
	sk := &SecretKey{skSeed, skPRF, pkSeed, pkRoot, p, h}
	return sk, sk.PublicKey()
}

// KeyGenFromSeed deterministically derives a key pair from a seed of
// SeedLength bytes holding skSeed || skPRF || pkSeed.
func (p *params) KeyGenFromSeed(seed []byte) (*SecretKey, *PublicKey, error) {
	if len(seed) != p.SeedLength() {
		return nil, nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSeedLength, len(seed), p.SeedLength())
	}
	skSeed := slices.Clone(seed[:p.n])
	skPRF := slices.Clone(seed[p.n : 2*p.n])
	pkSeed := slices.Clone(seed[2*p.n : 3*p.n])
	sk, pk := p.keygenInternal(skSeed, skPRF, pkSeed)
	return sk, pk, nil
}

// KeyGen generates a fresh key pair.
func (p *params) KeyGen() (*SecretKey, *PublicKey, error) {
	seed := make([]byte, p.SeedLength())
	defer clear(seed)
	if _, err := rand.Read(seed); err != nil {
		return nil, nil, fmt.Errorf("spx: reading randomness: %w", err)
	}
	return p.KeyGenFromSeed(seed)
}

// signInternal builds the complete signature in a private buffer, so a
// caller never observes a partially written signature.
func (sk *SecretKey) signInternal(msg, optRand []byte) []byte {
	p := sk.p
	h := sk.h
	sig := make([]byte, p.sigBytes)
	v, err := p.viewSignature(sig)
	if err != nil {
		panic(err)
	}
	r := h.prfMsg(sk.skPRF, optRand, msg)
	copy(v.randomizer(), r)
	md, tree, leaf := h.hashMessage(r, slices.Concat(sk.pkSeed, sk.pkRoot), msg)

	var forsAddr address
	forsAddr.setType(addressWOTSHash)
	forsAddr.setTree(tree)
	forsAddr.setKeyPair(leaf)
	forsPK := h.forsSign(v.fors(), md, sk.skSeed, &forsAddr, p.workers)
	h.htSign(v, forsPK, sk.skSeed, tree, leaf)
	return sig
}

// Sign signs msg with fresh randomness.
func (sk *SecretKey) Sign(msg []byte) ([]byte, error) {
	optRand := make([]byte, sk.p.n)
	if _, err := rand.Read(optRand); err != nil {
		return nil, fmt.Errorf("spx: reading randomness: %w", err)
	}
	return sk.signInternal(msg, optRand), nil
}

// SignDeterministic signs msg using the public seed in place of fresh
// randomness. Equal messages yield equal signatures.
func (sk *SecretKey) SignDeterministic(msg []byte) []byte {
	return sk.signInternal(msg, sk.pkSeed)
}

// Verify reports whether sig is a valid signature of msg. An error is
// returned only when sig has the wrong length.
func (pk *PublicKey) Verify(msg, sig []byte) (bool, error) {
	p := pk.p
	h := pk.h
	v, err := p.viewSignature(sig)
	if err != nil {
		return false, err
	}
	md, tree, leaf := h.hashMessage(v.randomizer(), pk.Encode(), msg)

	var forsAddr address
	forsAddr.setType(addressWOTSHash)
	forsAddr.setTree(tree)
	forsAddr.setKeyPair(leaf)
	forsPK := h.forsPKFromSig(v.fors(), md, &forsAddr, p.workers)
	return h.htVerify(v, forsPK, tree, leaf, pk.pkRoot), nil
}

// Encode encodes a public key as pkSeed || pkRoot.
func (pk *PublicKey) Encode() []byte {
	return slices.Concat(pk.pkSeed, pk.pkRoot)
}

// DecodePublicKey decodes a public key.
func (p *params) DecodePublicKey(pkEnc []byte) (*PublicKey, error) {
	if len(pkEnc) != p.PublicKeyLength() {
		return nil, fmt.Errorf("%w: public key of %d bytes, want %d", ErrInvalidKeyLength, len(pkEnc), p.PublicKeyLength())
	}
	pkSeed := slices.Clone(pkEnc[0:p.n])
	pkRoot := slices.Clone(pkEnc[p.n : 2*p.n])
	return &PublicKey{pkSeed, pkRoot, p, p.newHasher(pkSeed)}, nil
}

// Encode encodes a secret key as skSeed || skPRF || pkSeed || pkRoot.
func (sk *SecretKey) Encode() []byte {
	return slices.Concat(sk.skSeed, sk.skPRF, sk.pkSeed, sk.pkRoot)
}

// DecodeSecretKey decodes a secret key. The key material is copied.
func (p *params) DecodeSecretKey(skEnc []byte) (*SecretKey, error) {
	if len(skEnc) != p.SecretKeyLength() {
		return nil, fmt.Errorf("%w: secret key of %d bytes, want %d", ErrInvalidKeyLength, len(skEnc), p.SecretKeyLength())
	}
	skSeed := slices.Clone(skEnc[0:p.n])
	skPRF := slices.Clone(skEnc[p.n : 2*p.n])
	pkSeed := slices.Clone(skEnc[2*p.n : 3*p.n])
	pkRoot := slices.Clone(skEnc[3*p.n : 4*p.n])
	return &SecretKey{skSeed, skPRF, pkSeed, pkRoot, p, p.newHasher(pkSeed)}, nil
}

// PublicKey returns the public key corresponding to a secret key.
func (sk *SecretKey) PublicKey() *PublicKey {
	return &PublicKey{sk.pkSeed, sk.pkRoot, sk.p, sk.h}
}

// Destroy overwrites the secret seeds. The key must not be used afterwards.
func (sk *SecretKey) Destroy() {
	clear(sk.skSeed)
	clear(sk.skPRF)
}
