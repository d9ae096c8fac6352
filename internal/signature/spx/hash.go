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
	"crypto/hmac"
	"crypto/sha256"
	"encoding"
	"encoding/binary"
	"fmt"
	"hash"
	"slices"
)

// Layout of the state exported by crypto/sha256 through
// encoding.BinaryMarshaler: magic, chaining value, pending block, length.
const (
	sha256Magic          = "sha\x03"
	sha256MarshaledSize  = len(sha256Magic) + sha256.Size + sha256.BlockSize + 8
	sha256StateOffset    = len(sha256Magic)
	sha256CounterOffset  = sha256StateOffset + sha256.Size + sha256.BlockSize
	hashStateCounterSize = 8
)

// hashState is a SHA-256 chaining value followed by the big-endian count of
// bytes absorbed so far. It is taken after absorbing exactly one block.
type hashState [sha256.Size + hashStateCounterSize]byte

// seedState absorbs pubSeed padded with zeros to one SHA-256 block.
func seedState(pubSeed []byte) hashState {
	if len(pubSeed) > sha256.BlockSize {
		panic("spx: public seed longer than one block")
	}
	var block [sha256.BlockSize]byte
	copy(block[:], pubSeed)
	h := sha256.New()
	h.Write(block[:])
	m, err := h.(encoding.BinaryMarshaler).MarshalBinary()
	if err != nil || len(m) != sha256MarshaledSize {
		panic(fmt.Sprintf("spx: unexpected SHA-256 state encoding: %v", err))
	}
	var s hashState
	copy(s[:sha256.Size], m[sha256StateOffset:])
	copy(s[sha256.Size:], m[sha256CounterOffset:])
	return s
}

func (s *hashState) chainingValue() []byte {
	return s[:sha256.Size]
}

func (s *hashState) counter() uint64 {
	return binary.BigEndian.Uint64(s[sha256.Size:])
}

// restore returns a fresh SHA-256 instance positioned after the seed block.
func (s *hashState) restore() hash.Hash {
	var m [sha256MarshaledSize]byte
	copy(m[:], sha256Magic)
	copy(m[sha256StateOffset:], s.chainingValue())
	binary.BigEndian.PutUint64(m[sha256CounterOffset:], s.counter())
	h := sha256.New()
	if err := h.(encoding.BinaryUnmarshaler).UnmarshalBinary(m[:]); err != nil {
		panic(fmt.Sprintf("spx: restoring SHA-256 state: %v", err))
	}
	return h
}

// hasher binds a parameter set to the seeded state of one public seed. It
// is read-only after construction and safe for concurrent use.
type hasher struct {
	p     *params
	state hashState
}

func (p *params) newHasher(pubSeed []byte) *hasher {
	if len(pubSeed) != int(p.n) {
		panic("spx: public seed has wrong length")
	}
	return &hasher{p: p, state: seedState(pubSeed)}
}

// thash writes the first n bytes of SHA-256(pubSeed || pad || addr || in) to out.
func (h *hasher) thash(out, in []byte, adrs *address) {
	if len(in) == 0 || len(in)%int(h.p.n) != 0 {
		panic("spx: thash input is not a whole number of blocks")
	}
	s := h.state.restore()
	s.Write(adrs.hashBytes())
	s.Write(in)
	var digest [sha256.Size]byte
	copy(out[:h.p.n], s.Sum(digest[:0]))
}

// prf writes the first n bytes of SHA-256(key || addr) to out.
func (h *hasher) prf(out, key []byte, adrs *address) {
	s := sha256.New()
	s.Write(key)
	s.Write(adrs.hashBytes())
	var digest [sha256.Size]byte
	copy(out[:h.p.n], s.Sum(digest[:0]))
}

// prfMsg computes the randomizer R.
func (h *hasher) prfMsg(skPRF, optRand, msg []byte) []byte {
	mac := hmac.New(sha256.New, skPRF)
	mac.Write(optRand)
	mac.Write(msg)
	return mac.Sum(nil)[:h.p.n]
}

// Mask generation function based on a hash function, see https://datatracker.ietf.org/doc/html/rfc8017#appendix-B.2.1.
func mgf1Sha256(seed []byte, maskLen int) []byte {
	mask := make([]byte, 0, maskLen+sha256.Size)
	var ctr [4]byte
	for i := uint32(0); len(mask) < maskLen; i++ {
		binary.BigEndian.PutUint32(ctr[:], i)
		digest := sha256.Sum256(slices.Concat(seed, ctr[:]))
		mask = append(mask, digest[:]...)
	}
	return mask[:maskLen]
}

// hashMessage derives the FORS digest and the hypertree position from the
// randomizer, the encoded public key and the message.
func (h *hasher) hashMessage(r, pk, msg []byte) (md []byte, tree uint64, leaf uint32) {
	p := h.p
	seed := sha256.Sum256(slices.Concat(r, pk, msg))
	buf := mgf1Sha256(seed[:], int(p.digestBytes))
	md = buf[:p.forsMsgBytes]
	buf = buf[p.forsMsgBytes:]
	tree = fromLittleEndian(buf[:p.treeBytes]) & lowBits(p.treeBits)
	buf = buf[p.treeBytes:]
	leaf = uint32(fromLittleEndian(buf[:p.leafBytes]) & lowBits(p.hp))
	return md, tree, leaf
}
