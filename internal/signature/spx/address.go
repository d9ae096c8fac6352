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
	"encoding/binary"
	"fmt"
)

// An address is a 32-byte buffer with added structure. Only the first
// addressHashBytes bytes take part in hashing.
//
//	| layer (1) | tree (8, big-endian) | type (1) | unused (2) | key pair (2) | unused (3) | overlay (5) | unused (10) |
//
// The overlay depends on the type tag:
//
//	WOTS_HASH, WOTS_PRF:            | chain (1)       | unused (3)      | hash (1) |
//	TREE, FORS_TREE, FORS_PRF:      | tree height (1) | tree index (4, big-endian) |
//	WOTS_PK, FORS_ROOTS:            | zero                                       |
//
// The high key pair byte is only ever non-zero when the subtree height
// exceeds 8.
type address [32]byte

type addressType uint8

const (
	addressWOTSHash addressType = iota
	addressWOTSPK
	addressTree
	addressFORSTree
	addressFORSRoots
	addressWOTSPRF
	addressFORSPRF
)

const (
	addressHashBytes = 22

	offsetLayer     = 0
	offsetTree      = 1
	offsetType      = 9
	offsetKeyPair   = 12
	offsetChain     = 17
	offsetHash      = 21
	offsetHeight    = 17
	offsetTreeIndex = 18
)

func (t addressType) String() string {
	switch t {
	case addressWOTSHash:
		return "WOTS_HASH"
	case addressWOTSPK:
		return "WOTS_PK"
	case addressTree:
		return "TREE"
	case addressFORSTree:
		return "FORS_TREE"
	case addressFORSRoots:
		return "FORS_ROOTS"
	case addressWOTSPRF:
		return "WOTS_PRF"
	case addressFORSPRF:
		return "FORS_PRF"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
	}
}

func (t addressType) hasKeyPair() bool {
	return t != addressTree
}

func (t addressType) hasChain() bool {
	return t == addressWOTSHash || t == addressWOTSPRF
}

func (t addressType) hasTreeNode() bool {
	return t == addressTree || t == addressFORSTree || t == addressFORSPRF
}

func (a *address) typ() addressType {
	return addressType(a[offsetType])
}

func (a *address) mustAllow(field string, ok bool) {
	if !ok {
		panic(fmt.Sprintf("spx: address field %s is undefined for type %v", field, a.typ()))
	}
}

func mustFit(field string, v, limit uint64) {
	if v >= limit {
		panic(fmt.Sprintf("spx: address %s %d out of range", field, v))
	}
}

func (a *address) setLayer(l uint32) {
	mustFit("layer", uint64(l), 1<<8)
	a[offsetLayer] = byte(l)
}

func (a *address) setTree(t uint64) {
	binary.BigEndian.PutUint64(a[offsetTree:offsetType], t)
}

// setType changes the tag and clears the overlay written under the previous
// one. The key pair survives so that it can be copied in before the tag is set.
func (a *address) setType(y addressType) {
	mustFit("type", uint64(y), uint64(addressFORSPRF)+1)
	a[offsetType] = byte(y)
	clear(a[offsetChain:addressHashBytes])
}

func (a *address) setKeyPair(i uint32) {
	a.mustAllow("key pair", a.typ().hasKeyPair())
	mustFit("key pair", uint64(i), 1<<16)
	a[offsetKeyPair] = byte(i >> 8)
	a[offsetKeyPair+1] = byte(i)
}

func (a *address) keyPair() uint32 {
	return uint32(a[offsetKeyPair])<<8 | uint32(a[offsetKeyPair+1])
}

// copySubtree copies the layer and tree fields.
func (a *address) copySubtree(src *address) {
	copy(a[:offsetType], src[:offsetType])
}

// copyKeyPair copies the layer, tree and key pair fields.
func (a *address) copyKeyPair(src *address) {
	copy(a[:offsetType], src[:offsetType])
	copy(a[offsetKeyPair:offsetKeyPair+2], src[offsetKeyPair:offsetKeyPair+2])
}

func (a *address) setChain(i uint32) {
	a.mustAllow("chain", a.typ().hasChain())
	mustFit("chain", uint64(i), 1<<8)
	a[offsetChain] = byte(i)
}

func (a *address) setHash(i uint32) {
	a.mustAllow("hash", a.typ().hasChain())
	mustFit("hash", uint64(i), 1<<8)
	a[offsetHash] = byte(i)
}

func (a *address) setTreeHeight(h uint32) {
	a.mustAllow("tree height", a.typ().hasTreeNode())
	mustFit("tree height", uint64(h), 1<<8)
	a[offsetHeight] = byte(h)
}

func (a *address) setTreeIndex(i uint32) {
	a.mustAllow("tree index", a.typ().hasTreeNode())
	binary.BigEndian.PutUint32(a[offsetTreeIndex:offsetTreeIndex+4], i)
}

func (a *address) treeIndex() uint32 {
	return binary.BigEndian.Uint32(a[offsetTreeIndex : offsetTreeIndex+4])
}

// bytes returns the full 32-byte encoding.
func (a *address) bytes() []byte {
	return a[:]
}

// hashBytes returns the prefix of the encoding that is fed to the hash.
func (a *address) hashBytes() []byte {
	return a[:addressHashBytes]
}
