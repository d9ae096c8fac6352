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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddressLayout(t *testing.T) {
	for _, tc := range []struct {
		name  string
		build func(a *address)
		want  []byte
	}{
		{
			name: "WOTS_HASH",
			build: func(a *address) {
				a.setLayer(1)
				a.setTree(0x0203040506070809)
				a.setType(addressWOTSHash)
				a.setKeyPair(0x0a0b)
				a.setChain(0x0c)
				a.setHash(0x0d)
			},
			want: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 0, 0, 0x0a, 0x0b, 0, 0, 0, 0x0c, 0, 0, 0, 0x0d, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "WOTS_PK",
			build: func(a *address) {
				a.setLayer(3)
				a.setTree(1)
				a.setType(addressWOTSPK)
				a.setKeyPair(7)
			},
			want: []byte{3, 0, 0, 0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 7, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "TREE",
			build: func(a *address) {
				a.setLayer(21)
				a.setTree(0xffffffffffffffff)
				a.setType(addressTree)
				a.setTreeHeight(5)
				a.setTreeIndex(0x01020304)
			},
			want: []byte{21, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 2, 0, 0, 0, 0, 0, 0, 0, 5, 1, 2, 3, 4, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "FORS_TREE",
			build: func(a *address) {
				a.setType(addressFORSTree)
				a.setKeyPair(0x1ff)
				a.setTreeHeight(0)
				a.setTreeIndex(0x00abcdef)
			},
			want: []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 3, 0, 0, 1, 0xff, 0, 0, 0, 0, 0, 0xab, 0xcd, 0xef, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "FORS_ROOTS",
			build: func(a *address) {
				a.setTree(0x100)
				a.setType(addressFORSRoots)
				a.setKeyPair(2)
			},
			want: []byte{0, 0, 0, 0, 0, 0, 0, 1, 0, 4, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "WOTS_PRF",
			build: func(a *address) {
				a.setType(addressWOTSPRF)
				a.setKeyPair(1)
				a.setChain(34)
				a.setHash(0)
			},
			want: []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 5, 0, 0, 0, 1, 0, 0, 0, 34, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "FORS_PRF",
			build: func(a *address) {
				a.setType(addressFORSPRF)
				a.setKeyPair(1)
				a.setTreeIndex(9)
			},
			want: []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 6, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 9, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var a address
			tc.build(&a)
			if diff := cmp.Diff(tc.want, a.bytes()); diff != "" {
				t.Errorf("bytes() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.want[:addressHashBytes], a.hashBytes()); diff != "" {
				t.Errorf("hashBytes() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAddressCopy(t *testing.T) {
	var src address
	src.setLayer(4)
	src.setTree(0x1122334455667788)
	src.setType(addressWOTSHash)
	src.setKeyPair(0x0304)
	src.setChain(9)
	src.setHash(10)

	var sub address
	sub.setType(addressTree)
	sub.copySubtree(&src)
	if got, want := sub.bytes()[:offsetType], src.bytes()[:offsetType]; !cmp.Equal(got, want) {
		t.Errorf("copySubtree() prefix = %x, want %x", got, want)
	}
	if got := sub.typ(); got != addressTree {
		t.Errorf("copySubtree() changed type to %v", got)
	}
	if got := sub.keyPair(); got != 0 {
		t.Errorf("copySubtree() copied key pair %d", got)
	}

	var kp address
	kp.setType(addressWOTSPK)
	kp.copyKeyPair(&src)
	if got, want := kp.keyPair(), uint32(0x0304); got != want {
		t.Errorf("copyKeyPair() key pair = %#x, want %#x", got, want)
	}
	if got := kp.bytes()[offsetChain]; got != 0 {
		t.Errorf("copyKeyPair() copied chain %d", got)
	}
}

func TestAddressSetTypeClearsOverlay(t *testing.T) {
	var a address
	a.setType(addressFORSTree)
	a.setKeyPair(5)
	a.setTreeHeight(3)
	a.setTreeIndex(0xdeadbeef)
	a.setType(addressFORSRoots)
	if got := a.treeIndex(); got != 0 {
		t.Errorf("treeIndex() after setType = %#x, want 0", got)
	}
	if got := a.keyPair(); got != 5 {
		t.Errorf("keyPair() after setType = %d, want 5", got)
	}
}

func TestAddressUndefinedFieldPanics(t *testing.T) {
	for _, tc := range []struct {
		name string
		typ  addressType
		set  func(a *address)
	}{
		{"chain on TREE", addressTree, func(a *address) { a.setChain(1) }},
		{"hash on FORS_TREE", addressFORSTree, func(a *address) { a.setHash(1) }},
		{"key pair on TREE", addressTree, func(a *address) { a.setKeyPair(1) }},
		{"tree height on WOTS_HASH", addressWOTSHash, func(a *address) { a.setTreeHeight(1) }},
		{"tree index on WOTS_PK", addressWOTSPK, func(a *address) { a.setTreeIndex(1) }},
		{"tree index on FORS_ROOTS", addressFORSRoots, func(a *address) { a.setTreeIndex(1) }},
		{"key pair too large", addressWOTSHash, func(a *address) { a.setKeyPair(1 << 16) }},
		{"chain too large", addressWOTSHash, func(a *address) { a.setChain(256) }},
		{"layer too large", addressTree, func(a *address) { a.setLayer(256) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("setter did not panic")
				}
			}()
			var a address
			a.setType(tc.typ)
			tc.set(&a)
		})
	}
}
