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

import "crypto/subtle"

// htSign signs root with the hypertree, writing one WOTS+ signature and
// authentication path per layer into v. It returns the root of the top
// subtree.
func (h *hasher) htSign(v signatureView, root, skSeed []byte, tree uint64, leaf uint32) []byte {
	p := h.p
	var wotsAddr, treeAddr address
	wotsAddr.setType(addressWOTSHash)
	treeAddr.setType(addressTree)
	for i := range p.d {
		treeAddr.setLayer(i)
		treeAddr.setTree(tree)
		wotsAddr.copySubtree(&treeAddr)
		wotsAddr.setKeyPair(leaf)
		wotsSig, authPath := v.layer(i)
		h.wotsSign(wotsSig, root, skSeed, &wotsAddr, p.workers)
		root = h.treehash(authPath, skSeed, leaf, 0, p.hp, h.wotsGenLeaf, &treeAddr, p.workers)
		leaf = uint32(tree & lowBits(p.hp))
		tree >>= p.hp
	}
	return root
}

// htVerify walks the hypertree signature in v from root upwards and
// reports whether it ends at pkRoot.
func (h *hasher) htVerify(v signatureView, root []byte, tree uint64, leaf uint32, pkRoot []byte) bool {
	p := h.p
	var wotsAddr, pkAddr, treeAddr address
	wotsAddr.setType(addressWOTSHash)
	pkAddr.setType(addressWOTSPK)
	treeAddr.setType(addressTree)
	node := make([]byte, p.n)
	for i := range p.d {
		treeAddr.setLayer(i)
		treeAddr.setTree(tree)
		wotsAddr.copySubtree(&treeAddr)
		wotsAddr.setKeyPair(leaf)
		pkAddr.copyKeyPair(&wotsAddr)
		wotsSig, authPath := v.layer(i)
		wotsPK := h.wotsPKFromSig(wotsSig, root, &wotsAddr, p.workers)
		h.thash(node, wotsPK, &pkAddr)
		root = h.computeRoot(node, leaf, 0, authPath, p.hp, &treeAddr)
		leaf = uint32(tree & lowBits(p.hp))
		tree >>= p.hp
	}
	return subtle.ConstantTimeCompare(root, pkRoot) == 1
}
