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

// messageToIndices splits the FORS digest into k indices of a bits each.
// Bits are consumed least significant first within every byte.
func (p *params) messageToIndices(md []byte) []uint32 {
	if uint32(len(md)) < p.forsMsgBytes {
		panic("unreachable")
	}
	indices := make([]uint32, p.k)
	offset := uint32(0)
	for i := range p.k {
		for j := range p.a {
			indices[i] ^= uint32((md[offset>>3]>>(offset&7))&1) << j
			offset++
		}
	}
	return indices
}

func (h *hasher) forsGenSK(out, skSeed []byte, adrs *address) {
	h.prf(out, skSeed, adrs)
}

// forsGenLeaf computes the leaf at global index idx of the FORS instance
// whose key pair is in treeAddr.
func (h *hasher) forsGenLeaf(out, skSeed []byte, idx uint32, treeAddr address) {
	var leafAddr address
	leafAddr.copyKeyPair(&treeAddr)
	leafAddr.setType(addressFORSTree)
	leafAddr.setTreeIndex(idx)
	h.forsGenSK(out, skSeed, &leafAddr)
	h.thash(out, out[:h.p.n], &leafAddr)
}

// forsAddresses returns the tree and roots addresses sharing the key pair
// of forsAddr.
func forsAddresses(forsAddr *address) (treeAddr, rootsAddr address) {
	treeAddr.copyKeyPair(forsAddr)
	treeAddr.setType(addressFORSTree)
	rootsAddr.copyKeyPair(forsAddr)
	rootsAddr.setType(addressFORSRoots)
	return treeAddr, rootsAddr
}

// forsSign writes the FORS signature of md to dst and returns the FORS
// public key.
func (h *hasher) forsSign(dst, md, skSeed []byte, forsAddr *address, w workers) []byte {
	p := h.p
	n := p.n
	if uint32(len(dst)) != p.forsBytes {
		panic("spx: FORS signature buffer has wrong length")
	}
	indices := p.messageToIndices(md)
	treeAddr, rootsAddr := forsAddresses(forsAddr)
	roots := make([]byte, p.k*n)
	w.each(p.k, func(i uint32) {
		a := treeAddr
		idxOffset := i << p.a
		sig := dst[i*(p.a+1)*n : (i+1)*(p.a+1)*n]
		a.setTreeHeight(0)
		a.setTreeIndex(indices[i] + idxOffset)
		h.forsGenSK(sig[:n], skSeed, &a)
		root := h.treehash(sig[n:], skSeed, indices[i], idxOffset, p.a, h.forsGenLeaf, &a, 1)
		copy(roots[i*n:], root)
	})
	pk := make([]byte, n)
	h.thash(pk, roots, &rootsAddr)
	return pk
}

// forsPKFromSig recomputes the FORS public key from a signature on md.
func (h *hasher) forsPKFromSig(sig, md []byte, forsAddr *address, w workers) []byte {
	p := h.p
	n := p.n
	if uint32(len(sig)) != p.forsBytes {
		panic("spx: FORS signature has wrong length")
	}
	indices := p.messageToIndices(md)
	treeAddr, rootsAddr := forsAddresses(forsAddr)
	roots := make([]byte, p.k*n)
	w.each(p.k, func(i uint32) {
		a := treeAddr
		idxOffset := i << p.a
		s := sig[i*(p.a+1)*n : (i+1)*(p.a+1)*n]
		a.setTreeHeight(0)
		a.setTreeIndex(indices[i] + idxOffset)
		leaf := make([]byte, n)
		h.thash(leaf, s[:n], &a)
		root := h.computeRoot(leaf, indices[i], idxOffset, s[n:], p.a, &a)
		copy(roots[i*n:], root)
	})
	pk := make([]byte, n)
	h.thash(pk, roots, &rootsAddr)
	return pk
}
