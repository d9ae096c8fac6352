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

// chainLengths returns the base-w digits of msg followed by the digits of
// its checksum.
func (p *params) chainLengths(msg []byte) []uint32 {
	digits := baseW(msg, p.lgw, p.len1)
	csum := uint32(0)
	for _, d := range digits {
		csum += p.w - 1 - d
	}
	// Left-align the checksum within its byte encoding.
	csum <<= (8 - (p.len2*p.lgw)%8) % 8
	csumBytes := toBigEndian(csum, (p.len2*p.lgw+7)/8)
	return append(digits, baseW(csumBytes, p.lgw, p.len2)...)
}

// genChain applies steps chain iterations to in, starting at position
// start, and writes the result to out. Iteration stops at position w-1.
func (h *hasher) genChain(out, in []byte, start, steps uint32, adrs *address) {
	copy(out[:h.p.n], in)
	for i := start; i < start+steps && i < h.p.w; i++ {
		adrs.setHash(i)
		h.thash(out, out[:h.p.n], adrs)
	}
}

// wotsGenSK derives the secret chain start for the chain in adrs.
func (h *hasher) wotsGenSK(out, skSeed []byte, adrs *address) {
	adrs.setHash(0)
	h.prf(out, skSeed, adrs)
}

// wotsGenPK returns the concatenated chain ends of the key pair in adrs.
func (h *hasher) wotsGenPK(skSeed []byte, adrs *address, w workers) []byte {
	n := h.p.n
	pk := make([]byte, h.p.wotsBytes)
	base := *adrs
	w.each(h.p.len, func(i uint32) {
		a := base
		a.setChain(i)
		chain := pk[i*n : (i+1)*n]
		h.wotsGenSK(chain, skSeed, &a)
		h.genChain(chain, chain, 0, h.p.w-1, &a)
	})
	return pk
}

// wotsSign writes the signature of the n-byte msg to dst.
func (h *hasher) wotsSign(dst, msg, skSeed []byte, adrs *address, w workers) {
	n := h.p.n
	if uint32(len(dst)) != h.p.wotsBytes {
		panic("spx: WOTS+ signature buffer has wrong length")
	}
	lengths := h.p.chainLengths(msg)
	base := *adrs
	w.each(h.p.len, func(i uint32) {
		a := base
		a.setChain(i)
		chain := dst[i*n : (i+1)*n]
		h.wotsGenSK(chain, skSeed, &a)
		h.genChain(chain, chain, 0, lengths[i], &a)
	})
}

// wotsPKFromSig completes every chain of sig and returns the chain ends.
func (h *hasher) wotsPKFromSig(sig, msg []byte, adrs *address, w workers) []byte {
	n := h.p.n
	lengths := h.p.chainLengths(msg)
	pk := make([]byte, h.p.wotsBytes)
	base := *adrs
	w.each(h.p.len, func(i uint32) {
		a := base
		a.setChain(i)
		h.genChain(pk[i*n:(i+1)*n], sig[i*n:(i+1)*n], lengths[i], h.p.w-1-lengths[i], &a)
	})
	return pk
}

// wotsGenLeaf computes the compressed WOTS+ public key of key pair idx in
// the subtree addressed by treeAddr.
func (h *hasher) wotsGenLeaf(out, skSeed []byte, idx uint32, treeAddr address) {
	var wotsAddr, pkAddr address
	wotsAddr.setType(addressWOTSHash)
	pkAddr.setType(addressWOTSPK)
	wotsAddr.copySubtree(&treeAddr)
	wotsAddr.setKeyPair(idx)
	pk := h.wotsGenPK(skSeed, &wotsAddr, 1)
	pkAddr.copyKeyPair(&wotsAddr)
	h.thash(out, pk, &pkAddr)
}
