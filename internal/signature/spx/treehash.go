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
	"fmt"
	"slices"
)

// leafFunc writes leaf idx of the tree addressed by treeAddr to out. It
// receives its own copy of the address and may be called concurrently.
type leafFunc func(out, skSeed []byte, idx uint32, treeAddr address)

type treeNode struct {
	height uint32
	value  []byte
}

// treehash computes the root of the tree of the given height whose leaves
// are gen(idxOffset), ..., gen(idxOffset + 2^height - 1), and writes the
// authentication path of leafIdx to authPath. Leaves are merged strictly
// in index order, so the stack never holds more than height+1 nodes.
func (h *hasher) treehash(authPath, skSeed []byte, leafIdx, idxOffset, height uint32, gen leafFunc, treeAddr *address, w workers) []byte {
	n := h.p.n
	if uint32(len(authPath)) != height*n {
		panic(fmt.Sprintf("spx: auth path of %d bytes for tree of height %d", len(authPath), height))
	}
	if height >= 32 || leafIdx >= 1<<height {
		panic(fmt.Sprintf("spx: leaf %d outside tree of height %d", leafIdx, height))
	}
	total := uint32(1) << height
	batch := w.leafBatch(total)
	leaves := make([]byte, batch*n)
	stack := make([]treeNode, 0, height+1)
	buf := make([]byte, 2*n)
	next := uint32(0)
	for start := uint32(0); start < total; start += batch {
		count := min(batch, total-start)
		base := *treeAddr
		w.each(count, func(i uint32) {
			gen(leaves[i*n:(i+1)*n], skSeed, start+i+idxOffset, base)
		})
		for i := range count {
			idx := start + i
			if idx != next {
				panic("spx: treehash leaves out of order")
			}
			next++
			node := slices.Clone(leaves[i*n : (i+1)*n])
			if height > 0 && idx == leafIdx^1 {
				copy(authPath[:n], node)
			}
			stack = append(stack, treeNode{0, node})
			for len(stack) >= 2 && stack[len(stack)-1].height == stack[len(stack)-2].height {
				left, right := stack[len(stack)-2], stack[len(stack)-1]
				parentHeight := right.height + 1
				nodeIdx := idx >> parentHeight
				treeAddr.setTreeHeight(parentHeight)
				treeAddr.setTreeIndex(nodeIdx + idxOffset>>parentHeight)
				copy(buf, left.value)
				copy(buf[n:], right.value)
				h.thash(left.value, buf, treeAddr)
				stack = stack[:len(stack)-1]
				stack[len(stack)-1].height = parentHeight
				if parentHeight < height && (leafIdx>>parentHeight)^1 == nodeIdx {
					copy(authPath[parentHeight*n:], left.value)
				}
			}
		}
	}
	if len(stack) != 1 || stack[0].height != height {
		panic("spx: treehash stack not reduced to the root")
	}
	return stack[0].value
}

// computeRoot folds an authentication path from leaf up to the root of a
// tree of the given height.
func (h *hasher) computeRoot(leaf []byte, leafIdx, idxOffset uint32, authPath []byte, height uint32, adrs *address) []byte {
	n := h.p.n
	node := slices.Clone(leaf)
	buf := make([]byte, 2*n)
	for i := range height {
		auth := authPath[i*n : (i+1)*n]
		if leafIdx&1 == 1 {
			copy(buf, auth)
			copy(buf[n:], node)
		} else {
			copy(buf, node)
			copy(buf[n:], auth)
		}
		leafIdx >>= 1
		idxOffset >>= 1
		adrs.setTreeHeight(i + 1)
		adrs.setTreeIndex(leafIdx + idxOffset)
		h.thash(node, buf, adrs)
	}
	return node
}
