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

import "golang.org/x/sync/errgroup"

// leafBatchPerWorker is how many leaves each worker generates per batch
// before the batch is merged into the treehash stack.
const leafBatchPerWorker = 4

// workers is the maximum number of goroutines one operation may use.
// Values below 2 mean sequential execution.
type workers int

// each calls fn(i) for every i in [0, n) and returns once all calls have
// finished. The calls must write to disjoint memory.
func (w workers) each(n uint32, fn func(i uint32)) {
	if w < 2 || n < 2 {
		for i := range n {
			fn(i)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(int(w))
	for i := range n {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	// fn cannot fail.
	_ = g.Wait()
}

func (w workers) leafBatch(total uint32) uint32 {
	if w < 2 {
		return 1
	}
	return min(total, uint32(w)*leafBatchPerWorker)
}
