// Copyright 2024 Google LLC
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

// Package key defines interfaces for Key and Parameters types.
package key

// Parameters represents key parameters.
type Parameters interface {
	// HasIDRequirement tells whether a key created with these parameters must
	// carry an ID. Keys with an ID requirement prefix every signature with
	// the big endian encoding of the ID.
	HasIDRequirement() bool
	// Equal compares this parameters object with other.
	Equal(other Parameters) bool
}

// Key represents a signing or verification key.
//
// A key holds everything needed to perform its operation: the key
// material, the parameter set and the output prefix derived from its ID.
type Key interface {
	// Parameters returns the parameters of this key.
	Parameters() Parameters
	// IDRequirement returns required to indicate if this key requires an
	// identifier. If it does, id will contain that identifier.
	IDRequirement() (id uint32, required bool)
	// Equal compares this key object with other.
	Equal(other Key) bool
}
