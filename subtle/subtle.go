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

// Package subtle provides hash and key derivation helpers used to expand
// input keying material into SPHINCS+ key generation seeds.
package subtle

import (
	"crypto/sha256"
	"errors"
	"hash"
)

var errUnsupportedHash = errors.New("unsupported hash function")

// GetHashFunc returns the constructor of the named hash function, or nil if
// the name is unknown. Only "SHA256" is supported.
func GetHashFunc(hashAlg string) func() hash.Hash {
	switch hashAlg {
	case "SHA256":
		return sha256.New
	default:
		return nil
	}
}

// GetHashDigestSize returns the digest size in bytes of the named hash function.
func GetHashDigestSize(hashAlg string) (uint32, error) {
	switch hashAlg {
	case "SHA256":
		return sha256.Size, nil
	default:
		return 0, errUnsupportedHash
	}
}
