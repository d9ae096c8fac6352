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

package subtle

import (
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// Minimum output size in bytes. This provides minimum 80-bit security strength.
	minOutputSizeInBytes = uint32(10)
)

// validateHKDFParamsAndGetHashSize validates parameters of HKDF and returns
// the hash size.
func validateHKDFParamsAndGetHashSize(hash string, outputSize uint32) (uint32, error) {
	digestSize, err := GetHashDigestSize(hash)
	if err != nil {
		return 0, err
	}
	if outputSize > 255*digestSize {
		return 0, fmt.Errorf("output size too big")
	}
	if outputSize < minOutputSizeInBytes {
		return 0, fmt.Errorf("output size too small")
	}
	return digestSize, nil
}

// ComputeHKDF derives outputSize bytes from key with HKDF (RFC 5869). An
// empty salt is replaced by a string of zeros as long as the digest.
func ComputeHKDF(hashAlg string, key []byte, salt []byte, info []byte, outputSize uint32) ([]byte, error) {
	digestSize, err := validateHKDFParamsAndGetHashSize(hashAlg, outputSize)
	if err != nil {
		return nil, fmt.Errorf("hkdf: %s", err)
	}
	hashFunc := GetHashFunc(hashAlg)
	if hashFunc == nil {
		return nil, fmt.Errorf("hkdf: invalid hash algorithm")
	}
	if len(salt) == 0 {
		salt = make([]byte, digestSize)
	}

	result := make([]byte, outputSize)
	kdf := hkdf.New(hashFunc, key, salt, info)
	n, err := io.ReadFull(kdf, result)
	if n != len(result) || err != nil {
		return nil, fmt.Errorf("compute of hkdf failed")
	}
	return result, nil
}
