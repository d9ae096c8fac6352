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

// Package spx provides SPHINCS+ keys, parameters and the signing and
// verification primitives built on them.
//
// Only the SHA-256 "simple" parameter sets are supported. Example:
//
//	params, err := spx.NewParameters(spx.SHA256_128f, spx.VariantNoPrefix)
//	...
//	priv, err := spx.GeneratePrivateKey(params, 0)
//	...
//	signer, err := spx.NewSigner(priv)
//	...
//	sig, err := signer.Sign(msg)
package spx

import (
	"errors"

	"github.com/sphincsplus/spx-go/internal/signature/spx"
)

var (
	// ErrInvalidSignature is returned by a verifier when a signature does not
	// verify or lacks the output prefix of the key.
	ErrInvalidSignature = errors.New("spx: invalid signature")
	// ErrInvalidSignatureLength is returned by a verifier when a signature
	// has the wrong length for the parameter set.
	ErrInvalidSignatureLength = spx.ErrInvalidSignatureLength
	// ErrInvalidKeyLength is returned when key bytes have the wrong length
	// for the parameter set.
	ErrInvalidKeyLength = spx.ErrInvalidKeyLength
	// ErrInvalidSeedLength is returned when a key generation seed has the
	// wrong length for the parameter set.
	ErrInvalidSeedLength = spx.ErrInvalidSeedLength
)
