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

	"github.com/sphincsplus/spx-go/internal/outputprefix"
	"github.com/sphincsplus/spx-go/internal/signature/spx"
	"github.com/sphincsplus/spx-go/monitoring"
	"github.com/sphincsplus/spx-go/tink"
)

// verifier is an implementation of [tink.Verifier] for SPHINCS+.
type verifier struct {
	publicKey *spx.PublicKey
	prefix    []byte
	keyID     uint32
	logger    monitoring.Logger
}

var _ tink.Verifier = (*verifier)(nil)

// NewVerifier creates a new [tink.Verifier] for SPHINCS+.
func NewVerifier(publicKey *PublicKey, opts ...Option) (tink.Verifier, error) {
	if publicKey == nil {
		return nil, fmt.Errorf("spx.NewVerifier: publicKey must not be nil")
	}
	o := newOptions(opts)
	paramSet := publicKey.params.paramSet
	pubKey, err := decodePublicKey(paramSet, publicKey.keyBytes, o.parallelism)
	if err != nil {
		return nil, fmt.Errorf("spx.NewVerifier: %w", err)
	}
	keyID, _ := publicKey.IDRequirement()
	return &verifier{
		publicKey: pubKey,
		prefix:    publicKey.OutputPrefix(),
		keyID:     keyID,
		logger:    o.monitoringLogger(verifyPrimitive, "verify", paramSet),
	}, nil
}

// Verify verifies whether the given signature is valid for the given data.
//
// It returns an error wrapping [ErrInvalidSignature] if the prefix is missing
// or the signature does not verify, and one wrapping
// [ErrInvalidSignatureLength] if the signature has the wrong length.
func (v *verifier) Verify(signature, data []byte) error {
	sig, err := outputprefix.Strip(signature, v.prefix)
	if err != nil {
		v.logger.LogFailure()
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	ok, err := v.publicKey.Verify(data, sig)
	if err != nil {
		v.logger.LogFailure()
		return err
	}
	if !ok {
		v.logger.LogFailure()
		return ErrInvalidSignature
	}
	v.logger.Log(v.keyID, len(data))
	return nil
}
