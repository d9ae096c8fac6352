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

	"github.com/sphincsplus/spx-go/insecuresecretdataaccess"
	"github.com/sphincsplus/spx-go/internal/signature/spx"
	"github.com/sphincsplus/spx-go/monitoring"
	"github.com/sphincsplus/spx-go/tink"
)

// signer is an implementation of [tink.Signer] for SPHINCS+.
type signer struct {
	secretKey     *spx.SecretKey
	prefix        []byte
	keyID         uint32
	deterministic bool
	logger        monitoring.Logger
}

var _ tink.Signer = (*signer)(nil)

// NewSigner creates a new [tink.Signer] for SPHINCS+.
func NewSigner(privateKey *PrivateKey, opts ...Option) (tink.Signer, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("spx.NewSigner: privateKey must not be nil")
	}
	o := newOptions(opts)
	paramSet := privateKey.publicKey.params.paramSet
	secretKey, err := decodeSecretKey(paramSet, privateKey.keyBytes.Data(insecuresecretdataaccess.Token{}), o.parallelism)
	if err != nil {
		return nil, fmt.Errorf("spx.NewSigner: %w", err)
	}
	keyID, _ := privateKey.IDRequirement()
	return &signer{
		secretKey:     secretKey,
		prefix:        privateKey.OutputPrefix(),
		keyID:         keyID,
		deterministic: o.deterministic,
		logger:        o.monitoringLogger(signPrimitive, "sign", paramSet),
	}, nil
}

// Sign computes a signature for the given data.
//
// If the key has a prefix, the signature will be prefixed with the output
// prefix.
func (s *signer) Sign(data []byte) ([]byte, error) {
	var sig []byte
	if s.deterministic {
		sig = s.secretKey.SignDeterministic(data)
	} else {
		var err error
		if sig, err = s.secretKey.Sign(data); err != nil {
			s.logger.LogFailure()
			return nil, err
		}
	}
	s.logger.Log(s.keyID, len(data))
	return slices.Concat(s.prefix, sig), nil
}
