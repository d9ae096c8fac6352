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
	"bytes"
	"fmt"

	"github.com/sphincsplus/spx-go/insecuresecretdataaccess"
	"github.com/sphincsplus/spx-go/internal/outputprefix"
	"github.com/sphincsplus/spx-go/internal/signature/spx"
	"github.com/sphincsplus/spx-go/key"
	"github.com/sphincsplus/spx-go/secretdata"
	"github.com/sphincsplus/spx-go/subtle"
)

// Variant is the prefix variant of a SPHINCS+ key.
//
// It describes the format of the signature. For SPHINCS+, there are two
// options:
//
//   - TINK: prepends '0x01<big endian key id>' to the signature.
//   - NO_PREFIX: adds no prefix to the signature.
type Variant int

const (
	// VariantUnknown is the default value of Variant.
	VariantUnknown Variant = iota
	// VariantTink prefixes '0x01<big endian key id>' to the signature.
	VariantTink
	// VariantNoPrefix does not prefix the signature with the key id.
	VariantNoPrefix
)

func (variant Variant) String() string {
	switch variant {
	case VariantTink:
		return "TINK"
	case VariantNoPrefix:
		return "NO_PREFIX"
	default:
		return "UNKNOWN"
	}
}

// ParameterSet selects one of the SHA-256 "simple" parameter sets.
type ParameterSet int

const (
	// ParameterSetUnknown is the default value of ParameterSet.
	ParameterSetUnknown ParameterSet = iota
	// SHA256_128s selects SPHINCS+-SHA256-128s-simple.
	SHA256_128s
	// SHA256_128f selects SPHINCS+-SHA256-128f-simple.
	SHA256_128f
	// SHA256_192s selects SPHINCS+-SHA256-192s-simple.
	SHA256_192s
	// SHA256_192f selects SPHINCS+-SHA256-192f-simple.
	SHA256_192f
	// SHA256_256s selects SPHINCS+-SHA256-256s-simple.
	SHA256_256s
	// SHA256_256f selects SPHINCS+-SHA256-256f-simple.
	SHA256_256f
)

var parameterSetNames = map[ParameterSet]string{
	SHA256_128s: "SPHINCS+-SHA256-128s-simple",
	SHA256_128f: "SPHINCS+-SHA256-128f-simple",
	SHA256_192s: "SPHINCS+-SHA256-192s-simple",
	SHA256_192f: "SPHINCS+-SHA256-192f-simple",
	SHA256_256s: "SPHINCS+-SHA256-256s-simple",
	SHA256_256f: "SPHINCS+-SHA256-256f-simple",
}

func (ps ParameterSet) String() string {
	if name, ok := parameterSetNames[ps]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseParameterSet returns the parameter set with the given name, for
// example "SPHINCS+-SHA256-128f-simple".
func ParseParameterSet(name string) (ParameterSet, error) {
	for ps, n := range parameterSetNames {
		if n == name {
			return ps, nil
		}
	}
	return ParameterSetUnknown, fmt.Errorf("spx.ParseParameterSet: unknown parameter set %q", name)
}

// The helpers below resolve a public parameter set to the core
// implementation. They assume that ps passed checkParameters.

func publicKeyLength(ps ParameterSet) int {
	p, _ := spx.ByName(ps.String())
	return p.PublicKeyLength()
}

func privateKeyLength(ps ParameterSet) int {
	p, _ := spx.ByName(ps.String())
	return p.SecretKeyLength()
}

func seedLength(ps ParameterSet) int {
	p, _ := spx.ByName(ps.String())
	return p.SeedLength()
}

func signatureLength(ps ParameterSet) int {
	p, _ := spx.ByName(ps.String())
	return p.SignatureLength()
}

func decodeSecretKey(ps ParameterSet, keyBytes []byte, parallelism int) (*spx.SecretKey, error) {
	p, _ := spx.ByName(ps.String())
	return p.WithParallelism(parallelism).DecodeSecretKey(keyBytes)
}

func decodePublicKey(ps ParameterSet, keyBytes []byte, parallelism int) (*spx.PublicKey, error) {
	p, _ := spx.ByName(ps.String())
	return p.WithParallelism(parallelism).DecodePublicKey(keyBytes)
}

// checkParameters rejects nil and zero-value parameters.
func checkParameters(params *Parameters) error {
	if params == nil {
		return fmt.Errorf("params must not be nil")
	}
	if _, ok := spx.ByName(params.paramSet.String()); !ok {
		return fmt.Errorf("invalid parameter set: %v", params.paramSet)
	}
	return nil
}

// Parameters represents the parameters of a SPHINCS+ key.
type Parameters struct {
	paramSet ParameterSet
	variant  Variant
}

var _ key.Parameters = (*Parameters)(nil)

// NewParameters creates a new Parameters.
func NewParameters(paramSet ParameterSet, variant Variant) (*Parameters, error) {
	if _, ok := spx.ByName(paramSet.String()); !ok {
		return nil, fmt.Errorf("spx.NewParameters: unsupported parameter set: %v", paramSet)
	}
	if variant != VariantTink && variant != VariantNoPrefix {
		return nil, fmt.Errorf("spx.NewParameters: unsupported variant: %v", variant)
	}
	return &Parameters{
		paramSet: paramSet,
		variant:  variant,
	}, nil
}

// ParameterSet returns the parameter set.
func (p *Parameters) ParameterSet() ParameterSet { return p.paramSet }

// Variant returns the prefix variant of the parameters.
func (p *Parameters) Variant() Variant { return p.variant }

// SignatureLength returns the length of a signature without output prefix.
func (p *Parameters) SignatureLength() int { return signatureLength(p.paramSet) }

// HasIDRequirement returns true if the key has an ID requirement.
func (p *Parameters) HasIDRequirement() bool { return p.variant != VariantNoPrefix }

// Equal returns true if this parameters object is equal to other.
func (p *Parameters) Equal(other key.Parameters) bool {
	that, ok := other.(*Parameters)
	return ok && p.paramSet == that.paramSet && p.variant == that.variant
}

// PublicKey represents a SPHINCS+ public key.
type PublicKey struct {
	keyBytes      []byte
	idRequirement uint32
	params        *Parameters
	outputPrefix  []byte
}

var _ key.Key = (*PublicKey)(nil)

func calculateOutputPrefix(variant Variant, keyID uint32) ([]byte, error) {
	switch variant {
	case VariantTink:
		return outputprefix.Tink(keyID), nil
	case VariantNoPrefix:
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid output prefix variant: %v", variant)
	}
}

// NewPublicKey creates a new SPHINCS+ public key from pkSeed || pkRoot.
//
// idRequirement is the ID of the key. It must be zero if params doesn't have
// an ID requirement.
func NewPublicKey(keyBytes []byte, idRequirement uint32, params *Parameters) (*PublicKey, error) {
	if err := checkParameters(params); err != nil {
		return nil, fmt.Errorf("spx.NewPublicKey: %w", err)
	}
	if !params.HasIDRequirement() && idRequirement != 0 {
		return nil, fmt.Errorf("spx.NewPublicKey: idRequirement must be zero if params doesn't have an ID requirement")
	}
	if want := publicKeyLength(params.paramSet); len(keyBytes) != want {
		return nil, fmt.Errorf("spx.NewPublicKey: %w: got %d bytes, want %d", spx.ErrInvalidKeyLength, len(keyBytes), want)
	}
	outputPrefix, err := calculateOutputPrefix(params.variant, idRequirement)
	if err != nil {
		return nil, fmt.Errorf("spx.NewPublicKey: %w", err)
	}
	return &PublicKey{
		keyBytes:      bytes.Clone(keyBytes),
		idRequirement: idRequirement,
		params:        params,
		outputPrefix:  outputPrefix,
	}, nil
}

// KeyBytes returns the public key bytes.
func (k *PublicKey) KeyBytes() []byte { return bytes.Clone(k.keyBytes) }

// OutputPrefix returns the output prefix of this key.
func (k *PublicKey) OutputPrefix() []byte { return bytes.Clone(k.outputPrefix) }

// Parameters returns the parameters of the key.
func (k *PublicKey) Parameters() key.Parameters { return k.params }

// IDRequirement returns the ID requirement of the key, and whether it is
// required.
func (k *PublicKey) IDRequirement() (uint32, bool) {
	return k.idRequirement, k.params.HasIDRequirement()
}

// Equal returns true if this key is equal to other.
func (k *PublicKey) Equal(other key.Key) bool {
	if k == other {
		return true
	}
	that, ok := other.(*PublicKey)
	return ok && k.params.Equal(that.Parameters()) &&
		bytes.Equal(k.keyBytes, that.keyBytes) &&
		k.idRequirement == that.idRequirement
}

// PrivateKey represents a SPHINCS+ private key.
type PrivateKey struct {
	publicKey *PublicKey
	// keyBytes is the encoded secret key skSeed || skPRF || pkSeed || pkRoot.
	keyBytes secretdata.Bytes
}

var _ key.Key = (*PrivateKey)(nil)

// NewPrivateKey creates a new SPHINCS+ private key from the encoded secret
// key privateKeyBytes, with idRequirement and params. The public key is
// taken from the encoding.
func NewPrivateKey(privateKeyBytes secretdata.Bytes, idRequirement uint32, params *Parameters) (*PrivateKey, error) {
	if err := checkParameters(params); err != nil {
		return nil, fmt.Errorf("spx.NewPrivateKey: %w", err)
	}
	sk, err := decodeSecretKey(params.paramSet, privateKeyBytes.Data(insecuresecretdataaccess.Token{}), 1)
	if err != nil {
		return nil, fmt.Errorf("spx.NewPrivateKey: %w", err)
	}
	pubKey, err := NewPublicKey(sk.PublicKey().Encode(), idRequirement, params)
	if err != nil {
		return nil, fmt.Errorf("spx.NewPrivateKey: %w", err)
	}
	return &PrivateKey{
		publicKey: pubKey,
		keyBytes:  privateKeyBytes,
	}, nil
}

// NewPrivateKeyWithPublicKey creates a new SPHINCS+ private key from
// privateKeyBytes and a [PublicKey].
func NewPrivateKeyWithPublicKey(privateKeyBytes secretdata.Bytes, pubKey *PublicKey) (*PrivateKey, error) {
	if pubKey == nil {
		return nil, fmt.Errorf("spx.NewPrivateKeyWithPublicKey: pubKey must not be nil")
	}
	if err := checkParameters(pubKey.params); err != nil {
		return nil, fmt.Errorf("spx.NewPrivateKeyWithPublicKey: %w", err)
	}
	sk, err := decodeSecretKey(pubKey.params.paramSet, privateKeyBytes.Data(insecuresecretdataaccess.Token{}), 1)
	if err != nil {
		return nil, fmt.Errorf("spx.NewPrivateKeyWithPublicKey: %w", err)
	}
	// Make sure the public key is correct.
	if !bytes.Equal(sk.PublicKey().Encode(), pubKey.keyBytes) {
		return nil, fmt.Errorf("spx.NewPrivateKeyWithPublicKey: public key does not match private key")
	}
	return &PrivateKey{
		publicKey: pubKey,
		keyBytes:  privateKeyBytes,
	}, nil
}

// NewPrivateKeyFromSeed runs key generation on seed, which holds
// skSeed || skPRF || pkSeed. The same seed always yields the same key.
func NewPrivateKeyFromSeed(seed secretdata.Bytes, idRequirement uint32, params *Parameters) (*PrivateKey, error) {
	if err := checkParameters(params); err != nil {
		return nil, fmt.Errorf("spx.NewPrivateKeyFromSeed: %w", err)
	}
	p, _ := spx.ByName(params.paramSet.String())
	sk, pk, err := p.KeyGenFromSeed(seed.Data(insecuresecretdataaccess.Token{}))
	if err != nil {
		return nil, fmt.Errorf("spx.NewPrivateKeyFromSeed: %w", err)
	}
	return privateKeyFromKeyPair(sk, pk, idRequirement, params)
}

// GeneratePrivateKey generates a new private key with fresh randomness.
func GeneratePrivateKey(params *Parameters, idRequirement uint32) (*PrivateKey, error) {
	if err := checkParameters(params); err != nil {
		return nil, fmt.Errorf("spx.GeneratePrivateKey: %w", err)
	}
	p, _ := spx.ByName(params.paramSet.String())
	sk, pk, err := p.KeyGen()
	if err != nil {
		return nil, fmt.Errorf("spx.GeneratePrivateKey: %w", err)
	}
	return privateKeyFromKeyPair(sk, pk, idRequirement, params)
}

// DerivePrivateKey derives a private key from input keying material. The
// key generation seed is expanded from ikm, salt and info with
// HKDF-SHA256.
func DerivePrivateKey(params *Parameters, ikm, salt, info []byte, idRequirement uint32) (*PrivateKey, error) {
	if err := checkParameters(params); err != nil {
		return nil, fmt.Errorf("spx.DerivePrivateKey: %w", err)
	}
	seed, err := subtle.ComputeHKDF("SHA256", ikm, salt, info, uint32(seedLength(params.paramSet)))
	if err != nil {
		return nil, fmt.Errorf("spx.DerivePrivateKey: %w", err)
	}
	defer clear(seed)
	p, _ := spx.ByName(params.paramSet.String())
	sk, pk, err := p.KeyGenFromSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("spx.DerivePrivateKey: %w", err)
	}
	return privateKeyFromKeyPair(sk, pk, idRequirement, params)
}

func privateKeyFromKeyPair(sk *spx.SecretKey, pk *spx.PublicKey, idRequirement uint32, params *Parameters) (*PrivateKey, error) {
	defer sk.Destroy()
	pubKey, err := NewPublicKey(pk.Encode(), idRequirement, params)
	if err != nil {
		return nil, err
	}
	skBytes := sk.Encode()
	defer clear(skBytes)
	return &PrivateKey{
		publicKey: pubKey,
		keyBytes:  secretdata.NewBytesFromData(skBytes, insecuresecretdataaccess.Token{}),
	}, nil
}

// PrivateKeyBytes returns the encoded secret key.
func (k *PrivateKey) PrivateKeyBytes() secretdata.Bytes { return k.keyBytes }

// PublicKey returns the public key of the key.
func (k *PrivateKey) PublicKey() (key.Key, error) { return k.publicKey, nil }

// Parameters returns the parameters of the key.
func (k *PrivateKey) Parameters() key.Parameters { return k.publicKey.params }

// IDRequirement returns the ID requirement of the key, and whether it is
// required.
func (k *PrivateKey) IDRequirement() (uint32, bool) { return k.publicKey.IDRequirement() }

// OutputPrefix returns the output prefix of this key.
func (k *PrivateKey) OutputPrefix() []byte { return bytes.Clone(k.publicKey.outputPrefix) }

// Equal returns true if this key is equal to other.
func (k *PrivateKey) Equal(other key.Key) bool {
	if k == other {
		return true
	}
	that, ok := other.(*PrivateKey)
	return ok && k.publicKey.Equal(that.publicKey) &&
		k.keyBytes.Equal(that.keyBytes)
}

// Destroy wipes the secret key material. Signers created from the key
// before the call keep their own copy.
func (k *PrivateKey) Destroy() { k.keyBytes.Destroy() }
