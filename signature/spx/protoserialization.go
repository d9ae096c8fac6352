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

	"github.com/sphincsplus/spx-go/insecuresecretdataaccess"
	"github.com/sphincsplus/spx-go/secretdata"
	"google.golang.org/protobuf/encoding/protowire"
)

// The key messages use the protobuf wire format:
//
//	message SpxParams {
//	  int32 parameter_set = 1;
//	  int32 variant = 2;
//	}
//	message SpxPublicKey {
//	  uint32 version = 1;
//	  SpxParams params = 2;
//	  bytes key_value = 3;
//	  uint32 id = 4;
//	}
//	message SpxPrivateKey {
//	  uint32 version = 1;
//	  SpxPublicKey public_key = 2;
//	  bytes key_value = 3;
//	}
//
// Fields holding zero values are omitted and unknown fields are skipped.
const (
	// keyProtoVersion is the accepted key message version.
	//
	// Currently, only version 0 is supported; other versions are rejected.
	keyProtoVersion = 0

	paramsParameterSetField protowire.Number = 1
	paramsVariantField      protowire.Number = 2

	publicKeyVersionField  protowire.Number = 1
	publicKeyParamsField   protowire.Number = 2
	publicKeyValueField    protowire.Number = 3
	publicKeyIDField       protowire.Number = 4
	privateKeyVersionField protowire.Number = 1
	privateKeyPublicField  protowire.Number = 2
	privateKeyValueField   protowire.Number = 3
)

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// field is a decoded field of a message. Only varint and length-delimited
// fields are returned.
type field struct {
	typ    protowire.Type
	varint uint64
	bytes  []byte
}

// parseMessage decodes the top-level fields of b. Later occurrences of a
// field replace earlier ones.
func parseMessage(b []byte) (map[protowire.Number]field, error) {
	fields := make(map[protowire.Number]field)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			fields[num] = field{typ: typ, varint: v}
			b = b[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			fields[num] = field{typ: typ, bytes: v}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return fields, nil
}

func varintField(fields map[protowire.Number]field, num protowire.Number) (uint64, error) {
	f, ok := fields[num]
	if !ok {
		return 0, nil
	}
	if f.typ != protowire.VarintType {
		return 0, fmt.Errorf("field %d has wire type %d, want %d", num, f.typ, protowire.VarintType)
	}
	return f.varint, nil
}

func bytesField(fields map[protowire.Number]field, num protowire.Number) ([]byte, error) {
	f, ok := fields[num]
	if !ok {
		return nil, nil
	}
	if f.typ != protowire.BytesType {
		return nil, fmt.Errorf("field %d has wire type %d, want %d", num, f.typ, protowire.BytesType)
	}
	return f.bytes, nil
}

func marshalParameters(p *Parameters) []byte {
	var b []byte
	b = appendVarintField(b, paramsParameterSetField, uint64(p.paramSet))
	b = appendVarintField(b, paramsVariantField, uint64(p.variant))
	return b
}

func unmarshalParameters(b []byte) (*Parameters, error) {
	fields, err := parseMessage(b)
	if err != nil {
		return nil, err
	}
	paramSet, err := varintField(fields, paramsParameterSetField)
	if err != nil {
		return nil, err
	}
	variant, err := varintField(fields, paramsVariantField)
	if err != nil {
		return nil, err
	}
	if paramSet > uint64(SHA256_256f) || variant > uint64(VariantNoPrefix) {
		return nil, fmt.Errorf("unknown parameter set %d or variant %d", paramSet, variant)
	}
	return NewParameters(ParameterSet(paramSet), Variant(variant))
}

func marshalPublicKey(k *PublicKey) ([]byte, error) {
	if k.params == nil {
		return nil, fmt.Errorf("invalid key: parameters are nil")
	}
	var b []byte
	b = appendVarintField(b, publicKeyVersionField, keyProtoVersion)
	b = appendBytesField(b, publicKeyParamsField, marshalParameters(k.params))
	b = appendBytesField(b, publicKeyValueField, k.keyBytes)
	// idRequirement is zero if the key doesn't have a key requirement.
	idRequirement, _ := k.IDRequirement()
	b = appendVarintField(b, publicKeyIDField, uint64(idRequirement))
	return b, nil
}

func unmarshalPublicKey(b []byte) (*PublicKey, error) {
	fields, err := parseMessage(b)
	if err != nil {
		return nil, err
	}
	version, err := varintField(fields, publicKeyVersionField)
	if err != nil {
		return nil, err
	}
	if version != keyProtoVersion {
		return nil, fmt.Errorf("unsupported public key version: %d", version)
	}
	paramsBytes, err := bytesField(fields, publicKeyParamsField)
	if err != nil {
		return nil, err
	}
	params, err := unmarshalParameters(paramsBytes)
	if err != nil {
		return nil, err
	}
	keyValue, err := bytesField(fields, publicKeyValueField)
	if err != nil {
		return nil, err
	}
	id, err := varintField(fields, publicKeyIDField)
	if err != nil {
		return nil, err
	}
	if id > 0xffffffff {
		return nil, fmt.Errorf("key id %d out of range", id)
	}
	return NewPublicKey(keyValue, uint32(id), params)
}

// SerializePublicKey encodes k as a SpxPublicKey message.
func SerializePublicKey(k *PublicKey) ([]byte, error) {
	if k == nil {
		return nil, fmt.Errorf("spx.SerializePublicKey: key must not be nil")
	}
	b, err := marshalPublicKey(k)
	if err != nil {
		return nil, fmt.Errorf("spx.SerializePublicKey: %w", err)
	}
	return b, nil
}

// ParsePublicKey decodes a SpxPublicKey message.
func ParsePublicKey(b []byte) (*PublicKey, error) {
	k, err := unmarshalPublicKey(b)
	if err != nil {
		return nil, fmt.Errorf("spx.ParsePublicKey: %w", err)
	}
	return k, nil
}

// SerializePrivateKey encodes k as a SpxPrivateKey message. The output holds
// the secret key in the clear.
func SerializePrivateKey(k *PrivateKey, token insecuresecretdataaccess.Token) ([]byte, error) {
	if k == nil || k.publicKey == nil {
		return nil, fmt.Errorf("spx.SerializePrivateKey: key must not be nil")
	}
	pub, err := marshalPublicKey(k.publicKey)
	if err != nil {
		return nil, fmt.Errorf("spx.SerializePrivateKey: %w", err)
	}
	var b []byte
	b = appendVarintField(b, privateKeyVersionField, keyProtoVersion)
	b = appendBytesField(b, privateKeyPublicField, pub)
	b = appendBytesField(b, privateKeyValueField, k.keyBytes.Data(token))
	return b, nil
}

// ParsePrivateKey decodes a SpxPrivateKey message. The secret key must match
// the embedded public key.
func ParsePrivateKey(b []byte, token insecuresecretdataaccess.Token) (*PrivateKey, error) {
	fields, err := parseMessage(b)
	if err != nil {
		return nil, fmt.Errorf("spx.ParsePrivateKey: %w", err)
	}
	version, err := varintField(fields, privateKeyVersionField)
	if err != nil {
		return nil, fmt.Errorf("spx.ParsePrivateKey: %w", err)
	}
	if version != keyProtoVersion {
		return nil, fmt.Errorf("spx.ParsePrivateKey: unsupported private key version: %d", version)
	}
	pubBytes, err := bytesField(fields, privateKeyPublicField)
	if err != nil {
		return nil, fmt.Errorf("spx.ParsePrivateKey: %w", err)
	}
	pubKey, err := unmarshalPublicKey(pubBytes)
	if err != nil {
		return nil, fmt.Errorf("spx.ParsePrivateKey: %w", err)
	}
	keyValue, err := bytesField(fields, privateKeyValueField)
	if err != nil {
		return nil, fmt.Errorf("spx.ParsePrivateKey: %w", err)
	}
	privKey, err := NewPrivateKeyWithPublicKey(secretdata.NewBytesFromData(keyValue, token), pubKey)
	if err != nil {
		return nil, fmt.Errorf("spx.ParsePrivateKey: %w", err)
	}
	return privKey, nil
}
