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
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
)

var allParams = []*params{SHA256_128s, SHA256_128f, SHA256_192s, SHA256_192f, SHA256_256s, SHA256_256f}

func isSmall(p *params) bool {
	return p.hp <= 4
}

func TestDerivedParameters(t *testing.T) {
	for _, tc := range []struct {
		par        *params
		wantHp     uint32
		wantLen1   uint32
		wantLen2   uint32
		wantLen    uint32
		wantSigLen int
	}{
		{SHA256_128s, 9, 32, 3, 35, 7856},
		{SHA256_128f, 3, 32, 3, 35, 17088},
		{SHA256_192s, 9, 48, 3, 51, 16224},
		{SHA256_192f, 3, 48, 3, 51, 35664},
		{SHA256_256s, 8, 64, 3, 67, 29792},
		{SHA256_256f, 4, 64, 3, 67, 49856},
	} {
		t.Run(tc.par.Name(), func(t *testing.T) {
			if tc.par.w != 16 {
				t.Errorf("w = %v, want 16", tc.par.w)
			}
			if tc.par.hp != tc.wantHp {
				t.Errorf("hp = %v, want %v", tc.par.hp, tc.wantHp)
			}
			if tc.par.len1 != tc.wantLen1 {
				t.Errorf("len1 = %v, want %v", tc.par.len1, tc.wantLen1)
			}
			if tc.par.len2 != tc.wantLen2 {
				t.Errorf("len2 = %v, want %v", tc.par.len2, tc.wantLen2)
			}
			if tc.par.len != tc.wantLen {
				t.Errorf("len = %v, want %v", tc.par.len, tc.wantLen)
			}
			if got := tc.par.SignatureLength(); got != tc.wantSigLen {
				t.Errorf("SignatureLength() = %v, want %v", got, tc.wantSigLen)
			}
			if got, want := tc.par.PublicKeyLength(), int(2*tc.par.n); got != want {
				t.Errorf("PublicKeyLength() = %v, want %v", got, want)
			}
			if got, want := tc.par.SecretKeyLength(), int(4*tc.par.n); got != want {
				t.Errorf("SecretKeyLength() = %v, want %v", got, want)
			}
		})
	}
}

func TestLen2WithByteDigits(t *testing.T) {
	p, err := newParams(paramsOpts{name: "w256", n: 16, h: 8, d: 2, a: 4, k: 4, lgw: 8})
	if err != nil {
		t.Fatalf("newParams() err = %v, want nil", err)
	}
	if p.len1 != 16 || p.len2 != 2 || p.w != 256 {
		t.Errorf("w, len1, len2 = %d, %d, %d, want 256, 16, 2", p.w, p.len1, p.len2)
	}
	sk, pk, err := p.KeyGen()
	if err != nil {
		t.Fatal(err)
	}
	sig := sk.SignDeterministic([]byte("w = 256"))
	if ok, err := pk.Verify([]byte("w = 256"), sig); !ok || err != nil {
		t.Errorf("Verify() = %v, %v, want true, nil", ok, err)
	}
}

func TestNewParamsRejectsInvalidSets(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts paramsOpts
	}{
		{"h not a multiple of d", paramsOpts{n: 16, h: 64, d: 7, a: 12, k: 14, lgw: 4}},
		{"n too large", paramsOpts{n: 33, h: 66, d: 22, a: 6, k: 33, lgw: 4}},
		{"n zero", paramsOpts{n: 0, h: 66, d: 22, a: 6, k: 33, lgw: 4}},
		{"unsupported w", paramsOpts{n: 16, h: 66, d: 22, a: 6, k: 33, lgw: 2}},
		{"tree index too wide", paramsOpts{n: 16, h: 70, d: 35, a: 6, k: 33, lgw: 4}},
		{"subtree too high", paramsOpts{n: 16, h: 34, d: 2, a: 6, k: 33, lgw: 4}},
		{"no layers", paramsOpts{n: 16, h: 66, d: 0, a: 6, k: 33, lgw: 4}},
		{"FORS index overflow", paramsOpts{n: 16, h: 66, d: 22, a: 30, k: 5, lgw: 4}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := newParams(tc.opts); !errors.Is(err, ErrInvalidParameters) {
				t.Errorf("newParams() err = %v, want %v", err, ErrInvalidParameters)
			}
		})
	}
}

func TestMustNewParamsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("mustNewParams() did not panic")
		}
	}()
	mustNewParams(paramsOpts{n: 16, h: 64, d: 7, a: 12, k: 14, lgw: 4})
}

func TestByName(t *testing.T) {
	for _, p := range allParams {
		got, ok := ByName(p.Name())
		if !ok || got != p {
			t.Errorf("ByName(%q) = %v, %v, want %v, true", p.Name(), got, ok, p)
		}
	}
	if _, ok := ByName("SPHINCS+-SHAKE256-128f-simple"); ok {
		t.Errorf("ByName(SHAKE256 set) ok = true, want false")
	}
}

func TestKeyGenFromSeedKnownAnswer(t *testing.T) {
	for _, tc := range []struct {
		par    *params
		wantPK string
	}{
		{SHA256_128s, "202122232425262728292a2b2c2d2e2fcf7d5262028c4c880ccde50d8de3540c"},
		{SHA256_128f, "202122232425262728292a2b2c2d2e2f7a47eeade8982afd515156822fd50556"},
		{SHA256_192s, "303132333435363738393a3b3c3d3e3f4041424344454647038066bf29e1288e11693648f4818d40c6a71e6949a70629"},
		{SHA256_192f, "303132333435363738393a3b3c3d3e3f4041424344454647ee95cc19f129ca2b164c1a9b6709c340123e65f271a22d85"},
		{SHA256_256s, "404142434445464748494a4b4c4d4e4f505152535455565758595a5b5c5d5e5fdfd413a79bb0dadd83d6e7087b8a537e366e9bc2f8bd0cdaa8be0fdfc6377db6"},
		{SHA256_256f, "404142434445464748494a4b4c4d4e4f505152535455565758595a5b5c5d5e5f20d248045d8741b697d670a0bc56e20fba1938d6d9c7c1c570a0473e25c01a62"},
	} {
		t.Run(tc.par.Name(), func(t *testing.T) {
			seed := sequence(0, tc.par.SeedLength())
			sk, pk, err := tc.par.KeyGenFromSeed(seed)
			if err != nil {
				t.Fatalf("KeyGenFromSeed() err = %v, want nil", err)
			}
			if got := hex.EncodeToString(pk.Encode()); got != tc.wantPK {
				t.Errorf("pk.Encode() = %s, want %s", got, tc.wantPK)
			}
			if got, want := sk.Encode(), slices.Concat(seed, pk.pkRoot); !bytes.Equal(got, want) {
				t.Errorf("sk.Encode() = %x, want %x", got, want)
			}
		})
	}
}

func TestSignKnownAnswer(t *testing.T) {
	msg := []byte("spx known answer")
	for _, tc := range []struct {
		par         *params
		wantSigHash string
	}{
		{SHA256_128s, "e468c17b5b723edfc3210f8bc2332dc66f2b63a9d973e2dc83f4bcf40bbe0a6d"},
		{SHA256_128f, "50ff39032b695da9012acded54811bdb1e0111ef8ce38cf44a59e3caf280c658"},
		{SHA256_192f, "7b44a94e2e189c7b5193150ed7d4410bf0b3c1f45fde0573e000dc7feb289a22"},
		{SHA256_256f, "b3a572a9a20f4c93c206322b37002637b69151ab3fc03985b3ab0702768f1d04"},
	} {
		t.Run(tc.par.Name(), func(t *testing.T) {
			if testing.Short() && !isSmall(tc.par) {
				t.Skip("slow parameter set")
			}
			sk, pk, err := tc.par.KeyGenFromSeed(sequence(0, tc.par.SeedLength()))
			if err != nil {
				t.Fatal(err)
			}
			sig := sk.signInternal(msg, make([]byte, tc.par.n))
			digest := sha256.Sum256(sig)
			if got := hex.EncodeToString(digest[:]); got != tc.wantSigHash {
				t.Errorf("SHA256(sig) = %s, want %s", got, tc.wantSigHash)
			}
			if ok, err := pk.Verify(msg, sig); !ok || err != nil {
				t.Errorf("Verify() = %v, %v, want true, nil", ok, err)
			}
		})
	}
}

func TestSign128fVectors(t *testing.T) {
	sk, pk, err := SHA256_128f.KeyGenFromSeed(sequence(0, 48))
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		name        string
		msg         []byte
		optRand     []byte
		wantSigHash string
	}{
		{"empty", []byte{}, make([]byte, 16), "3fdf768b6fad7b5ee5e930e961119b736aa5375e66217712fe8a29e2fadb8856"},
		{"quick brown fox", []byte("The quick brown fox jumps over the lazy dog"), sequence(16, 16), "7ae3e31ecaed71c70be336b5b7f1acf70d8508d87f74792f65f03d73b16e457f"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sig := sk.signInternal(tc.msg, tc.optRand)
			digest := sha256.Sum256(sig)
			if got := hex.EncodeToString(digest[:]); got != tc.wantSigHash {
				t.Errorf("SHA256(sig) = %s, want %s", got, tc.wantSigHash)
			}
			if ok, err := pk.Verify(tc.msg, sig); !ok || err != nil {
				t.Errorf("Verify() = %v, %v, want true, nil", ok, err)
			}
		})
	}
}

func TestSignVerify(t *testing.T) {
	for _, p := range allParams {
		t.Run(p.Name(), func(t *testing.T) {
			if testing.Short() && !isSmall(p) {
				t.Skip("slow parameter set")
			}
			sk, pk, err := p.KeyGen()
			if err != nil {
				t.Fatal(err)
			}
			msg := []byte("Hello, world!")
			sig, err := sk.Sign(msg)
			if err != nil {
				t.Fatalf("Sign() err = %v, want nil", err)
			}
			if len(sig) != p.SignatureLength() {
				t.Errorf("len(sig) = %d, want %d", len(sig), p.SignatureLength())
			}
			if ok, err := pk.Verify(msg, sig); !ok || err != nil {
				t.Errorf("Verify() = %v, %v, want true, nil", ok, err)
			}
			if ok, _ := pk.Verify([]byte("Hello, world?"), sig); ok {
				t.Errorf("Verify() with wrong message = true, want false")
			}
		})
	}
}

func TestSignIsRandomized(t *testing.T) {
	sk, pk, err := SHA256_128f.KeyGen()
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("message")
	sig1, err := sk.Sign(msg)
	if err != nil {
		t.Fatal(err)
	}
	sig2, err := sk.Sign(msg)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(sig1, sig2) {
		t.Errorf("Sign() produced equal signatures twice")
	}
	for _, sig := range [][]byte{sig1, sig2} {
		if ok, err := pk.Verify(msg, sig); !ok || err != nil {
			t.Errorf("Verify() = %v, %v, want true, nil", ok, err)
		}
	}
}

func TestSignDeterministic(t *testing.T) {
	sk, pk, err := SHA256_128f.KeyGen()
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("message")
	sig1 := sk.SignDeterministic(msg)
	sig2 := sk.SignDeterministic(msg)
	if !bytes.Equal(sig1, sig2) {
		t.Errorf("SignDeterministic() is not deterministic")
	}
	if !bytes.Equal(sig1, sk.signInternal(msg, pk.pkSeed)) {
		t.Errorf("SignDeterministic() does not use the public seed as randomness")
	}
	if ok, err := pk.Verify(msg, sig1); !ok || err != nil {
		t.Errorf("Verify() = %v, %v, want true, nil", ok, err)
	}
}

func TestVerifyTampered(t *testing.T) {
	p := SHA256_128f
	sk, pk, err := p.KeyGen()
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("tamper with me")
	sig, err := sk.Sign(msg)
	if err != nil {
		t.Fatal(err)
	}
	r := rand.New(rand.NewPCG(1, 2))
	for range 32 {
		bad := slices.Clone(sig)
		i := r.IntN(len(bad))
		bad[i] ^= byte(1 << r.IntN(8))
		if ok, err := pk.Verify(msg, bad); ok || err != nil {
			t.Errorf("Verify() with byte %d flipped = %v, %v, want false, nil", i, ok, err)
		}
	}
	for i := range msg {
		bad := slices.Clone(msg)
		bad[i] ^= 0x80
		if ok, _ := pk.Verify(bad, sig); ok {
			t.Errorf("Verify() with message byte %d flipped = true, want false", i)
		}
	}
	enc := pk.Encode()
	for _, i := range []int{0, int(p.n) - 1, int(p.n), len(enc) - 1} {
		bad := slices.Clone(enc)
		bad[i] ^= 1
		badPK, err := p.DecodePublicKey(bad)
		if err != nil {
			t.Fatal(err)
		}
		if ok, _ := badPK.Verify(msg, sig); ok {
			t.Errorf("Verify() with public key byte %d flipped = true, want false", i)
		}
	}
}

func TestVerifyTamperedEveryRegion(t *testing.T) {
	p := SHA256_128f
	sk, pk, err := p.KeyGen()
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("tamper with every part")
	sig := sk.SignDeterministic(msg)
	if ok, err := pk.Verify(msg, sig); !ok || err != nil {
		t.Fatalf("Verify() = %v, %v, want true, nil", ok, err)
	}

	type region struct {
		name string
		part func(v signatureView) []byte
	}
	regions := []region{
		{"randomizer", signatureView.randomizer},
		{"FORS", signatureView.fors},
	}
	for i := range p.d {
		regions = append(regions,
			region{fmt.Sprintf("layer %d WOTS+", i), func(v signatureView) []byte { w, _ := v.layer(i); return w }},
			region{fmt.Sprintf("layer %d auth path", i), func(v signatureView) []byte { _, a := v.layer(i); return a }},
		)
	}
	for _, r := range regions {
		for _, pos := range []string{"first", "last"} {
			t.Run(r.name+" "+pos, func(t *testing.T) {
				bad := slices.Clone(sig)
				v, err := p.viewSignature(bad)
				if err != nil {
					t.Fatalf("viewSignature() err = %v", err)
				}
				part := r.part(v)
				if pos == "first" {
					part[0] ^= 1
				} else {
					part[len(part)-1] ^= 0x80
				}
				if ok, err := pk.Verify(msg, bad); ok || err != nil {
					t.Errorf("Verify() = %v, %v, want false, nil", ok, err)
				}
			})
		}
	}
}

func TestVerifyInvalidSignatureLength(t *testing.T) {
	p := SHA256_128f
	sk, pk, err := p.KeyGen()
	if err != nil {
		t.Fatal(err)
	}
	sig := sk.SignDeterministic(nil)
	for _, bad := range [][]byte{nil, sig[:len(sig)-1], append(slices.Clone(sig), 0)} {
		ok, err := pk.Verify(nil, bad)
		if ok || !errors.Is(err, ErrInvalidSignatureLength) {
			t.Errorf("Verify(len %d) = %v, %v, want false, %v", len(bad), ok, err, ErrInvalidSignatureLength)
		}
	}
}

func TestEncodeDecodeKeys(t *testing.T) {
	p := SHA256_128f
	sk, pk, err := p.KeyGen()
	if err != nil {
		t.Fatal(err)
	}
	skEnc := sk.Encode()
	sk2, err := p.DecodeSecretKey(skEnc)
	if err != nil {
		t.Fatalf("DecodeSecretKey() err = %v, want nil", err)
	}
	if !bytes.Equal(sk2.Encode(), skEnc) {
		t.Errorf("DecodeSecretKey().Encode() = %x, want %x", sk2.Encode(), skEnc)
	}
	if !bytes.Equal(sk2.PublicKey().Encode(), pk.Encode()) {
		t.Errorf("sk.PublicKey().Encode() = %x, want %x", sk2.PublicKey().Encode(), pk.Encode())
	}
	pk2, err := p.DecodePublicKey(pk.Encode())
	if err != nil {
		t.Fatalf("DecodePublicKey() err = %v, want nil", err)
	}
	msg := []byte("decoded")
	if ok, err := pk2.Verify(msg, sk2.SignDeterministic(msg)); !ok || err != nil {
		t.Errorf("Verify() = %v, %v, want true, nil", ok, err)
	}

	// Destroying a decoded key leaves the caller's encoding intact.
	sk2.Destroy()
	if !bytes.Equal(skEnc, sk.Encode()) {
		t.Errorf("Destroy() modified the encoding passed to DecodeSecretKey()")
	}
	if !bytes.Equal(sk2.skSeed, make([]byte, p.n)) || !bytes.Equal(sk2.skPRF, make([]byte, p.n)) {
		t.Errorf("Destroy() did not zero the secret seeds")
	}
}

func TestDecodeInvalidKeyLength(t *testing.T) {
	for _, p := range allParams {
		t.Run(p.Name(), func(t *testing.T) {
			if _, err := p.DecodePublicKey(make([]byte, p.PublicKeyLength()+1)); !errors.Is(err, ErrInvalidKeyLength) {
				t.Errorf("DecodePublicKey() err = %v, want %v", err, ErrInvalidKeyLength)
			}
			if _, err := p.DecodeSecretKey(make([]byte, p.SecretKeyLength()-1)); !errors.Is(err, ErrInvalidKeyLength) {
				t.Errorf("DecodeSecretKey() err = %v, want %v", err, ErrInvalidKeyLength)
			}
			if _, _, err := p.KeyGenFromSeed(make([]byte, p.SeedLength()-1)); !errors.Is(err, ErrInvalidSeedLength) {
				t.Errorf("KeyGenFromSeed() err = %v, want %v", err, ErrInvalidSeedLength)
			}
		})
	}
}

func TestParallelismDoesNotChangeResults(t *testing.T) {
	seed := sequence(0, SHA256_128f.SeedLength())
	msg := []byte("spx known answer")
	seqSK, seqPK, err := SHA256_128f.KeyGenFromSeed(seed)
	if err != nil {
		t.Fatal(err)
	}
	par := SHA256_128f.WithParallelism(4)
	parSK, parPK, err := par.KeyGenFromSeed(seed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(seqPK.Encode(), parPK.Encode()) {
		t.Errorf("parallel KeyGenFromSeed() pk = %x, want %x", parPK.Encode(), seqPK.Encode())
	}
	seqSig := seqSK.SignDeterministic(msg)
	parSig := parSK.SignDeterministic(msg)
	if !bytes.Equal(seqSig, parSig) {
		t.Errorf("parallel SignDeterministic() differs from sequential")
	}
	if ok, err := parPK.Verify(msg, seqSig); !ok || err != nil {
		t.Errorf("parallel Verify() = %v, %v, want true, nil", ok, err)
	}
	if SHA256_128f.workers != 1 {
		t.Errorf("WithParallelism() modified the shared parameter set")
	}
}
