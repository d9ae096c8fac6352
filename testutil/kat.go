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

// Package testutil provides helpers shared by tests.
package testutil

import (
	"embed"
	"encoding/hex"
	"encoding/json"
	"path"
)

// KATSuite represents the common elements of the top level object in a
// known answer test file. Implementations should embed KATSuite in a struct
// that strongly types the testGroups field.
type KATSuite struct {
	Algorithm     string            `json:"algorithm"`
	NumberOfTests int               `json:"numberOfTests"`
	Notes         map[string]string `json:"notes"`
}

// KATGroup represents the common elements of a testGroups object. All
// cases in a group share one parameter set.
type KATGroup struct {
	Type         string `json:"type"`
	ParameterSet string `json:"parameterSet"`
}

// KATCase represents the common elements of a tests object in a group.
type KATCase struct {
	CaseID  int      `json:"tcId"`
	Comment string   `json:"comment"`
	Result  string   `json:"result"`
	Flags   []string `json:"flags"`
}

// HexBytes is a helper type for unmarshalling a byte sequence represented as a
// hex encoded string.
type HexBytes []byte

// UnmarshalText converts a hex encoded string into a sequence of bytes.
func (a *HexBytes) UnmarshalText(text []byte) error {
	decoded, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}

	*a = decoded
	return nil
}

// The vectors were produced by an independent implementation. They read
// the hypertree tree and leaf indices from the message digest in
// little-endian order, so signatures differ from the round 2 reference
// code, which reads them big-endian.
//
//go:embed testdata/*.json
var knownAnswerTestVectors embed.FS

// PopulateSuite opens filename from the test vectors directory and
// populates suite with the decoded JSON data.
func PopulateSuite(suite any, filename string) error {
	f, err := knownAnswerTestVectors.Open(path.Join("testdata", filename))
	if err != nil {
		return err
	}
	defer f.Close()
	parser := json.NewDecoder(f)
	if err := parser.Decode(suite); err != nil {
		return err
	}
	return nil
}
