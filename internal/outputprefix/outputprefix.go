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

// Package outputprefix provides constants and shared utility functions for
// computing the prefix applied to signatures.
package outputprefix

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	// Size is the prefix size of TINK signatures.
	Size = 5
	// tinkStartByte is the first byte of the prefix of TINK signatures.
	tinkStartByte = byte(1)
)

// Tink returns the output prefix bytes from keyID for TINK keys.
//
// The prefix consists of a start byte and the 4-byte big endian key id.
func Tink(keyID uint32) []byte {
	prefix := make([]byte, Size)
	prefix[0] = tinkStartByte
	binary.BigEndian.PutUint32(prefix[1:], keyID)
	return prefix
}

// Strip returns data without prefix, or an error if data does not start
// with prefix. An empty prefix always matches.
func Strip(data, prefix []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, prefix) {
		return nil, fmt.Errorf("outputprefix: data does not start with prefix %x", prefix)
	}
	return data[len(prefix):], nil
}
