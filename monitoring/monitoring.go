// Copyright 2022 Google LLC
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

// Package monitoring defines the interface through which signing and
// verification operations report their outcome.
package monitoring

// Logger records the outcome of cryptographic operations performed with a
// single key.
type Logger interface {
	// Log records a successful operation on numBytes bytes of input with
	// the key identified by keyID.
	Log(keyID uint32, numBytes int)
	// LogFailure records a failed operation.
	LogFailure()
}

// Context describes the operation a Logger is created for.
type Context struct {
	// Primitive is the name of the primitive, for example "public_key_sign".
	Primitive string
	// APIFunction is the name of the monitored function, for example "sign".
	APIFunction string
	// ParameterSet is the name of the SPHINCS+ parameter set of the key.
	ParameterSet string
}

// NewContext creates a new monitoring context.
func NewContext(primitive, apiFunction, parameterSet string) *Context {
	return &Context{
		Primitive:    primitive,
		APIFunction:  apiFunction,
		ParameterSet: parameterSet,
	}
}
