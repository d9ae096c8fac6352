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
	"log/slog"

	"github.com/sphincsplus/spx-go/internal/monitoringutil"
	"github.com/sphincsplus/spx-go/monitoring"
)

const (
	signPrimitive   = "public_key_sign"
	verifyPrimitive = "public_key_verify"
)

type options struct {
	parallelism   int
	deterministic bool
	logger        monitoring.Logger
	slogLogger    *slog.Logger
}

// Option configures a signer or verifier.
type Option func(*options)

// WithParallelism lets every operation use up to n goroutines. The output
// does not depend on n. The default is sequential execution.
func WithParallelism(n int) Option {
	return func(o *options) { o.parallelism = n }
}

// WithDeterministicSigning makes the signer use the public seed in place of
// fresh randomness, so that equal messages yield equal signatures. It has no
// effect on verifiers.
func WithDeterministicSigning() Option {
	return func(o *options) { o.deterministic = true }
}

// WithMonitoringLogger reports every operation to logger.
func WithMonitoringLogger(logger monitoring.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithStructuredLogging reports every operation as a record on logger. It is
// ignored if WithMonitoringLogger is also given.
func WithStructuredLogging(logger *slog.Logger) Option {
	return func(o *options) { o.slogLogger = logger }
}

func newOptions(opts []Option) *options {
	o := &options{parallelism: 1}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// monitoringLogger returns the logger for the api function of primitive on
// keys with paramSet.
func (o *options) monitoringLogger(primitive, apiFunction string, paramSet ParameterSet) monitoring.Logger {
	switch {
	case o.logger != nil:
		return o.logger
	case o.slogLogger != nil:
		return monitoringutil.NewSlogLogger(o.slogLogger, monitoring.NewContext(primitive, apiFunction, paramSet.String()))
	default:
		return &monitoringutil.DoNothingLogger{}
	}
}
