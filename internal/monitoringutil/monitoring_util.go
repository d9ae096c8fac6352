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

// Package monitoringutil implements utility functions for monitoring.
package monitoringutil

import (
	"log/slog"

	"github.com/sphincsplus/spx-go/monitoring"
)

// DoNothingLogger is a Logger that does nothing when invoked.
type DoNothingLogger struct{}

var _ monitoring.Logger = (*DoNothingLogger)(nil)

// Log drops a log call.
func (l *DoNothingLogger) Log(uint32, int) {}

// LogFailure drops a failure call.
func (l *DoNothingLogger) LogFailure() {}

// SlogLogger is a Logger that writes one structured record per call.
type SlogLogger struct {
	log *slog.Logger
}

var _ monitoring.Logger = (*SlogLogger)(nil)

// NewSlogLogger returns a Logger writing to logger with the attributes of
// ctx. A nil logger is replaced with [slog.Default].
func NewSlogLogger(logger *slog.Logger, ctx *monitoring.Context) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	if ctx != nil {
		logger = logger.With(
			"primitive", ctx.Primitive,
			"api_function", ctx.APIFunction,
			"parameter_set", ctx.ParameterSet,
		)
	}
	return &SlogLogger{log: logger}
}

// Log writes a record for a successful operation at debug level.
func (l *SlogLogger) Log(keyID uint32, numBytes int) {
	l.log.Debug("operation succeeded", "key_id", keyID, "num_bytes", numBytes)
}

// LogFailure writes a record for a failed operation at warning level.
func (l *SlogLogger) LogFailure() {
	l.log.Warn("operation failed")
}
