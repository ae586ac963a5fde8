// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package telemetry records usage keys. Recording never fails and never
// blocks the caller.
package telemetry

import "github.com/rs/zerolog"

// ServiceEmitted is recorded once per emit invocation
const ServiceEmitted = "service_emitted"

type Recorder interface {
	Record(key string)
}

// Noop drops every key
type Noop struct{}

func (Noop) Record(string) {}

// LogRecorder writes every key to a logger at debug level
type LogRecorder struct {
	Logger zerolog.Logger
}

func (l LogRecorder) Record(key string) {
	l.Logger.Debug().Str("usage", key).Msg("usage recorded")
}
