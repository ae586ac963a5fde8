// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: Apache-2.0

package telemetry_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/vmware-tanzu/event-gateway-emitter/telemetry"
)

func TestLogRecorder(t *testing.T) {
	buf := &bytes.Buffer{}
	rec := telemetry.LogRecorder{Logger: zerolog.New(buf).Level(zerolog.DebugLevel)}

	rec.Record(telemetry.ServiceEmitted)

	assert.Contains(t, buf.String(), `"usage":"service_emitted"`)
}

func TestNoop(t *testing.T) {
	var rec telemetry.Recorder = telemetry.Noop{}
	assert.NotPanics(t, func() { rec.Record(telemetry.ServiceEmitted) })
}
