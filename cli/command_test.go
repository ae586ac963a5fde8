// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: Apache-2.0

package cli_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	emitter "github.com/vmware-tanzu/event-gateway-emitter"
	"github.com/vmware-tanzu/event-gateway-emitter/cli"
	"github.com/vmware-tanzu/event-gateway-emitter/internal"
	"github.com/vmware-tanzu/event-gateway-emitter/internal/testutils"
)

type harness struct {
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	hc     *http.Client
	rec    *testutils.Recorder
	env    cli.Env
}

func newHarness(t *testing.T, stdin io.Reader, statuses ...int) *harness {
	t.Helper()
	t.Setenv("EVENT_GATEWAY_URL", "")

	h := &harness{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		hc:     internal.GetFakeHTTPClient(http.MethodPost, "/", "", statuses...),
		rec:    &testutils.Recorder{},
	}
	h.env = cli.Env{
		Stdin:      stdin,
		Stdout:     h.stdout,
		Stderr:     h.stderr,
		WorkDir:    t.TempDir(),
		HTTPClient: h.hc,
		Telemetry:  h.rec,
	}

	return h
}

func (h *harness) run(args ...string) error {
	cmd := cli.NewCommand(h.env)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestEmitInlineData(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.run("-n", "userCreated", "-d", `{"key":"value"}`))

	assert.Equal(t, "Successfully emitted the event userCreated as datatype application/json with:\n{\"key\":\"value\"}\n", h.stdout.String())
	assert.Equal(t, `{"key":"value"}`, internal.GetSentRequest(h.hc))
	assert.Equal(t, "userCreated", internal.GetSentHeader(h.hc).Get("Event"))
	assert.Equal(t, []string{"service_emitted"}, h.rec.Keys)
}

func TestEmitStdinWithDataType(t *testing.T) {
	h := newHarness(t, strings.NewReader("This is a message"))

	require.NoError(t, h.run("--name", "userCreated", "--datatype", "text/plain"))

	assert.Equal(t, "Successfully emitted the event userCreated as datatype text/plain with:\n\"This is a message\"\n", h.stdout.String())
	assert.Equal(t, "This is a message", internal.GetSentRequest(h.hc))
	assert.Equal(t, "text/plain", internal.GetSentHeader(h.hc).Get("Content-Type"))
}

func TestEmitFromFile(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(h.env.WorkDir, "event.yml"), []byte("key: value\n"), 0o644))

	require.NoError(t, h.run("-n", "userCreated", "-p", "event.yml"))

	assert.Equal(t, "Successfully emitted the event userCreated as datatype application/json with:\n{\"key\":\"value\"}\n", h.stdout.String())
}

func TestEmitDataWinsOverPath(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.run("-n", "userCreated", "-d", `{"from":"data"}`, "-p", "does-not-exist.json"))
	assert.Equal(t, `{"from":"data"}`, internal.GetSentRequest(h.hc))
}

func TestEmitMissingFile(t *testing.T) {
	h := newHarness(t, nil)

	err := h.run("-n", "userCreated", "-p", "missing.json")

	var notFound *emitter.FileNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, 0, internal.GetCallCount(h.hc))
	assert.Empty(t, h.stdout.String())
	assert.Empty(t, h.rec.Keys)
}

func TestEmitMalformedData(t *testing.T) {
	h := newHarness(t, nil)

	err := h.run("-n", "userCreated", "-d", "{bad")
	require.Error(t, err)
	assert.Equal(t, "Couldn't parse the provided data to a JSON structure.", err.Error())
	assert.Equal(t, 0, internal.GetCallCount(h.hc))
}

func TestEmitWithoutAnyData(t *testing.T) {
	h := newHarness(t, nil)

	err := h.run("-n", "userCreated")

	var missing *emitter.MissingDataError
	require.True(t, errors.As(err, &missing))
}

func TestEmitGatewayRejects(t *testing.T) {
	h := newHarness(t, nil, http.StatusBadRequest)

	err := h.run("-n", "userCreated", "-d", `{"key":"value"}`, "--retries", "0")
	require.Error(t, err)
	assert.Equal(t, "Failed to emit the event userCreated", err.Error())
	assert.Equal(t, "Failed to emit the event userCreated as datatype application/json with:\n{\"key\":\"value\"}\n", h.stdout.String())
}

func TestEmitRequiresName(t *testing.T) {
	h := newHarness(t, nil)

	err := h.run("-d", `{}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
	assert.Equal(t, 0, internal.GetCallCount(h.hc))
}

func TestStdinReader(t *testing.T) {
	assert.Nil(t, cli.StdinReader(nil))

	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()

	assert.NotNil(t, cli.StdinReader(f), "regular files are readable input")
}
