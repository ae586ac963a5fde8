// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: Apache-2.0

package internal

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/vmware-tanzu/event-gateway-emitter/gateway"
)

type fakeRoundTripper struct {
	method   string
	path     string
	statuses []int
	response string
	calls    int
	request  string
	header   http.Header
}

func (f *fakeRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	recorder := httptest.ResponseRecorder{}

	f.calls++

	if f.method != req.Method {
		recorder.Code = http.StatusMethodNotAllowed
		return recorder.Result(), nil
	}

	if f.path != req.URL.Path {
		recorder.Code = http.StatusNotFound
		return recorder.Result(), nil
	}

	f.header = req.Header.Clone()

	if req.Body != nil {
		b := &bytes.Buffer{}
		io.Copy(b, req.Body)

		f.request = b.String()
	}

	// the last status repeats once the list is used up
	recorder.Code = http.StatusAccepted
	if len(f.statuses) > 0 {
		i := f.calls - 1
		if i >= len(f.statuses) {
			i = len(f.statuses) - 1
		}
		recorder.Code = f.statuses[i]
	}
	recorder.Body = bytes.NewBufferString(f.response)
	return recorder.Result(), nil
}

// GetFakeHTTPClient returns a client that answers requests to method and path
// with the given statuses in order, 202 Accepted when none are given.
func GetFakeHTTPClient(method, path, response string, statuses ...int) *http.Client {
	f := &fakeRoundTripper{
		method:   method,
		path:     path,
		statuses: statuses,
		response: response,
	}

	return &http.Client{Transport: f}
}

func GetSentRequest(hc *http.Client) string {
	if f := getRoundTripperFromClient(hc); f != nil {
		return f.request
	}

	return ""
}

func GetSentHeader(hc *http.Client) http.Header {
	if f := getRoundTripperFromClient(hc); f != nil {
		return f.header
	}

	return nil
}

func GetCallCount(hc *http.Client) int {
	if f := getRoundTripperFromClient(hc); f != nil {
		return f.calls
	}

	return 0
}

func getRoundTripperFromClient(hc *http.Client) *fakeRoundTripper {
	switch rt := hc.Transport.(type) {
	case *fakeRoundTripper:
		return rt
	case *gateway.HeaderRoundTripper:
		f, _ := rt.GetDelegate().(*fakeRoundTripper)
		return f
	default:
		return nil
	}
}
