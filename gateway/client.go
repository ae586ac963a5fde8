// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultMaxRetries is how many times a failed emission is retried
const DefaultMaxRetries = 3

type APIClient struct {
	client     *http.Client
	baseURL    string
	maxRetries uint64
	newBackOff func() backoff.BackOff
}

// Option configures an APIClient
type Option func(*APIClient)

// WithMaxRetries sets how many times a retryable failure is retried
func WithMaxRetries(n uint64) Option {
	return func(a *APIClient) {
		a.maxRetries = n
	}
}

// WithBackOff replaces the exponential backoff used between retries
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(a *APIClient) {
		a.newBackOff = newBackOff
	}
}

// WithTimeout bounds every single HTTP attempt
func WithTimeout(d time.Duration) Option {
	return func(a *APIClient) {
		a.client.Timeout = d
	}
}

func NewAPIClient(url string, client *http.Client, opts ...Option) *APIClient {
	if client == nil {
		client = &http.Client{}
	}

	rt := client.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}

	if _, ok := rt.(*HeaderRoundTripper); !ok {
		client.Transport = &HeaderRoundTripper{
			delegate: rt,
		}
	}

	a := &APIClient{
		client:     client,
		baseURL:    strings.TrimSuffix(url, "/"),
		maxRetries: DefaultMaxRetries,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *APIClient) URL() string {
	return a.baseURL
}

func (a *APIClient) newRequest(method string, uri string, body io.Reader) (*http.Request, error) {
	return http.NewRequest(method, fmt.Sprintf("%s%s", a.baseURL, uri), body)
}

// HeaderRoundTripper sets the headers every gateway call needs
type HeaderRoundTripper struct {
	delegate http.RoundTripper
}

func (h *HeaderRoundTripper) RoundTrip(request *http.Request) (*http.Response, error) {
	request.Header.Add("Accept", "application/json")
	if request.Header.Get("Content-Type") == "" {
		request.Header.Set("Content-Type", "application/json")
	}
	return h.delegate.RoundTrip(request)
}

func (h *HeaderRoundTripper) GetDelegate() http.RoundTripper {
	return h.delegate
}

// ErrBadResponseStatus will be returned when the gateway does not answer with a 2xx status
var ErrBadResponseStatus = errors.New("invalid response status code")
