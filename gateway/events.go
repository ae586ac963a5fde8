// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/mitchellh/pointerstructure"
	emitter "github.com/vmware-tanzu/event-gateway-emitter"
)

// Request is a single event emission
type Request struct {
	Event    string
	Data     emitter.Payload
	DataType string
}

// ContentType is the data-type hint, or application/json when none was given
func (r Request) ContentType() string {
	if r.DataType == "" {
		return emitter.DefaultDataType
	}

	return r.DataType
}

// Emit posts the event to the gateway. Server errors, rate limiting and
// transport failures are retried; any other non-2xx answer fails at once.
func (a *APIClient) Emit(ctx context.Context, r Request) error {
	body, err := r.Data.Body()
	if err != nil {
		return fmt.Errorf("could not serialize event data: %w", err)
	}

	eventID := uuid.NewString()

	operation := func() error {
		req, err := a.newRequest(http.MethodPost, "/", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req = req.WithContext(ctx)

		req.Header.Set("Event", r.Event)
		req.Header.Set("Event-ID", eventID)
		req.Header.Set("Content-Type", r.ContentType())

		return a.doEmitRequest(req)
	}

	var bo backoff.BackOff = backoff.WithMaxRetries(a.newBackOff(), a.maxRetries)
	bo = backoff.WithContext(bo, ctx)

	return backoff.Retry(operation, bo)
}

func (a *APIClient) doEmitRequest(req *http.Request) error {
	response, err := a.client.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return backoff.Permanent(ctxErr)
		}
		return err
	}
	defer response.Body.Close()

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}

	statusErr := fmt.Errorf("%w: expected 2xx, got %d", ErrBadResponseStatus, response.StatusCode)
	if msg := GetErrorMessage(response.Body); msg != "" {
		statusErr = fmt.Errorf("%w: %s", statusErr, msg)
	}

	if response.StatusCode >= http.StatusInternalServerError || response.StatusCode == http.StatusTooManyRequests {
		return statusErr
	}

	return backoff.Permanent(statusErr)
}

// GetErrorMessage returns the first message of a gateway error body, or an
// empty string when the body has none.
func GetErrorMessage(body io.Reader) string {
	var resp interface{}
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return ""
	}

	msg, err := getStr(resp, "/errors/0/message")
	if err != nil {
		return ""
	}

	return msg
}

func getStr(obj interface{}, query string) (string, error) {
	v, err := pointerstructure.Get(obj, query)
	if err != nil {
		return "", err
	}

	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected %s to be a string, but it was %T", query, v)
	}

	return str, nil
}
