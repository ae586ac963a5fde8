// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: Apache-2.0

package emit

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	emitter "github.com/vmware-tanzu/event-gateway-emitter"
	"github.com/vmware-tanzu/event-gateway-emitter/gateway"
	"github.com/vmware-tanzu/event-gateway-emitter/telemetry"
)

// Transport delivers a single event to the gateway
type Transport interface {
	Emit(ctx context.Context, r gateway.Request) error
}

// Console receives the status line of an emission
type Console interface {
	WriteLine(text string)
}

// WriterConsole writes status lines to W
type WriterConsole struct {
	W io.Writer
}

func (c WriterConsole) WriteLine(text string) {
	fmt.Fprintln(c.W, text)
}

// Emitter sends a resolved payload and reports how it went.
// Telemetry may be nil.
type Emitter struct {
	NewTransport func(url string) Transport
	Console      Console
	Telemetry    telemetry.Recorder
	Logger       zerolog.Logger
}

// Emit sends payload as the event opts.Name to opts.Endpoint(). A status line
// is written in both outcomes; a failed emission then returns an
// *emitter.EmissionError.
func (e *Emitter) Emit(ctx context.Context, opts emitter.Options, payload emitter.Payload) error {
	rec := e.Telemetry
	if rec == nil {
		rec = telemetry.Noop{}
	}
	rec.Record(telemetry.ServiceEmitted)

	url := opts.Endpoint()
	e.Logger.Debug().
		Str("url", url).
		Str("event", opts.Name).
		Stringer("kind", payload.Kind()).
		Msg("emitting event")

	req := gateway.Request{
		Event:    opts.Name,
		Data:     payload,
		DataType: opts.DataType,
	}

	if err := e.NewTransport(url).Emit(ctx, req); err != nil {
		e.Console.WriteLine(StatusLine("Failed to emit", opts, payload))
		e.Logger.Debug().Err(err).Str("event", opts.Name).Msg("emission failed")
		return &emitter.EmissionError{Event: opts.Name, Err: err}
	}

	e.Console.WriteLine(StatusLine("Successfully emitted", opts, payload))
	return nil
}

// StatusLine renders
//
//	<verb> the event <name> as datatype <type> with:
//	<payload as JSON>
func StatusLine(verb string, opts emitter.Options, payload emitter.Payload) string {
	return fmt.Sprintf("%s the event %s as datatype %s with:\n%s",
		verb, opts.Name, opts.ReportedDataType(), payload.DisplayJSON())
}
