// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: Apache-2.0

package emitter

import (
	"errors"
	"fmt"
)

// AppVersion will be specified by the build
var AppVersion = "0.0.0-dev"

const (
	// DefaultURL is the Event Gateway address used when no url is given
	DefaultURL = "http://localhost:4000"

	// DefaultDataType is reported when no data-type hint is given
	DefaultDataType = "application/json"
)

// Options are the caller-supplied parameters of a single emit invocation.
// An empty string means the option was not supplied.
//
//	emit --name userCreated --data '{"key":"value"}'
type Options struct {
	Name     string
	Path     string
	Data     string
	URL      string
	DataType string
}

// Endpoint returns the configured url or DefaultURL
func (o Options) Endpoint() string {
	if o.URL == "" {
		return DefaultURL
	}

	return o.URL
}

// ReportedDataType returns the data-type hint or DefaultDataType
func (o Options) ReportedDataType() string {
	if o.DataType == "" {
		return DefaultDataType
	}

	return o.DataType
}

// Validate ensures that the options required for an emission are set
func (o Options) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("could not validate options: %w", ErrMissingEventName)
	}

	return nil
}

// ERRORS

// ErrMissingEventName will be wrapped when no event name was provided
var ErrMissingEventName = errors.New("event name is missing")

// DataFormatError is returned when inline or stdin data is not valid JSON
type DataFormatError struct {
	Err error
}

func (e *DataFormatError) Error() string {
	return "Couldn't parse the provided data to a JSON structure."
}

func (e *DataFormatError) Unwrap() error {
	return e.Err
}

// FileNotFoundError is returned when the resolved data path does not exist
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return "The file you provided does not exist."
}

// MissingDataError is returned when no data source could be read
type MissingDataError struct {
	Err error
}

func (e *MissingDataError) Error() string {
	return "Event data is missing. Please provide it either via stdin or the args: data or path."
}

func (e *MissingDataError) Unwrap() error {
	return e.Err
}

// EmissionError is returned when the gateway did not accept the event
type EmissionError struct {
	Event string
	Err   error
}

func (e *EmissionError) Error() string {
	return fmt.Sprintf("Failed to emit the event %s", e.Event)
}

func (e *EmissionError) Unwrap() error {
	return e.Err
}
