// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: Apache-2.0

package testutils

import (
	"context"
	"errors"

	"github.com/vmware-tanzu/event-gateway-emitter/gateway"
)

// ErrFakeFileMissing is returned by FakeFileService for unknown paths
var ErrFakeFileMissing = errors.New("fake file does not exist")

// FakeFileService serves structured content from memory and counts how often
// each path was touched.
type FakeFileService struct {
	files     map[string]interface{}
	pathCount map[string]int
}

func NewFakeFileService() *FakeFileService {
	return &FakeFileService{
		files:     map[string]interface{}{},
		pathCount: map[string]int{},
	}
}

func (f *FakeFileService) AddFile(path string, content interface{}) {
	f.files[path] = content
}

func (f *FakeFileService) Exists(path string) bool {
	f.pathCount[path]++

	_, ok := f.files[path]
	return ok
}

func (f *FakeFileService) ReadStructured(path string) (interface{}, error) {
	f.pathCount[path]++

	content, ok := f.files[path]
	if !ok {
		return nil, ErrFakeFileMissing
	}

	return content, nil
}

// GetPathHitCount returns how often path was passed to Exists or ReadStructured
func (f *FakeFileService) GetPathHitCount(path string) int {
	return f.pathCount[path]
}

// GetTotalHitCount returns the number of calls over all paths
func (f *FakeFileService) GetTotalHitCount() int {
	total := 0
	for _, v := range f.pathCount {
		total += v
	}

	return total
}

// Console records every line written to it
type Console struct {
	Lines []string
}

func (c *Console) WriteLine(text string) {
	c.Lines = append(c.Lines, text)
}

// Recorder records every telemetry key
type Recorder struct {
	Keys []string
}

func (r *Recorder) Record(key string) {
	r.Keys = append(r.Keys, key)
}

// FakeTransport captures emit requests and answers with Err
type FakeTransport struct {
	URL      string
	Err      error
	Requests []gateway.Request
}

func (f *FakeTransport) Emit(_ context.Context, r gateway.Request) error {
	f.Requests = append(f.Requests, r)
	return f.Err
}
