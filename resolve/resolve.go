// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	emitter "github.com/vmware-tanzu/event-gateway-emitter"
)

// Strategy is the data source chosen for an invocation
type Strategy int

const (
	// FromInline uses the --data option
	FromInline Strategy = iota

	// FromFile reads the file named by --path
	FromFile

	// FromStdin reads everything from standard input
	FromStdin
)

func (s Strategy) String() string {
	switch s {
	case FromInline:
		return "inline"
	case FromFile:
		return "file"
	case FromStdin:
		return "stdin"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ChooseStrategy picks the data source: inline data wins over a path, and a
// path wins over stdin.
func ChooseStrategy(opts emitter.Options) Strategy {
	switch {
	case opts.Data != "":
		return FromInline
	case opts.Path != "":
		return FromFile
	default:
		return FromStdin
	}
}

// FileService checks for and decodes data files
type FileService interface {
	Exists(path string) bool
	ReadStructured(path string) (interface{}, error)
}

// Resolver turns invocation options into exactly one payload.
// Stdin may be nil when no input stream is available.
type Resolver struct {
	Files   FileService
	Stdin   io.Reader
	WorkDir string
	Logger  zerolog.Logger
}

// Resolve produces the payload from the source picked by ChooseStrategy.
// A data-type hint keeps inline and stdin text opaque; files are always
// decoded.
func (r *Resolver) Resolve(ctx context.Context, opts emitter.Options) (emitter.Payload, error) {
	strategy := ChooseStrategy(opts)
	r.Logger.Debug().Stringer("strategy", strategy).Msg("resolving event data")

	switch strategy {
	case FromInline:
		return textPayload(opts.Data, opts.DataType)
	case FromFile:
		return r.fromFile(opts.Path)
	case FromStdin:
		text, err := r.readStdin(ctx)
		if err != nil {
			return emitter.Payload{}, &emitter.MissingDataError{Err: err}
		}
		return textPayload(text, opts.DataType)
	default:
		return emitter.Payload{}, fmt.Errorf("unknown data source %s", strategy)
	}
}

func (r *Resolver) fromFile(path string) (emitter.Payload, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.WorkDir, path)
	}

	if !r.Files.Exists(path) {
		return emitter.Payload{}, &emitter.FileNotFoundError{Path: path}
	}

	v, err := r.Files.ReadStructured(path)
	if err != nil {
		return emitter.Payload{}, fmt.Errorf("could not read event data from %s: %w", path, err)
	}

	return emitter.Structured(v), nil
}

type readResult struct {
	text string
	err  error
}

// errNoInput is wrapped in a MissingDataError when there is no stdin to read
var errNoInput = errors.New("no input stream available")

func (r *Resolver) readStdin(ctx context.Context) (string, error) {
	if r.Stdin == nil {
		return "", errNoInput
	}

	done := make(chan readResult, 1)
	go func() {
		b, err := io.ReadAll(r.Stdin)
		done <- readResult{text: string(b), err: err}
	}()

	select {
	case res := <-done:
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func textPayload(text, dataType string) (emitter.Payload, error) {
	if dataType != "" {
		return emitter.Opaque(text), nil
	}

	var v interface{}
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return emitter.Payload{}, &emitter.DataFormatError{Err: err}
	}

	return emitter.Structured(v), nil
}
