// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package fileio reads event data files. JSON and YAML content is detected
// from the file extension, falling back to content sniffing.
package fileio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

type Service struct{}

func New() *Service {
	return &Service{}
}

// Exists reports whether a regular file is present at path
func (s *Service) Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}

// ReadStructured decodes the file at path. ".json" files must be JSON,
// ".yml" and ".yaml" files must be YAML. Anything else is tried as JSON
// first and as YAML second.
func (s *Service) ReadStructured(path string) (interface{}, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return decodeJSON(b)
	case ".yml", ".yaml":
		return decodeYAML(b)
	}

	if v, err := decodeJSON(b); err == nil {
		return v, nil
	}

	return decodeYAML(b)
}

func decodeJSON(b []byte) (interface{}, error) {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("could not parse json: %w", err)
	}

	return v, nil
}

func decodeYAML(b []byte) (interface{}, error) {
	var v interface{}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("could not parse yaml: %w", err)
	}

	return normalize(v), nil
}

// normalize turns YAML maps with non-string keys into map[string]interface{}
// so the value can be marshalled as JSON.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, item := range t {
			m[fmt.Sprint(k)] = normalize(item)
		}
		return m
	case []interface{}:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	default:
		return v
	}
}
