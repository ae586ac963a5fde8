// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/drone/envsubst"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	emitter "github.com/vmware-tanzu/event-gateway-emitter"
	"github.com/vmware-tanzu/event-gateway-emitter/gateway"
)

const (
	// URLEnvVar supplies the gateway url when --url is not set
	URLEnvVar = "EVENT_GATEWAY_URL"

	LogLevelEnvVar  = "LOG_LEVEL"
	LogFormatEnvVar = "LOG_FORMAT"

	DefaultTimeout = 10 * time.Second
)

// Config is everything an emit invocation needs
type Config struct {
	Options    emitter.Options
	LogLevel   string
	LogFormat  string
	Timeout    time.Duration
	MaxRetries uint64
}

// RegisterFlags adds the emit flags to fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("name", "n", "", "the event name (required)")
	fs.StringP("path", "p", "", "path to JSON or YAML event data")
	fs.StringP("data", "d", "", "inline event data")
	fs.StringP("url", "u", emitter.DefaultURL, "Event Gateway address, $"+URLEnvVar+" when unset")
	fs.StringP("datatype", "t", "", "data type of the event data, sent as-is when set")

	fs.String("log-level", "warn", "diagnostic log level: trace, debug, info, warn, error")
	fs.String("log-format", "auto", "diagnostic log format: auto, console, json")
	fs.Duration("timeout", DefaultTimeout, "timeout of a single HTTP attempt")
	fs.Uint64("retries", gateway.DefaultMaxRetries, "how often a failed emission is retried")
}

// LoadDotEnv loads dir/.env into the environment. A missing file is not an error
// and variables that are already set are kept.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("could not load %s: %w", path, err)
	}

	return nil
}

// Load builds the configuration from parsed flags and the environment.
// A flag that was set wins over its environment variable, which wins over
// the flag default.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("could not bind flags: %w", err)
	}

	for key, env := range map[string]string{
		"url":        URLEnvVar,
		"log-level":  LogLevelEnvVar,
		"log-format": LogFormatEnvVar,
	} {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("could not bind %s: %w", env, err)
		}
	}

	endpoint, err := interpolateURL(v.GetString("url"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		Options: emitter.Options{
			Name:     v.GetString("name"),
			Path:     v.GetString("path"),
			Data:     v.GetString("data"),
			URL:      endpoint,
			DataType: v.GetString("datatype"),
		},
		LogLevel:   v.GetString("log-level"),
		LogFormat:  v.GetString("log-format"),
		Timeout:    v.GetDuration("timeout"),
		MaxRetries: v.GetUint64("retries"),
	}, nil
}

// interpolateURL expands ${VAR} references and checks the result is an
// absolute http(s) url. An empty input stays empty.
func interpolateURL(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}

	expanded, err := envsubst.Eval(raw, os.Getenv)
	if err != nil {
		return "", fmt.Errorf("could not interpolate url %q: %w", raw, err)
	}

	u, err := url.Parse(expanded)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", expanded, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, expanded)
	}

	return expanded, nil
}

// ErrInvalidURL will be wrapped when the url is not an absolute http(s) address
var ErrInvalidURL = errors.New("url must be an absolute http or https address")
