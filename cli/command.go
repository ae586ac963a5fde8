// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"net/http"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	emitter "github.com/vmware-tanzu/event-gateway-emitter"
	"github.com/vmware-tanzu/event-gateway-emitter/config"
	"github.com/vmware-tanzu/event-gateway-emitter/emit"
	"github.com/vmware-tanzu/event-gateway-emitter/fileio"
	"github.com/vmware-tanzu/event-gateway-emitter/gateway"
	"github.com/vmware-tanzu/event-gateway-emitter/logging"
	"github.com/vmware-tanzu/event-gateway-emitter/resolve"
	"github.com/vmware-tanzu/event-gateway-emitter/telemetry"
)

// Env holds the process resources the command works with.
// Stdin is nil when there is no input stream to read.
type Env struct {
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	WorkDir    string
	HTTPClient *http.Client
	Telemetry  telemetry.Recorder
}

// StdinReader returns f unless it is missing or an interactive terminal
func StdinReader(f *os.File) io.Reader {
	if f == nil {
		return nil
	}

	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return nil
	}

	return f
}

// NewCommand creates the emit command
func NewCommand(env Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Emit an event to an Event Gateway",
		Long: `Emit resolves event data from --data, --path or stdin (in that order)
and sends it to the Event Gateway as the event named by --name.

Data is parsed as JSON unless --datatype is set, in which case it is sent as-is.
Files ending in .yml or .yaml are read as YAML.`,
		Example: `  emit -n userCreated -d '{"key":"value"}'
  emit -n userCreated -p ./event.yml
  echo 'This is a message' | emit -n userCreated -t text/plain`,
		Version:       emitter.AppVersion,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(env.WorkDir); err != nil {
				return err
			}

			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			return run(cmd, env, cfg)
		},
	}

	config.RegisterFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("name")

	cmd.SetIn(env.Stdin)
	cmd.SetOut(env.Stdout)
	cmd.SetErr(env.Stderr)

	return cmd
}

func run(cmd *cobra.Command, env Env, cfg config.Config) error {
	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: env.Stderr,
	})

	if err := cfg.Options.Validate(); err != nil {
		return err
	}

	rec := env.Telemetry
	if rec == nil {
		rec = telemetry.LogRecorder{Logger: logger}
	}

	resolver := &resolve.Resolver{
		Files:   fileio.New(),
		Stdin:   env.Stdin,
		WorkDir: env.WorkDir,
		Logger:  logger,
	}

	payload, err := resolver.Resolve(cmd.Context(), cfg.Options)
	if err != nil {
		return err
	}

	e := &emit.Emitter{
		NewTransport: func(url string) emit.Transport {
			hc := env.HTTPClient
			if hc == nil {
				hc = &http.Client{}
			}
			return gateway.NewAPIClient(url, hc,
				gateway.WithTimeout(cfg.Timeout),
				gateway.WithMaxRetries(cfg.MaxRetries),
			)
		},
		Console:   emit.WriterConsole{W: env.Stdout},
		Telemetry: rec,
		Logger:    logger,
	}

	return e.Emit(cmd.Context(), cfg.Options, payload)
}
