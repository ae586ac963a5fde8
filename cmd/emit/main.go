// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vmware-tanzu/event-gateway-emitter/cli"
	"github.com/vmware-tanzu/event-gateway-emitter/logging"
)

func main() {
	logger := logging.New(logging.Config{Level: os.Getenv("LOG_LEVEL")})

	workDir, err := os.Getwd()
	if err != nil {
		logger.Fatal().Err(err).Msg("could not determine working directory")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := cli.NewCommand(cli.Env{
		Stdin:   cli.StdinReader(os.Stdin),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		WorkDir: workDir,
	})

	if err = cmd.ExecuteContext(ctx); err != nil {
		cancel()
		logger.Fatal().Err(err).Msg("emit failed")
	}
}
