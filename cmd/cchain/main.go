// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the cchain command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/cchain"
	"github.com/matt-FFFFFF/cchain/cmd/cchain/check"
	"github.com/matt-FFFFFF/cchain/cmd/cchain/create"
	"github.com/matt-FFFFFF/cchain/cmd/cchain/run"
	"github.com/matt-FFFFFF/cchain/internal/ctxlog"
	"github.com/matt-FFFFFF/cchain/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// rootCmd is the root command for the CLI.
var rootCmd = &cli.Command{
	Commands: []*cli.Command{
		run.RunCmd,
		check.CheckCmd,
		create.NewCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "cchain",
	Description: `cchain runs a chain of programs described in a chain file.
Programs run in order, with retries, remedy commands and failure handling per program.
Adjacent programs that share a concurrency group run in parallel.
Arguments may hold <<variables>> that are asked for at startup or just before a program runs,
or that take the output of an earlier program.`,
	Usage:     "cchain run -f mychain.json",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", cchain.Version, cchain.Commit)

	err := rootCmd.Run(ctx, os.Args) // Err is handled by cli framework

	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}

	ctxlog.Logger(ctx).Info("command completed successfully")
}
