// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run implements the run subcommand.
package run

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/cchain/internal/chain"
	"github.com/matt-FFFFFF/cchain/internal/ctxlog"
	"github.com/matt-FFFFFF/cchain/internal/display"
	"github.com/matt-FFFFFF/cchain/internal/runbatch"
	"github.com/matt-FFFFFF/cchain/internal/source"
	"github.com/urfave/cli/v3"
)

const (
	fileFlag        = "file"
	skipCheckFlag   = "skip-check"
	varFlag         = "var"
	noStdErrFlag    = "no-output-stderr"
	failOnErrorFlag = "fail-on-error"
	cliExitStr      = ""
)

// ErrInvalidVar is returned for a --var value that is not name=value.
var ErrInvalidVar = errors.New("variable must be given as name=value")

// RunCmd is the command that runs a chain file.
var RunCmd = &cli.Command{
	Name:  "run",
	Usage: "Run a chain file",
	Description: `Run the programs of a chain file in order.
Before anything runs the chain is checked for variables that are used before they can have a value.
Values for chain startup variables are asked for once, values for step variables before each program
that uses them. Pass --var name=value to answer a startup variable in advance.

A chain that completes with failures of programs that do not exit on failure still exits with status 0
unless --fail-on-error is given.

Chain file URLs use Hashicorp's go-getter syntax, which allows for fetching files from various sources.
See https://github.com/hashicorp/go-getter.
`,
	Flags:  flags(),
	Action: actionFunc,
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     fileFlag,
			Aliases:  []string{"f"},
			Usage:    "URL of the chain file to run (.json, .yaml or .hcl). Supports Hashicorp's go-getter syntax.",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:        skipCheckFlag,
			Usage:       "Do not check variable bindings before running",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.StringSliceFlag{
			Name:  varFlag,
			Usage: "Preset a chain startup variable as name=value. Specify multiple times for multiple variables.",
		},
		&cli.BoolFlag{
			Name:        noStdErrFlag,
			Aliases:     []string{"no-stderr"},
			Usage:       "Exclude the error output of failed programs from the summary",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        failOnErrorFlag,
			Usage:       "Exit with status 1 when any program failed, even if the chain completed",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("Running run command")

	url := cmd.String(fileFlag)
	if url == "" {
		logger.Error("Please specify the URL of the chain file using the --file or -f flag.")
		return cli.Exit(cliExitStr, 1)
	}

	values, err := parseVars(cmd.StringSlice(varFlag))
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, 1)
	}

	f, err := source.Fetch(ctx, url)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to get chain file %s: %s", url, err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	c, err := chain.LoadBytes(f.Name, f.Data,
		chain.WithEmitter(display.NewConsole(cmd.Writer)),
		chain.WithValues(values),
	)
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, 1)
	}

	if !cmd.Bool(skipCheckFlag) {
		if err := c.ValidateSyntax(); err != nil {
			logger.Error(fmt.Sprintf("Chain file %s failed the check: %s", url, err.Error()))
			return cli.Exit(cliExitStr, 1)
		}
	}

	summary, execErr := c.Execute(ctx)

	opts := runbatch.DefaultOutputOptions()
	opts.IncludeStdErr = !cmd.Bool(noStdErrFlag)

	if err := summary.Results.WriteWithOptions(cmd.Writer, opts); err != nil {
		logger.Error(fmt.Sprintf("Failed to write results: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	if execErr != nil {
		logger.Error(fmt.Sprintf("Chain aborted: %s", execErr.Error()), "failed", c.FailedCount())
		return cli.Exit(cliExitStr, 1)
	}

	if summary.FailedCount > 0 && cmd.Bool(failOnErrorFlag) {
		logger.Error("Some programs failed. See above for details.")
		return cli.Exit(cliExitStr, 1)
	}

	return nil
}

// parseVars converts name=value pairs to a map. The value may contain '='.
func parseVars(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))

	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)

		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidVar, p)
		}

		values[name] = value
	}

	return values, nil
}
