// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package check implements the check subcommand.
package check

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/cchain/internal/chain"
	"github.com/matt-FFFFFF/cchain/internal/color"
	"github.com/matt-FFFFFF/cchain/internal/ctxlog"
	"github.com/matt-FFFFFF/cchain/internal/display"
	"github.com/matt-FFFFFF/cchain/internal/source"
	"github.com/urfave/cli/v3"
)

const (
	fileFlag   = "file"
	cliExitStr = ""
)

// CheckCmd checks a chain file without running it.
var CheckCmd = &cli.Command{
	Name:  "check",
	Usage: "Check a chain file without running it",
	Description: `Load a chain file, report every variable that is used before it can have a value
and list the commands that cannot be found on the PATH.`,
	Flags:  flags(),
	Action: actionFunc,
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     fileFlag,
			Aliases:  []string{"f"},
			Usage:    "URL of the chain file to check. Supports Hashicorp's go-getter syntax.",
			OnlyOnce: true,
		},
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	url := cmd.String(fileFlag)
	if url == "" {
		logger.Error("Please specify the URL of the chain file using the --file or -f flag.")
		return cli.Exit(cliExitStr, 1)
	}

	f, err := source.Fetch(ctx, url)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to get chain file %s: %s", url, err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	c, err := chain.LoadBytes(f.Name, f.Data, chain.WithEmitter(display.Discard))
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, 1)
	}

	failed := false

	if err := c.ValidateSyntax(); err != nil {
		failed = true

		fmt.Fprintln(cmd.Writer, color.Colorize(err.Error(), color.FgRed)) //nolint:errcheck
	}

	for _, m := range c.MissingCommands() {
		failed = true

		fmt.Fprintf(cmd.Writer, "%s command not found: %s\n", color.Colorize("✗", color.FgRed), m) //nolint:errcheck
	}

	if failed {
		return cli.Exit(cliExitStr, 1)
	}

	fmt.Fprintf(cmd.Writer, "%s %s: %d program(s), %d batch(es), %d variable(s)\n", //nolint:errcheck
		color.Colorize("✓", color.FgGreen), f.Name, len(c.Programs()), len(c.Batches()), len(c.Variables()))

	return nil
}
