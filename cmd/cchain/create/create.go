// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package create implements the new subcommand, which writes a template chain file.
package create

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/cchain/internal/chainfile"
	"github.com/matt-FFFFFF/cchain/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

const (
	nameArg    = "name"
	cliExitStr = ""
)

// NewCmd writes a template chain file to the current directory.
var NewCmd = &cli.Command{
	Name:      "new",
	Usage:     "Write a template chain file",
	ArgsUsage: "[name]",
	Description: `Write cchain_<name>.json, or cchain_template.json when no name is given,
to the current directory. An existing file is never overwritten.`,
	Arguments: arguments(),
	Action:    actionFunc,
}

func arguments() []cli.Argument {
	return []cli.Argument{
		&cli.StringArg{
			Name: nameArg,
		},
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	arg := cmd.StringArg(nameArg)

	name, err := chainfile.WriteTemplate(arg)
	if errors.Is(err, chainfile.ErrFileExists) {
		logger.Error(fmt.Sprintf("%s already exists, choose another name", chainfile.TemplateFileName(arg)))
		return cli.Exit(cliExitStr, 1)
	}

	if err != nil {
		logger.Error(fmt.Sprintf("Failed to write template: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	fmt.Fprintf(cmd.Writer, "Created %s\n", name) //nolint:errcheck

	return nil
}
