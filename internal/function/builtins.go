// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package function

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/matt-FFFFFF/cchain/internal/process"
	"github.com/matt-FFFFFF/cchain/internal/prompt"
)

var (
	// ErrParamCount is returned when a builtin receives the wrong number of parameters.
	ErrParamCount = errors.New("wrong number of parameters")
	// ErrEnvNotSet is returned by env when the variable is unset and no fallback is given.
	ErrEnvNotSet = errors.New("environment variable not set")
)

// Builtins returns the default function table:
//
//	env('NAME', 'fallback')      value of an environment variable
//	prompt('message', 'default') answer typed by the user
//	shell('command line')        stdout of `sh -c`, surrounding newlines removed
func Builtins(p prompt.Prompter, r process.Runner) Table {
	return Table{
		"env":    envFunc,
		"prompt": promptFunc(p),
		"shell":  shellFunc(r),
	}
}

func checkParams(params []string, lo, hi int) error {
	if len(params) < lo || len(params) > hi {
		return fmt.Errorf("%w: got %d, want %d to %d", ErrParamCount, len(params), lo, hi)
	}

	return nil
}

func envFunc(_ context.Context, params []string) (string, error) {
	if err := checkParams(params, 1, 2); err != nil {
		return "", err
	}

	if v, ok := os.LookupEnv(params[0]); ok {
		return v, nil
	}

	if len(params) == 2 {
		return params[1], nil
	}

	return "", fmt.Errorf("%w: %s", ErrEnvNotSet, params[0])
}

func promptFunc(p prompt.Prompter) Func {
	return func(ctx context.Context, params []string) (string, error) {
		if err := checkParams(params, 1, 2); err != nil {
			return "", err
		}

		answer, err := p.Prompt(ctx, params[0])
		if err != nil {
			return "", err //nolint:wrapcheck
		}

		answer = strings.TrimSpace(answer)
		if answer == "" && len(params) == 2 {
			return params[1], nil
		}

		return answer, nil
	}
}

func shellFunc(r process.Runner) Func {
	return func(ctx context.Context, params []string) (string, error) {
		if err := checkParams(params, 1, 2); err != nil {
			return "", err
		}

		out, err := r.Run(ctx, process.Spec{Command: params[0], Interpreter: process.InterpreterSh})
		if err != nil {
			return "", err //nolint:wrapcheck
		}

		return strings.Trim(out.Stdout, "\r\n"), nil
	}
}
