// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package function

import (
	"context"
	"errors"
	"testing"

	"github.com/matt-FFFFFF/cchain/internal/process"
	"github.com/matt-FFFFFF/cchain/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Eval(t *testing.T) {
	ctx := context.Background()
	errBoom := errors.New("boom")

	table := Table{
		"upper": func(_ context.Context, p []string) (string, error) { return "UP:" + p[0], nil },
		"fail":  func(context.Context, []string) (string, error) { return "", errBoom },
	}

	out, err := table.Eval(ctx, &Call{Name: "upper", Args: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, "UP:x", out)

	_, err = table.Eval(ctx, &Call{Name: "fail"})

	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "fail", evalErr.Name)
	assert.ErrorIs(t, err, errBoom)

	_, err = table.Eval(ctx, &Call{Name: "missing"})
	require.ErrorAs(t, err, &evalErr)
	assert.ErrorIs(t, err, ErrUnknownFunction)
}

func TestTable_With(t *testing.T) {
	base := Table{"a": envFunc}
	extended := base.With(Table{"b": envFunc})

	assert.Len(t, base, 1)
	assert.Len(t, extended, 2)
}

type fakeRunner struct {
	out  process.Captured
	err  error
	spec process.Spec
}

func (f *fakeRunner) Run(_ context.Context, spec process.Spec) (process.Captured, error) {
	f.spec = spec

	return f.out, f.err
}

func TestBuiltins_Env(t *testing.T) {
	ctx := context.Background()
	table := Builtins(prompt.NewScripted(), &fakeRunner{})

	t.Setenv("CCHAIN_FN_TEST", "set")

	out, err := table.Eval(ctx, &Call{Name: "env", Args: []string{"CCHAIN_FN_TEST"}})
	require.NoError(t, err)
	assert.Equal(t, "set", out)

	out, err = table.Eval(ctx, &Call{Name: "env", Args: []string{"CCHAIN_FN_TEST_UNSET", "fallback"}})
	require.NoError(t, err)
	assert.Equal(t, "fallback", out)

	_, err = table.Eval(ctx, &Call{Name: "env", Args: []string{"CCHAIN_FN_TEST_UNSET"}})
	require.ErrorIs(t, err, ErrEnvNotSet)

	_, err = table.Eval(ctx, &Call{Name: "env"})
	require.ErrorIs(t, err, ErrParamCount)
}

func TestBuiltins_Prompt(t *testing.T) {
	ctx := context.Background()
	p := prompt.NewScripted("  typed  ", "")
	table := Builtins(p, &fakeRunner{})

	out, err := table.Eval(ctx, &Call{Name: "prompt", Args: []string{"Branch?", "main"}})
	require.NoError(t, err)
	assert.Equal(t, "typed", out)

	out, err = table.Eval(ctx, &Call{Name: "prompt", Args: []string{"Branch?", "main"}})
	require.NoError(t, err)
	assert.Equal(t, "main", out)

	_, err = table.Eval(ctx, &Call{Name: "prompt", Args: []string{"Again?"}})
	require.ErrorIs(t, err, prompt.ErrNoAnswer)

	var evalErr *EvalError
	assert.ErrorAs(t, err, &evalErr)
}

func TestBuiltins_Shell(t *testing.T) {
	ctx := context.Background()
	r := &fakeRunner{out: process.Captured{Stdout: "abc123\n"}}
	table := Builtins(prompt.NewScripted(), r)

	out, err := table.Eval(ctx, &Call{Name: "shell", Args: []string{"git rev-parse HEAD"}})
	require.NoError(t, err)
	assert.Equal(t, "abc123", out)
	assert.Equal(t, process.InterpreterSh, r.spec.Interpreter)
	assert.Equal(t, "git rev-parse HEAD", r.spec.Command)

	r.err = &process.ExitError{Status: 1}
	_, err = table.Eval(ctx, &Call{Name: "shell", Args: []string{"false"}})

	var exitErr *process.ExitError
	assert.ErrorAs(t, err, &exitErr)
}
