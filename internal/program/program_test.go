// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package program

import (
	"context"
	"strings"
	"testing"

	"github.com/matt-FFFFFF/cchain/internal/chainfile"
	"github.com/matt-FFFFFF/cchain/internal/display"
	"github.com/matt-FFFFFF/cchain/internal/function"
	"github.com/matt-FFFFFF/cchain/internal/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func noInject(args []string) []string {
	return args
}

func newPrepared(t *testing.T, spec chainfile.ProgramSpec) *Program {
	t.Helper()

	p, err := New(0, spec)
	require.NoError(t, err)
	require.NoError(t, p.Prepare(context.Background(), function.Table{}, display.Discard, noInject))

	return p
}

func TestNew_Defaults(t *testing.T) {
	p, err := New(3, chainfile.ProgramSpec{Command: "echo", Arguments: []string{"a"}})
	require.NoError(t, err)

	assert.Equal(t, 3, p.Index)
	assert.True(t, p.TrimNewlines)
	assert.True(t, p.ExitOnFailure)
	assert.Empty(t, p.StdoutStoredTo)
	assert.False(t, p.HasRemedy())
	assert.Equal(t, process.InterpreterNone, p.Command.Interpreter)
	assert.Equal(t, "echo a", p.Label())
}

func TestNew_Options(t *testing.T) {
	p, err := New(1, chainfile.ProgramSpec{
		Command:        "echo",
		Arguments:      []string{"<<a>>"},
		Interpreter:    ptr("sh"),
		StdoutStoredTo: ptr(" <<out>> "),
		StdoutStorageOptions: &chainfile.StdoutStorageOptions{
			WithoutNewlineCharacters: ptr(false),
		},
		FailureHandlingOptions: &chainfile.FailureHandlingOptions{
			ExitOnFailure: ptr(false),
			RemedyCommandLine: &chainfile.CommandSpec{
				Command:   "echo",
				Arguments: []string{"fix", "<<b>>"},
			},
		},
		ConcurrencyGroup: ptr(2),
		Retry:            RetryForever,
	})
	require.NoError(t, err)

	assert.Equal(t, process.InterpreterSh, p.Command.Interpreter)
	assert.Equal(t, "<<out>>", p.StdoutStoredTo)
	assert.False(t, p.TrimNewlines)
	assert.False(t, p.ExitOnFailure)
	assert.True(t, p.HasRemedy())
	assert.Equal(t, 2, *p.ConcurrencyGroup)
	assert.Equal(t, []string{"<<a>>", "fix", "<<b>>"}, p.Texts())
}

func TestNew_Errors(t *testing.T) {
	_, err := New(0, chainfile.ProgramSpec{Command: "echo", Retry: -2})
	require.ErrorIs(t, err, ErrInvalidRetry)

	_, err = New(0, chainfile.ProgramSpec{Command: "echo", Interpreter: ptr("powershell")})
	require.ErrorIs(t, err, process.ErrUnknownInterpreter)
}

func TestExecute_NotPrepared(t *testing.T) {
	p, err := New(0, chainfile.ProgramSpec{Command: "echo"})
	require.NoError(t, err)

	_, err = p.Execute(context.Background(), &fakeRunner{}, display.Discard)
	require.ErrorIs(t, err, ErrNotPrepared)
}

func TestExecute_NoRetry(t *testing.T) {
	p := newPrepared(t, chainfile.ProgramSpec{Command: "false"})
	r := &fakeRunner{failures: -1}
	rec := &display.Recorder{}

	out, err := p.Execute(context.Background(), r, rec)
	require.ErrorIs(t, err, errFake)
	assert.Equal(t, 1, out.Attempts)
	assert.Equal(t, 1, r.count())
	assert.Empty(t, rec.Filter(display.Warn))
}

func TestExecute_RetryExhausted(t *testing.T) {
	p := newPrepared(t, chainfile.ProgramSpec{Command: "false", Retry: 2})
	r := &fakeRunner{failures: -1}
	rec := &display.Recorder{}

	out, err := p.Execute(context.Background(), r, rec)
	require.ErrorIs(t, err, errFake)
	assert.Equal(t, 3, out.Attempts)
	assert.Equal(t, 3, r.count())
	assert.Equal(t, []string{
		"Retrying program: false, attempt: 2 of 3",
		"Retrying program: false, attempt: 3 of 3",
	}, rec.Filter(display.Warn))
}

func TestExecute_RetrySucceeds(t *testing.T) {
	p := newPrepared(t, chainfile.ProgramSpec{Command: "flaky", Retry: 5})
	r := &fakeRunner{failures: 2, stdout: "ok\n"}

	out, err := p.Execute(context.Background(), r, display.Discard)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Attempts)
	assert.Equal(t, "ok", out.Output)
}

func TestExecute_RetryForever(t *testing.T) {
	p := newPrepared(t, chainfile.ProgramSpec{Command: "flaky", Retry: RetryForever})
	r := &fakeRunner{failures: 7, stdout: "done"}
	rec := &display.Recorder{}

	out, err := p.Execute(context.Background(), r, rec)
	require.NoError(t, err)
	assert.Equal(t, 8, out.Attempts)
	assert.Len(t, rec.Filter(display.Warn), 7)
	assert.Equal(t, "Retrying program: flaky, attempt: 2", rec.Filter(display.Warn)[0])
}

func TestExecute_RetryForeverStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := newPrepared(t, chainfile.ProgramSpec{Command: "false", Retry: RetryForever})
	r := &fakeRunner{failures: -1, cancel: cancel, cancelAt: 4}

	out, err := p.Execute(ctx, r, display.Discard)
	require.ErrorIs(t, err, errFake)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 4, out.Attempts)
}

func TestExecute_Output(t *testing.T) {
	tests := []struct {
		name   string
		trim   *bool
		stdout string
		want   string
	}{
		{name: "default trims", stdout: "\nhello\n\n", want: "hello"},
		{name: "crlf trimmed", trim: ptr(true), stdout: "hello\r\n", want: "hello"},
		{name: "inner newlines kept", trim: ptr(true), stdout: "a\nb\n", want: "a\nb"},
		{name: "verbatim", trim: ptr(false), stdout: "\nhello\n", want: "\nhello\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec := chainfile.ProgramSpec{Command: "echo"}
			if tc.trim != nil {
				spec.StdoutStorageOptions = &chainfile.StdoutStorageOptions{WithoutNewlineCharacters: tc.trim}
			}

			p := newPrepared(t, spec)

			out, err := p.Execute(context.Background(), &fakeRunner{stdout: tc.stdout}, display.Discard)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out.Output)
		})
	}
}

func TestPrepare_FunctionsThenInject(t *testing.T) {
	p, err := New(0, chainfile.ProgramSpec{
		Command:   "echo",
		Arguments: []string{"upper('x')", "<<name>>", "plain"},
		FailureHandlingOptions: &chainfile.FailureHandlingOptions{
			RemedyCommandLine: &chainfile.CommandSpec{Command: "echo", Arguments: []string{"<<name>>"}},
		},
	})
	require.NoError(t, err)

	table := function.Table{
		"upper": func(_ context.Context, params []string) (string, error) {
			return strings.ToUpper(params[0]), nil
		},
	}
	inject := func(args []string) []string {
		out := make([]string, len(args))
		for i, a := range args {
			out[i] = strings.ReplaceAll(a, "<<name>>", "bob")
		}

		return out
	}
	rec := &display.Recorder{}

	require.NoError(t, p.Prepare(context.Background(), table, rec, inject))
	assert.Equal(t, "echo X bob plain", p.CommandLine())
	assert.Equal(t, []string{"upper('x')", "<<name>>", "plain"}, p.Command.Args, "declared command is untouched")
	assert.Len(t, rec.Filter(display.Logging), 2)

	r := &fakeRunner{}
	_, err = p.Execute(context.Background(), r, display.Discard)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "bob", "plain"}, r.calls[0].Args)

	require.NoError(t, p.RunRemedy(context.Background(), r, display.Discard))
	assert.Equal(t, []string{"bob"}, r.calls[1].Args)
}

func TestPrepare_FunctionError(t *testing.T) {
	p, err := New(0, chainfile.ProgramSpec{Command: "echo", Arguments: []string{"missing()"}})
	require.NoError(t, err)

	err = p.Prepare(context.Background(), function.Table{}, display.Discard, noInject)

	var evalErr *function.EvalError
	require.ErrorAs(t, err, &evalErr)
	require.ErrorIs(t, err, function.ErrUnknownFunction)
}

func TestRunRemedy(t *testing.T) {
	t.Run("none configured", func(t *testing.T) {
		p := newPrepared(t, chainfile.ProgramSpec{Command: "false"})
		r := &fakeRunner{}

		require.NoError(t, p.RunRemedy(context.Background(), r, display.Discard))
		assert.Zero(t, r.count())
	})

	t.Run("failure", func(t *testing.T) {
		p := newPrepared(t, chainfile.ProgramSpec{
			Command: "false",
			FailureHandlingOptions: &chainfile.FailureHandlingOptions{
				RemedyCommandLine: &chainfile.CommandSpec{Command: "fix"},
			},
		})
		rec := &display.Recorder{}

		err := p.RunRemedy(context.Background(), &fakeRunner{failures: -1}, rec)

		var remedyErr *RemedyError
		require.ErrorAs(t, err, &remedyErr)
		assert.Equal(t, "fix", remedyErr.CommandLine)
		require.ErrorIs(t, err, errFake)
		assert.Equal(t, []string{"Remedy command is set. Try executing: fix"}, rec.Filter(display.Logging))
	})
}
