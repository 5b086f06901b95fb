// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package program is a single step of a chain: a command line plus its retry policy,
// output storage and failure handling.
package program

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/matt-FFFFFF/cchain/internal/chainfile"
	"github.com/matt-FFFFFF/cchain/internal/ctxlog"
	"github.com/matt-FFFFFF/cchain/internal/display"
	"github.com/matt-FFFFFF/cchain/internal/function"
	"github.com/matt-FFFFFF/cchain/internal/process"
)

// RetryForever makes Execute retry until the command succeeds or the context is done.
const RetryForever = chainfile.RetryForever

var (
	// ErrInvalidRetry is returned for a retry policy below RetryForever.
	ErrInvalidRetry = chainfile.ErrInvalidRetry
	// ErrNotPrepared is returned when Execute is called before Prepare.
	ErrNotPrepared = errors.New("program has not been prepared")
)

// Program is one step of a chain.
type Program struct {
	Index            int
	Command          process.Spec  // as declared, with placeholders
	Remedy           *process.Spec // as declared, nil if none
	StdoutStoredTo   string        // empty if the output is not stored
	TrimNewlines     bool
	ExitOnFailure    bool
	ConcurrencyGroup *int
	Retry            int

	run       *process.Spec
	remedyRun *process.Spec
}

// Outcome is the result of a successful Execute.
type Outcome struct {
	Output   string // captured stdout after post-processing
	Attempts int
}

// New builds the program at position index from its chain file form.
func New(index int, spec chainfile.ProgramSpec) (*Program, error) {
	if spec.Retry < RetryForever {
		return nil, fmt.Errorf("program %d: %w: got %d", index, ErrInvalidRetry, spec.Retry)
	}

	cmd, err := commandSpec(spec.CommandLine())
	if err != nil {
		return nil, fmt.Errorf("program %d: %w", index, err)
	}

	p := &Program{
		Index:            index,
		Command:          cmd,
		TrimNewlines:     spec.TrimNewlines(),
		ExitOnFailure:    spec.ExitOnFailure(),
		ConcurrencyGroup: spec.ConcurrencyGroup,
		Retry:            spec.Retry,
	}

	if spec.StdoutStoredTo != nil {
		p.StdoutStoredTo = strings.TrimSpace(*spec.StdoutStoredTo)
	}

	if r := spec.Remedy(); r != nil {
		remedy, err := commandSpec(*r)
		if err != nil {
			return nil, fmt.Errorf("program %d remedy: %w", index, err)
		}

		p.Remedy = &remedy
	}

	return p, nil
}

func commandSpec(c chainfile.CommandSpec) (process.Spec, error) {
	var interp string
	if c.Interpreter != nil {
		interp = *c.Interpreter
	}

	i, err := process.ParseInterpreter(interp)
	if err != nil {
		return process.Spec{}, err //nolint:wrapcheck
	}

	s := process.Spec{
		Command:     c.Command,
		Args:        slices.Clone(c.Arguments),
		Interpreter: i,
		Env:         c.EnvironmentVariablesOverride,
	}

	if c.WorkingDirectory != nil {
		s.Dir = *c.WorkingDirectory
	}

	return s, nil
}

// Label is the declared command line, used to name the program in messages.
func (p *Program) Label() string {
	return p.Command.CommandLine()
}

// Texts returns every text of the program that may hold placeholders: the arguments of the
// command followed by the arguments of the remedy.
func (p *Program) Texts() []string {
	texts := slices.Clone(p.Command.Args)
	if p.Remedy != nil {
		texts = append(texts, p.Remedy.Args...)
	}

	return texts
}

// Prepare produces the command lines that will run. Function calls in the command arguments
// are evaluated first, then inject substitutes variable values into command and remedy arguments.
// A function failure is returned as *function.EvalError.
func (p *Program) Prepare(
	ctx context.Context,
	functions function.Table,
	emitter display.Emitter,
	inject func([]string) []string,
) error {
	args, err := p.evaluateFunctions(ctx, functions, emitter)
	if err != nil {
		return err
	}

	run := p.Command.Clone()
	run.Args = inject(args)
	p.run = &run

	if p.Remedy != nil {
		remedy := p.Remedy.Clone()
		remedy.Args = inject(remedy.Args)
		p.remedyRun = &remedy
	}

	return nil
}

func (p *Program) evaluateFunctions(ctx context.Context, table function.Table, emitter display.Emitter) ([]string, error) {
	args := slices.Clone(p.Command.Args)

	for i, a := range args {
		call, ok := function.Parse(a)
		if !ok {
			continue
		}

		emitter.Emit(ctx, display.Logging, fmt.Sprintf(
			"Detected function, %s, when executing command: %s, executing the function...", call.Name, p.Label()))

		v, err := table.Eval(ctx, call)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		args[i] = v

		emitter.Emit(ctx, display.Logging, fmt.Sprintf("Function, %s, executed successfully", call.Name))
	}

	return args, nil
}

// CommandLine returns the prepared command line, or the declared one before Prepare.
func (p *Program) CommandLine() string {
	if p.run != nil {
		return p.run.CommandLine()
	}

	return p.Label()
}

// Execute runs the prepared command, retrying according to the retry policy.
//
// With Retry 0 the first failure is returned without any retry message. With Retry n > 0 the
// command runs at most n+1 times, with a warning before each retry. With RetryForever it runs
// until it succeeds; only a done context ends it early.
func (p *Program) Execute(ctx context.Context, runner process.Runner, emitter display.Emitter) (Outcome, error) {
	if p.run == nil {
		return Outcome{}, ErrNotPrepared
	}

	logger := ctxlog.Logger(ctx).With("program", p.Index, "retry", p.Retry)
	runCtx := ctxlog.WithDepth(ctx)
	attempts := 0

	for {
		attempts++

		logger.DebugContext(ctx, "attempt starting", "attempt", attempts)

		out, err := runner.Run(runCtx, *p.run)
		if err == nil {
			logger.DebugContext(ctx, "attempt succeeded", "attempt", attempts)

			return Outcome{Output: p.postProcess(out.Stdout), Attempts: attempts}, nil
		}

		logger.DebugContext(ctx, "attempt failed", "attempt", attempts, "error", err)

		if p.Retry == 0 {
			return Outcome{Attempts: attempts}, err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return Outcome{Attempts: attempts}, errors.Join(err, ctxErr)
		}

		if p.Retry != RetryForever && attempts > p.Retry {
			return Outcome{Attempts: attempts}, err
		}

		emitter.Emit(ctx, display.Warn, p.retryMessage(attempts))
	}
}

func (p *Program) retryMessage(failed int) string {
	if p.Retry == RetryForever {
		return fmt.Sprintf("Retrying program: %s, attempt: %d", p.CommandLine(), failed+1)
	}

	return fmt.Sprintf("Retrying program: %s, attempt: %d of %d", p.CommandLine(), failed+1, p.Retry+1)
}

func (p *Program) postProcess(stdout string) string {
	if !p.TrimNewlines {
		return stdout
	}

	return strings.Trim(stdout, "\r\n")
}

// HasRemedy reports whether a remedy command is configured.
func (p *Program) HasRemedy() bool {
	return p.Remedy != nil
}

// RunRemedy runs the remedy command once, if configured. A failure is returned as *RemedyError.
func (p *Program) RunRemedy(ctx context.Context, runner process.Runner, emitter display.Emitter) error {
	if p.Remedy == nil {
		return nil
	}

	remedy := p.remedyRun
	if remedy == nil {
		remedy = p.Remedy
	}

	emitter.Emit(ctx, display.Logging, "Remedy command is set. Try executing: "+remedy.CommandLine())

	if _, err := runner.Run(ctxlog.WithDepth(ctx), *remedy); err != nil {
		return NewRemedyError(p.Index, remedy.CommandLine(), err)
	}

	return nil
}

// RemedyError is returned when the remedy command of a failed program fails itself.
type RemedyError struct {
	ProgramIndex int
	CommandLine  string
	Err          error
}

// NewRemedyError creates a RemedyError.
func NewRemedyError(index int, commandLine string, err error) *RemedyError {
	return &RemedyError{ProgramIndex: index, CommandLine: commandLine, Err: err}
}

// Error implements the error interface.
func (e *RemedyError) Error() string {
	return fmt.Sprintf("remedy `%s` of program %d failed: %v", e.CommandLine, e.ProgramIndex, e.Err)
}

// Unwrap returns the cause.
func (e *RemedyError) Unwrap() error {
	return e.Err
}
