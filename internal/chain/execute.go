// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package chain

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/matt-FFFFFF/cchain/internal/ctxlog"
	"github.com/matt-FFFFFF/cchain/internal/display"
	"github.com/matt-FFFFFF/cchain/internal/process"
	"github.com/matt-FFFFFF/cchain/internal/program"
	"github.com/matt-FFFFFF/cchain/internal/runbatch"
	"github.com/matt-FFFFFF/cchain/internal/variable"
)

// Summary is the outcome of Execute.
type Summary struct {
	FailedCount int
	Results     runbatch.Results // one per program, in chain order
}

// Write prints one status line per program followed by the failure count.
func (s Summary) Write(w io.Writer) error {
	return s.Results.Write(w) //nolint:wrapcheck
}

// Execute runs the chain batch by batch.
//
// A failed program is counted. Its remedy, if any, runs once the batch has finished. The chain
// stops after the current batch when a failed program has exit_on_failure set, when a remedy
// fails, or when the context is done. Siblings of a failed program are never interrupted.
// Every early stop is returned as an *AbortedError together with the summary so far.
func (c *Chain) Execute(ctx context.Context) (Summary, error) {
	c.failedCount = 0
	results := c.newResults()
	summary := func() Summary {
		return Summary{FailedCount: c.failedCount, Results: results}
	}

	if err := c.registry.ResolveStartup(ctx, c.prompter); err != nil {
		return summary(), NewAbortedError(err, c.failedCount)
	}

	for _, b := range c.batches {
		if err := ctx.Err(); err != nil {
			return summary(), NewAbortedError(err, c.failedCount)
		}

		bctx := ctxlog.New(ctx, ctxlog.Logger(ctx).With("batch", b.String()))
		ctxlog.Debug(bctx, "batch starting")

		if err := c.prepare(bctx, b); err != nil {
			return summary(), NewAbortedError(err, c.failedCount)
		}

		reports := runbatch.Run(bctx, b.Members, func(ctx context.Context, i int) (program.Outcome, error) {
			p := c.programs[i]
			c.emitter.Emit(ctx, display.Logging, fmt.Sprintf("Executing program [%d]: %s", i, p.CommandLine()))

			return p.Execute(ctx, c.runner, c.emitter)
		})

		ctxlog.Debug(bctx, "batch drained")

		if err := c.settle(bctx, reports, results); err != nil {
			return summary(), NewAbortedError(err, c.failedCount)
		}
	}

	return summary(), nil
}

func (c *Chain) newResults() runbatch.Results {
	results := make(runbatch.Results, len(c.programs))
	for i, p := range c.programs {
		results[i] = &runbatch.Result{Index: i, Label: p.Label(), Status: runbatch.ResultStatusSkipped}
	}

	return results
}

// prepare resolves step variables, evaluates functions and injects values for every member,
// in program order, before any of them starts.
func (c *Chain) prepare(ctx context.Context, b runbatch.Batch) error {
	for _, i := range b.Members {
		p := c.programs[i]

		if err := c.registry.ResolveForProgram(ctx, i, p.Texts(), c.prompter); err != nil {
			return fmt.Errorf("program %d: %w", i, err)
		}

		if err := p.Prepare(ctx, c.functions, c.emitter, c.registry.Inject); err != nil {
			return fmt.Errorf("program %d: %w", i, err)
		}
	}

	return nil
}

// settle applies the outcomes of a drained batch in program order. It returns the error that
// stops the chain, if any.
func (c *Chain) settle(ctx context.Context, reports []runbatch.Report[program.Outcome], results runbatch.Results) error {
	var abortErr, remedyErr error

	for _, rep := range reports {
		p := c.programs[rep.Index]
		res := results[rep.Index]
		res.Label = p.CommandLine()
		res.Attempts = rep.Value.Attempts

		if rep.Err == nil {
			res.Status = runbatch.ResultStatusSuccess

			if p.StdoutStoredTo != "" {
				c.bind(ctx, p, rep.Value.Output)
			}

			continue
		}

		c.failedCount++
		res.Status = runbatch.ResultStatusError
		res.Error = rep.Err

		var exitErr *process.ExitError
		if errors.As(rep.Err, &exitErr) {
			res.StdErr = []byte(exitErr.Stderr)
		}

		c.emitter.Emit(ctx, display.Error, fmt.Sprintf("Program [%d] failed: %v", rep.Index, rep.Err))

		if err := p.RunRemedy(ctx, c.runner, c.emitter); err != nil {
			c.emitter.Emit(ctx, display.Error, err.Error())

			if remedyErr == nil {
				remedyErr = err
			}
		}

		if p.ExitOnFailure && abortErr == nil {
			abortErr = rep.Err
		}
	}

	return errors.Join(abortErr, remedyErr)
}

func (c *Chain) bind(ctx context.Context, p *program.Program, output string) {
	name := variable.ParseAwait(p.StdoutStoredTo, p.Index).Name
	if err := c.registry.BindAwait(name, output); err != nil {
		ctxlog.Warn(ctx, "cannot store program output", "program", p.Index, "error", err)
		return
	}

	ctxlog.Debug(ctx, "program output stored", "program", p.Index, "variable", name)
}
