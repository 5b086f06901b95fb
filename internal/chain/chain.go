// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package chain

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/matt-FFFFFF/cchain/internal/chainfile"
	"github.com/matt-FFFFFF/cchain/internal/display"
	"github.com/matt-FFFFFF/cchain/internal/function"
	"github.com/matt-FFFFFF/cchain/internal/process"
	"github.com/matt-FFFFFF/cchain/internal/program"
	"github.com/matt-FFFFFF/cchain/internal/prompt"
	"github.com/matt-FFFFFF/cchain/internal/runbatch"
	"github.com/matt-FFFFFF/cchain/internal/variable"
)

// Chain is an ordered list of programs and the variables they share.
type Chain struct {
	programs []*program.Program
	registry *variable.Registry
	batches  []runbatch.Batch

	runner         process.Runner
	emitter        display.Emitter
	prompter       prompt.Prompter
	functions      function.Table
	extraFunctions function.Table
	values         map[string]string

	failedCount int
}

// Load reads the chain file at path and builds the chain. Every failure is a *LoadError.
func Load(path string, opts ...Option) (*Chain, error) {
	specs, err := chainfile.Load(path)
	if err != nil {
		return nil, NewLoadError(path, err)
	}

	c, err := FromSpec(specs, opts...)
	if err != nil {
		return nil, NewLoadError(path, err)
	}

	return c, nil
}

// LoadBytes builds a chain from chain file content already in memory.
// The format is chosen from the extension of name. Every failure is a *LoadError.
func LoadBytes(name string, data []byte, opts ...Option) (*Chain, error) {
	specs, err := chainfile.LoadBytes(name, data)
	if err != nil {
		return nil, NewLoadError(name, err)
	}

	c, err := FromSpec(specs, opts...)
	if err != nil {
		return nil, NewLoadError(name, err)
	}

	return c, nil
}

// FromSpec builds a chain from decoded program specs.
// Output variables are declared first so that they take precedence over plain references of
// the same name, then every placeholder of every program is registered.
func FromSpec(specs []chainfile.ProgramSpec, opts ...Option) (*Chain, error) {
	if err := chainfile.Validate(specs); err != nil {
		return nil, err //nolint:wrapcheck
	}

	c := &Chain{
		programs: make([]*program.Program, 0, len(specs)),
		registry: variable.NewRegistry(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.setDefaults()

	tags := make([]*int, 0, len(specs))

	for i, s := range specs {
		p, err := program.New(i, s)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		c.programs = append(c.programs, p)
		tags = append(tags, p.ConcurrencyGroup)
	}

	for _, p := range c.programs {
		if p.StdoutStoredTo != "" {
			c.registry.DeclareAwait(p.StdoutStoredTo, p.Index)
		}
	}

	for _, p := range c.programs {
		c.registry.Scan(p.Index, p.Texts()...)
	}

	c.batches = runbatch.Group(tags)

	if err := c.preset(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Chain) setDefaults() {
	if c.emitter == nil {
		c.emitter = display.NewConsole(os.Stdout)
	}

	if c.runner == nil {
		c.runner = process.NewOSRunner(c.emitter)
	}

	if c.prompter == nil {
		c.prompter = prompt.NewLiner()
	}

	c.functions = function.Builtins(c.prompter, c.runner).With(c.extraFunctions)
}

func (c *Chain) preset() error {
	for _, name := range slices.Sorted(maps.Keys(c.values)) {
		v, ok := c.registry.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %s", variable.ErrUnknownVariable, name)
		}

		if v.Binding.Kind != variable.OnChainStartup {
			return fmt.Errorf("%w: %s is bound %s", ErrNotPresettable, name, v.Binding)
		}

		if err := c.registry.Set(name, c.values[name]); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}

// Programs returns the programs in chain order.
func (c *Chain) Programs() []*program.Program {
	return slices.Clone(c.programs)
}

// Batches returns the execution batches in order.
func (c *Chain) Batches() []runbatch.Batch {
	return slices.Clone(c.batches)
}

// Variables returns the registered variables in registration order.
func (c *Chain) Variables() []variable.Variable {
	return c.registry.Variables()
}

// FailedCount returns the number of programs that failed during the last Execute.
func (c *Chain) FailedCount() int {
	return c.failedCount
}

// ValidateSyntax checks that every variable reference can have a value when its program runs.
// It returns every violation at once as an *AggregateError.
func (c *Chain) ValidateSyntax() error {
	texts := make([][]string, len(c.programs))
	for i, p := range c.programs {
		texts[i] = p.Texts()
	}

	violations := c.registry.Validate(texts)
	violations = append(violations, c.batchAwaitViolations()...)

	if len(violations) == 0 {
		return nil
	}

	return NewAggregateError(violations)
}

// batchAwaitViolations finds outputs consumed by a later member of the producer's own
// concurrent batch. Such a value is bound only once the batch has finished.
func (c *Chain) batchAwaitViolations() []variable.Violation {
	var violations []variable.Violation

	for _, b := range c.batches {
		if !b.Concurrent() {
			continue
		}

		producers := make(map[string]int)

		for _, i := range b.Members {
			if token := c.programs[i].StdoutStoredTo; token != "" {
				producers[variable.ParseAwait(token, i).Name] = i
			}
		}

		for _, j := range b.Members {
			for _, t := range c.programs[j].Texts() {
				for _, ref := range variable.ParseReferences(t, j) {
					if i, ok := producers[ref.Name]; ok && i < j {
						violations = append(violations, variable.Violation{
							Variable:     ref,
							ProgramIndex: j,
							Err:          fmt.Errorf("%w: produced by program %d", ErrAwaitInBatch, i),
						})
					}
				}
			}
		}
	}

	return violations
}

// MissingCommands lists the commands of programs and remedies that cannot be found on the PATH.
// Commands run through an interpreter are not checked.
func (c *Chain) MissingCommands() []string {
	var missing []string

	check := func(s process.Spec) {
		if s.Interpreter != process.InterpreterNone || slices.Contains(missing, s.Command) {
			return
		}

		if !s.Available() {
			missing = append(missing, s.Command)
		}
	}

	for _, p := range c.programs {
		check(p.Command)

		if p.Remedy != nil {
			check(*p.Remedy)
		}
	}

	return missing
}
