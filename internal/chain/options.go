// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package chain

import (
	"maps"

	"github.com/matt-FFFFFF/cchain/internal/display"
	"github.com/matt-FFFFFF/cchain/internal/function"
	"github.com/matt-FFFFFF/cchain/internal/process"
	"github.com/matt-FFFFFF/cchain/internal/prompt"
)

// Option configures a Chain.
type Option func(*Chain)

// WithRunner sets the process runner. The default runs real processes, streaming output to the emitter.
func WithRunner(r process.Runner) Option {
	return func(c *Chain) {
		c.runner = r
	}
}

// WithEmitter sets the display sink. The default writes to stdout.
func WithEmitter(e display.Emitter) Option {
	return func(c *Chain) {
		c.emitter = e
	}
}

// WithPrompter sets where variable values are asked for. The default reads from the terminal.
func WithPrompter(p prompt.Prompter) Option {
	return func(c *Chain) {
		c.prompter = p
	}
}

// WithFunctions adds functions to the table used for argument function calls.
// They replace builtins of the same name.
func WithFunctions(t function.Table) Option {
	return func(c *Chain) {
		c.extraFunctions = t
	}
}

// WithValues presets chain startup variables, which are then not prompted for.
func WithValues(values map[string]string) Option {
	return func(c *Chain) {
		c.values = maps.Clone(values)
	}
}
