// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package chainfile

import (
	"errors"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

type hclFile struct {
	Programs []*hclProgram `hcl:"program,block"`
}

type hclCommand struct {
	Command                      string            `hcl:"command"`
	Arguments                    []string          `hcl:"arguments,optional"`
	Interpreter                  *string           `hcl:"interpreter,optional"`
	EnvironmentVariablesOverride map[string]string `hcl:"environment_variables_override,optional"`
	WorkingDirectory             *string           `hcl:"working_directory,optional"`
}

type hclStdoutStorageOptions struct {
	WithoutNewlineCharacters *bool `hcl:"without_newline_characters,optional"`
}

type hclFailureHandlingOptions struct {
	ExitOnFailure     *bool       `hcl:"exit_on_failure,optional"`
	RemedyCommandLine *hclCommand `hcl:"remedy_command_line,block"`
}

type hclProgram struct {
	Command                      string                     `hcl:"command"`
	Arguments                    []string                   `hcl:"arguments,optional"`
	Interpreter                  *string                    `hcl:"interpreter,optional"`
	EnvironmentVariablesOverride map[string]string          `hcl:"environment_variables_override,optional"`
	WorkingDirectory             *string                    `hcl:"working_directory,optional"`
	StdoutStoredTo               *string                    `hcl:"stdout_stored_to,optional"`
	ConcurrencyGroup             *int                       `hcl:"concurrency_group,optional"`
	Retry                        *int                       `hcl:"retry,optional"`
	StdoutStorageOptions         *hclStdoutStorageOptions   `hcl:"stdout_storage_options,block"`
	FailureHandlingOptions       *hclFailureHandlingOptions `hcl:"failure_handling_options,block"`
}

// DecodeHCL decodes a sequence of program blocks.
// Expressions can read the process environment through the env object, e.g. "${env.HOME}/src".
func DecodeHCL(data []byte, filename string) ([]ProgramSpec, error) {
	file, diags := hclsyntax.ParseConfig(data, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, errors.Join(ErrDecode, multierror.Append(nil, diags.Errs()...))
	}

	var f hclFile

	if diags := gohcl.DecodeBody(file.Body, EvalContext(), &f); diags.HasErrors() {
		return nil, errors.Join(ErrDecode, multierror.Append(nil, diags.Errs()...))
	}

	specs := make([]ProgramSpec, len(f.Programs))
	for i, p := range f.Programs {
		specs[i] = p.toSpec()
	}

	return specs, nil
}

// EvalContext returns the HCL evaluation context of chain files.
func EvalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" || !utf8.ValidString(k) || !utf8.ValidString(v) {
			continue
		}

		env[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}

func (c *hclCommand) toSpec() *CommandSpec {
	if c == nil {
		return nil
	}

	return &CommandSpec{
		Command:                      c.Command,
		Arguments:                    c.Arguments,
		Interpreter:                  c.Interpreter,
		EnvironmentVariablesOverride: c.EnvironmentVariablesOverride,
		WorkingDirectory:             c.WorkingDirectory,
	}
}

func (p *hclProgram) toSpec() ProgramSpec {
	s := ProgramSpec{
		Command:                      p.Command,
		Arguments:                    p.Arguments,
		Interpreter:                  p.Interpreter,
		EnvironmentVariablesOverride: p.EnvironmentVariablesOverride,
		WorkingDirectory:             p.WorkingDirectory,
		StdoutStoredTo:               p.StdoutStoredTo,
		ConcurrencyGroup:             p.ConcurrencyGroup,
	}

	if p.Retry != nil {
		s.Retry = *p.Retry
	}

	if p.StdoutStorageOptions != nil {
		s.StdoutStorageOptions = &StdoutStorageOptions{
			WithoutNewlineCharacters: p.StdoutStorageOptions.WithoutNewlineCharacters,
		}
	}

	if p.FailureHandlingOptions != nil {
		s.FailureHandlingOptions = &FailureHandlingOptions{
			ExitOnFailure:     p.FailureHandlingOptions.ExitOnFailure,
			RemedyCommandLine: p.FailureHandlingOptions.RemedyCommandLine.toSpec(),
		}
	}

	return s
}
