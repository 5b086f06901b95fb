// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package chainfile

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCommand is returned when a program or remedy has no command.
	ErrMissingCommand = errors.New("command is required")
	// ErrInvalidRetry is returned when retry is below -1.
	ErrInvalidRetry = errors.New("retry must be -1 (forever), 0 (never) or a positive number of retries")
	// ErrEmptyChain is returned when a chain file holds no programs.
	ErrEmptyChain = errors.New("chain has no programs")
)

// RetryForever makes a program retry until it succeeds.
const RetryForever = -1

// CommandSpec is a command line as written in a chain file.
type CommandSpec struct {
	Command                      string            `json:"command"                        yaml:"command"`
	Arguments                    []string          `json:"arguments"                      yaml:"arguments"`
	Interpreter                  *string           `json:"interpreter"                    yaml:"interpreter"`
	EnvironmentVariablesOverride map[string]string `json:"environment_variables_override" yaml:"environment_variables_override"`
	WorkingDirectory             *string           `json:"working_directory,omitempty"    yaml:"working_directory"`
}

// StdoutStorageOptions controls how captured output is stored to a variable.
type StdoutStorageOptions struct {
	// WithoutNewlineCharacters trims leading and trailing newlines, default true.
	WithoutNewlineCharacters *bool `json:"without_newline_characters" yaml:"without_newline_characters"`
}

// FailureHandlingOptions controls what happens once a program has failed for good.
type FailureHandlingOptions struct {
	// ExitOnFailure aborts the chain after the failing batch drains, default true.
	ExitOnFailure     *bool        `json:"exit_on_failure"     yaml:"exit_on_failure"`
	RemedyCommandLine *CommandSpec `json:"remedy_command_line" yaml:"remedy_command_line"`
}

// ProgramSpec is one program as written in a chain file.
type ProgramSpec struct {
	Command                      string                  `json:"command"                        yaml:"command"`
	Arguments                    []string                `json:"arguments"                      yaml:"arguments"`
	Interpreter                  *string                 `json:"interpreter"                    yaml:"interpreter"`
	EnvironmentVariablesOverride map[string]string       `json:"environment_variables_override" yaml:"environment_variables_override"`
	WorkingDirectory             *string                 `json:"working_directory,omitempty"    yaml:"working_directory"`
	StdoutStoredTo               *string                 `json:"stdout_stored_to"               yaml:"stdout_stored_to"`
	StdoutStorageOptions         *StdoutStorageOptions   `json:"stdout_storage_options"         yaml:"stdout_storage_options"`
	FailureHandlingOptions       *FailureHandlingOptions `json:"failure_handling_options"       yaml:"failure_handling_options"`
	ConcurrencyGroup             *int                    `json:"concurrency_group"              yaml:"concurrency_group"`
	Retry                        int                     `json:"retry"                          yaml:"retry"`
}

// CommandLine returns the command part of the program.
func (p ProgramSpec) CommandLine() CommandSpec {
	return CommandSpec{
		Command:                      p.Command,
		Arguments:                    p.Arguments,
		Interpreter:                  p.Interpreter,
		EnvironmentVariablesOverride: p.EnvironmentVariablesOverride,
		WorkingDirectory:             p.WorkingDirectory,
	}
}

// TrimNewlines reports the effective without_newline_characters option.
func (p ProgramSpec) TrimNewlines() bool {
	if p.StdoutStorageOptions == nil || p.StdoutStorageOptions.WithoutNewlineCharacters == nil {
		return true
	}

	return *p.StdoutStorageOptions.WithoutNewlineCharacters
}

// ExitOnFailure reports the effective exit_on_failure option.
func (p ProgramSpec) ExitOnFailure() bool {
	if p.FailureHandlingOptions == nil || p.FailureHandlingOptions.ExitOnFailure == nil {
		return true
	}

	return *p.FailureHandlingOptions.ExitOnFailure
}

// Remedy returns the remedy command, or nil.
func (p ProgramSpec) Remedy() *CommandSpec {
	if p.FailureHandlingOptions == nil {
		return nil
	}

	return p.FailureHandlingOptions.RemedyCommandLine
}

// Validate checks the fields that can be checked without looking at other programs.
func (p ProgramSpec) Validate() error {
	var errs []error

	if p.Command == "" {
		errs = append(errs, ErrMissingCommand)
	}

	if p.Retry < RetryForever {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidRetry, p.Retry))
	}

	if r := p.Remedy(); r != nil && r.Command == "" {
		errs = append(errs, fmt.Errorf("remedy_command_line: %w", ErrMissingCommand))
	}

	return errors.Join(errs...)
}

// Validate checks every program of a chain and reports all problems at once.
func Validate(specs []ProgramSpec) error {
	if len(specs) == 0 {
		return ErrEmptyChain
	}

	var errs []error

	for i, s := range specs {
		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("program %d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}
