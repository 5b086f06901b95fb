// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package process

import (
	"errors"
	"fmt"
)

var (
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrCancelled is returned when the process was killed because its context was done.
	ErrCancelled = errors.New("process killed, context done")
	// ErrDuplicateSignalReceived is returned when a duplicate signal is received, forcing process termination.
	ErrDuplicateSignalReceived = errors.New("duplicate signal received, process forcefully terminated")
)

// SpawnError is returned when the executable could not be launched.
type SpawnError struct {
	Command string
	Err     error
}

// NewSpawnError creates a SpawnError.
func NewSpawnError(command string, err error) *SpawnError {
	return &SpawnError{Command: command, Err: err}
}

// Error implements the error interface.
func (e *SpawnError) Error() string {
	return fmt.Sprintf("could not start process %q: %v", e.Command, e.Err)
}

// Unwrap returns the cause.
func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ExitError is returned when a process finished with a non-zero status.
// It carries whatever output was captured before the process exited.
type ExitError struct {
	CommandLine string
	Status      int
	Stdout      string
	Stderr      string
	Err         error // set when the process was killed rather than exiting on its own
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command `%s` exited with status %d", e.CommandLine, e.Status)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap returns the kill reason, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
