// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package chain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/cchain/internal/variable"
)

var (
	// ErrAwaitInBatch is reported when a program consumes the output of a program in its own concurrent batch.
	ErrAwaitInBatch = errors.New("variable is produced by a program of the same concurrent batch")
	// ErrNotPresettable is returned when a preset value targets a variable that is not bound at chain startup.
	ErrNotPresettable = errors.New("only chain startup variables can be preset")
)

// LoadError is returned when a chain file could not be read, decoded or turned into programs.
type LoadError struct {
	Path string
	Err  error
}

// NewLoadError creates a LoadError.
func NewLoadError(path string, err error) *LoadError {
	return &LoadError{Path: path, Err: err}
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot load chain %s: %v", e.Path, e.Err)
}

// Unwrap returns the cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// AggregateError holds every violation found by ValidateSyntax.
type AggregateError struct {
	Violations []variable.Violation
	merr       *multierror.Error
}

// NewAggregateError creates an AggregateError from violations.
func NewAggregateError(violations []variable.Violation) *AggregateError {
	merr := &multierror.Error{}
	for _, v := range violations {
		merr = multierror.Append(merr, v)
	}

	merr.ErrorFormat = formatViolations

	return &AggregateError{Violations: violations, merr: merr}
}

func formatViolations(errs []error) string {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "%d variable violation(s) found:", len(errs))

	for _, err := range errs {
		sb.WriteString("\n  * ")
		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Error implements the error interface.
func (e *AggregateError) Error() string {
	return e.merr.Error()
}

// Unwrap returns every violation.
func (e *AggregateError) Unwrap() []error {
	return e.merr.WrappedErrors()
}

// AbortedError is returned by Execute when the chain stopped before its last program.
type AbortedError struct {
	Err         error
	FailedCount int
}

// NewAbortedError creates an AbortedError.
func NewAbortedError(err error, failed int) *AbortedError {
	return &AbortedError{Err: err, FailedCount: failed}
}

// Error implements the error interface.
func (e *AbortedError) Error() string {
	return fmt.Sprintf("chain aborted with %d failed program(s): %v", e.FailedCount, e.Err)
}

// Unwrap returns the cause.
func (e *AbortedError) Unwrap() error {
	return e.Err
}
