// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package function

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownFunction is returned when a call names a function missing from the table.
var ErrUnknownFunction = errors.New("unknown function")

// Func computes the value of a call from its parameters.
type Func func(ctx context.Context, params []string) (string, error)

// Table maps function names to implementations.
type Table map[string]Func

// EvalError is returned when a call could not be evaluated. It is fatal to the chain.
type EvalError struct {
	Name string
	Err  error
}

// NewEvalError creates an EvalError.
func NewEvalError(name string, err error) *EvalError {
	return &EvalError{Name: name, Err: err}
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	return fmt.Sprintf("function %s failed: %v", e.Name, e.Err)
}

// Unwrap returns the cause.
func (e *EvalError) Unwrap() error {
	return e.Err
}

// Eval evaluates c. Every failure is returned as *EvalError.
func (t Table) Eval(ctx context.Context, c *Call) (string, error) {
	fn, ok := t[c.Name]
	if !ok || fn == nil {
		return "", NewEvalError(c.Name, ErrUnknownFunction)
	}

	out, err := fn(ctx, c.Args)
	if err != nil {
		return "", NewEvalError(c.Name, err)
	}

	return out, nil
}

// With returns a copy of t with the extra functions added, replacing any of the same name.
func (t Table) With(extra Table) Table {
	out := make(Table, len(t)+len(extra))

	for k, v := range t {
		out[k] = v
	}

	for k, v := range extra {
		out[k] = v
	}

	return out
}
