// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"io"
	"os"
	"slices"
)

// ResultStatus is the final state of a program.
type ResultStatus int

const (
	// ResultStatusSuccess means the program eventually succeeded.
	ResultStatusSuccess ResultStatus = iota
	// ResultStatusError means every attempt failed.
	ResultStatusError
	// ResultStatusSkipped means the chain was aborted before the program ran.
	ResultStatusSkipped
)

// String implements fmt.Stringer.
func (s ResultStatus) String() string {
	switch s {
	case ResultStatusSuccess:
		return "success"
	case ResultStatusError:
		return "error"
	case ResultStatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result is the outcome of one program.
type Result struct {
	Index    int          // position in the chain
	Label    string       // command line as declared
	Status   ResultStatus // final state
	Attempts int          // number of times the command ran
	Error    error        // last error, if any
	StdErr   []byte       // error output of the last failed attempt
}

// Results is the outcome of a chain in program order.
type Results []*Result

// HasError reports whether any program failed.
func (r Results) HasError() bool {
	return slices.ContainsFunc(r, func(v *Result) bool {
		return v.Status == ResultStatusError
	})
}

// FailedCount returns the number of programs that failed.
func (r Results) FailedCount() int {
	n := 0

	for v := range slices.Values(r) {
		if v.Status == ResultStatusError {
			n++
		}
	}

	return n
}

// Print outputs the results to stdout with default options.
func (r Results) Print() error {
	return WriteResults(os.Stdout, r, nil)
}

// Write outputs the results to the specified writer with default options.
func (r Results) Write(w io.Writer) error {
	return WriteResults(w, r, nil)
}

// WriteWithOptions outputs the results to the specified writer with the specified options.
func (r Results) WriteWithOptions(w io.Writer, options *OutputOptions) error {
	return WriteResults(w, r, options)
}
