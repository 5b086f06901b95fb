// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"fmt"
	"io"
	"strings"

	"github.com/matt-FFFFFF/cchain/internal/color"
)

// OutputOptions controls what is included in the output.
type OutputOptions struct {
	IncludeStdErr bool // Whether to include the error output of failed programs
	ShowSkipped   bool // Whether to list programs that never ran
}

// DefaultOutputOptions returns a default set of output options.
func DefaultOutputOptions() *OutputOptions {
	return &OutputOptions{
		IncludeStdErr: true,
		ShowSkipped:   true,
	}
}

// WriteResults writes one status line per program followed by the failure count.
func WriteResults(w io.Writer, results Results, options *OutputOptions) error {
	if options == nil {
		options = DefaultOutputOptions()
	}

	for _, r := range results {
		if r.Status == ResultStatusSkipped && !options.ShowSkipped {
			continue
		}

		if err := writeResult(w, r, options); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("%d of %d programs failed", results.FailedCount(), len(results))

	code := color.FgGreen
	if results.HasError() {
		code = color.FgRed
	}

	if _, err := fmt.Fprintln(w, color.Colorize(summary, color.Bold, code)); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	return nil
}

func writeResult(w io.Writer, r *Result, options *OutputOptions) error {
	var statusStr, label string

	name := r.Label
	if name == "" {
		name = "[unnamed]"
	}

	switch r.Status {
	case ResultStatusSkipped:
		statusStr = color.Colorize("~", color.FgYellow)
		label = color.Colorize(name, color.Bold, color.FgYellow)
	case ResultStatusError:
		statusStr = color.Colorize("✗", color.FgRed)
		label = color.Colorize(name, color.Bold, color.FgRed)
	case ResultStatusSuccess:
		statusStr = color.Colorize("✓", color.FgGreen)
		label = color.Colorize(name, color.Bold, color.FgGreen)
	default:
		statusStr = color.Colorize("?", color.FgWhite)
		label = name
	}

	sb := strings.Builder{}
	fmt.Fprintf(&sb, "%s [%d] %s", statusStr, r.Index, label)

	if r.Attempts > 1 {
		fmt.Fprintf(&sb, " (attempts: %d)", r.Attempts)
	}

	sb.WriteString("\n")

	if r.Error != nil {
		fmt.Fprintf(&sb, "  %s %s\n", color.Colorize("➜ Error:", color.FgRed), r.Error.Error())
	}

	if options.IncludeStdErr && r.Status == ResultStatusError && len(r.StdErr) > 0 {
		fmt.Fprintf(&sb, "  %s\n", color.Colorize("➜ Error Output:", color.FgHiRed))
		sb.WriteString(formatOutput(r.StdErr, "     "))
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}

	return nil
}

// formatOutput formats multi-line output with proper indentation.
func formatOutput(output []byte, indent string) string {
	sb := strings.Builder{}
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")
	sb.Grow(len(output) + len(lines)*len(indent))

	for _, line := range lines {
		if line == "" {
			sb.WriteString("\n")
			continue
		}

		sb.WriteString(indent)
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}
