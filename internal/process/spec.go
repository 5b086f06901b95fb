// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package process

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
)

// ErrUnknownInterpreter is returned when an interpreter name is not recognised.
var ErrUnknownInterpreter = errors.New("unknown interpreter")

const shell = "sh"

// Interpreter selects how a command line is launched.
type Interpreter int

const (
	// InterpreterNone executes the command directly with an argument vector.
	InterpreterNone Interpreter = iota
	// InterpreterSh joins command and arguments with spaces and passes the result to `sh -c`.
	InterpreterSh
)

// ParseInterpreter converts the chain file representation of an interpreter.
// The empty string means no interpreter.
func ParseInterpreter(s string) (Interpreter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return InterpreterNone, nil
	case shell:
		return InterpreterSh, nil
	default:
		return InterpreterNone, fmt.Errorf("%w: %q", ErrUnknownInterpreter, s)
	}
}

// String implements fmt.Stringer.
func (i Interpreter) String() string {
	if i == InterpreterSh {
		return shell
	}

	return ""
}

// Spec describes one process invocation.
type Spec struct {
	Command     string
	Args        []string
	Interpreter Interpreter
	Env         map[string]string // added to, and overriding, the inherited environment
	Dir         string            // working directory, empty for the current one
}

// CommandLine returns the command and its arguments joined by spaces.
// This is exactly the string handed to the shell when Interpreter is InterpreterSh.
func (s Spec) CommandLine() string {
	return strings.Join(append([]string{s.Command}, s.Args...), " ")
}

// Clone returns a deep copy, so arguments can be rewritten without touching the original.
func (s Spec) Clone() Spec {
	c := s
	c.Args = slices.Clone(s.Args)
	c.Env = maps.Clone(s.Env)

	return c
}

// resolve returns the executable path and argument vector.
func (s Spec) resolve() (string, []string, error) {
	if s.Interpreter == InterpreterSh {
		path, err := exec.LookPath(shell)
		if err != nil {
			return "", nil, err //nolint:wrapcheck
		}

		return path, []string{shell, "-c", s.CommandLine()}, nil
	}

	cmd := s.Command
	if strings.ContainsRune(cmd, filepath.Separator) && !filepath.IsAbs(cmd) && s.Dir != "" {
		cmd = filepath.Join(s.Dir, cmd)
	}

	path, err := exec.LookPath(cmd)
	if err != nil && !errors.Is(err, exec.ErrDot) {
		return "", nil, err //nolint:wrapcheck
	}

	return path, append([]string{s.Command}, s.Args...), nil
}

// Available reports whether the executable of s can be found.
// Placeholders in the command itself cannot be checked and are reported as available.
func (s Spec) Available() bool {
	if strings.Contains(s.Command, "<<") {
		return true
	}

	_, _, err := s.resolve()

	return err == nil
}

// environ returns the inherited environment followed by the overrides in key order.
func (s Spec) environ() []string {
	env := os.Environ()

	for _, k := range slices.Sorted(maps.Keys(s.Env)) {
		env = append(env, k+"="+s.Env[k])
	}

	return env
}
