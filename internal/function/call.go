// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package function evaluates function calls written as program arguments.
//
// An argument whose whole text has the form name('first', 'second', ...) is a call.
// Parameters are single-quoted; a backslash escapes the next character.
// The call is evaluated against a Table and the argument is replaced by the result.
package function

import (
	"regexp"
	"strings"
)

var callPattern = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*\((.*)\)\s*$`)

// Call is a parsed function call.
type Call struct {
	Name string
	Args []string
}

// String renders the call back in argument syntax.
func (c *Call) String() string {
	quoted := make([]string, len(c.Args))
	for i, a := range c.Args {
		a = strings.ReplaceAll(a, `\`, `\\`)
		quoted[i] = "'" + strings.ReplaceAll(a, `'`, `\'`) + "'"
	}

	return c.Name + "(" + strings.Join(quoted, ", ") + ")"
}

// Parse parses argument as a function call.
// It reports false when the argument is not a call, in which case it is used verbatim.
func Parse(argument string) (*Call, bool) {
	m := callPattern.FindStringSubmatch(argument)
	if m == nil {
		return nil, false
	}

	args, ok := parseParams(m[2])
	if !ok {
		return nil, false
	}

	return &Call{Name: m[1], Args: args}, true
}

// parseParams lexes a comma separated list of single-quoted strings.
func parseParams(s string) ([]string, bool) {
	args := []string{}
	rest := strings.TrimSpace(s)

	if rest == "" {
		return args, true
	}

	for {
		if rest == "" || rest[0] != '\'' {
			return nil, false
		}

		var (
			sb     strings.Builder
			closed bool
			i      = 1
		)

	scan:
		for i < len(rest) {
			switch c := rest[i]; {
			case c == '\\' && i+1 < len(rest):
				sb.WriteByte(rest[i+1])
				i += 2
			case c == '\'':
				closed = true

				break scan
			default:
				sb.WriteByte(c)
				i++
			}
		}

		if !closed {
			return nil, false
		}

		args = append(args, sb.String())
		rest = strings.TrimSpace(rest[i+1:])

		if rest == "" {
			return args, true
		}

		if rest[0] != ',' {
			return nil, false
		}

		rest = strings.TrimSpace(rest[1:])
	}
}
