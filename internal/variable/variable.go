// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package variable

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// OpenMarker starts a placeholder.
	OpenMarker = "<<"
	// CloseMarker ends a placeholder.
	CloseMarker = ">>"
	// QualifierOnProgramExecution binds a placeholder to the program that contains it.
	QualifierOnProgramExecution = "on_program_execution"

	qualifierSeparator = ":"
)

var tokenPattern = regexp.MustCompile(`<<([^<>]+)>>`)

// Variable is a named value referenced from program arguments.
type Variable struct {
	Name        string
	RawToken    string // placeholder text as written, e.g. <<branch:on_program_execution>>
	DisplayName string
	Value       *string
	Binding     BindingTime
}

// New creates an unset Variable.
func New(name, rawToken string, binding BindingTime) Variable {
	return Variable{
		Name:        name,
		RawToken:    rawToken,
		DisplayName: DisplayName(name),
		Binding:     binding,
	}
}

// HasValue reports whether the variable has been given a value.
func (v Variable) HasValue() bool {
	return v.Value != nil
}

// DisplayName turns an identifier such as release_tag into the label "Release Tag".
func DisplayName(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}

		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}

	return strings.Join(words, " ")
}

// ParseReferences returns every placeholder found in text, in order.
// <<name>> binds at chain startup and <<name:on_program_execution>> binds at programIndex.
// The qualifier is case-insensitive; an unrecognised qualifier falls back to chain startup.
func ParseReferences(text string, programIndex int) []Variable {
	matches := tokenPattern.FindAllStringSubmatch(text, -1)
	vars := make([]Variable, 0, len(matches))

	for _, m := range matches {
		name, binding := parseToken(m[1], programIndex)
		if name == "" {
			continue
		}

		vars = append(vars, New(name, m[0], binding))
	}

	return vars
}

func parseToken(inner string, programIndex int) (string, BindingTime) {
	name, qualifier, found := strings.Cut(inner, qualifierSeparator)
	name = strings.TrimSpace(name)

	if found && strings.EqualFold(strings.TrimSpace(qualifier), QualifierOnProgramExecution) {
		return name, AtProgram(programIndex)
	}

	return name, Startup()
}

// ParseAwait builds the Await variable declared by program programIndex.
// The token is normally a bare name; placeholder markers around it are tolerated.
func ParseAwait(token string, programIndex int) Variable {
	name := strings.TrimSpace(token)
	name = strings.TrimPrefix(name, OpenMarker)
	name = strings.TrimSuffix(name, CloseMarker)
	name = strings.TrimSpace(name)

	return New(name, OpenMarker+name+CloseMarker, AwaitOutput(programIndex))
}
