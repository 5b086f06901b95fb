// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package chainfile

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/afero"
)

// ErrFileExists is returned when a template would overwrite an existing file.
var ErrFileExists = errors.New("file already exists")

// TemplateFileName returns cchain_<name>.json, or cchain_template.json for an empty name.
func TemplateFileName(name string) string {
	if name == "" {
		return "cchain_template.json"
	}

	return "cchain_" + name + ".json"
}

// Template returns an example chain showing the main options.
func Template() []ProgramSpec {
	sh := "sh"
	stored := "greeting"
	keepNewlines := false
	exitOnFailure := false
	group := 1

	return []ProgramSpec{
		{
			Command:                      "echo",
			Arguments:                    []string{"hello", "<<name>>"},
			Interpreter:                  &sh,
			EnvironmentVariablesOverride: map[string]string{"LC_ALL": "C"},
			StdoutStoredTo:               &stored,
			Retry:                        3,
		},
		{
			Command:   "echo",
			Arguments: []string{"<<greeting>>", "<<suffix:on_program_execution>>"},
			StdoutStorageOptions: &StdoutStorageOptions{
				WithoutNewlineCharacters: &keepNewlines,
			},
			FailureHandlingOptions: &FailureHandlingOptions{
				ExitOnFailure: &exitOnFailure,
				RemedyCommandLine: &CommandSpec{
					Command:   "echo",
					Arguments: []string{"remedy"},
				},
			},
			ConcurrencyGroup: &group,
			Retry:            0,
		},
	}
}

// WriteTemplate writes Template as JSON to TemplateFileName(name) and returns the file name.
// An existing file is never overwritten.
func WriteTemplate(name string) (string, error) {
	fs := FsFactory()
	filename := TemplateFileName(name)

	exists, err := afero.Exists(fs, filename)
	if err != nil {
		return "", fmt.Errorf("checking %s: %w", filename, err)
	}

	if exists {
		return "", fmt.Errorf("%w: %s", ErrFileExists, filename)
	}

	data, err := json.MarshalIndent(Template(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding template: %w", err)
	}

	if err := afero.WriteFile(fs, filename, append(data, '\n'), 0o644); err != nil { //nolint:gosec
		return "", fmt.Errorf("writing %s: %w", filename, err)
	}

	return filename, nil
}
