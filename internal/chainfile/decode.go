// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package chainfile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

const hclExt = ".hcl"

var (
	// ErrRead is returned when a chain file cannot be read.
	ErrRead = errors.New("failed to read chain file")
	// ErrDecode is returned when a chain file is malformed.
	ErrDecode = errors.New("failed to decode chain file")
)

// Load reads a chain file from the filesystem returned by FsFactory.
func Load(path string) ([]ProgramSpec, error) {
	data, err := afero.ReadFile(FsFactory(), path)
	if err != nil {
		return nil, errors.Join(ErrRead, err)
	}

	return LoadBytes(path, data)
}

// LoadBytes decodes chain file content, choosing the format from the file name extension.
// Files ending in .hcl are HCL, anything else is JSON or YAML.
func LoadBytes(name string, data []byte) ([]ProgramSpec, error) {
	var (
		specs []ProgramSpec
		err   error
	)

	if strings.EqualFold(filepath.Ext(name), hclExt) {
		specs, err = DecodeHCL(data, name)
	} else {
		specs, err = Decode(data)
	}

	if err != nil {
		return nil, err
	}

	if err := Validate(specs); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}

	return specs, nil
}

// Decode decodes a JSON or YAML list of programs. Unknown fields are rejected.
func Decode(data []byte) ([]ProgramSpec, error) {
	var specs []ProgramSpec

	if err := yaml.UnmarshalWithOptions(data, &specs, yaml.DisallowUnknownField()); err != nil {
		return nil, errors.Join(ErrDecode, fmt.Errorf("%s", yaml.FormatError(err, false, true)))
	}

	return specs, nil
}
