// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package source fetches chain files from local paths or remote locations
// using Hashicorp's go-getter syntax. See https://github.com/hashicorp/go-getter.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/cchain/internal/ctxlog"
)

// ErrFetch is returned when the chain file cannot be retrieved.
var ErrFetch = errors.New("failed to get chain file")

// File is a fetched chain file.
type File struct {
	Name string // base name, used to pick the decoder
	Data []byte
}

// Fetch retrieves the file at url. Remote sources are downloaded to a temporary
// directory which is removed before returning.
func Fetch(ctx context.Context, url string) (File, error) {
	if url == "" {
		return File{}, ErrFetch
	}

	tmpDir, err := os.MkdirTemp("", "cchain-getter-*")
	if err != nil {
		return File{}, errors.Join(ErrFetch, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return File{}, errors.Join(ErrFetch, err)
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     url,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	var fileName string
	// Remote sources are fetched as a directory, then the file is read from it.
	// https://github.com/hashicorp/go-getter/issues/98
	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			return File{}, errors.Join(ErrFetch, err)
		}

		var newURL string

		newURL, fileName = splitFileNameFromGetterURL(url)
		if newURL == "" || fileName == "" {
			return File{}, fmt.Errorf("%w: invalid URL format: %s", ErrFetch, url)
		}

		req.Src = newURL
	}

	if fileName == "" {
		req.Src = filepath.Dir(url)
		fileName = filepath.Base(url)
	}

	ctxlog.Debug(ctx, "fetching chain file", "src", req.Src, "file", fileName)

	res, err := client.Get(ctx, req)
	if err != nil {
		return File{}, errors.Join(ErrFetch, err)
	}

	data, err := os.ReadFile(filepath.Join(res.Dst, fileName))
	if err != nil {
		return File{}, errors.Join(ErrFetch, err)
	}

	return File{Name: fileName, Data: data}, nil
}

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	minimumGetterParts    = 3 // scheme, host and path
)

// splitFileNameFromGetterURL splits a getter URL into the directory URL and the file name.
// Any query string is carried over to the directory URL.
func splitFileNameFromGetterURL(url string) (string, string) {
	var query string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]
	if before, after, ok := strings.Cut(last, goGetterRefSeparator); ok {
		last, query = before, after
	}

	if filepath.Clean(last) == filepath.Dir(last) {
		return "", ""
	}

	fileName := filepath.Base(last)

	if dir := filepath.Dir(last); dir == "." {
		parts = parts[:len(parts)-1]
	} else {
		parts[len(parts)-1] = dir
	}

	newURL := strings.Join(parts, goGetterPathSeparator)

	if query != "" {
		newURL += goGetterRefSeparator + query
	}

	return newURL, fileName
}
