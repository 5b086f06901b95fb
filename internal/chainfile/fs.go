// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package chainfile

import "github.com/spf13/afero"

// FsFactory is a function that returns the filesystem chain files are read from and written to.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}
