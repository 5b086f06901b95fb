// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package process runs a single OS process, either directly or through `sh -c`.
//
// Output is drained continuously while the process runs. Every complete line is shown
// live through a display.Emitter and the full text is captured for the caller.
package process
