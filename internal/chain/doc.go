// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package chain runs an ordered list of programs.
//
// A chain is loaded from a chain file, checked for variables that are used before they can
// have a value, and then executed batch by batch. Programs that share a concurrency group and
// are adjacent in the file form one batch and run in parallel. The chain owns the variable
// registry: values are prompted for and injected before a batch starts, and program outputs are
// bound only after the whole batch has finished.
package chain
