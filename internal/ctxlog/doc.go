// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog provides a context-aware logger that can be used to log messages.
// It uses the slog package for structured logging and supports different log levels.
//
// The context also carries the nesting depth of the work being logged. Chains nest
// programs, programs nest attempts and remedies, and the pretty console handler
// indents each record by the depth stored on the context it was logged with.
//
// The default is a pretty console handler to format the log messages in a human-readable way.
package ctxlog
