// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package chainfile reads and writes chain files.
//
// A chain file is an ordered list of programs. JSON and YAML files hold a list of
// program objects, HCL files hold a sequence of `program` blocks. Field names are the
// same in every format:
//
//	[{
//	  "command": "git",
//	  "arguments": ["commit", "-m", "<<message:on_program_execution>>"],
//	  "interpreter": null,
//	  "environment_variables_override": {"GIT_AUTHOR_NAME": "ci"},
//	  "working_directory": null,
//	  "stdout_stored_to": null,
//	  "stdout_storage_options": {"without_newline_characters": true},
//	  "failure_handling_options": {"exit_on_failure": true, "remedy_command_line": null},
//	  "concurrency_group": null,
//	  "retry": 0
//	}]
package chainfile
