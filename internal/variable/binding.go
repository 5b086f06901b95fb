// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package variable

import "fmt"

// Kind is the moment at which a variable receives its value.
type Kind int

const (
	// OnChainStartup variables are prompted for once, before the first program runs.
	OnChainStartup Kind = iota
	// OnProgramExecution variables are prompted for just before a given program runs.
	OnProgramExecution
	// Await variables take the captured output of a given program.
	Await
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case OnChainStartup:
		return "on_chain_startup"
	case OnProgramExecution:
		return "on_program_execution"
	case Await:
		return "await"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// BindingTime is a Kind plus, for OnProgramExecution and Await, the index of the program it belongs to.
type BindingTime struct {
	Kind  Kind
	Index int
}

// Startup returns the OnChainStartup binding.
func Startup() BindingTime {
	return BindingTime{Kind: OnChainStartup}
}

// AtProgram returns the OnProgramExecution binding of program i.
func AtProgram(i int) BindingTime {
	return BindingTime{Kind: OnProgramExecution, Index: i}
}

// AwaitOutput returns the Await binding on the output of program i.
func AwaitOutput(i int) BindingTime {
	return BindingTime{Kind: Await, Index: i}
}

// SatisfiedAt reports whether a variable with this binding has a value by the time program j starts.
// An awaited output only exists once its producer has finished, so Await(i) needs i < j.
func (b BindingTime) SatisfiedAt(j int) bool {
	switch b.Kind {
	case OnChainStartup:
		return true
	case OnProgramExecution:
		return b.Index <= j
	case Await:
		return b.Index < j
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (b BindingTime) String() string {
	if b.Kind == OnChainStartup {
		return b.Kind.String()
	}

	return fmt.Sprintf("%s(%d)", b.Kind, b.Index)
}
