// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package variable

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/cchain/internal/ctxlog"
	"github.com/matt-FFFFFF/cchain/internal/prompt"
)

var (
	// ErrUnknownVariable is returned for a name that was never registered.
	ErrUnknownVariable = errors.New("unknown variable")
	// ErrUsedBeforeBound is reported when a program references a variable before its binding time.
	ErrUsedBeforeBound = errors.New("variable is used before it is bound")
	// ErrDuplicateProducer is reported when two programs store their output to the same variable.
	ErrDuplicateProducer = errors.New("variable has more than one producing program")
	// ErrNotAwaitable is returned when an output is bound to a variable that is not awaited.
	ErrNotAwaitable = errors.New("variable is not bound to a program output")
)

// PromptFormat is the question asked for a variable, filled with its display name.
const PromptFormat = "Please input a value for %s:"

// Violation is one problem found by Validate.
type Violation struct {
	Variable     Variable // the reference as found in the program
	ProgramIndex int
	Err          error
}

// Error implements the error interface.
func (v Violation) Error() string {
	return fmt.Sprintf("program %d: %s: %v", v.ProgramIndex, v.Variable.RawToken, v.Err)
}

// Unwrap returns the reason.
func (v Violation) Unwrap() error {
	return v.Err
}

// Registry holds every variable of a chain.
// It has a single owner and is not safe for concurrent use.
type Registry struct {
	vars      []*Variable
	byName    map[string]*Variable
	conflicts []Violation
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Variable)}
}

// Register adds v unless a variable of the same name exists. It reports whether v was added.
func (r *Registry) Register(v Variable) bool {
	if _, ok := r.byName[v.Name]; ok {
		return false
	}

	r.vars = append(r.vars, &v)
	r.byName[v.Name] = &v

	return true
}

// DeclareAwait registers the output variable of program programIndex.
// A second producer for the same name is kept as a conflict and reported by Validate.
func (r *Registry) DeclareAwait(token string, programIndex int) {
	v := ParseAwait(token, programIndex)
	if v.Name == "" {
		return
	}

	if existing, ok := r.byName[v.Name]; ok && existing.Binding.Kind == Await {
		r.conflicts = append(r.conflicts, Violation{Variable: v, ProgramIndex: programIndex, Err: ErrDuplicateProducer})
		return
	}

	r.Register(v)
}

// Scan registers every placeholder found in the texts of program programIndex.
func (r *Registry) Scan(programIndex int, texts ...string) {
	for _, t := range texts {
		for _, v := range ParseReferences(t, programIndex) {
			r.Register(v)
		}
	}
}

// Lookup returns a copy of the named variable.
func (r *Registry) Lookup(name string) (Variable, bool) {
	v, ok := r.byName[name]
	if !ok {
		return Variable{}, false
	}

	return *v, true
}

// Variables returns copies of all variables in registration order.
func (r *Registry) Variables() []Variable {
	out := make([]Variable, len(r.vars))
	for i, v := range r.vars {
		out[i] = *v
	}

	return out
}

// Validate checks every reference of every program against the registered bindings.
// programs[i] holds all texts of program i that may contain placeholders.
// It returns all violations found, in program order.
func (r *Registry) Validate(programs [][]string) []Violation {
	violations := append([]Violation(nil), r.conflicts...)

	for i, texts := range programs {
		for _, t := range texts {
			for _, ref := range ParseReferences(t, i) {
				reg, ok := r.byName[ref.Name]

				switch {
				case !ok:
					violations = append(violations, Violation{Variable: ref, ProgramIndex: i, Err: ErrUnknownVariable})
				case !reg.Binding.SatisfiedAt(i):
					violations = append(violations, Violation{
						Variable:     ref,
						ProgramIndex: i,
						Err:          fmt.Errorf("%w: bound at %s", ErrUsedBeforeBound, reg.Binding),
					})
				}
			}
		}
	}

	return violations
}

// Inject returns args with every placeholder whose variable has a value replaced by that value.
// Placeholders of unset or unknown variables are left as they are.
func (r *Registry) Inject(args []string) []string {
	out := make([]string, len(args))

	for i, a := range args {
		out[i] = tokenPattern.ReplaceAllStringFunc(a, func(token string) string {
			name, _ := parseToken(token[len(OpenMarker):len(token)-len(CloseMarker)], 0)

			v, ok := r.byName[name]
			if !ok || v.Value == nil {
				return token
			}

			return *v.Value
		})
	}

	return out
}

// Set stores value for the named variable.
func (r *Registry) Set(name, value string) error {
	v, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVariable, name)
	}

	v.Value = &value

	return nil
}

// ResolveStartup prompts for every chain startup variable that has no value yet.
func (r *Registry) ResolveStartup(ctx context.Context, p prompt.Prompter) error {
	for _, v := range r.vars {
		if v.Binding.Kind != OnChainStartup || v.Value != nil {
			continue
		}

		if err := r.ask(ctx, p, v); err != nil {
			return err
		}
	}

	return nil
}

// ResolveForProgram prompts for every variable that program programIndex references with the
// on_program_execution qualifier. Such variables are asked again for every program that qualifies them.
func (r *Registry) ResolveForProgram(ctx context.Context, programIndex int, texts []string, p prompt.Prompter) error {
	asked := make(map[string]struct{})

	for _, t := range texts {
		for _, ref := range ParseReferences(t, programIndex) {
			if ref.Binding.Kind != OnProgramExecution {
				continue
			}

			if _, ok := asked[ref.Name]; ok {
				continue
			}

			asked[ref.Name] = struct{}{}

			v, ok := r.byName[ref.Name]
			if !ok || v.Binding.Kind == Await {
				continue
			}

			if err := r.ask(ctx, p, v); err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *Registry) ask(ctx context.Context, p prompt.Prompter, v *Variable) error {
	ctxlog.Debug(ctx, "prompting for variable", "name", v.Name, "binding", v.Binding.String())

	answer, err := p.Prompt(ctx, fmt.Sprintf(PromptFormat, v.DisplayName))
	if err != nil {
		return fmt.Errorf("value for %s: %w", v.Name, err)
	}

	value := strings.TrimSpace(answer)
	v.Value = &value

	return nil
}

// BindAwait stores the output of a producing program.
func (r *Registry) BindAwait(name, value string) error {
	v, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVariable, name)
	}

	if v.Binding.Kind != Await {
		return fmt.Errorf("%w: %s", ErrNotAwaitable, name)
	}

	v.Value = &value

	return nil
}
