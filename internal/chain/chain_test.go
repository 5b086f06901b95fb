// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package chain

import (
	"testing"

	"github.com/matt-FFFFFF/cchain/internal/chainfile"
	"github.com/matt-FFFFFF/cchain/internal/display"
	"github.com/matt-FFFFFF/cchain/internal/variable"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSpec_Registry(t *testing.T) {
	f := newFixture()

	c, err := FromSpec([]chainfile.ProgramSpec{
		echo("<<out>>", "<<user>>"),
		{Command: "date", StdoutStoredTo: ptr("out")},
		echo("<<step:on_program_execution>>"),
	}, f.options()...)
	require.NoError(t, err)

	vars := c.Variables()
	require.Len(t, vars, 3)
	assert.Equal(t, "out", vars[0].Name)
	assert.Equal(t, variable.AwaitOutput(1), vars[0].Binding)
	assert.Equal(t, "user", vars[1].Name)
	assert.Equal(t, variable.Startup(), vars[1].Binding)
	assert.Equal(t, "step", vars[2].Name)
	assert.Equal(t, variable.AtProgram(2), vars[2].Binding)
	assert.Len(t, c.Programs(), 3)
	assert.Len(t, c.Batches(), 3)
}

func TestFromSpec_Errors(t *testing.T) {
	_, err := FromSpec(nil)
	require.ErrorIs(t, err, chainfile.ErrEmptyChain)

	_, err = FromSpec([]chainfile.ProgramSpec{{Command: "echo", Interpreter: ptr("fish")}}, newFixture().options()...)
	require.Error(t, err)
}

func TestFromSpec_Values(t *testing.T) {
	specs := []chainfile.ProgramSpec{
		echo("<<user>>", "<<step:on_program_execution>>"),
		{Command: "date", StdoutStoredTo: ptr("out")},
	}

	f := newFixture()
	c, err := FromSpec(specs, f.options(WithValues(map[string]string{"user": "bob"}))...)
	require.NoError(t, err)

	v, ok := c.registry.Lookup("user")
	require.True(t, ok)
	require.True(t, v.HasValue())
	assert.Equal(t, "bob", *v.Value)

	_, err = FromSpec(specs, f.options(WithValues(map[string]string{"nobody": "x"}))...)
	require.ErrorIs(t, err, variable.ErrUnknownVariable)

	_, err = FromSpec(specs, f.options(WithValues(map[string]string{"out": "x"}))...)
	require.ErrorIs(t, err, ErrNotPresettable)

	_, err = FromSpec(specs, f.options(WithValues(map[string]string{"step": "x"}))...)
	require.ErrorIs(t, err, ErrNotPresettable)
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/chain.json", []byte(`[{"command": "echo", "arguments": ["hi"]}]`), 0o644))

	stubs := gostub.Stub(&chainfile.FsFactory, func() afero.Fs { return fs })
	defer stubs.Reset()

	c, err := Load("/chain.json", newFixture().options()...)
	require.NoError(t, err)
	assert.Len(t, c.Programs(), 1)

	_, err = Load("/missing.json")

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "/missing.json", loadErr.Path)
	require.ErrorIs(t, err, chainfile.ErrRead)
}

func TestValidateSyntax(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c, err := FromSpec([]chainfile.ProgramSpec{
			{Command: "date", StdoutStoredTo: ptr("today")},
			echo("<<today>>", "<<name>>", "<<step:on_program_execution>>"),
		}, newFixture().options()...)
		require.NoError(t, err)
		require.NoError(t, c.ValidateSyntax())
	})

	t.Run("every violation reported", func(t *testing.T) {
		c, err := FromSpec([]chainfile.ProgramSpec{
			echo("<<x>>"),
			{Command: "date", StdoutStoredTo: ptr("x")},
			echo("<<y>>", "<<self>>"),
			{Command: "date", StdoutStoredTo: ptr("y")},
			{Command: "echo", Arguments: []string{"<<self>>"}, StdoutStoredTo: ptr("self")},
		}, newFixture().options()...)
		require.NoError(t, err)

		err = c.ValidateSyntax()

		var agg *AggregateError
		require.ErrorAs(t, err, &agg)
		require.Len(t, agg.Violations, 4)

		names := make([]string, 0, len(agg.Violations))
		for _, v := range agg.Violations {
			names = append(names, v.Variable.Name)
			require.ErrorIs(t, v, variable.ErrUsedBeforeBound)
		}

		assert.Equal(t, []string{"x", "y", "self", "self"}, names)
		require.ErrorIs(t, err, variable.ErrUsedBeforeBound)
		assert.Contains(t, err.Error(), "4 variable violation(s) found")
		assert.Contains(t, err.Error(), "program 0: <<x>>")
	})

	t.Run("await inside own batch", func(t *testing.T) {
		c, err := FromSpec([]chainfile.ProgramSpec{
			{Command: "date", StdoutStoredTo: ptr("d"), ConcurrencyGroup: ptr(1)},
			{Command: "echo", Arguments: []string{"<<d>>"}, ConcurrencyGroup: ptr(1)},
			echo("<<d>>"),
		}, newFixture().options()...)
		require.NoError(t, err)

		err = c.ValidateSyntax()

		var agg *AggregateError
		require.ErrorAs(t, err, &agg)
		require.Len(t, agg.Violations, 1)
		assert.Equal(t, 1, agg.Violations[0].ProgramIndex)
		require.ErrorIs(t, err, ErrAwaitInBatch)
	})

	t.Run("duplicate producer", func(t *testing.T) {
		c, err := FromSpec([]chainfile.ProgramSpec{
			{Command: "date", StdoutStoredTo: ptr("d")},
			{Command: "date", StdoutStoredTo: ptr("d")},
		}, newFixture().options()...)
		require.NoError(t, err)
		require.ErrorIs(t, c.ValidateSyntax(), variable.ErrDuplicateProducer)
	})
}

func TestMissingCommands(t *testing.T) {
	skipOnWindows(t)

	c, err := FromSpec([]chainfile.ProgramSpec{
		echo("a"),
		{Command: "no_such_binary_xyz"},
		{Command: "no_such_binary_xyz"},
		{Command: "also_missing_abc", Interpreter: ptr("sh")},
		{
			Command: "echo",
			FailureHandlingOptions: &chainfile.FailureHandlingOptions{
				RemedyCommandLine: &chainfile.CommandSpec{Command: "missing_remedy_xyz"},
			},
		},
	}, WithEmitter(display.Discard))
	require.NoError(t, err)

	assert.Equal(t, []string{"no_such_binary_xyz", "missing_remedy_xyz"}, c.MissingCommands())
}

func TestLoadBytes(t *testing.T) {
	hcl := `
program {
  command   = "echo"
  arguments = ["<<greeting>>"]
}
`

	c, err := LoadBytes("chain.hcl", []byte(hcl), newFixture().options()...)
	require.NoError(t, err)
	require.Len(t, c.Programs(), 1)
	assert.Equal(t, "echo <<greeting>>", c.Programs()[0].Label())

	_, err = LoadBytes("chain.json", []byte(`[{"arguments": ["x"]}]`))

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	require.ErrorIs(t, err, chainfile.ErrMissingCommand)
}
