package cliutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnknownCommandError(t *testing.T) {
	t.Parallel()

	valid := []string{"classify", "edit", "mcp", "version", "help"}

	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{name: "typo", input: "clasify", wantMsg: `unknown command: clasify (did you mean "classify"?)`},
		{name: "transposed", input: "eidt", wantMsg: `unknown command: eidt (did you mean "edit"?)`},
		{name: "no_match", input: "completelydifferent", wantMsg: "unknown command: completelydifferent"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.EqualError(t, UnknownCommandError(tc.input, valid), tc.wantMsg)
		})
	}
}

func TestUnknownSubcommandError(t *testing.T) {
	t.Parallel()

	valid := []string{"open", "save", "status", "help"}
	assert.EqualError(t, UnknownSubcommandError("edit", "sav", valid), `unknown edit subcommand: sav (did you mean "save"?)`)
	assert.EqualError(t, UnknownSubcommandError("edit", "xxxxxxxxxx", valid), "unknown edit subcommand: xxxxxxxxxx")
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	valid := []string{"open", "save", "status", "help"}

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "edit_distance", input: "stats", expect: "status"},
		{name: "unique_prefix", input: "stat", expect: "status"},
		{name: "ambiguous_prefix_uses_distance", input: "s", expect: "save"},
		{name: "case_insensitive", input: "SAVE", expect: "save"},
		{name: "too_far", input: "completelydifferent", expect: ""},
		{name: "empty_input", input: "", expect: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expect, suggest(tc.input, valid))
		})
	}

	assert.Empty(t, suggest("anything", nil))
}
