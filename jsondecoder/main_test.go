package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		args   []string
		expect int
	}{
		{name: "no_args", args: nil, expect: 1},
		{name: "help", args: []string{"help"}, expect: 0},
		{name: "version", args: []string{"--version"}, expect: 0},
		{name: "unknown", args: []string{"clasify"}, expect: 1},
		{name: "subcommand_help_flag", args: []string{"classify", "--help"}, expect: 0},
		{name: "edit_without_subcommand", args: []string{"edit"}, expect: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, run(tc.args))
		})
	}
}
