package cliutil

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestionDistance is the max edit distance for "did you mean" suggestions
const maxSuggestionDistance = 3

// UnknownCommandError reports an unknown root command, naming the closest valid one.
func UnknownCommandError(unknown string, validCommands []string) error {
	return unknownError("command", unknown, validCommands)
}

// UnknownSubcommandError reports an unknown subcommand of prefix, naming the closest valid one.
func UnknownSubcommandError(prefix, unknown string, validCommands []string) error {
	return unknownError(prefix+" subcommand", unknown, validCommands)
}

func unknownError(kind, unknown string, candidates []string) error {
	if best := suggest(unknown, candidates); best != "" {
		return fmt.Errorf("unknown %s: %s (did you mean %q?)", kind, unknown, best)
	}
	return fmt.Errorf("unknown %s: %s", kind, unknown)
}

// suggest picks the candidate the user most likely meant.
// A unique prefix match wins outright ("stat" is status), otherwise the candidate with the
// smallest case-insensitive edit distance within maxSuggestionDistance, first listed on ties.
func suggest(input string, candidates []string) string {
	input = strings.ToLower(input)
	if input == "" {
		return ""
	}

	var prefixMatch string
	var prefixCount int
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), input) {
			prefixMatch = c
			prefixCount++
		}
	}
	if prefixCount == 1 {
		return prefixMatch
	}

	best, bestDist := "", maxSuggestionDistance+1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(input, strings.ToLower(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
