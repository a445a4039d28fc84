package cliutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrTerminalInput is returned when stdin input is requested from an interactive terminal.
var ErrTerminalInput = errors.New("refusing to read message from a terminal, pipe it in or use -f PATH")

var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ReadInput reads raw message bytes from path, or from stdin when path is "-".
func ReadInput(path string) ([]byte, error) {
	switch path {
	case "":
		return nil, errors.New("input required: use -f PATH (- for stdin)")
	case "-":
		if stdinIsTerminal() {
			return nil, ErrTerminalInput
		}
		return readAll(os.Stdin)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		return data, nil
	}
}

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}
