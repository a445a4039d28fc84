package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/go-appsec/jsondecoder/jsondecoder/classify"
	"github.com/go-appsec/jsondecoder/jsondecoder/cliutil"
	"github.com/go-appsec/jsondecoder/jsondecoder/config"
	"github.com/go-appsec/jsondecoder/jsondecoder/edit"
	"github.com/go-appsec/jsondecoder/jsondecoder/service"
)

var validCommands = []string{"classify", "edit", "mcp", "version", "help"}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		printRootUsage()
		return 1
	}

	var err error
	switch args[0] {
	case "classify":
		err = classify.Parse(args[1:])
	case "edit":
		err = edit.Parse(args[1:])
	case "mcp":
		err = service.Parse(args[1:])
	case "version", "--version", "-v":
		fmt.Printf("jsondecoder version %s\n", config.Version)
		return 0
	case "help", "--help", "-h":
		printRootUsage()
		return 0
	default:
		err = cliutil.UnknownCommandError(args[0], validCommands)
	}

	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printRootUsage() {
	_, _ = fmt.Fprint(os.Stderr, `Usage: jsondecoder <command> [options]

Commands:
  classify   Report whether a raw HTTP message carries JSON
  edit       Edit a message's JSON body as pretty-printed text (open, save, status)
  mcp        Serve the decoder to agents over MCP
  version    Print the version

Use "jsondecoder <command> --help" for specific command usage.
`)
}
