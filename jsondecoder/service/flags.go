package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// MCPServerFlags holds flags for MCP server mode.
type MCPServerFlags struct {
	ConfigPath string
	MCPPort    int // 0 = use config
}

// ParseMCPServerFlags parses flags for MCP server mode (jsondecoder mcp).
func ParseMCPServerFlags(args []string) (MCPServerFlags, error) {
	fs := pflag.NewFlagSet("mcp", pflag.ContinueOnError)
	fs.SetInterspersed(true)
	var flags MCPServerFlags

	fs.StringVar(&flags.ConfigPath, "config", "", "config file path (default: ~/.jsondecoder/config.json)")
	fs.IntVar(&flags.MCPPort, "port", 0, "MCP server port (default: from config or 9129)")

	fs.Usage = func() {
		_, _ = fmt.Fprint(os.Stderr, `Usage: jsondecoder mcp [options]

Serve the JSON Decoder over MCP (streamable HTTP at /mcp, SSE at /sse) on 127.0.0.1.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return flags, err
	} else if len(fs.Args()) > 0 {
		return flags, fmt.Errorf("unexpected arguments: %v", fs.Args())
	} else if flags.MCPPort < 0 || flags.MCPPort > 65535 {
		return flags, errors.New("--port must be between 0 and 65535")
	}
	return flags, nil
}

// Parse runs the MCP server until interrupted.
func Parse(args []string) error {
	flags, err := ParseMCPServerFlags(args)
	if err != nil {
		return err
	}

	srv, err := NewServer(flags)
	if err != nil {
		return err
	}
	return srv.Run(context.Background())
}
