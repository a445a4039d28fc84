package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
)

// setupMCPServer builds a server around an absent config file and connects an in-process client.
func setupMCPServer(t *testing.T) (*Server, *client.Client) {
	t.Helper()

	srv, err := NewServer(MCPServerFlags{ConfigPath: filepath.Join(t.TempDir(), "config.json")})
	require.NoError(t, err)
	srv.mcpServer = newMCPServer(srv)

	mcpClient, err := client.NewInProcessClient(srv.mcpServer.server)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	_, err = mcpClient.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ClientInfo: mcp.Implementation{
				Name:    "jsondecoder-test",
				Version: "1.0.0",
			},
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
		},
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = mcpClient.Close() })
	return srv, mcpClient
}

func callMCPTool(t *testing.T, c *client.Client, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	result, err := c.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	})
	require.NoError(t, err)
	return result
}

func extractMCPText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, result.Content, "result should have content")
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("no text content found in result")
	return ""
}

func callMCPToolTextOK(t *testing.T, c *client.Client, name string, args map[string]interface{}) string {
	t.Helper()

	result := callMCPTool(t, c, name, args)
	text := extractMCPText(t, result)
	require.False(t, result.IsError, "tool %s failed: %s", name, text)
	return text
}

func callMCPToolJSONOK[T any](t *testing.T, c *client.Client, name string, args map[string]interface{}) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal([]byte(callMCPToolTextOK(t, c, name, args)), &v))
	return v
}
