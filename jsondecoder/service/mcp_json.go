package service

import (
	"context"
	"errors"
	"log"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/go-appsec/jsondecoder/jsondecoder/decoder"
)

type classifyResponse struct {
	Applicable bool `json:"applicable"`
	Force      bool `json:"force"`
}

type displayResponse struct {
	TabID      string `json:"tab_id"`
	Caption    string `json:"caption"`
	Text       string `json:"text"`
	Editable   bool   `json:"editable"`
	Applicable bool   `json:"applicable"`
}

type rebuildResponse struct {
	Message  string `json:"message"`
	Modified bool   `json:"modified"`
}

type forceModeResponse struct {
	Force     bool   `json:"force"`
	MenuLabel string `json:"menu_label"`
}

func (m *mcpServer) classifyTool() mcp.Tool {
	return mcp.NewTool("json_classify",
		mcp.WithDescription("Report whether the JSON Decoder applies to a raw HTTP message (JSON content type, or a JSON-looking body while force mode is on)."),
		mcp.WithString("message", mcp.Required(), mcp.Description("Raw HTTP message including start line and headers")),
		mcp.WithBoolean("response", mcp.Description("Treat the message as a response (default: request)")),
	)
}

func (m *mcpServer) handleClassify(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := req.GetString("message", "")
	if message == "" {
		return errorResult("message is required"), nil
	}

	ok, err := m.service.factory.Classifier.IsApplicable([]byte(message), !req.GetBool("response", false))
	if err != nil {
		return errorResult("classify failed: " + err.Error()), nil
	}
	return jsonResult(classifyResponse{
		Applicable: ok,
		Force:      m.service.factory.Mode.Enabled(),
	})
}

func (m *mcpServer) displayTool() mcp.Tool {
	return mcp.NewTool("json_display",
		mcp.WithDescription(`Open an editor tab for a raw HTTP message and return the display text.

JSON bodies are pretty-printed with \uXXXX escapes decoded; any prefix before the first '{' is kept as is.
Bodies that do not parse are returned unchanged. Use the returned tab_id with json_rebuild.
At most 256 tabs stay open; opening more evicts the least recently used one, so close tabs when done.`),
		mcp.WithString("message", mcp.Required(), mcp.Description("Raw HTTP message including start line and headers")),
		mcp.WithBoolean("response", mcp.Description("Treat the message as a response (default: request)")),
		mcp.WithBoolean("editable", mcp.Description("Accept edits in this tab (default: true)")),
	)
}

func (m *mcpServer) handleDisplay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := req.GetString("message", "")
	if message == "" {
		return errorResult("message is required"), nil
	}
	msg := []byte(message)
	isRequest := !req.GetBool("response", false)

	tab := m.service.factory.NewTab(req.GetBool("editable", true))
	applicable, err := tab.IsEnabled(msg, isRequest)
	if err != nil {
		return errorResult("classify failed: " + err.Error()), nil
	}
	if err := tab.SetMessage(msg, isRequest); err != nil {
		return errorResult("display failed: " + err.Error()), nil
	}

	id := m.service.tabs.Add(tab)
	log.Printf("mcp/json_display: opened tab %s (editable=%t applicable=%t)", id, tab.Editable(), applicable)

	return jsonResult(displayResponse{
		TabID:      id,
		Caption:    tab.Caption(),
		Text:       tab.Text(),
		Editable:   tab.Editable(),
		Applicable: applicable,
	})
}

func (m *mcpServer) rebuildTool() mcp.Tool {
	return mcp.NewTool("json_rebuild",
		mcp.WithDescription(`Return the message for an editor tab.

When text is given and differs from the current display text it is applied as an edit first.
An unedited tab returns the original message exactly; an edited tab returns the original headers
with the body rebuilt from the text (compacted when it parses as JSON, verbatim otherwise).`),
		mcp.WithString("tab_id", mcp.Required(), mcp.Description("Tab ID from json_display")),
		mcp.WithString("text", mcp.Description("Edited display text")),
	)
}

func (m *mcpServer) handleRebuild(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("tab_id", "")
	if id == "" {
		return errorResult("tab_id is required"), nil
	}
	args := req.GetArguments()
	text, hasText := args["text"].(string)

	var resp rebuildResponse
	var err error
	found := m.service.tabs.With(id, func(tab *decoder.Tab) {
		if hasText {
			if err = tab.SetText(text); err != nil {
				return
			}
		}
		var out []byte
		if out, err = tab.Message(); err == nil {
			resp = rebuildResponse{Message: string(out), Modified: tab.IsModified()}
		}
	})
	if !found {
		return errorResult("tab not found: " + id), nil
	} else if errors.Is(err, decoder.ErrReadOnly) {
		return errorResult("tab " + id + " is read-only"), nil
	} else if err != nil {
		return errorResult("rebuild failed: " + err.Error()), nil
	}

	log.Printf("mcp/json_rebuild: tab %s modified=%t", id, resp.Modified)
	return jsonResult(resp)
}

func (m *mcpServer) selectTool() mcp.Tool {
	return mcp.NewTool("json_tab_select",
		mcp.WithDescription("Select a byte range [start, end) of a tab's display text and return the selected text."),
		mcp.WithString("tab_id", mcp.Required(), mcp.Description("Tab ID from json_display")),
		mcp.WithNumber("start", mcp.Required(), mcp.Description("Start byte offset")),
		mcp.WithNumber("end", mcp.Required(), mcp.Description("End byte offset (exclusive)")),
	)
}

func (m *mcpServer) handleSelect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("tab_id", "")
	if id == "" {
		return errorResult("tab_id is required"), nil
	}

	var selected []byte
	found := m.service.tabs.With(id, func(tab *decoder.Tab) {
		tab.Select(req.GetInt("start", 0), req.GetInt("end", 0))
		selected = tab.SelectedData()
	})
	if !found {
		return errorResult("tab not found: " + id), nil
	}
	return mcp.NewToolResultText(string(selected)), nil
}

func (m *mcpServer) forceModeTool() mcp.Tool {
	return mcp.NewTool("json_force_mode",
		mcp.WithDescription(`Read or change forced JSON detection.

While on, bodies starting with a JSON marker ({" [" [{) are treated as JSON regardless of Content-Type.
The setting is shared by every tab and resets to off when the server restarts.`),
		mcp.WithString("action", mcp.Description("status (default), toggle, on, or off")),
	)
}

func (m *mcpServer) handleForceMode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode := m.service.factory.Mode

	switch action := req.GetString("action", "status"); action {
	case "status":
	case "toggle":
		m.service.factory.ToggleForceMode()
	case "on":
		mode.Set(true)
	case "off":
		mode.Set(false)
	default:
		return errorResult("invalid action: use status, toggle, on, or off"), nil
	}

	return jsonResult(forceModeResponse{
		Force:     mode.Enabled(),
		MenuLabel: mode.MenuLabel(),
	})
}

func (m *mcpServer) tabCloseTool() mcp.Tool {
	return mcp.NewTool("json_tab_close",
		mcp.WithDescription("Close an editor tab and release its message."),
		mcp.WithString("tab_id", mcp.Required(), mcp.Description("Tab ID from json_display")),
	)
}

func (m *mcpServer) handleTabClose(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("tab_id", "")
	if id == "" {
		return errorResult("tab_id is required"), nil
	} else if !m.service.tabs.Remove(id) {
		return errorResult("tab not found: " + id), nil
	}

	log.Printf("mcp/json_tab_close: closed tab %s", id)
	return mcp.NewToolResultText("closed " + id), nil
}
