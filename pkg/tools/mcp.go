// Package tools connects external tool servers and human approval into the
// workflow engine. MCPTool speaks the Model Context Protocol over stdio;
// Approver gates tool use behind an explicit decision object.
package tools

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pkg/errors"
)

const defaultCallTimeout = 30 * time.Second

// ServerConfig describes how to launch an MCP server process.
type ServerConfig struct {
	// Command is the executable to run.
	Command string
	// Args are the command-line arguments.
	Args []string
	// Env are extra environment variables for the server process.
	Env []string
	// Timeout bounds each tool call. Defaults to 30s.
	Timeout time.Duration
}

// MCPTool wraps a single tool of an MCP server as a workflow capability.
// Request/LastMessage satisfy flow.Capability, so a tool drops into a graph
// the same way an agent does.
type MCPTool struct {
	tool    string
	client  *client.Client
	timeout time.Duration

	mu       sync.Mutex
	last     string
	produced bool
}

// NewMCPTool starts the server process, initializes the protocol session
// and binds the named tool.
func NewMCPTool(ctx context.Context, toolName string, cfg ServerConfig) (*MCPTool, error) {
	if toolName == "" {
		return nil, errors.New("tool name is required")
	}
	if cfg.Command == "" {
		return nil, errors.New("server command is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultCallTimeout
	}

	mcpClient, err := client.NewStdioMCPClient(cfg.Command, cfg.Env, cfg.Args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create MCP client")
	}
	if err := mcpClient.Start(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to start MCP client")
	}

	initReq := mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo: mcp.Implementation{
				Name:    "flowkit",
				Version: "0.1.0",
			},
		},
	}
	if _, err := mcpClient.Initialize(ctx, initReq); err != nil {
		_ = mcpClient.Close()
		return nil, errors.Wrap(err, "failed to initialize MCP server")
	}

	return &MCPTool{tool: toolName, client: mcpClient, timeout: timeout}, nil
}

// Name returns the bound tool name.
func (t *MCPTool) Name() string {
	return t.tool
}

// Call runs the tool with structured arguments and flattens the text
// content of the response.
func (t *MCPTool) Call(ctx context.Context, args map[string]any) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      t.tool,
			Arguments: args,
		},
	}

	result, err := t.client.CallTool(ctx, req)
	if err != nil {
		return "", errors.Wrapf(err, "tool %s call failed", t.tool)
	}

	text := flattenContent(result.Content)
	if result.IsError {
		return "", errors.Errorf("tool %s returned an error: %s", t.tool, text)
	}
	return text, nil
}

// Request implements flow.Capability: the step input is adapted to tool
// arguments and the flattened response is stored for LastMessage.
func (t *MCPTool) Request(ctx context.Context, message string) error {
	out, err := t.Call(ctx, AdaptArguments(message))
	if err != nil {
		return err
	}

	t.record(out)
	return nil
}

// record stores a tool response. Empty text is a valid response and still
// counts as produced output.
func (t *MCPTool) record(out string) {
	t.mu.Lock()
	t.last = out
	t.produced = true
	t.mu.Unlock()
}

// LastMessage implements flow.Capability.
func (t *MCPTool) LastMessage() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.produced {
		return "", errors.Errorf("tool %s has not produced output", t.tool)
	}
	return t.last, nil
}

// Close shuts down the protocol session and the server process.
func (t *MCPTool) Close() error {
	return t.client.Close()
}

// AdaptArguments maps a step's textual input to tool arguments: a JSON
// object is decoded as-is, anything else is passed under the "input" key.
func AdaptArguments(message string) map[string]any {
	var args map[string]any
	if err := json.Unmarshal([]byte(message), &args); err == nil {
		return args
	}
	return map[string]any{"input": message}
}

func flattenContent(content []mcp.Content) string {
	var parts []string
	for _, c := range content {
		if text, ok := mcp.AsTextContent(c); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}
