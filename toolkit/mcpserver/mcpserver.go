// Package mcpserver serves a toolkit.Registry over the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/petasbytes/go-toolgen/toolkit"
)

// Tool converts a definition into an MCP tool carrying the same input schema.
func Tool(def toolkit.Definition) (mcp.Tool, error) {
	schema, err := json.Marshal(def.Parameters)
	if err != nil {
		return mcp.Tool{}, fmt.Errorf("tool %s: encode schema: %w", def.Name, err)
	}
	return mcp.NewToolWithRawSchema(def.Name, def.Description, schema), nil
}

// Handle adapts h to an MCP tool handler. Tool failures and bad arguments are
// reported in the result with isError set; only transport problems are
// returned as errors.
func Handle(h toolkit.Handler) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var raw json.RawMessage
		if req.Params.Arguments != nil {
			b, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return mcp.NewToolResultError("invalid arguments format"), nil
			}
			raw = b
		}
		out, err := h.CallJSON(ctx, raw)
		if err != nil {
			var (
				failure toolkit.Failure
				argErr  *toolkit.ArgumentsError
			)
			if errors.As(err, &failure) || errors.As(err, &argErr) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}

// Register adds every tool of reg to s.
func Register(ctx context.Context, s *server.MCPServer, reg *toolkit.Registry) error {
	for _, h := range reg.Handlers() {
		t, err := Tool(h.Definition(ctx, ""))
		if err != nil {
			return err
		}
		s.AddTool(t, Handle(h))
	}
	return nil
}

// NewServer returns an MCP server exposing reg.
func NewServer(ctx context.Context, name, version string, reg *toolkit.Registry) (*server.MCPServer, error) {
	s := server.NewMCPServer(name, version, server.WithToolCapabilities(true))
	if err := Register(ctx, s, reg); err != nil {
		return nil, err
	}
	return s, nil
}
