// Package genaitool exposes a toolkit.Registry to Gemini function calling.
package genaitool

import (
	"context"
	"encoding/json"

	"google.golang.org/genai"

	"github.com/petasbytes/go-toolgen/toolkit"
)

// Declarations returns a function declaration for each registered tool.
func Declarations(ctx context.Context, reg *toolkit.Registry) []*genai.FunctionDeclaration {
	defs := reg.Definitions(ctx, "")
	out := make([]*genai.FunctionDeclaration, 0, len(defs))
	for _, d := range defs {
		out = append(out, &genai.FunctionDeclaration{
			Name:                 d.Name,
			Description:          d.Description,
			ParametersJsonSchema: d.Parameters,
		})
	}
	return out
}

// Tool bundles the declarations of reg into a single genai tool.
func Tool(ctx context.Context, reg *toolkit.Registry) *genai.Tool {
	return &genai.Tool{FunctionDeclarations: Declarations(ctx, reg)}
}

// Respond executes call against reg. The response holds the decoded tool
// output under "output", or the error text under "error".
func Respond(ctx context.Context, reg *toolkit.Registry, call *genai.FunctionCall) *genai.FunctionResponse {
	resp := &genai.FunctionResponse{ID: call.ID, Name: call.Name}

	var args json.RawMessage
	if call.Args != nil {
		b, err := json.Marshal(call.Args)
		if err != nil {
			resp.Response = map[string]any{"error": err.Error()}
			return resp
		}
		args = b
	}

	out, err := reg.Call(ctx, call.Name, args)
	if err != nil {
		resp.Response = map[string]any{"error": err.Error()}
		return resp
	}
	var v any
	if err := json.Unmarshal(out, &v); err != nil {
		resp.Response = map[string]any{"error": err.Error()}
		return resp
	}
	resp.Response = map[string]any{"output": v}
	return resp
}
