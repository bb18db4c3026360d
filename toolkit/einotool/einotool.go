// Package einotool adapts toolkit handlers to cloudwego/eino tools.
package einotool

import (
	"context"
	"encoding/json"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/invopop/jsonschema"

	"github.com/petasbytes/go-toolgen/toolkit"
)

type invokable struct {
	h toolkit.Handler
}

var _ tool.InvokableTool = (*invokable)(nil)

// New wraps h as an eino invokable tool.
func New(h toolkit.Handler) tool.InvokableTool {
	return &invokable{h: h}
}

// FromRegistry wraps every handler of reg, in registration order.
func FromRegistry(reg *toolkit.Registry) []tool.BaseTool {
	handlers := reg.Handlers()
	out := make([]tool.BaseTool, 0, len(handlers))
	for _, h := range handlers {
		out = append(out, New(h))
	}
	return out
}

func (t *invokable) Info(ctx context.Context) (*schema.ToolInfo, error) {
	def := t.h.Definition(ctx, "")
	return &schema.ToolInfo{
		Name:        def.Name,
		Desc:        def.Description,
		ParamsOneOf: schema.NewParamsOneOfByParams(Params(def.Parameters)),
	}, nil
}

func (t *invokable) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	out, err := t.h.CallJSON(ctx, json.RawMessage(argumentsInJSON))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Params converts the properties of an object schema to eino parameter infos.
func Params(s *jsonschema.Schema) map[string]*schema.ParameterInfo {
	params := map[string]*schema.ParameterInfo{}
	if s == nil || s.Properties == nil {
		return params
	}
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		params[pair.Key] = parameter(pair.Value)
	}
	return params
}

func parameter(s *jsonschema.Schema) *schema.ParameterInfo {
	p := &schema.ParameterInfo{Type: schema.DataType(s.Type), Desc: s.Description}
	if s.Items != nil {
		p.ElemInfo = parameter(s.Items)
	}
	return p
}
