package toolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Handler is the type-erased form of a Tool used by registries and adapters:
// arguments arrive as JSON and the output leaves as JSON.
type Handler interface {
	Name() string
	Definition(ctx context.Context, prompt string) Definition
	CallJSON(ctx context.Context, args json.RawMessage) (json.RawMessage, error)
}

// Bind adapts a generated tool to Handler. Type arguments cannot be inferred
// from a marker value, so callers spell them out:
//
//	toolkit.Bind[calculator.AddArgs, uint64](calculator.Add)
func Bind[A, O any](t Tool[A, O]) Handler {
	return bound[A, O]{tool: t}
}

type bound[A, O any] struct {
	tool Tool[A, O]
}

func (b bound[A, O]) Name() string { return b.tool.Name() }

func (b bound[A, O]) Definition(ctx context.Context, prompt string) Definition {
	return b.tool.Definition(ctx, prompt)
}

// CallJSON decodes raw into A, calls the tool and encodes its output. An empty
// payload decodes to the zero arguments value.
func (b bound[A, O]) CallJSON(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args A
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &args); err != nil {
			return nil, &ArgumentsError{Tool: b.tool.Name(), Err: err}
		}
	}
	out, err := b.tool.Call(ctx, args)
	if err != nil {
		return nil, err
	}
	enc, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("tool %s: encode output: %w", b.tool.Name(), err)
	}
	return enc, nil
}
