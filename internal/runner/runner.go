package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/petasbytes/go-toolgen/internal/telemetry"
	"github.com/petasbytes/go-toolgen/toolkit"
)

type Runner struct {
	Client    *anthropic.Client
	Tools     *toolkit.Registry
	MaxTokens int64

	Log    *zap.Logger
	Events *telemetry.Sink // nil disables tool_exec events
	Out    io.Writer       // assistant text
}

func New(client *anthropic.Client, reg *toolkit.Registry) *Runner {
	return &Runner{
		Client:    client,
		Tools:     reg,
		MaxTokens: 1024,
		Log:       zap.NewNop(),
		Out:       os.Stdout,
	}
}

func (r *Runner) anthropicTools(ctx context.Context) []anthropic.ToolUnionParam {
	defs := r.Tools.Definitions(ctx, "")
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, d := range defs {
		schema := anthropic.ToolInputSchemaParam{}
		if d.Parameters != nil {
			schema.Properties = d.Parameters.Properties
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        d.Name,
			Description: anthropic.String(d.Description),
			InputSchema: schema,
		}})
	}
	return out
}

// RunOneStep sends the conversation and either prints text or returns tool results to be appended.
func (r *Runner) RunOneStep(ctx context.Context, model anthropic.Model, conv []anthropic.MessageParam) (*anthropic.Message, []anthropic.ContentBlockParamUnion, error) {
	// Get runID from context if present, else generate once for this call.
	runID, ok := telemetry.RunIDFromContext(ctx)
	if !ok {
		runID = telemetry.NewRunID()
		ctx = telemetry.WithRunID(ctx, runID)
	}

	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: r.MaxTokens,
		Messages:  conv,
	}
	if r.Tools != nil && r.Tools.Len() > 0 {
		params.Tools = r.anthropicTools(ctx)
	}

	msg, err := r.Client.Messages.New(ctx, params)
	if err != nil {
		return nil, nil, err
	}
	r.Log.Debug("message received",
		zap.String("run_id", runID),
		zap.String("stop_reason", string(msg.StopReason)),
		zap.Int("blocks", len(msg.Content)))

	toolResults := []anthropic.ContentBlockParamUnion{}
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			fmt.Fprintf(r.Out, "\u001b[93mClaude\u001b[0m: %s\n", v.Text)
		case anthropic.ToolUseBlock:
			input := json.RawMessage(v.JSON.Input.Raw())
			toolResults = append(toolResults, r.execTool(ctx, v.ID, v.Name, input))
		}
	}
	return msg, toolResults, nil
}

// errorCategory keeps raw payloads and tool messages out of telemetry.
func errorCategory(err error) string {
	var (
		argErr  *toolkit.ArgumentsError
		failure toolkit.Failure
	)
	switch {
	case errors.Is(err, toolkit.ErrToolNotFound):
		return "tool not found"
	case errors.As(err, &argErr):
		return "invalid arguments"
	case errors.As(err, &failure):
		return "tool error"
	default:
		return "internal error"
	}
}

func (r *Runner) execTool(ctx context.Context, id, name string, input json.RawMessage) anthropic.ContentBlockParamUnion {
	runID, _ := telemetry.RunIDFromContext(ctx)

	emit := func(d time.Duration, outputSize int, errStr string) {
		fields := map[string]any{
			"tool_name":   name,
			"duration_ms": d.Milliseconds(),
			"input_size":  len(input),
			"output_size": outputSize,
			"run_id":      runID,
			"error":       nil,
		}
		if errStr != "" {
			fields["error"] = errStr
		}
		r.Events.Emit("tool_exec", fields)
	}

	start := time.Now()
	var (
		out json.RawMessage
		err error
	)
	if len(input) > 0 && !gjson.ValidBytes(input) {
		err = &toolkit.ArgumentsError{Tool: name, Err: errors.New("input is not valid JSON")}
	} else {
		out, err = r.Tools.Call(ctx, name, input)
	}
	if err != nil {
		emit(time.Since(start), 0, errorCategory(err))
		r.Log.Warn("tool call failed", zap.String("tool", name), zap.String("run_id", runID), zap.Error(err))
		// The detailed message goes back to the model.
		return anthropic.NewToolResultBlock(id, err.Error(), true)
	}
	emit(time.Since(start), len(out), "")
	return anthropic.NewToolResultBlock(id, string(out), false)
}
