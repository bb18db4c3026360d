package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/petasbytes/go-toolgen/internal/provider"
	"github.com/petasbytes/go-toolgen/internal/telemetry"
)

func readEvents(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var events []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		events = append(events, m)
	}
	return events
}

func execEvents(t *testing.T, resp string, ctx context.Context) []map[string]any {
	t.Helper()
	r, _ := newRunner(resp, nil)
	buf := &bytes.Buffer{}
	r.Events = telemetry.New(buf)
	if _, _, err := r.RunOneStep(ctx, provider.DefaultModel, userMessage("go")); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return readEvents(t, buf)
}

func TestRunner_ToolExec_JSONL_Success(t *testing.T) {
	resp := `{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"add","input":{"a":5,"b":2}}]}`
	events := execEvents(t, resp, context.Background())
	if len(events) != 1 {
		t.Fatalf("want 1 event, got %d", len(events))
	}
	exec := events[0]
	if exec["event"] != "tool_exec" {
		t.Fatalf("event: want tool_exec, got %v", exec["event"])
	}
	if exec["tool_name"] != "add" {
		t.Errorf("tool_name: want add, got %v", exec["tool_name"])
	}
	if v, ok := exec["duration_ms"].(float64); !ok || v < 0 {
		t.Errorf("duration_ms should be >= 0, got %v", exec["duration_ms"])
	}
	if v, ok := exec["input_size"].(float64); !ok || v <= 0 {
		t.Errorf("input_size should be > 0, got %v", exec["input_size"])
	}
	if v, ok := exec["output_size"].(float64); !ok || v != 1 {
		t.Errorf("output_size should be 1, got %v", exec["output_size"])
	}
	if v, ok := exec["error"]; !ok || v != nil {
		t.Errorf("error should be present and null, got %v (present=%v)", v, ok)
	}
	if s, ok := exec["run_id"].(string); !ok || strings.TrimSpace(s) == "" {
		t.Errorf("run_id missing or empty: %v", exec["run_id"])
	}
	if _, ok := exec["time"].(string); !ok {
		t.Errorf("time missing: %v", exec)
	}
}

func TestRunner_ToolExec_ErrorCategories(t *testing.T) {
	tests := []struct {
		name  string
		input string
		tool  string
		want  string
	}{
		{"tool error", `{"a":1,"b":0}`, "divide", "tool error"},
		{"invalid arguments", `{"a":"one"}`, "divide", "invalid arguments"},
		{"tool not found", `{}`, "missing_tool", "tool not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := `{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"` + tt.tool + `","input":` + tt.input + `}]}`
			events := execEvents(t, resp, context.Background())
			if len(events) != 1 {
				t.Fatalf("want 1 event, got %d", len(events))
			}
			if events[0]["error"] != tt.want {
				t.Errorf("error: want %q, got %v", tt.want, events[0]["error"])
			}
			if events[0]["output_size"] != float64(0) {
				t.Errorf("output_size: want 0, got %v", events[0]["output_size"])
			}
		})
	}
}

func TestRunner_ToolExec_NilSinkNoEvents(t *testing.T) {
	resp := `{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"add","input":{"a":1,"b":1}}]}`
	r, _ := newRunner(resp, nil)
	_, results, err := r.RunOneStep(context.Background(), provider.DefaultModel, userMessage("go"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("want 1 tool result, got %d", len(results))
	}
}

func TestRunner_ToolExec_RunIDPropagation(t *testing.T) {
	resp := `{"role":"assistant","content":[
		{"type":"tool_use","id":"t1","name":"add","input":{"a":1,"b":1}},
		{"type":"tool_use","id":"t2","name":"multiply","input":{"a":2,"b":3}}
	]}`
	ctx := telemetry.WithRunID(context.Background(), "run-123")
	events := execEvents(t, resp, ctx)
	if len(events) != 2 {
		t.Fatalf("want 2 events, got %d", len(events))
	}
	for _, e := range events {
		if e["run_id"] != "run-123" {
			t.Errorf("run_id: want run-123, got %v", e["run_id"])
		}
	}

	// Without a run ID in context, one is generated and shared by the step.
	events = execEvents(t, resp, context.Background())
	if events[0]["run_id"] == "" || events[0]["run_id"] != events[1]["run_id"] {
		t.Errorf("generated run_id not shared: %v vs %v", events[0]["run_id"], events[1]["run_id"])
	}
}

func TestRunner_ToolExec_Privacy_NoRawPayloadLeak(t *testing.T) {
	resp := `{"role":"assistant","content":[
		{"type":"tool_use","id":"t1","name":"how_many_rs","input":{"s":"SECRET_STRAWBERRY"}},
		{"type":"tool_use","id":"t2","name":"require_positive","input":{"n":-42}}
	]}`
	r, _ := newRunner(resp, nil)
	buf := &bytes.Buffer{}
	r.Events = telemetry.New(buf)
	_, results, err := r.RunOneStep(context.Background(), provider.DefaultModel, userMessage("go"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("want 2 tool results, got %d", len(results))
	}
	log := buf.String()
	for _, secret := range []string{"SECRET_STRAWBERRY", "-42 is not positive"} {
		if strings.Contains(log, secret) {
			t.Errorf("event log leaks %q: %s", secret, log)
		}
	}
}
