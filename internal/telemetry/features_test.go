package telemetry_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/petasbytes/go-toolgen/internal/telemetry"
)

func TestEmitFileFeatures(t *testing.T) {
	var buf bytes.Buffer
	sink := telemetry.New(&buf)
	ctx := telemetry.WithRunID(context.Background(), "r1")

	sink.EmitFileFeatures(ctx, "calc_tools.go", []byte("// header\n\npackage calc\n"), 2)

	events := decodeLines(t, buf.Bytes())
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev["event"] != "file_features" || ev["run_id"] != "r1" || ev["tools"] != float64(2) {
		t.Fatalf("unexpected event: %v", ev)
	}
	src, ok := ev["source"].(map[string]any)
	if !ok {
		t.Fatalf("source features missing: %v", ev)
	}
	if src["lines"] != float64(3) || src["code"] != float64(1) || src["comments"] != float64(1) {
		t.Fatalf("unexpected source features: %v", src)
	}
}

func TestEmitFileFeatures_NilSink(t *testing.T) {
	var sink *telemetry.Sink
	sink.EmitFileFeatures(context.Background(), "x.go", []byte("package x"), 0)
}
