package telemetry

import (
	"context"

	"github.com/petasbytes/go-toolgen/internal/metrics"
)

// EmitFileFeatures records the size of a generated file.
func (s *Sink) EmitFileFeatures(ctx context.Context, output string, src []byte, tools int) {
	if s == nil {
		return
	}
	runID, _ := RunIDFromContext(ctx)
	f := metrics.CountFeatures(string(src))
	s.Emit("file_features", map[string]any{
		"run_id":           runID,
		"features_version": "1",
		"output":           output,
		"tools":            tools,
		"source": map[string]any{
			"bytes":    f.Bytes,
			"runes":    f.Runes,
			"lines":    f.Lines,
			"code":     f.Code,
			"comments": f.Comments,
		},
	})
}
