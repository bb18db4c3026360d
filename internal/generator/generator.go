package generator

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/petasbytes/go-toolgen/internal/config"
	"github.com/petasbytes/go-toolgen/internal/emitter"
	"github.com/petasbytes/go-toolgen/internal/signature"
	"github.com/petasbytes/go-toolgen/internal/telemetry"
	"github.com/petasbytes/go-toolgen/toolkit"
)

const scanCacheSize = 512

type Generator struct {
	cfg    config.Config
	log    *zap.Logger
	events *telemetry.Sink
	scans  *lru.Cache[string, fileScan]
}

// Result describes a written tools file.
type Result struct {
	Source string
	Output string
	Tools  []string
}

// New returns a generator. log may be nil; events may be nil to disable telemetry.
func New(cfg config.Config, log *zap.Logger, events *telemetry.Sink) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	scans, err := lru.New[string, fileScan](scanCacheSize)
	if err != nil {
		panic(err) // only for a non-positive size
	}
	return &Generator{cfg: cfg, log: log, events: events, scans: scans}
}

// OutputPath is the default output file for a source file or manifest.
func OutputPath(source, suffix string) string {
	ext := filepath.Ext(source)
	return strings.TrimSuffix(source, ext) + suffix
}

// GenerateFile writes the tools of the annotated Go file at path. An empty
// output selects OutputPath. Nothing is written when any function fails
// analysis; the returned error joins every declaration error. Errors are
// logged before they are returned.
func (g *Generator) GenerateFile(ctx context.Context, path, output string) (*Result, error) {
	src, err := signature.ParseFile(token.NewFileSet(), path, nil, g.analyzerOptions())
	if err != nil {
		return nil, g.failed(ctx, path, err)
	}
	return g.generate(ctx, src, output)
}

// GenerateManifest writes the tools described by the YAML manifest at path.
func (g *Generator) GenerateManifest(ctx context.Context, path, output string) (*Result, error) {
	src, err := signature.LoadManifest(path)
	if err != nil {
		return nil, g.failed(ctx, path, err)
	}
	return g.generate(ctx, src, output)
}

// Describe returns the definitions the generated tools of path would
// advertise, without writing anything. Manifests are recognised by their
// .yaml or .yml extension.
func (g *Generator) Describe(path string) ([]toolkit.Definition, error) {
	src, err := g.load(path)
	if err != nil {
		return nil, err
	}
	file, err := emitter.Plan(src, g.cfg.Output.ErrorSuffix)
	if err != nil {
		return nil, err
	}
	defs := make([]toolkit.Definition, 0, len(file.Tools))
	for _, t := range file.Tools {
		defs = append(defs, t.Definition())
	}
	return defs, nil
}

func (g *Generator) load(path string) (*signature.Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return signature.LoadManifest(path)
	default:
		return signature.ParseFile(token.NewFileSet(), path, nil, g.analyzerOptions())
	}
}

func (g *Generator) analyzerOptions() signature.Options {
	return signature.Options{Strict: g.cfg.Checks.Strict, Logger: g.log}
}

func (g *Generator) generate(ctx context.Context, src *signature.Source, output string) (*Result, error) {
	start := time.Now()
	runID, ok := telemetry.RunIDFromContext(ctx)
	if !ok {
		runID = telemetry.NewRunID()
		ctx = telemetry.WithRunID(ctx, runID)
	}
	if output == "" {
		output = OutputPath(src.Path, g.cfg.Output.Suffix)
	}
	res := &Result{Source: src.Path, Output: output}

	if len(src.Functions) == 0 {
		g.log.Warn("no annotated functions", zap.String("source", src.Path))
		return res, nil
	}

	file, err := emitter.Plan(src, g.cfg.Output.ErrorSuffix)
	if err != nil {
		return nil, g.failed(ctx, src.Path, err)
	}
	if g.cfg.Checks.Collisions {
		if err := g.checkCollisions(src, file, output); err != nil {
			return nil, g.failed(ctx, src.Path, err)
		}
	}

	code, err := emitter.Render(output, file)
	if err != nil {
		return nil, g.failed(ctx, src.Path, err)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, g.failed(ctx, src.Path, fmt.Errorf("write %s: %w", output, err))
	}
	if err := os.WriteFile(output, code, 0o644); err != nil {
		return nil, g.failed(ctx, src.Path, fmt.Errorf("write %s: %w", output, err))
	}
	// The output may have been scanned while it still held older code.
	g.scans.Remove(output)

	for _, t := range file.Tools {
		res.Tools = append(res.Tools, t.Func)
		g.events.Emit("tool_generated", map[string]any{
			"run_id": runID,
			"tool":   t.Func,
			"async":  t.Async,
			"result": t.Result.String(),
			"params": len(t.Fields),
		})
	}
	g.events.EmitFileFeatures(ctx, output, code, len(file.Tools))
	g.events.Emit("generation", map[string]any{
		"run_id":      runID,
		"source":      src.Path,
		"output":      output,
		"tools":       len(file.Tools),
		"duration_ms": time.Since(start).Milliseconds(),
		"error":       nil,
	})
	g.log.Info("generated tools",
		zap.String("source", src.Path),
		zap.String("output", output),
		zap.Int("tools", len(file.Tools)),
		zap.Duration("took", time.Since(start)))
	return res, nil
}

// failed logs every joined error on its own line and records the failure.
func (g *Generator) failed(ctx context.Context, source string, err error) error {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	for _, e := range errs {
		g.log.Error("cannot generate tools", zap.String("source", source), zap.Error(e))
	}
	runID, _ := telemetry.RunIDFromContext(ctx)
	category := "generation error"
	var (
		declErr *signature.DeclError
		collErr *CollisionError
	)
	switch {
	case errors.As(err, &declErr):
		category = "declaration error"
	case errors.As(err, &collErr):
		category = "collision"
	}
	g.events.Emit("generation", map[string]any{
		"run_id": runID,
		"source": source,
		"errors": len(errs),
		"error":  category,
	})
	return err
}
