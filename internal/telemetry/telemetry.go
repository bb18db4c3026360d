// Package telemetry records generation and tool-execution events as JSON lines.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/petasbytes/go-toolgen/internal/config"
)

// Sink appends one JSON object per event. A nil *Sink discards events.
type Sink struct {
	log    *zap.Logger
	closer io.Closer
}

// Open returns a sink writing to cfg.Path, or nil when telemetry is disabled.
func Open(cfg config.TelemetryConfig) (*Sink, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("telemetry: mkdir: %w", err)
	}
	file := rotator(cfg)
	s := New(file)
	s.closer = file
	return s, nil
}

func rotator(cfg config.TelemetryConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
}

// New returns a sink writing to w.
func New(w io.Writer) *Sink {
	enc := zapcore.EncoderConfig{
		TimeKey:        "time",
		MessageKey:     "event",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), zapcore.DebugLevel)
	return &Sink{log: zap.New(core)}
}

// Emit writes a single event. Fields are written in key order; the
// caller's map is not retained.
func (s *Sink) Emit(name string, fields map[string]any) {
	if s == nil {
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	zf := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		zf = append(zf, zap.Any(k, fields[k]))
	}
	s.log.Info(name, zf...)
}

// Close flushes and closes the underlying file.
func (s *Sink) Close() error {
	if s == nil {
		return nil
	}
	_ = s.log.Sync()
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
