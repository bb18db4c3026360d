// Package logging builds the zap logger shared by toolgen's commands.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/petasbytes/go-toolgen/internal/config"
)

// New returns a console logger on stderr. When cfg.File is set, entries are
// also written as JSON to a lumberjack-rotated file. The returned close func
// flushes the logger and closes that file; call it once, on exit.
func New(cfg config.LogConfig) (*zap.Logger, func() error, error) {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg config.LogConfig, console io.Writer) (*zap.Logger, func() error, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}

	consoleEnc := zap.NewDevelopmentEncoderConfig()
	consoleEnc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEnc), zapcore.AddSync(console), level),
	}

	var rotate *lumberjack.Logger
	if cfg.File != "" {
		rotate = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotate),
			level,
		))
	}
	log := zap.New(zapcore.NewTee(cores...))
	closeFn := func() error {
		// Sync on a terminal stderr fails on some platforms; only the file matters.
		_ = log.Sync()
		if rotate == nil {
			return nil
		}
		return rotate.Close()
	}
	return log, closeFn, nil
}
