package telemetry

import (
	"testing"

	"github.com/petasbytes/go-toolgen/internal/config"
)

func TestRotator_UsesConfiguredLimits(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.MaxSizeMB, cfg.MaxBackups = 2, 7

	r := rotator(cfg)
	if r.Filename != cfg.Path {
		t.Errorf("filename: want %s, got %s", cfg.Path, r.Filename)
	}
	if r.MaxSize != 2 || r.MaxBackups != 7 {
		t.Errorf("limits: want 2MB/7 backups, got %dMB/%d backups", r.MaxSize, r.MaxBackups)
	}
}
