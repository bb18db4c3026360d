// Package config loads toolgen.toml and applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "toolgen.toml"

type OutputConfig struct {
	Suffix      string `toml:"suffix"`
	ErrorSuffix string `toml:"errorSuffix"`
}

type ChecksConfig struct {
	Strict     bool `toml:"strict"`
	Collisions bool `toml:"collisions"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"maxSizeMB"`
	MaxBackups int    `toml:"maxBackups"`
}

type TelemetryConfig struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`
	MaxSizeMB  int    `toml:"maxSizeMB"`
	MaxBackups int    `toml:"maxBackups"`
}

// AgentConfig is read by the demo agent only.
type AgentConfig struct {
	Model     string `toml:"model"`
	MaxTokens int64  `toml:"maxTokens"`
}

type Config struct {
	Output    OutputConfig    `toml:"output"`
	Checks    ChecksConfig    `toml:"checks"`
	Log       LogConfig       `toml:"log"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Agent     AgentConfig     `toml:"agent"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Output: OutputConfig{Suffix: "_tools.go", ErrorSuffix: "ToolError"},
		Checks: ChecksConfig{Strict: true, Collisions: true},
		Log:    LogConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 3},
		Telemetry: TelemetryConfig{
			Path:       ".toolgen/events.jsonl",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Agent: AgentConfig{Model: "claude-3-7-sonnet-latest", MaxTokens: 1024},
	}
}

// Load decodes path over the defaults, applies environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return Config{}, fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("TOOLGEN_LOG_LEVEL"); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := os.LookupEnv("TOOLGEN_LOG_FILE"); ok {
		cfg.Log.File = v
	}
	if v, ok := os.LookupEnv("TOOLGEN_ERROR_SUFFIX"); ok && v != "" {
		cfg.Output.ErrorSuffix = v
	}
	// Honour explicit 0/1 like the agent's observe flag.
	if v, ok := os.LookupEnv("TOOLGEN_OBSERVE_JSON"); ok && v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TOOLGEN_OBSERVE_JSON: %w", err)
		}
		cfg.Telemetry.Enabled = on
	}
	if v, ok := os.LookupEnv("ANTHROPIC_MODEL"); ok && v != "" {
		cfg.Agent.Model = v
	}
	return nil
}

// Validate reports settings that would produce uncompilable output or an
// unusable logger.
func (c Config) Validate() error {
	if !strings.HasSuffix(c.Output.Suffix, ".go") || strings.HasSuffix(c.Output.Suffix, "_test.go") {
		return fmt.Errorf("config: output.suffix %q must end in .go and not _test.go", c.Output.Suffix)
	}
	switch c.Output.ErrorSuffix {
	case "ToolError", "Error":
	default:
		return fmt.Errorf("config: output.errorSuffix must be ToolError or Error, got %q", c.Output.ErrorSuffix)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if c.Telemetry.Enabled && c.Telemetry.Path == "" {
		return errors.New("config: telemetry.path is required when telemetry is enabled")
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Telemetry.MaxSizeMB < 0 || c.Telemetry.MaxBackups < 0 {
		return errors.New("config: maxSizeMB and maxBackups must not be negative")
	}
	if c.Agent.MaxTokens <= 0 {
		return fmt.Errorf("config: agent.maxTokens must be positive, got %d", c.Agent.MaxTokens)
	}
	return nil
}
