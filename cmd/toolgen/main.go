// Command toolgen writes tool wrappers for the //toolgen:tool functions of a
// Go file, or for the functions listed in a YAML manifest.
//
// Usage:
//
//	toolgen [-config toolgen.toml] [-output path] [-describe] [file.go ...]
//	toolgen -manifest tools.yaml [-output path]
//
// Run from a //go:generate line with no file arguments, it processes $GOFILE.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/petasbytes/go-toolgen/internal/config"
	"github.com/petasbytes/go-toolgen/internal/generator"
	"github.com/petasbytes/go-toolgen/internal/logging"
	"github.com/petasbytes/go-toolgen/internal/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("toolgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", config.DefaultPath, "configuration file (optional)")
		manifest   = fs.String("manifest", "", "YAML manifest describing the tools")
		output     = fs.String("output", "", "output file (default <source>"+config.Default().Output.Suffix+")")
		describe   = fs.Bool("describe", false, "print tool definitions instead of writing code")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	// A missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "toolgen: %v\n", err)
		return 1
	}
	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "toolgen: %v\n", err)
		return 1
	}
	defer func() { _ = closeLog() }()

	events, err := telemetry.Open(cfg.Telemetry)
	if err != nil {
		log.Warn("telemetry disabled", zap.Error(err))
		events = nil
	}
	defer func() { _ = events.Close() }()

	inputs := fs.Args()
	if *manifest != "" {
		inputs = []string{*manifest}
	} else if len(inputs) == 0 {
		if gofile := os.Getenv("GOFILE"); gofile != "" {
			inputs = []string{gofile}
		}
	}
	if len(inputs) == 0 {
		fmt.Fprintln(stderr, "toolgen: no input; pass a Go file or -manifest, or run via go:generate")
		fs.Usage()
		return 2
	}
	if *output != "" && len(inputs) > 1 {
		fmt.Fprintln(stderr, "toolgen: -output requires a single input")
		return 2
	}

	ctx := telemetry.WithRunID(context.Background(), telemetry.NewRunID())
	gen := generator.New(cfg, log, events)

	failed := false
	for _, in := range inputs {
		if *describe {
			if err := describeFile(gen, in, stdout); err != nil {
				log.Error("describe failed", zap.String("source", in), zap.Error(err))
				failed = true
			}
			continue
		}
		var res *generator.Result
		if *manifest != "" {
			res, err = gen.GenerateManifest(ctx, in, *output)
		} else {
			res, err = gen.GenerateFile(ctx, in, *output)
		}
		if err != nil {
			// The generator has logged each cause.
			failed = true
			continue
		}
		fmt.Fprintf(stdout, "%s: %d tools -> %s\n", res.Source, len(res.Tools), res.Output)
	}
	if failed {
		return 1
	}
	return 0
}

func describeFile(gen *generator.Generator, path string, w io.Writer) error {
	defs, err := gen.Describe(path)
	if err != nil {
		return err
	}
	for _, d := range defs {
		b, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", b)
	}
	return nil
}
