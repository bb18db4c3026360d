// Command agent chats with Claude using the generated calculator tools. With
// -mcp it serves the same tools over MCP on stdio instead, and with -http it
// serves them as JSON routes.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/petasbytes/go-toolgen/examples/calculator"
	"github.com/petasbytes/go-toolgen/internal/config"
	"github.com/petasbytes/go-toolgen/internal/logging"
	"github.com/petasbytes/go-toolgen/internal/provider"
	"github.com/petasbytes/go-toolgen/internal/runner"
	"github.com/petasbytes/go-toolgen/internal/telemetry"
	"github.com/petasbytes/go-toolgen/toolkit"
	"github.com/petasbytes/go-toolgen/toolkit/ginapi"
	"github.com/petasbytes/go-toolgen/toolkit/mcpserver"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "configuration file (optional)")
	serveMCP := flag.Bool("mcp", false, "serve the tools over MCP on stdio")
	httpAddr := flag.String("http", "", "serve the tools over HTTP on this address")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "agent: %v\n", err)
		os.Exit(1)
	}
	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "agent: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = closeLog() }()

	// Set up graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := calculator.Registry()
	switch {
	case *serveMCP:
		err = runMCP(ctx, reg)
	case *httpAddr != "":
		err = runHTTP(ctx, log, *httpAddr, reg)
	default:
		err = chat(ctx, cfg, log, reg)
	}
	if err != nil {
		log.Error("agent stopped", zap.Error(err))
		_ = closeLog()
		os.Exit(1)
	}
}

func runMCP(ctx context.Context, reg *toolkit.Registry) error {
	s, err := mcpserver.NewServer(ctx, "toolgen-calculator", "1.0.0", reg)
	if err != nil {
		return err
	}
	return server.ServeStdio(s)
}

func runHTTP(ctx context.Context, log *zap.Logger, addr string, reg *toolkit.Registry) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	ginapi.Mount(r, reg)

	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info("serving tools", zap.String("addr", addr), zap.Int("tools", reg.Len()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func chat(ctx context.Context, cfg config.Config, log *zap.Logger, reg *toolkit.Registry) error {
	// Basic env check (SDK also reads API key)
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		return errors.New("missing ANTHROPIC_API_KEY; export it before running")
	}

	events, err := telemetry.Open(cfg.Telemetry)
	if err != nil {
		log.Warn("telemetry disabled", zap.Error(err))
		events = nil
	}
	defer func() { _ = events.Close() }()

	r := runner.New(provider.NewAnthropicClient(), reg)
	r.MaxTokens = cfg.Agent.MaxTokens
	r.Log = log
	r.Events = events
	model := provider.Model(cfg.Agent.Model)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Chat with Claude (Ctrl-C to quit)")

	// stdin reader goroutine -> lines into channel
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

	var conv []anthropic.MessageParam
outer:
	for {
		fmt.Print("\u001b[94mYou\u001b[0m: ")
		var (
			user string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Println("\nExiting...")
			break outer
		case user, ok = <-inputCh:
			if !ok {
				break outer
			}
		}
		conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(user)))

		// One run id per user turn, shared by every step and tool call.
		turnCtx := telemetry.WithRunID(ctx, telemetry.NewRunID())
		for {
			msg, toolResults, err := r.RunOneStep(turnCtx, model, conv)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				break
			}
			conv = append(conv, msg.ToParam())
			if len(toolResults) == 0 {
				break // done with assistant turn
			}
			// Provide tool results as a user message back to the model
			conv = append(conv, anthropic.NewUserMessage(toolResults...))
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn("stdin read error", zap.Error(err))
	}
	return nil
}
