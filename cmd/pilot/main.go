package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/petasbytes/go-pilot/internal/config"
	"github.com/petasbytes/go-pilot/internal/console"
	"github.com/petasbytes/go-pilot/internal/fsops"
	"github.com/petasbytes/go-pilot/internal/logger"
	"github.com/petasbytes/go-pilot/internal/provider"
	"github.com/petasbytes/go-pilot/internal/runner"
	"github.com/petasbytes/go-pilot/internal/windowing"
	"github.com/petasbytes/go-pilot/tools"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pilot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(log)
	windowing.SetLogger(log)

	readRoot, writeRoot, err := fsops.Roots()
	if err != nil {
		return fmt.Errorf("sandbox: %w", err)
	}
	log.Debug("sandbox", "read_root", readRoot, "write_root", writeRoot)

	// Set up graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	con := console.New(os.Stdin, os.Stdout, console.WithErrorOutput(os.Stderr))

	reg := tools.Default(con)
	reg.SetLogger(log)

	opts := []runner.Option{
		runner.WithModel(cfg.Model),
		runner.WithMaxTokens(cfg.MaxTokens),
		runner.WithMaxSteps(cfg.MaxSteps),
		runner.WithTokenBudget(cfg.TokenBudget),
		runner.WithLogger(log),
		runner.WithHooks(runner.Hooks{Before: con.ToolStarted, After: con.ToolFinished}),
	}
	if cfg.SystemPrompt != "" {
		opts = append(opts, runner.WithSystemPrompt(cfg.SystemPrompt))
	}
	gw := provider.NewGateway(provider.NewAnthropicClient(cfg.APIKey))
	r := runner.New(gw, reg, opts...)

	con.Println("Chat with Claude (type exit or quit to leave)")
	for {
		con.Prompt()
		line, err := con.ReadLine(ctx)
		if err != nil {
			con.Println()
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				break
			}
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			con.Println("bye")
			break
		}

		answer, err := r.Process(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			con.Error(err)
			continue
		}
		if answer != "" {
			con.Answer(answer)
		}
	}

	if err := con.Err(); err != nil {
		log.Warn("stdin read error", "err", err)
	}
	return nil
}
