package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"vanishmail/internal/config"
	"vanishmail/internal/credential"
	"vanishmail/internal/logger"
	"vanishmail/internal/mcp"
	"vanishmail/internal/vanish"

	"github.com/peterbourgon/ff/v3/ffcli"
	"go.uber.org/zap"
)

func main() {
	config.LoadDotEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdout).ParseAndRun(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// newRootCommand builds the command tree. The root command and "serve" both
// run the MCP server, so MCP client configs can invoke the binary bare.
// Configuration flags are registered on the root only and go before the
// subcommand, so ff parses them exactly once.
func newRootCommand(stdout io.Writer) *ffcli.Command {
	cfg := &config.Config{}

	rootFlagSet := flag.NewFlagSet("vanish-mcp", flag.ContinueOnError)
	config.RegisterFlags(rootFlagSet, cfg)

	exec := func(ctx context.Context, args []string) error {
		return serve(ctx, cfg)
	}

	serveCmd := &ffcli.Command{
		Name:       "serve",
		ShortUsage: "vanish-mcp [flags] serve",
		ShortHelp:  "Start MCP server (STDIO transport)",
		LongHelp: `Start the Model Context Protocol (MCP) server for the Vanish temporary email API.

The server exposes six tools:
  get-domains     List available email domains
  generate-email  Generate a temporary email address
  list-emails     List emails for a mailbox
  get-email       Show one email in full
  delete-email    Delete one email
  delete-mailbox  Delete every email in a mailbox

Flags go before the subcommand. Every flag can also be set through the
environment, e.g. VANISH_BASE_URL and VANISH_API_KEY, or from the file
named by -config.

Exit codes:
  0  Normal shutdown
  1  Startup failure

Examples:
  VANISH_API_KEY=... vanish-mcp
  vanish-mcp -api-key-file /run/secrets/vanish-key serve`,
		FlagSet: flag.NewFlagSet("vanish-mcp serve", flag.ContinueOnError),
		Exec:    exec,
	}

	versionCmd := &ffcli.Command{
		Name:       "version",
		ShortUsage: "vanish-mcp version",
		ShortHelp:  "Print the version",
		FlagSet:    flag.NewFlagSet("vanish-mcp version", flag.ContinueOnError),
		Exec: func(ctx context.Context, args []string) error {
			fmt.Fprintf(stdout, "vanish-mcp version %s\n", mcp.Version)
			return nil
		},
	}

	return &ffcli.Command{
		ShortUsage:  "vanish-mcp [flags] [serve|version]",
		ShortHelp:   "MCP server for the Vanish temporary email API",
		FlagSet:     rootFlagSet,
		Options:     config.Options(),
		Subcommands: []*ffcli.Command{serveCmd, versionCmd},
		Exec:        exec,
	}
}

// serve wires config, logger, credential and client into the MCP server and
// blocks until the client disconnects or ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, LogFile: cfg.LogFile, Compress: true})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	keys, err := newKeySource(ctx, cfg, log)
	if err != nil {
		log.Error("load api key", zap.Error(err))
		return err
	}
	if keys.APIKey() == "" {
		log.Warn("no API key configured; requests are sent unauthenticated")
	}

	client := vanish.NewClient(vanish.Options{
		BaseURL:   cfg.BaseURL,
		Keys:      keys,
		Timeout:   cfg.Timeout,
		UserAgent: "vanish-mcp/" + mcp.Version,
	})

	server, err := mcp.NewServer(client, &mcp.ServerOptions{Logger: log})
	if err != nil {
		log.Error("create server", zap.Error(err))
		return err
	}

	if err := server.Run(ctx, nil); err != nil {
		// Context cancellation is normal shutdown
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
	return nil
}

// newKeySource returns a watched file source when APIKeyFile is set,
// otherwise the static key (possibly empty).
func newKeySource(ctx context.Context, cfg *config.Config, log *zap.Logger) (vanish.KeySource, error) {
	if cfg.APIKeyFile == "" {
		return credential.Static(cfg.APIKey), nil
	}

	src, err := credential.NewFileSource(cfg.APIKeyFile, log)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := src.Watch(ctx); err != nil {
			log.Warn("api key file will not be reloaded", zap.Error(err))
		}
	}()
	return src, nil
}
