package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vanishmail/internal/config"
	"vanishmail/internal/credential"
	"vanishmail/internal/mcp"

	"go.uber.org/zap"
)

func TestVersionCommand(t *testing.T) {
	buf := new(bytes.Buffer)

	err := newRootCommand(buf).ParseAndRun(context.Background(), []string{"version"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := "vanish-mcp version " + mcp.Version
	if got := strings.TrimSpace(buf.String()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestServe_InvalidConfigFailsStartup(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "root", args: []string{"-base-url", "not a url"}},
		{name: "serve", args: []string{"-timeout", "0s", "serve"}},
		{name: "conflicting keys", args: []string{"-api-key", "k", "-api-key-file", "/nonexistent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newRootCommand(new(bytes.Buffer)).ParseAndRun(context.Background(), tt.args)
			if err == nil {
				t.Fatal("expected startup error")
			}
		})
	}
}

func TestServe_RootFlagsBeatEnvironment(t *testing.T) {
	// A valid env value must not replace an explicit (invalid) flag, so
	// startup has to fail validation rather than start serving.
	t.Setenv("VANISH_BASE_URL", "http://from-env.example")
	t.Setenv("VANISH_TIMEOUT", "5s")

	for _, args := range [][]string{
		{"-base-url", "not a url", "serve"},
		{"-base-url", "not a url"},
		{"-timeout", "0s", "serve"},
	} {
		err := newRootCommand(new(bytes.Buffer)).ParseAndRun(context.Background(), args)
		if err == nil {
			t.Errorf("%v: expected the flag to win over the environment and fail validation", args)
		}
	}
}

func TestServe_FlagsAfterSubcommandRejected(t *testing.T) {
	err := newRootCommand(new(bytes.Buffer)).ParseAndRun(context.Background(), []string{"serve", "-base-url", "http://x"})
	if err == nil {
		t.Fatal("expected an error for a flag after the serve subcommand")
	}
}

func TestServe_MissingKeyFileFailsStartup(t *testing.T) {
	args := []string{"-api-key-file", filepath.Join(t.TempDir(), "missing"), "serve"}
	err := newRootCommand(new(bytes.Buffer)).ParseAndRun(context.Background(), args)
	if err == nil {
		t.Fatal("expected startup error for a missing key file")
	}
}

func TestNewKeySource(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	keys, err := newKeySource(ctx, &config.Config{APIKey: "static"}, zap.NewNop())
	if err != nil {
		t.Fatalf("newKeySource failed: %v", err)
	}
	if _, ok := keys.(credential.Static); !ok || keys.APIKey() != "static" {
		t.Errorf("expected static key source, got %T(%q)", keys, keys.APIKey())
	}

	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	keys, err = newKeySource(ctx, &config.Config{APIKeyFile: path}, zap.NewNop())
	if err != nil {
		t.Fatalf("newKeySource failed: %v", err)
	}
	if keys.APIKey() != "from-file" {
		t.Errorf("got key %q, want from-file", keys.APIKey())
	}
}
