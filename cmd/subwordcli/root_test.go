package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/example/go-subword/internal/config"
)

func TestNewRootCmd_HasExpectedSubcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"encode", "nbest", "marginal", "vocab", "serve", "health"}
	for _, name := range want {
		found := false

		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}

		if !found {
			t.Errorf("expected subcommand %q not found in root", name)
		}
	}
}

func TestNewRootCmd_HasPersistentConfigFlag(t *testing.T) {
	root := NewRootCmd()
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("expected --config persistent flag to be registered")
	}
}

func TestSetupLogger_DoesNotPanic(_ *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		setupLogger(level)
	}
}

func TestSetupLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	setupLogger("not-a-level")

	h := slog.Default().Handler()
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info level disabled after invalid level, want enabled")
	}
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level enabled after invalid level, want disabled")
	}
}

func TestRequireConfig_FailsWhenNotInitialized(t *testing.T) {
	orig := activeCfg

	t.Cleanup(func() { activeCfg = orig })

	activeCfg = config.Config{}

	_, err := requireConfig()
	if err == nil {
		t.Fatal("expected error when config is not loaded")
	}
}

func TestRequireConfig_SucceedsWhenLoaded(t *testing.T) {
	orig := activeCfg

	t.Cleanup(func() { activeCfg = orig })

	activeCfg = config.Config{
		Vocab: config.VocabConfig{Path: "/some/vocab.json"},
	}

	got, err := requireConfig()
	if err != nil {
		t.Fatalf("requireConfig returned unexpected error: %v", err)
	}

	if got.Vocab.Path != "/some/vocab.json" {
		t.Errorf("unexpected Vocab.Path: %q", got.Vocab.Path)
	}
}
