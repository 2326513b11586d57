package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Runner.MaxProcesses != 6 {
		t.Errorf("Runner.MaxProcesses = %d, expected 6", cfg.Runner.MaxProcesses)
	}
	if cfg.Runner.MaxRetries != 2 {
		t.Errorf("Runner.MaxRetries = %d, expected 2", cfg.Runner.MaxRetries)
	}
	if cfg.Runner.RetryBaseDelayMs != 100 {
		t.Errorf("Runner.RetryBaseDelayMs = %d, expected 100", cfg.Runner.RetryBaseDelayMs)
	}
	if cfg.Diff.CacheSize != 512 {
		t.Errorf("Diff.CacheSize = %d, expected 512", cfg.Diff.CacheSize)
	}
	if cfg.Diff.ContextLines != 3 {
		t.Errorf("Diff.ContextLines = %d, expected 3", cfg.Diff.ContextLines)
	}
	if cfg.Diff.LookaheadLines != 5 {
		t.Errorf("Diff.LookaheadLines = %d, expected 5", cfg.Diff.LookaheadLines)
	}
	if cfg.Diff.RegionMergeDistance != 3 {
		t.Errorf("Diff.RegionMergeDistance = %d, expected 3", cfg.Diff.RegionMergeDistance)
	}
	if cfg.Diff.LargeChangeRatio != 0.1 {
		t.Errorf("Diff.LargeChangeRatio = %f, expected 0.1", cfg.Diff.LargeChangeRatio)
	}
	if cfg.Listing.DefaultMaxCount != 50 {
		t.Errorf("Listing.DefaultMaxCount = %d, expected 50", cfg.Listing.DefaultMaxCount)
	}
	if cfg.Listing.DefaultBranch != "HEAD" {
		t.Errorf("Listing.DefaultBranch = %q, expected %q", cfg.Listing.DefaultBranch, "HEAD")
	}
	if cfg.Output.Format != "console" {
		t.Errorf("Output.Format = %q, expected %q", cfg.Output.Format, "console")
	}
}

func TestRunnerConfig_RetryBaseDelay(t *testing.T) {
	r := RunnerConfig{RetryBaseDelayMs: 250}
	if got := r.RetryBaseDelay(); got != 250*time.Millisecond {
		t.Errorf("RetryBaseDelay() = %v, expected 250ms", got)
	}
}

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Diff.ContextLines != 3 {
		t.Errorf("expected default ContextLines, got %d", cfg.Diff.ContextLines)
	}
}

func TestLoadConfig_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "revlens.json")
	content := `{"diff": {"cacheSize": 64, "contextLines": 5}, "runner": {"maxProcesses": 2}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Diff.CacheSize != 64 {
		t.Errorf("Diff.CacheSize = %d, expected 64", cfg.Diff.CacheSize)
	}
	if cfg.Diff.ContextLines != 5 {
		t.Errorf("Diff.ContextLines = %d, expected 5", cfg.Diff.ContextLines)
	}
	if cfg.Runner.MaxProcesses != 2 {
		t.Errorf("Runner.MaxProcesses = %d, expected 2", cfg.Runner.MaxProcesses)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	cfg := DefaultConfig()
	cfg.Filters.Exclude = []string{"vendor/**"}

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig returned error: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if len(loaded.Filters.Exclude) != 1 || loaded.Filters.Exclude[0] != "vendor/**" {
		t.Errorf("Filters.Exclude = %v", loaded.Filters.Exclude)
	}
}
