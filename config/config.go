package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	Runner  RunnerConfig  `json:"runner"`
	Diff    DiffConfig    `json:"diff"`
	Listing ListingConfig `json:"listing"`
	Filters FilterConfig  `json:"filters"`
	Output  OutputConfig  `json:"output"`
}

// RunnerConfig holds git process invocation options.
type RunnerConfig struct {
	MaxProcesses     int `json:"maxProcesses"`     // Concurrent git process cap
	MaxRetries       int `json:"maxRetries"`       // Retries on transient failures
	RetryBaseDelayMs int `json:"retryBaseDelayMs"` // Base backoff delay, doubled per attempt
}

// RetryBaseDelay returns the base delay as a duration.
func (r RunnerConfig) RetryBaseDelay() time.Duration {
	return time.Duration(r.RetryBaseDelayMs) * time.Millisecond
}

// DiffConfig holds diff synthesis and caching options.
type DiffConfig struct {
	CacheSize           int     `json:"cacheSize"`           // Content-addressed diff cache entries
	ContextLines        int     `json:"contextLines"`        // Unified context lines per hunk
	LookaheadLines      int     `json:"lookaheadLines"`      // Realignment search window
	RegionMergeDistance int     `json:"regionMergeDistance"` // Max gap between merged change regions
	LargeChangeRatio    float64 `json:"largeChangeRatio"`    // Changed-line ratio triggering fallback
	LargeChangeMinLines int     `json:"largeChangeMinLines"` // Minimum file size before the ratio applies
}

// ListingConfig holds commit enumeration options.
type ListingConfig struct {
	DefaultMaxCount int    `json:"defaultMaxCount"` // Commit count when no limit is given
	DefaultBranch   string `json:"defaultBranch"`   // Default: "HEAD"
}

// FilterConfig holds file path filtering options.
type FilterConfig struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// OutputConfig holds report rendering options.
type OutputConfig struct {
	Format string `json:"format"` // "console" or "json"
	Color  bool   `json:"color"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Runner: RunnerConfig{
			MaxProcesses:     6,
			MaxRetries:       2,
			RetryBaseDelayMs: 100,
		},
		Diff: DiffConfig{
			CacheSize:           512,
			ContextLines:        3,
			LookaheadLines:      5,
			RegionMergeDistance: 3,
			LargeChangeRatio:    0.1,
			LargeChangeMinLines: 20,
		},
		Listing: ListingConfig{
			DefaultMaxCount: 50,
			DefaultBranch:   "HEAD",
		},
		Filters: FilterConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Output: OutputConfig{
			Format: "console",
			Color:  true,
		},
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		// Try default locations
		candidates := []string{".revlens.json"}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, ".revlens.json"))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, ".revlens.json"))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
