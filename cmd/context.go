package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/masmgr/revlens-go/config"
	"github.com/masmgr/revlens-go/internal/gitsource"
	"github.com/masmgr/revlens-go/internal/output"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic across all commands.
type CommandContext struct {
	Config   *config.Config
	Log      *zap.Logger
	RepoPath string
	Repo     *gitsource.Repository
	Filter   gitsource.CommitFilter
}

// NewCommandContext creates a context from CLI flags.
// It performs configuration loading, date parsing, and repository binding.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	log := zap.NewNop()
	if c.Bool("verbose") {
		if dev, err := zap.NewDevelopment(); err == nil {
			log = dev
		}
	}

	since, err := parseDateFlag(c.String("since"))
	if err != nil {
		return nil, fmt.Errorf("invalid since date: %w", err)
	}
	until, err := parseDateFlag(c.String("until"))
	if err != nil {
		return nil, fmt.Errorf("invalid until date: %w", err)
	}

	branch := c.String("branch")
	if branch == "" && cfg.Listing.DefaultBranch != "HEAD" {
		branch = cfg.Listing.DefaultBranch
	}

	repoPath := c.String("repo")
	repo := gitsource.New(gitsource.Options{
		Logger: log,
		RunnerOpts: gitsource.RunnerOptions{
			MaxProcesses:   cfg.Runner.MaxProcesses,
			MaxRetries:     cfg.Runner.MaxRetries,
			RetryBaseDelay: cfg.Runner.RetryBaseDelay(),
		},
		DiffCacheLen:        cfg.Diff.CacheSize,
		ContextLines:        cfg.Diff.ContextLines,
		LookaheadLines:      cfg.Diff.LookaheadLines,
		RegionMergeDistance: cfg.Diff.RegionMergeDistance,
		LargeChangeRatio:    cfg.Diff.LargeChangeRatio,
		LargeChangeMinLines: cfg.Diff.LargeChangeMinLines,
		DefaultMaxCount:     cfg.Listing.DefaultMaxCount,
	})
	if err := repo.Bind(repoPath); err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", repoPath, err)
	}

	filter := gitsource.CommitFilter{
		Since:    since,
		Until:    until,
		MaxCount: c.Int("max-count"),
		Branch:   branch,
		Include:  cfg.Filters.Include,
		Exclude:  cfg.Filters.Exclude,
	}

	return &CommandContext{
		Config:   cfg,
		Log:      log,
		RepoPath: repoPath,
		Repo:     repo,
		Filter:   filter,
	}, nil
}

// Now returns the report generation timestamp.
func (ctx *CommandContext) Now() time.Time {
	return time.Now()
}

// OutputOptions creates OutputOptions from CLI flags.
func OutputOptions(c *cli.Context) output.OutputOptions {
	return output.OutputOptions{
		Format:     getOutputFormat(c.String("format")),
		Top:        c.Int("top"),
		OutputPath: c.String("output"),
	}
}
