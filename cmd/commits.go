package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/revlens-go/internal/output"
)

// CommitsCmd returns the commits command.
func CommitsCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.StringFlag{
			Name:  "id",
			Usage: "Look up a single commit by hash or unique prefix",
		},
	)

	return &cli.Command{
		Name:    "commits",
		Aliases: []string{"c"},
		Usage:   "List commits with their metadata and touched files",
		Flags:   flags,
		Action:  commitsAction,
	}
}

func commitsAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	var report *output.CommitListReport

	if id := c.String("id"); id != "" {
		found, err := ctx.Repo.GetCommitByID(c.Context, id)
		if err != nil {
			return fmt.Errorf("failed to look up commit %s: %w", id, err)
		}
		report = &output.CommitListReport{
			RepoPath:    ctx.RepoPath,
			Branch:      ctx.Filter.Branch,
			GeneratedAt: ctx.Now(),
			Commits:     found,
		}
	} else {
		found, err := ctx.Repo.ListCommits(c.Context, ctx.Filter)
		if err != nil {
			return fmt.Errorf("failed to list commits: %w", err)
		}
		report = &output.CommitListReport{
			RepoPath:    ctx.RepoPath,
			Branch:      ctx.Filter.Branch,
			GeneratedAt: ctx.Now(),
			Commits:     found,
		}
	}

	opts := OutputOptions(c)
	writer := output.NewCommitListWriter(opts.Format)
	return writer.Write(report, opts)
}
