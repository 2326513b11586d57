package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/revlens-go/internal/gitsource"
	"github.com/masmgr/revlens-go/internal/output"
)

// DiffCmd returns the diff command.
func DiffCmd() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Aliases:   []string{"d"},
		Usage:     "Show diffs for a commit, one patch per changed file",
		ArgsUsage: "<commit> [path...]",
		Flags:     commonFlags(),
		Action:    diffAction,
	}
}

func diffAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a commit hash is required")
	}
	hash := c.Args().First()

	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	paths := c.Args().Tail()
	if len(paths) == 0 {
		paths = ctx.Repo.FilesForCommit(c.Context, hash)
	}

	files := make([]output.FileDiff, 0, len(paths))
	for _, path := range paths {
		patch := ctx.Repo.DiffFor(c.Context, hash, path)

		fd := output.FileDiff{Path: path, Patch: patch}
		if cf, err := ctx.Repo.CommitFileFor(c.Context, hash, path); err == nil {
			fd.Status = cf.Status
			fd.Insertions = cf.Insertions
			fd.Deletions = cf.Deletions
		} else {
			fd.Status = gitsource.StatusModified
		}
		files = append(files, fd)
	}

	report := &output.DiffReport{
		RepoPath:    ctx.RepoPath,
		CommitHash:  hash,
		GeneratedAt: ctx.Now(),
		Files:       files,
	}

	opts := OutputOptions(c)
	writer := output.NewDiffReportWriter(opts.Format)
	return writer.Write(report, opts)
}
