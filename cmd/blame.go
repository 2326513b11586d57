package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/revlens-go/internal/output"
)

// BlameCmd returns the blame command.
func BlameCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.StringFlag{
			Name:  "rev",
			Usage: "Revision to blame at (default: working tree HEAD)",
		},
	)

	return &cli.Command{
		Name:      "blame",
		Usage:     "Attribute each line of a file to the commit that last touched it",
		ArgsUsage: "<path>",
		Flags:     flags,
		Action:    blameAction,
	}
}

func blameAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a file path is required")
	}
	path := c.Args().First()

	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	rev := c.String("rev")
	lines := ctx.Repo.BlameFor(c.Context, path, rev)

	report := &output.BlameReport{
		RepoPath:    ctx.RepoPath,
		Path:        path,
		Revision:    rev,
		GeneratedAt: ctx.Now(),
		Lines:       lines,
	}

	opts := OutputOptions(c)
	writer := output.NewBlameReportWriter(opts.Format)
	return writer.Write(report, opts)
}
