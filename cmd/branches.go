package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// BranchesCmd returns the branches command.
func BranchesCmd() *cli.Command {
	return &cli.Command{
		Name:   "branches",
		Usage:  "List local branch names",
		Flags:  commonFlags(),
		Action: branchesAction,
	}
}

func branchesAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	branches, err := ctx.Repo.Branches(c.Context)
	if err != nil {
		return fmt.Errorf("failed to list branches: %w", err)
	}

	for _, b := range branches {
		fmt.Println(b)
	}
	return nil
}
