package output

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/masmgr/revlens-go/internal/gitsource"
)

// ConsoleCommitListWriter writes commit listings to the console.
type ConsoleCommitListWriter struct{}

// Write outputs the commit listing to the console.
func (w *ConsoleCommitListWriter) Write(report *CommitListReport, options OutputOptions) error {
	commits := limitTop(report.Commits, options.Top)

	color.Green("Commit History")
	fmt.Printf("Repository: %s\n", report.RepoPath)
	if report.Branch != "" {
		fmt.Printf("Branch: %s\n", report.Branch)
	}
	fmt.Printf("Total commits: %d\n\n", len(report.Commits))

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSHA\tDate\tAuthor\tFiles\tMessage")
	for i, c := range commits {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n",
			i+1,
			c.ShortHash(),
			c.Date.Format(reportDateLayout),
			c.Author,
			len(c.Files),
			truncateMessage(c.Message, 60),
		)
	}
	tw.Flush()

	return nil
}

// ConsoleDiffWriter writes per-commit diff reports to the console.
type ConsoleDiffWriter struct{}

// Write outputs the diff report to the console.
func (w *ConsoleDiffWriter) Write(report *DiffReport, options OutputOptions) error {
	files := limitTop(report.Files, options.Top)

	color.Green("Commit %s", report.CommitHash)
	fmt.Printf("Repository: %s\n", report.RepoPath)
	fmt.Printf("Files changed: %d\n\n", len(report.Files))

	for _, f := range files {
		statusColor := getStatusColor(f.Status)
		fmt.Printf("%s %s (+%d -%d)\n", statusColor(f.Status.String()), f.Path, f.Insertions, f.Deletions)
		fmt.Println(f.Patch)
	}

	return nil
}

// ConsoleBlameWriter writes blame reports to the console.
type ConsoleBlameWriter struct{}

// Write outputs the blame report to the console.
func (w *ConsoleBlameWriter) Write(report *BlameReport, options OutputOptions) error {
	lines := limitTop(report.Lines, options.Top)

	color.Green("Blame %s", report.Path)
	fmt.Printf("Repository: %s\n", report.RepoPath)
	if report.Revision != "" {
		fmt.Printf("Revision: %s\n", report.Revision)
	}
	fmt.Println()

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, line := range lines {
		hash := line.Hash
		if len(hash) > 8 {
			hash = hash[:8]
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			hash,
			line.Author,
			line.Time.Format(reportDateLayout),
			line.Line,
			line.Content,
		)
	}
	tw.Flush()

	return nil
}

func getStatusColor(status gitsource.FileStatus) func(a ...interface{}) string {
	switch status {
	case gitsource.StatusAdded:
		return color.New(color.FgGreen).SprintFunc()
	case gitsource.StatusDeleted:
		return color.New(color.FgRed).SprintFunc()
	case gitsource.StatusRenamed, gitsource.StatusCopied:
		return color.New(color.FgCyan).SprintFunc()
	default:
		return color.New(color.FgYellow).SprintFunc()
	}
}
