package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// MarkdownCommitListWriter writes commit listings as Markdown.
type MarkdownCommitListWriter struct{}

// Write outputs the commit listing as Markdown.
func (w *MarkdownCommitListWriter) Write(report *CommitListReport, options OutputOptions) error {
	commits := limitTop(report.Commits, options.Top)

	out, file, err := createWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Commit History")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.RepoPath)
	if report.Branch != "" {
		fmt.Fprintf(out, "**Branch:** %s\n\n", report.Branch)
	}
	fmt.Fprintf(out, "**Total Commits:** %d\n\n", len(report.Commits))

	fmt.Fprintln(out, "| # | SHA | Date | Author | Files | Message |")
	fmt.Fprintln(out, "|---|-----|------|--------|-------|---------|")

	for i, c := range commits {
		fmt.Fprintf(out, "| %d | `%s` | %s | %s | %d | %s |\n",
			i+1,
			c.ShortHash(),
			c.Date.Format(reportDateLayout),
			c.Author,
			len(c.Files),
			escapeMarkdown(truncateMessage(c.Message, 60)),
		)
	}

	return nil
}

var markdownEscaper = strings.NewReplacer(
	"|", "\\|",
	"*", "\\*",
	"_", "\\_",
	"`", "\\`",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func createWriter(outputPath string) (io.Writer, *os.File, error) {
	return openOutputWriter(outputPath)
}
