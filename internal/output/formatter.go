package output

import (
	"time"

	"github.com/masmgr/revlens-go/internal/gitsource"
)

// Compile-time interface conformance checks.
// These ensure that all writer types correctly implement their respective interfaces.
var (
	// CommitListWriter implementations
	_ CommitListWriter = (*ConsoleCommitListWriter)(nil)
	_ CommitListWriter = (*JSONCommitListWriter)(nil)
	_ CommitListWriter = (*CSVCommitListWriter)(nil)
	_ CommitListWriter = (*MarkdownCommitListWriter)(nil)

	// DiffReportWriter implementations
	_ DiffReportWriter = (*ConsoleDiffWriter)(nil)
	_ DiffReportWriter = (*JSONDiffWriter)(nil)

	// BlameReportWriter implementations
	_ BlameReportWriter = (*ConsoleBlameWriter)(nil)
	_ BlameReportWriter = (*JSONBlameWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Top        int
	OutputPath string
}

// CommitListReport holds the results of a commit listing.
type CommitListReport struct {
	RepoPath    string
	Branch      string
	GeneratedAt time.Time
	Commits     []gitsource.Commit
}

// FileDiff is one file's change within a diff report.
type FileDiff struct {
	Path       string
	Status     gitsource.FileStatus
	Insertions int
	Deletions  int
	Patch      string
}

// DiffReport holds the synthesized diffs for one commit.
type DiffReport struct {
	RepoPath    string
	CommitHash  string
	GeneratedAt time.Time
	Files       []FileDiff
}

// BlameReport holds line attribution for one file at one revision.
type BlameReport struct {
	RepoPath    string
	Path        string
	Revision    string
	GeneratedAt time.Time
	Lines       []gitsource.BlameLine
}

// CommitListWriter writes commit listing reports.
type CommitListWriter interface {
	Write(report *CommitListReport, options OutputOptions) error
}

// DiffReportWriter writes per-commit diff reports.
type DiffReportWriter interface {
	Write(report *DiffReport, options OutputOptions) error
}

// BlameReportWriter writes blame reports.
type BlameReportWriter interface {
	Write(report *BlameReport, options OutputOptions) error
}

// NewCommitListWriter creates a commit listing writer for the specified format.
func NewCommitListWriter(format OutputFormat) CommitListWriter {
	switch format {
	case FormatJSON:
		return &JSONCommitListWriter{}
	case FormatCSV:
		return &CSVCommitListWriter{}
	case FormatMarkdown:
		return &MarkdownCommitListWriter{}
	default:
		return &ConsoleCommitListWriter{}
	}
}

// NewDiffReportWriter creates a diff report writer for the specified format.
func NewDiffReportWriter(format OutputFormat) DiffReportWriter {
	switch format {
	case FormatJSON:
		return &JSONDiffWriter{}
	default:
		return &ConsoleDiffWriter{}
	}
}

// NewBlameReportWriter creates a blame report writer for the specified format.
func NewBlameReportWriter(format OutputFormat) BlameReportWriter {
	switch format {
	case FormatJSON:
		return &JSONBlameWriter{}
	default:
		return &ConsoleBlameWriter{}
	}
}
