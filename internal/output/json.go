package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONCommitListWriter writes commit listings as JSON.
type JSONCommitListWriter struct{}

// JSONCommitListReport is the JSON output structure for commit listings.
type JSONCommitListReport struct {
	RepoPath     string           `json:"repo"`
	Branch       string           `json:"branch,omitempty"`
	GeneratedAt  string           `json:"generatedAt"`
	TotalCommits int              `json:"totalCommits"`
	Commits      []JSONCommitItem `json:"commits"`
}

// JSONCommitItem is the JSON output structure for a single commit.
type JSONCommitItem struct {
	SHA         string   `json:"sha"`
	Date        string   `json:"date"`
	Author      string   `json:"author"`
	AuthorEmail string   `json:"authorEmail"`
	Message     string   `json:"message"`
	Files       []string `json:"files"`
}

// Write outputs the commit listing as JSON.
func (w *JSONCommitListWriter) Write(report *CommitListReport, options OutputOptions) error {
	commits := limitTop(report.Commits, options.Top)

	jsonItems := make([]JSONCommitItem, len(commits))
	for i, c := range commits {
		jsonItems[i] = JSONCommitItem{
			SHA:         c.Hash,
			Date:        c.Date.Format(time.RFC3339),
			Author:      c.Author,
			AuthorEmail: c.AuthorEmail,
			Message:     c.Message,
			Files:       c.Files,
		}
	}

	jsonReport := JSONCommitListReport{
		RepoPath:     report.RepoPath,
		Branch:       report.Branch,
		GeneratedAt:  report.GeneratedAt.Format(time.RFC3339),
		TotalCommits: len(report.Commits),
		Commits:      jsonItems,
	}

	return writeJSON(jsonReport, options.OutputPath)
}

// JSONDiffWriter writes per-commit diff reports as JSON.
type JSONDiffWriter struct{}

// JSONDiffReport is the JSON output structure for diff reports.
type JSONDiffReport struct {
	RepoPath    string         `json:"repo"`
	SHA         string         `json:"sha"`
	GeneratedAt string         `json:"generatedAt"`
	TotalFiles  int            `json:"totalFiles"`
	Files       []JSONFileDiff `json:"files"`
}

// JSONFileDiff is the JSON output structure for one file's diff.
type JSONFileDiff struct {
	Path       string `json:"path"`
	Status     string `json:"status"`
	Insertions int    `json:"insertions"`
	Deletions  int    `json:"deletions"`
	Patch      string `json:"patch"`
}

// Write outputs the diff report as JSON.
func (w *JSONDiffWriter) Write(report *DiffReport, options OutputOptions) error {
	files := limitTop(report.Files, options.Top)

	jsonFiles := make([]JSONFileDiff, len(files))
	for i, f := range files {
		jsonFiles[i] = JSONFileDiff{
			Path:       f.Path,
			Status:     f.Status.String(),
			Insertions: f.Insertions,
			Deletions:  f.Deletions,
			Patch:      f.Patch,
		}
	}

	jsonReport := JSONDiffReport{
		RepoPath:    report.RepoPath,
		SHA:         report.CommitHash,
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		TotalFiles:  len(report.Files),
		Files:       jsonFiles,
	}

	return writeJSON(jsonReport, options.OutputPath)
}

// JSONBlameWriter writes blame reports as JSON.
type JSONBlameWriter struct{}

// JSONBlameReport is the JSON output structure for blame reports.
type JSONBlameReport struct {
	RepoPath    string          `json:"repo"`
	Path        string          `json:"path"`
	Revision    string          `json:"revision,omitempty"`
	GeneratedAt string          `json:"generatedAt"`
	TotalLines  int             `json:"totalLines"`
	Lines       []JSONBlameLine `json:"lines"`
}

// JSONBlameLine is the JSON output structure for one attributed line.
type JSONBlameLine struct {
	Line    int    `json:"line"`
	SHA     string `json:"sha"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Message string `json:"message"`
	Content string `json:"content"`
}

// Write outputs the blame report as JSON.
func (w *JSONBlameWriter) Write(report *BlameReport, options OutputOptions) error {
	lines := limitTop(report.Lines, options.Top)

	jsonLines := make([]JSONBlameLine, len(lines))
	for i, line := range lines {
		jsonLines[i] = JSONBlameLine{
			Line:    line.Line,
			SHA:     line.Hash,
			Author:  line.Author,
			Date:    line.Time.Format(time.RFC3339),
			Message: line.Message,
			Content: line.Content,
		}
	}

	jsonReport := JSONBlameReport{
		RepoPath:    report.RepoPath,
		Path:        report.Path,
		Revision:    report.Revision,
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		TotalLines:  len(report.Lines),
		Lines:       jsonLines,
	}

	return writeJSON(jsonReport, options.OutputPath)
}

func writeJSON(data interface{}, outputPath string) error {
	encoder := json.NewEncoder(os.Stdout)
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		encoder = json.NewEncoder(file)
	}

	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
