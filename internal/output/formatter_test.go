package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/masmgr/revlens-go/internal/gitsource"
)

func TestNewCommitListWriter(t *testing.T) {
	tests := []struct {
		name   string
		format OutputFormat
	}{
		{name: "Console", format: FormatConsole},
		{name: "JSON", format: FormatJSON},
		{name: "CSV", format: FormatCSV},
		{name: "Markdown", format: FormatMarkdown},
		{name: "Unknown defaults to Console", format: "unknown"},
		{name: "Empty defaults to Console", format: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := NewCommitListWriter(tt.format)
			if writer == nil {
				t.Fatal("NewCommitListWriter returned nil")
			}

			switch tt.format {
			case FormatJSON:
				if _, ok := writer.(*JSONCommitListWriter); !ok {
					t.Errorf("Expected *JSONCommitListWriter for format %q", tt.format)
				}
			case FormatCSV:
				if _, ok := writer.(*CSVCommitListWriter); !ok {
					t.Errorf("Expected *CSVCommitListWriter for format %q", tt.format)
				}
			case FormatMarkdown:
				if _, ok := writer.(*MarkdownCommitListWriter); !ok {
					t.Errorf("Expected *MarkdownCommitListWriter for format %q", tt.format)
				}
			default:
				if _, ok := writer.(*ConsoleCommitListWriter); !ok {
					t.Errorf("Expected *ConsoleCommitListWriter for format %q", tt.format)
				}
			}
		})
	}
}

func TestNewDiffReportWriter(t *testing.T) {
	if _, ok := NewDiffReportWriter(FormatJSON).(*JSONDiffWriter); !ok {
		t.Error("Expected *JSONDiffWriter for JSON format")
	}
	if _, ok := NewDiffReportWriter(FormatConsole).(*ConsoleDiffWriter); !ok {
		t.Error("Expected *ConsoleDiffWriter for console format")
	}
	if _, ok := NewDiffReportWriter("unknown").(*ConsoleDiffWriter); !ok {
		t.Error("Expected *ConsoleDiffWriter for unknown format")
	}
}

func TestNewBlameReportWriter(t *testing.T) {
	if _, ok := NewBlameReportWriter(FormatJSON).(*JSONBlameWriter); !ok {
		t.Error("Expected *JSONBlameWriter for JSON format")
	}
	if _, ok := NewBlameReportWriter(FormatConsole).(*ConsoleBlameWriter); !ok {
		t.Error("Expected *ConsoleBlameWriter for console format")
	}
}

func sampleCommitListReport() *CommitListReport {
	return &CommitListReport{
		RepoPath:    "/repo",
		Branch:      "main",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Commits: []gitsource.Commit{
			{
				Hash:        "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
				Date:        time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC),
				Message:     "fix | pipe in message",
				Author:      "Alice",
				AuthorEmail: "alice@test.com",
				Files:       []string{"a.go", "b.go"},
			},
			{
				Hash:        "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
				Date:        time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC),
				Message:     "add feature",
				Author:      "Bob",
				AuthorEmail: "bob@test.com",
				Files:       []string{"c.go"},
			},
		},
	}
}

func TestJSONCommitListWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commits.json")

	writer := &JSONCommitListWriter{}
	err := writer.Write(sampleCommitListReport(), OutputOptions{OutputPath: path})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var report JSONCommitListReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if report.TotalCommits != 2 {
		t.Errorf("TotalCommits = %d, expected 2", report.TotalCommits)
	}
	if report.Commits[0].Author != "Alice" {
		t.Errorf("Author = %q", report.Commits[0].Author)
	}
	if len(report.Commits[0].Files) != 2 {
		t.Errorf("Files = %v", report.Commits[0].Files)
	}
}

func TestJSONCommitListWriter_Top(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commits.json")

	writer := &JSONCommitListWriter{}
	err := writer.Write(sampleCommitListReport(), OutputOptions{OutputPath: path, Top: 1})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var report JSONCommitListReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatal(err)
	}
	if len(report.Commits) != 1 {
		t.Errorf("expected 1 commit after Top limit, got %d", len(report.Commits))
	}
	// TotalCommits still reflects the full listing.
	if report.TotalCommits != 2 {
		t.Errorf("TotalCommits = %d, expected 2", report.TotalCommits)
	}
}

func TestCSVCommitListWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commits.csv")

	writer := &CSVCommitListWriter{}
	err := writer.Write(sampleCommitListReport(), OutputOptions{OutputPath: path})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "SHA,Date,Author") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], "add feature") {
		t.Errorf("row = %q", lines[2])
	}
}

func TestMarkdownCommitListWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commits.md")

	writer := &MarkdownCommitListWriter{}
	err := writer.Write(sampleCommitListReport(), OutputOptions{OutputPath: path})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.Contains(content, "# Commit History") {
		t.Error("missing title")
	}
	if !strings.Contains(content, "`aaaaaaa`") {
		t.Error("missing short hash")
	}
	// Pipes inside commit messages must not break the table.
	if !strings.Contains(content, "fix \\| pipe in message") {
		t.Errorf("message not escaped:\n%s", content)
	}
}

func TestJSONDiffWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diff.json")

	report := &DiffReport{
		RepoPath:    "/repo",
		CommitHash:  "abc123",
		GeneratedAt: time.Now(),
		Files: []FileDiff{
			{
				Path:       "main.go",
				Status:     gitsource.StatusModified,
				Insertions: 3,
				Deletions:  1,
				Patch:      "--- a/main.go\n+++ b/main.go\n@@ -1 +1 @@\n-old\n+new\n",
			},
		},
	}

	writer := &JSONDiffWriter{}
	if err := writer.Write(report, OutputOptions{OutputPath: path}); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var out JSONDiffReport
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out.SHA != "abc123" || out.TotalFiles != 1 {
		t.Errorf("report = %+v", out)
	}
	if out.Files[0].Status != "modified" {
		t.Errorf("Status = %q", out.Files[0].Status)
	}
	if !strings.Contains(out.Files[0].Patch, "+new") {
		t.Errorf("Patch = %q", out.Files[0].Patch)
	}
}

func TestJSONBlameWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blame.json")

	report := &BlameReport{
		RepoPath:    "/repo",
		Path:        "main.go",
		Revision:    "HEAD",
		GeneratedAt: time.Now(),
		Lines: []gitsource.BlameLine{
			{Line: 1, Author: "Alice", Time: time.Unix(1700000000, 0), Content: "package main", Hash: "abc", Message: "init"},
		},
	}

	writer := &JSONBlameWriter{}
	if err := writer.Write(report, OutputOptions{OutputPath: path}); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var out JSONBlameReport
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out.TotalLines != 1 || out.Lines[0].Author != "Alice" {
		t.Errorf("report = %+v", out)
	}
}
