package gitsource

import (
	"strings"
	"time"
)

// Commit represents a single commit with its metadata and touched files.
// Instances are immutable once returned and are cached by value.
type Commit struct {
	Hash        string
	Date        time.Time
	Message     string
	Author      string
	AuthorEmail string
	Files       []string
}

// ShortHash returns an abbreviated commit hash for display.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// CommitFilter describes a commit listing query. It is a query descriptor,
// not stored state; listing with a different filter invalidates the commit
// cache.
type CommitFilter struct {
	Since    *time.Time
	Until    *time.Time
	MaxCount int
	Branch   string
	Include  []string // Glob patterns to include
	Exclude  []string // Glob patterns to exclude
}

// IsEmpty reports whether the filter carries no constraints at all.
func (f CommitFilter) IsEmpty() bool {
	return f.Since == nil && f.Until == nil && f.MaxCount == 0 &&
		f.Branch == "" && len(f.Include) == 0 && len(f.Exclude) == 0
}

// Equal reports whether two filters describe the same query.
func (f CommitFilter) Equal(other CommitFilter) bool {
	if !timePtrEqual(f.Since, other.Since) || !timePtrEqual(f.Until, other.Until) {
		return false
	}
	if f.MaxCount != other.MaxCount || f.Branch != other.Branch {
		return false
	}
	return strings.Join(f.Include, "\x00") == strings.Join(other.Include, "\x00") &&
		strings.Join(f.Exclude, "\x00") == strings.Join(other.Exclude, "\x00")
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// FileStatus represents how a file changed within a commit.
type FileStatus int

const (
	StatusAdded FileStatus = iota
	StatusModified
	StatusDeleted
	StatusRenamed
	StatusCopied
	StatusBinary
)

// String returns a string representation of the file status.
func (s FileStatus) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusModified:
		return "modified"
	case StatusDeleted:
		return "deleted"
	case StatusRenamed:
		return "renamed"
	case StatusCopied:
		return "copied"
	case StatusBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// BinaryFilePlaceholder is substituted for the content of files the
// underlying tool marks as binary.
const BinaryFilePlaceholder = "(Binary File)"

// CommitFile holds the full before/after content of one file in one commit.
// It is produced on demand per (commit, file) pair and not cached.
type CommitFile struct {
	Path            string
	Content         string
	PreviousContent string
	Status          FileStatus
	Insertions      int
	Deletions       int
}

// BlameLine attributes one source line to the commit that last touched it.
type BlameLine struct {
	Line    int
	Author  string
	Time    time.Time
	Content string
	Hash    string
	Message string
}
