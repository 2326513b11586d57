package gitsource

import "errors"

// Sentinel errors for repository binding and commit operations.
//
// Individual strategy failures are never surfaced through these; they are
// logged and recovered by escalating to the next strategy. Only exhaustion
// of every strategy for commit/branch operations becomes caller-visible.
var (
	// ErrRepositoryNotFound indicates the requested path does not exist.
	ErrRepositoryNotFound = errors.New("repository path not found")

	// ErrNotAVersionControlledDirectory indicates the path exists but has
	// no .git metadata directory.
	ErrNotAVersionControlledDirectory = errors.New("not a git repository")

	// ErrCommitNotFound indicates no strategy could locate the commit.
	ErrCommitNotFound = errors.New("commit not found")

	// ErrAllStrategiesFailed indicates every strategy for an operation
	// failed for infrastructure reasons (as opposed to "no such object").
	ErrAllStrategiesFailed = errors.New("all strategies failed")

	// errToolUnavailable marks failures where the git binary itself could
	// not be invoked. It distinguishes "cannot talk to the tool" from
	// "repository has no such commit".
	errToolUnavailable = errors.New("git executable unavailable")
)
