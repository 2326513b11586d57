package gitsource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBindMissingPath(t *testing.T) {
	repo := New(Options{Runner: NewMockRunner()})

	err := repo.Bind(filepath.Join(t.TempDir(), "does-not-exist"))
	if !errors.Is(err, ErrRepositoryNotFound) {
		t.Errorf("error = %v, want ErrRepositoryNotFound", err)
	}
}

func TestBindNotARepository(t *testing.T) {
	repo := New(Options{Runner: NewMockRunner()})

	err := repo.Bind(t.TempDir())
	if !errors.Is(err, ErrNotAVersionControlledDirectory) {
		t.Errorf("error = %v, want ErrNotAVersionControlledDirectory", err)
	}
}

func TestBindSamePathPreservesCaches(t *testing.T) {
	repo, runner := newMockRepo(t)
	stubCommitLog(runner)

	ctx := context.Background()
	if _, err := repo.ListCommits(ctx, CommitFilter{}); err != nil {
		t.Fatal(err)
	}

	// Rebinding the identical path must be a no-op.
	if err := repo.Bind(repo.Path()); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.ListCommits(ctx, CommitFilter{}); err != nil {
		t.Fatal(err)
	}

	if n := runner.CallCount(logListPrefix); n != 1 {
		t.Errorf("log invoked %d times after same-path rebind, want 1", n)
	}
}

func TestBindDifferentPathResetsCaches(t *testing.T) {
	repo, runner := newMockRepo(t)
	stubCommitLog(runner)

	ctx := context.Background()
	if _, err := repo.ListCommits(ctx, CommitFilter{}); err != nil {
		t.Fatal(err)
	}

	other := t.TempDir()
	if err := os.Mkdir(filepath.Join(other, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := repo.Bind(other); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.ListCommits(ctx, CommitFilter{}); err != nil {
		t.Fatal(err)
	}
	if n := runner.CallCount(logListPrefix); n != 2 {
		t.Errorf("log invoked %d times after rebind to new path, want 2", n)
	}
}

func TestBindUnopenableRepoKeepsCLIStrategy(t *testing.T) {
	// A directory with a bare .git marker is not openable by go-git, but
	// the handle still binds and serves through the CLI strategies.
	repo, runner := newMockRepo(t)
	stubCommitLog(runner)

	if repo.libRepo() != nil {
		t.Fatal("expected the library strategy to be unavailable")
	}
	if !repo.Bound() {
		t.Fatal("expected handle to be bound")
	}

	commits, err := repo.ListCommits(context.Background(), CommitFilter{})
	if err != nil {
		t.Fatalf("CLI strategy should carry the operation: %v", err)
	}
	if len(commits) == 0 {
		t.Error("expected commits from CLI fallback")
	}
}
