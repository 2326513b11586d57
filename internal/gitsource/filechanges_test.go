package gitsource

import (
	"context"
	"errors"
	"testing"
)

func TestFilesForCommitUnionsTechniques(t *testing.T) {
	repo, runner := newMockRepo(t)
	runner.Respond("show --name-only", "a.go\nb.go\n")
	runner.Respond("log -1 --name-only", "b.go\nc.go\n")
	runner.Fail("diff-tree", errors.New("diff-tree blew up"))

	files := repo.FilesForCommit(context.Background(), "abc123")

	want := []string{"a.go", "b.go", "c.go"}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i, path := range want {
		if files[i] != path {
			t.Errorf("files[%d] = %q, want %q (first-seen order)", i, files[i], path)
		}
	}
}

func TestFilesForCommitSingleTechniqueFailureDoesNotAbort(t *testing.T) {
	repo, runner := newMockRepo(t)
	runner.Fail("show --name-only", errors.New("boom"))
	runner.Fail("log -1 --name-only", errors.New("boom"))
	runner.Respond("diff-tree", "only.go\n")

	files := repo.FilesForCommit(context.Background(), "abc123")
	if len(files) != 1 || files[0] != "only.go" {
		t.Errorf("files = %v, want [only.go]", files)
	}
}

func TestFilesForCommitTotalFailureReturnsEmpty(t *testing.T) {
	repo, _ := newMockRepo(t)

	files := repo.FilesForCommit(context.Background(), "definitely-not-a-hash")
	if len(files) != 0 {
		t.Errorf("files = %v, want empty", files)
	}
}

func TestFilesForCommitDeduplicates(t *testing.T) {
	repo, runner := newMockRepo(t)
	runner.Respond("show --name-only", "same.go\n")
	runner.Respond("log -1 --name-only", "same.go\n")
	runner.Respond("diff-tree", "same.go\n")

	files := repo.FilesForCommit(context.Background(), "abc123")
	if len(files) != 1 {
		t.Errorf("files = %v, want one deduplicated entry", files)
	}
}

func TestSplitPathLines(t *testing.T) {
	out := "\na.go\n  \nb.go\n\n"
	paths := splitPathLines(out)
	if len(paths) != 2 || paths[0] != "a.go" || paths[1] != "b.go" {
		t.Errorf("paths = %v", paths)
	}
}
