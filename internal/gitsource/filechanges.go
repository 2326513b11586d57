package gitsource

import (
	"context"
	"errors"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// fileListTechnique is one independent way of asking git which files a
// commit touched. Different techniques disagree on renames, merges, and
// other edge cases, so FilesForCommit unions them all.
type fileListTechnique struct {
	name string
	run  func(ctx context.Context, hash string) ([]string, error)
}

// FilesForCommit resolves the set of files touched by a commit.
//
// Up to four techniques run concurrently; a single technique's failure
// never aborts the others. Results are unioned and deduplicated in
// technique order. FilesForCommit never fails: total exhaustion returns an
// empty list.
func (r *Repository) FilesForCommit(ctx context.Context, hash string) []string {
	techniques := []fileListTechnique{
		{name: "show-name-only", run: r.filesViaShow},
		{name: "log-name-only", run: r.filesViaLog},
		{name: "diff-tree", run: r.filesViaDiffTree},
		{name: "go-git-show", run: r.filesViaLib},
	}

	results := make([][]string, len(techniques))

	p := pool.New().WithMaxGoroutines(len(techniques))
	for i, tech := range techniques {
		p.Go(func() {
			paths, err := tech.run(ctx, hash)
			if err != nil {
				r.log.Debug("file list technique failed",
					zap.String("technique", tech.name),
					zap.String("hash", hash),
					zap.Error(err))
				return
			}
			results[i] = paths
		})
	}
	p.Wait()

	seen := make(map[string]struct{})
	var union []string
	for _, paths := range results {
		for _, path := range paths {
			path = strings.TrimSpace(path)
			if path == "" {
				continue
			}
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}
			union = append(union, path)
		}
	}
	return union
}

func (r *Repository) filesViaShow(ctx context.Context, hash string) ([]string, error) {
	out, err := r.runner.Run(ctx, r.Path(), "show", "--name-only", "--pretty=format:", hash)
	if err != nil {
		return nil, err
	}
	return splitPathLines(out), nil
}

func (r *Repository) filesViaLog(ctx context.Context, hash string) ([]string, error) {
	out, err := r.runner.Run(ctx, r.Path(), "log", "-1", "--name-only", "--pretty=format:", hash)
	if err != nil {
		return nil, err
	}
	return splitPathLines(out), nil
}

func (r *Repository) filesViaDiffTree(ctx context.Context, hash string) ([]string, error) {
	out, err := r.runner.Run(ctx, r.Path(), "diff-tree", "--no-commit-id", "--name-only", "-r", hash)
	if err != nil {
		return nil, err
	}
	return splitPathLines(out), nil
}

// filesViaLib is the structured-library technique: diff the commit tree
// against its first parent, or walk the whole tree for a root commit.
func (r *Repository) filesViaLib(ctx context.Context, hash string) ([]string, error) {
	repo := r.libRepo()
	if repo == nil {
		return nil, errors.New("go-git repository unavailable")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolved, err := repo.ResolveRevision(plumbing.Revision(hash))
	if err != nil {
		return nil, err
	}
	commit, err := repo.CommitObject(*resolved)
	if err != nil {
		return nil, err
	}

	if commit.NumParents() == 0 {
		return rootCommitFiles(commit)
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return nil, err
	}
	patch, err := parent.Patch(commit)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, fp := range patch.FilePatches() {
		from, to := fp.Files()
		switch {
		case to != nil:
			paths = append(paths, to.Path())
		case from != nil:
			paths = append(paths, from.Path())
		}
	}
	return paths, nil
}

func rootCommitFiles(commit *object.Commit) ([]string, error) {
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	var paths []string
	err = tree.Files().ForEach(func(f *object.File) error {
		paths = append(paths, f.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func splitPathLines(out string) []string {
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paths = append(paths, line)
		}
	}
	return paths
}
