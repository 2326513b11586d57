package gitsource

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"go.uber.org/zap"
)

// gitLogFormat is the pretty-format contract shared by the CLI strategies.
// Fields are pipe-delimited; the subject is always the trailing segment so
// embedded pipes in commit messages survive a rejoin.
const gitLogFormat = "%H|%ad|%an|%ae|%s"

// isoDateLayout matches git's --date=iso output.
const isoDateLayout = "2006-01-02 15:04:05 -0700"

// ListCommits returns commits matching filter, newest first.
//
// An empty filter with a warm cache is answered from the cache without any
// I/O. Otherwise the go-git strategy is tried first, then the git CLI; the
// successful unfiltered result repopulates the cache. Listing with a filter
// different from the active one invalidates the cache.
func (r *Repository) ListCommits(ctx context.Context, filter CommitFilter) ([]Commit, error) {
	r.commitMu.Lock()
	if filter.IsEmpty() && len(r.commitCache) > 0 {
		cached := r.commitCache
		r.commitMu.Unlock()
		return cached, nil
	}
	if !filter.Equal(r.activeFilter) {
		r.commitCache = nil
		r.activeFilter = filter
	}
	r.commitMu.Unlock()

	maxCount := filter.MaxCount
	if maxCount <= 0 {
		maxCount = r.opts.DefaultMaxCount
	}

	commits, libErr := r.listCommitsLib(ctx, filter, maxCount)
	if libErr != nil {
		r.log.Debug("go-git commit listing failed, falling back to CLI", zap.Error(libErr))
		var cliErr error
		commits, cliErr = r.listCommitsCLI(ctx, filter, maxCount)
		if cliErr != nil {
			return nil, fmt.Errorf("%w: go-git: %v; git log: %v", ErrAllStrategiesFailed, libErr, cliErr)
		}
	}

	for i := range commits {
		commits[i].Files = filterPaths(r.FilesForCommit(ctx, commits[i].Hash), filter.Include, filter.Exclude)
	}

	if filter.IsEmpty() {
		r.commitMu.Lock()
		r.commitCache = commits
		r.commitMu.Unlock()
	}

	return commits, nil
}

// GetCommitByID looks up a single commit by full or prefix hash.
//
// The cache is consulted first with a prefix match. A commit no strategy
// can find yields an empty slice, not an error; an error is returned only
// when the tooling itself is unusable.
func (r *Repository) GetCommitByID(ctx context.Context, hash string) ([]Commit, error) {
	if hash == "" {
		return nil, nil
	}

	r.commitMu.Lock()
	for _, c := range r.commitCache {
		if strings.HasPrefix(c.Hash, hash) {
			r.commitMu.Unlock()
			return []Commit{c}, nil
		}
	}
	r.commitMu.Unlock()

	commit, err := r.lookupCommitLib(ctx, hash)
	if err != nil {
		r.log.Debug("go-git commit lookup failed, falling back to CLI",
			zap.String("hash", hash), zap.Error(err))
		commit, err = r.lookupCommitCLI(ctx, hash)
		if err != nil {
			if errors.Is(err, ErrCommitNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("%w: %v", ErrAllStrategiesFailed, err)
		}
	}

	commit.Files = r.FilesForCommit(ctx, commit.Hash)

	r.commitMu.Lock()
	r.commitCache = append(r.commitCache, *commit)
	r.commitMu.Unlock()

	return []Commit{*commit}, nil
}

// Branches lists local branch names. Both strategies failing is an error,
// since an empty result is ambiguous with a branchless repository.
func (r *Repository) Branches(ctx context.Context) ([]string, error) {
	if repo := r.libRepo(); repo != nil {
		iter, err := repo.Branches()
		if err == nil {
			var names []string
			_ = iter.ForEach(func(ref *plumbing.Reference) error {
				names = append(names, ref.Name().Short())
				return nil
			})
			return names, nil
		}
		r.log.Debug("go-git branch listing failed, falling back to CLI", zap.Error(err))
	}

	out, err := r.runner.Run(ctx, r.Path(), "branch", "--format=%(refname:short)")
	if err != nil {
		return nil, fmt.Errorf("%w: git branch: %v", ErrAllStrategiesFailed, err)
	}

	var names []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// listCommitsLib is strategy A: the go-git structured log query.
func (r *Repository) listCommitsLib(ctx context.Context, filter CommitFilter, maxCount int) ([]Commit, error) {
	repo := r.libRepo()
	if repo == nil {
		return nil, errors.New("go-git repository unavailable")
	}

	from, err := r.resolveStart(repo, filter.Branch)
	if err != nil {
		return nil, err
	}

	logOpts := &gogit.LogOptions{From: from}
	if filter.Since != nil {
		logOpts.Since = filter.Since
	}
	if filter.Until != nil {
		logOpts.Until = filter.Until
	}

	iter, err := repo.Log(logOpts)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(commits) >= maxCount {
			return errIterDone
		}
		commits = append(commits, commitFromObject(c))
		return nil
	})
	if err != nil && !errors.Is(err, errIterDone) {
		return nil, err
	}

	return commits, nil
}

var errIterDone = errors.New("iteration complete")

func (r *Repository) resolveStart(repo *gogit.Repository, branch string) (plumbing.Hash, error) {
	if branch != "" && !strings.EqualFold(branch, "HEAD") {
		hash, err := repo.ResolveRevision(plumbing.Revision(branch))
		if err != nil {
			return plumbing.ZeroHash, err
		}
		return *hash, nil
	}
	ref, err := repo.Head()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return ref.Hash(), nil
}

func commitFromObject(c *object.Commit) Commit {
	message := c.Message
	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		message = message[:idx]
	}
	return Commit{
		Hash:        c.Hash.String(),
		Date:        c.Author.When,
		Message:     message,
		Author:      c.Author.Name,
		AuthorEmail: c.Author.Email,
	}
}

// listCommitsCLI is strategy B: a raw git log invocation with a fixed
// pretty-format string.
func (r *Repository) listCommitsCLI(ctx context.Context, filter CommitFilter, maxCount int) ([]Commit, error) {
	args := []string{
		"log",
		"--no-color",
		"--date=iso",
		"--pretty=format:" + gitLogFormat,
		fmt.Sprintf("-n%d", maxCount),
	}
	if filter.Since != nil {
		args = append(args, fmt.Sprintf("--since=@%d", filter.Since.Unix()))
	}
	if filter.Until != nil {
		args = append(args, fmt.Sprintf("--until=@%d", filter.Until.Unix()))
	}
	if b := strings.TrimSpace(filter.Branch); b != "" && !strings.EqualFold(b, "HEAD") {
		args = append(args, b)
	}

	out, err := r.runner.Run(ctx, r.Path(), args...)
	if err != nil {
		return nil, err
	}

	return parseLogOutput(out)
}

// lookupCommitLib resolves a single commit through go-git, accepting hash
// prefixes via revision resolution.
func (r *Repository) lookupCommitLib(ctx context.Context, hash string) (*Commit, error) {
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
	obj, err := repo.CommitObject(*resolved)
	if err != nil {
		return nil, err
	}

	commit := commitFromObject(obj)
	return &commit, nil
}

// lookupCommitCLI resolves a single commit through git log -1. A bad
// revision maps to ErrCommitNotFound; an uninvokable tool propagates as an
// infrastructure failure.
func (r *Repository) lookupCommitCLI(ctx context.Context, hash string) (*Commit, error) {
	out, err := r.runner.Run(ctx, r.Path(),
		"log", "-1", "--no-color", "--date=iso", "--pretty=format:"+gitLogFormat, hash)
	if err != nil {
		if errors.Is(err, errToolUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrCommitNotFound, hash)
	}

	commits, err := parseLogOutput(out)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCommitNotFound, hash)
	}
	return &commits[0], nil
}

// parseLogOutput parses pipe-delimited pretty-format log lines. Only the
// first four delimiters split fields; everything after rejoins into the
// message so subjects containing '|' stay intact.
func parseLogOutput(out string) ([]Commit, error) {
	var commits []Commit
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 5)
		if len(parts) < 5 {
			return nil, fmt.Errorf("unexpected git log line: %q", line)
		}
		when, err := time.Parse(isoDateLayout, parts[1])
		if err != nil {
			return nil, fmt.Errorf("parse commit date %q: %w", parts[1], err)
		}
		commits = append(commits, Commit{
			Hash:        parts[0],
			Date:        when,
			Author:      parts[2],
			AuthorEmail: parts[3],
			Message:     parts[4],
		})
	}
	return commits, nil
}

// filterPaths applies include/exclude glob patterns to a path list.
func filterPaths(paths []string, include, exclude []string) []string {
	if len(include) == 0 && len(exclude) == 0 {
		return paths
	}

	var kept []string
	for _, path := range paths {
		if matchesFilters(path, include, exclude) {
			kept = append(kept, path)
		}
	}
	return kept
}

func matchesFilters(path string, include, exclude []string) bool {
	path = strings.ReplaceAll(path, "\\", "/")

	for _, pattern := range exclude {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return false
		}
	}
	if len(include) == 0 {
		return true
	}
	for _, pattern := range include {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}
	return false
}
