package gitsource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/go-git/go-git/v5/plumbing"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"go.uber.org/zap"
)

// DiffFor produces a unified diff for one file in one commit.
//
// It escalates through strategies and returns the first non-empty result:
// the optional host reference-diff hook, direct git invocations, a go-git
// patch, content reconstruction from the two snapshots, and finally a
// synthesized diagnostic diff. The result is never empty and always carries
// ---/+++ headers, so downstream rendering never breaks.
//
// Results are cached content-addressed: the key is (filePath, fingerprint
// of the current content), so identical content reused across commits or
// paths hits the same entry.
func (r *Repository) DiffFor(ctx context.Context, commitHash, filePath string) string {
	var failures []string
	record := func(strategy string, err error) {
		r.log.Debug("diff strategy failed",
			zap.String("strategy", strategy),
			zap.String("hash", commitHash),
			zap.String("path", filePath),
			zap.Error(err))
		failures = append(failures, fmt.Sprintf("%s: %v", strategy, err))
	}

	currentContent, currentErr := r.contentAt(ctx, commitHash, filePath)

	var key diffCacheKey
	haveKey := false
	if currentErr == nil {
		key = diffCacheKey{path: filePath, fingerprint: xxhash.Sum64String(currentContent)}
		haveKey = true
		if cached, ok := r.diffCache.Get(key); ok {
			return cached
		}
	}

	finish := func(diff string) string {
		if haveKey {
			r.diffCache.Add(key, diff)
		}
		return diff
	}

	// 1. Host-API fast path. A nil differ is absent, not failed.
	if r.opts.RefDiffer != nil {
		diff, err := r.opts.RefDiffer.DiffWithRef(ctx, filePath)
		if err != nil {
			record("host-ref-diff", err)
		} else if strings.TrimSpace(diff) != "" {
			return finish(diff)
		}
	}

	// 2. Direct tool invocations.
	if diff, err := r.diffViaShow(ctx, commitHash, filePath); err != nil {
		record("git-show", err)
	} else if diff != "" {
		return finish(diff)
	}

	if diff, err := r.diffViaRange(ctx, commitHash, filePath, false); err != nil {
		record("git-diff", err)
	} else if diff != "" {
		return finish(diff)
	}

	if diff, err := r.diffViaRange(ctx, commitHash, filePath, true); err != nil {
		record("git-diff-no-prefix", err)
	} else if diff != "" {
		return finish(diff)
	}

	parentContent, parentErr := r.contentAt(ctx, commitHash+"^", filePath)
	if parentErr != nil {
		record("parent-content", parentErr)
	}
	if currentErr != nil {
		record("current-content", currentErr)
	}

	// 3. Structured-library diff.
	if diff, err := r.diffViaLib(ctx, commitHash, filePath); err != nil {
		record("go-git-patch", err)
	} else if diff != "" {
		return finish(diff)
	}

	// 4. Reconstruction from the two snapshots.
	if parentErr == nil && currentErr == nil {
		return finish(r.reconstructDiff(ctx, commitHash, filePath, parentContent, currentContent))
	}

	// 5. Diagnostics. Figure out what is actually missing so the caller
	// gets actionable text instead of an empty diff.
	if !r.commitExists(ctx, commitHash) {
		return diagnosticDiff(filePath,
			fmt.Sprintf("commit %s does not exist in this repository", commitHash))
	}
	if currentErr != nil {
		return diagnosticDiff(filePath,
			fmt.Sprintf("file %s is absent at commit %s", filePath, commitHash))
	}
	if parentErr != nil {
		// Present now, absent in the parent: the file was added here.
		return finish(addedFileDiff(filePath, currentContent))
	}

	lines := append([]string{"no diff strategy produced output:"}, failures...)
	return diagnosticDiff(filePath, lines...)
}

// reconstructDiff runs the bounded-lookahead reconstruction. When the
// change is too large for hunk rendering it retries a minimal tool-level
// diff once, then falls back to a single whole-file hunk.
func (r *Repository) reconstructDiff(ctx context.Context, commitHash, filePath, parentContent, currentContent string) string {
	rec := r.newReconstructor()
	parent := splitContentLines(parentContent)
	current := splitContentLines(currentContent)

	diff, large := rec.Diff(filePath, parent, current)
	if !large {
		return diff
	}

	out, err := r.runner.Run(ctx, r.Path(),
		"diff", "--minimal", "-b", "--unified=3", commitHash+"^.."+commitHash, "--", filePath)
	if err == nil && strings.TrimSpace(out) != "" {
		return out
	}
	if err != nil {
		r.log.Debug("minimal diff retry failed, emitting whole-file hunk",
			zap.String("hash", commitHash), zap.String("path", filePath), zap.Error(err))
	}

	return rec.WholeFileDiff(filePath, parent, current)
}

// contentAt fetches full file content at a revision, CLI first, go-git as
// the fallback.
func (r *Repository) contentAt(ctx context.Context, rev, filePath string) (string, error) {
	out, cliErr := r.runner.Run(ctx, r.Path(), "show", rev+":"+filePath)
	if cliErr == nil {
		return out, nil
	}

	repo := r.libRepo()
	if repo == nil {
		return "", cliErr
	}

	resolved, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("%v; go-git: %w", cliErr, err)
	}
	commit, err := repo.CommitObject(*resolved)
	if err != nil {
		return "", fmt.Errorf("%v; go-git: %w", cliErr, err)
	}
	file, err := commit.File(filePath)
	if err != nil {
		return "", fmt.Errorf("%v; go-git: %w", cliErr, err)
	}
	content, err := file.Contents()
	if err != nil {
		return "", fmt.Errorf("%v; go-git: %w", cliErr, err)
	}
	return content, nil
}

func (r *Repository) diffViaShow(ctx context.Context, commitHash, filePath string) (string, error) {
	out, err := r.runner.Run(ctx, r.Path(),
		"show", "--pretty=format:", commitHash, "--", filePath)
	if err != nil {
		return "", err
	}
	return strings.TrimLeft(out, "\n"), nil
}

func (r *Repository) diffViaRange(ctx context.Context, commitHash, filePath string, noPrefix bool) (string, error) {
	args := []string{"diff", "--unified=3", "-b"}
	if noPrefix {
		args = append(args, "--no-prefix")
	}
	if r.opts.DiffFilter != "" {
		args = append(args, "--diff-filter="+r.opts.DiffFilter)
	}
	args = append(args, commitHash+"^.."+commitHash, "--", filePath)

	out, err := r.runner.Run(ctx, r.Path(), args...)
	if err != nil {
		return "", err
	}
	return out, nil
}

// diffViaLib renders a patch for one file from the commit's parent tree.
func (r *Repository) diffViaLib(ctx context.Context, commitHash, filePath string) (string, error) {
	repo := r.libRepo()
	if repo == nil {
		return "", errors.New("go-git repository unavailable")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	resolved, err := repo.ResolveRevision(plumbing.Revision(commitHash))
	if err != nil {
		return "", err
	}
	commit, err := repo.CommitObject(*resolved)
	if err != nil {
		return "", err
	}
	if commit.NumParents() == 0 {
		return "", errors.New("commit has no parent")
	}
	parent, err := commit.Parent(0)
	if err != nil {
		return "", err
	}

	patch, err := parent.Patch(commit)
	if err != nil {
		return "", err
	}
	for _, fp := range patch.FilePatches() {
		if filePatchPath(fp) != filePath {
			continue
		}
		var b strings.Builder
		encoder := fdiff.NewUnifiedEncoder(&b, r.opts.ContextLines)
		if err := encoder.Encode(singleFilePatch{fp: fp}); err != nil {
			return "", err
		}
		return b.String(), nil
	}
	return "", fmt.Errorf("file %s not in patch", filePath)
}

// singleFilePatch narrows a go-git patch to one file so the unified
// encoder renders only that file's hunks.
type singleFilePatch struct {
	fp fdiff.FilePatch
}

func (p singleFilePatch) FilePatches() []fdiff.FilePatch { return []fdiff.FilePatch{p.fp} }
func (p singleFilePatch) Message() string                { return "" }

func filePatchPath(fp fdiff.FilePatch) string {
	from, to := fp.Files()
	if to != nil {
		return to.Path()
	}
	if from != nil {
		return from.Path()
	}
	return ""
}

func diagnosticDiff(filePath string, lines ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", filePath, filePath)
	for _, line := range lines {
		fmt.Fprintf(&b, "# %s\n", line)
	}
	return b.String()
}

// addedFileDiff synthesizes a diff for a file with no parent version:
// every line inserted, /dev/null as the old side.
func addedFileDiff(filePath, content string) string {
	lines := splitContentLines(content)

	var b strings.Builder
	fmt.Fprintf(&b, "--- /dev/null\n+++ b/%s\n", filePath)
	fmt.Fprintf(&b, "@@ -0,0 +1,%d @@\n", len(lines))
	for _, line := range lines {
		b.WriteString("+")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Repository) commitExists(ctx context.Context, commitHash string) bool {
	out, err := r.runner.Run(ctx, r.Path(), "cat-file", "-t", commitHash)
	if err == nil {
		return strings.TrimSpace(out) == "commit"
	}

	repo := r.libRepo()
	if repo == nil {
		return false
	}
	if _, err := repo.ResolveRevision(plumbing.Revision(commitHash)); err != nil {
		return false
	}
	return true
}
