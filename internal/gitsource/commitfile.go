package gitsource

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// CommitFileFor builds the full before/after view of one file in one
// commit: both content snapshots, the change status, and line counts.
// Binary files get the placeholder content and zero counts.
func (r *Repository) CommitFileFor(ctx context.Context, commitHash, filePath string) (CommitFile, error) {
	file := CommitFile{Path: filePath, Status: StatusModified}

	if status, ok := r.statusFor(ctx, commitHash, filePath); ok {
		file.Status = status
	}

	insertions, deletions, binary, err := r.numstatFor(ctx, commitHash, filePath)
	if err != nil {
		r.log.Debug("numstat unavailable",
			zap.String("hash", commitHash), zap.String("path", filePath), zap.Error(err))
	}

	if binary {
		file.Status = StatusBinary
		file.Content = BinaryFilePlaceholder
		file.PreviousContent = BinaryFilePlaceholder
		return file, nil
	}

	file.Insertions = insertions
	file.Deletions = deletions

	content, contentErr := r.contentAt(ctx, commitHash, filePath)
	previous, previousErr := r.contentAt(ctx, commitHash+"^", filePath)

	if contentErr != nil && previousErr != nil {
		return file, fmt.Errorf("no content obtainable for %s at %s: %w", filePath, commitHash, contentErr)
	}

	// A deleted file has no current content; an added file has no previous.
	file.Content = content
	file.PreviousContent = previous
	if contentErr != nil && file.Status == StatusModified {
		file.Status = StatusDeleted
	}
	if previousErr != nil && file.Status == StatusModified {
		file.Status = StatusAdded
	}

	return file, nil
}

// statusFor reads the change status letter from git show --name-status.
func (r *Repository) statusFor(ctx context.Context, commitHash, filePath string) (FileStatus, bool) {
	out, err := r.runner.Run(ctx, r.Path(),
		"show", "--name-status", "--pretty=format:", commitHash, "--", filePath)
	if err != nil {
		r.log.Debug("name-status unavailable",
			zap.String("hash", commitHash), zap.String("path", filePath), zap.Error(err))
		return StatusModified, false
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return statusFromLetter(line[0]), true
	}
	return StatusModified, false
}

func statusFromLetter(letter byte) FileStatus {
	switch letter {
	case 'A':
		return StatusAdded
	case 'D':
		return StatusDeleted
	case 'R':
		return StatusRenamed
	case 'C':
		return StatusCopied
	default:
		return StatusModified
	}
}

// numstatFor parses git's tab-separated numstat line for one file. Binary
// files are reported as "-\t-\t<path>".
func (r *Repository) numstatFor(ctx context.Context, commitHash, filePath string) (insertions, deletions int, binary bool, err error) {
	out, err := r.runner.Run(ctx, r.Path(),
		"show", "--numstat", "--pretty=format:", commitHash, "--", filePath)
	if err != nil {
		return 0, 0, false, err
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) < 3 {
			continue
		}
		if fields[0] == "-" || fields[1] == "-" {
			return 0, 0, true, nil
		}
		ins, insErr := strconv.Atoi(fields[0])
		del, delErr := strconv.Atoi(fields[1])
		if insErr != nil || delErr != nil {
			return 0, 0, false, fmt.Errorf("unexpected numstat line: %q", line)
		}
		return ins, del, false, nil
	}
	return 0, 0, false, nil
}
