package gitsource

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// blameHeaderPattern matches a --line-porcelain block header:
// "<hash> <orig-line> <final-line>[ <count>]".
var blameHeaderPattern = regexp.MustCompile(`^([0-9a-f]{7,40}) (\d+) (\d+)( \d+)?$`)

// BlameFor attributes each line of a file to the commit that last touched
// it, parsing git blame --line-porcelain output. An optional commitHash
// blames the file as of that revision instead of the working tree.
//
// BlameFor never fails: any error yields an empty list.
func (r *Repository) BlameFor(ctx context.Context, filePath, commitHash string) []BlameLine {
	args := []string{"blame", "--line-porcelain"}
	if commitHash != "" {
		args = append(args, commitHash)
	}
	args = append(args, "--", filePath)

	out, err := r.runner.Run(ctx, r.Path(), args...)
	if err != nil {
		r.log.Debug("blame failed",
			zap.String("path", filePath),
			zap.String("hash", commitHash),
			zap.Error(err))
		return nil
	}

	return parseBlamePorcelain(out)
}

// parseBlamePorcelain walks porcelain output as a stream of blocks. A
// header line establishes the hash and line-number context, the author /
// author-time / summary lines fill the pending record, and the
// tab-prefixed source line closes it.
func parseBlamePorcelain(out string) []BlameLine {
	var (
		lines   []BlameLine
		pending BlameLine
		open    bool
	)

	for _, raw := range strings.Split(out, "\n") {
		if m := blameHeaderPattern.FindStringSubmatch(raw); m != nil {
			finalLine, _ := strconv.Atoi(m[3])
			pending = BlameLine{Hash: m[1], Line: finalLine}
			open = true
			continue
		}
		if !open {
			continue
		}

		switch {
		case strings.HasPrefix(raw, "author "):
			pending.Author = strings.TrimPrefix(raw, "author ")
		case strings.HasPrefix(raw, "author-time "):
			if ts, err := strconv.ParseInt(strings.TrimPrefix(raw, "author-time "), 10, 64); err == nil {
				pending.Time = time.Unix(ts, 0)
			}
		case strings.HasPrefix(raw, "summary "):
			pending.Message = strings.TrimPrefix(raw, "summary ")
		case strings.HasPrefix(raw, "\t"):
			pending.Content = strings.TrimPrefix(raw, "\t")
			lines = append(lines, pending)
			open = false
		}
	}

	return lines
}
