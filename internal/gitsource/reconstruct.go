package gitsource

import (
	"fmt"
	"strings"
)

// reconstructor derives a unified diff directly from two full-text
// snapshots when no tool-level diff is obtainable.
//
// The matcher is deliberately simple: a two-pointer walk with bounded
// lookahead, not a minimal-edit-distance diff. It can mis-merge changes in
// highly repetitive content (runs of blank or near-duplicate lines); the
// guarantee it does keep is the round-trip property — applying the emitted
// hunks to the parent snapshot always reproduces the current snapshot.
type reconstructor struct {
	lookahead     int     // forward search window on mismatch
	mergeDistance int     // records this close merge into one region
	contextLines  int     // unchanged lines padded around each region
	largeRatio    float64 // changed-line ratio that abandons hunk rendering
	largeMinLines int     // smallest file the large-change fallback applies to
}

func (r *Repository) newReconstructor() reconstructor {
	return reconstructor{
		lookahead:     r.opts.LookaheadLines,
		mergeDistance: r.opts.RegionMergeDistance,
		contextLines:  r.opts.ContextLines,
		largeRatio:    r.opts.LargeChangeRatio,
		largeMinLines: r.opts.LargeChangeMinLines,
	}
}

// editRecord is one mismatch event from the two-pointer walk: a run of
// deleted parent lines, a run of inserted current lines, or both (a 1:1
// substitution).
type editRecord struct {
	parentStart  int // 0-based first affected parent line
	currentStart int // 0-based first affected current line
	deleted      []string
	inserted     []string
}

func (e editRecord) parentEnd() int  { return e.parentStart + len(e.deleted) }
func (e editRecord) currentEnd() int { return e.currentStart + len(e.inserted) }

// Diff renders a synthetic unified diff from parent to current. When the
// change is too large for hunk rendering it returns ("", true) and the
// caller decides between a tool-level retry and WholeFileDiff.
func (rc reconstructor) Diff(path string, parent, current []string) (string, bool) {
	records := rc.computeEdits(parent, current)
	if len(records) == 0 {
		return rc.header(path), false
	}

	if rc.isLargeChange(records, len(parent), len(current)) {
		return "", true
	}

	regions := rc.mergeRecords(records)

	var b strings.Builder
	b.WriteString(rc.header(path))
	for i, region := range regions {
		prevEnd := 0
		if i > 0 {
			prev := regions[i-1]
			prevEnd = prev[len(prev)-1].parentEnd() + rc.trailContext(regions, i-1, len(parent))
		}
		rc.renderRegion(&b, region, parent, prevEnd, rc.trailContext(regions, i, len(parent)))
	}
	return b.String(), false
}

// WholeFileDiff emits one hunk spanning the entire file: every parent line
// deleted, every current line inserted. It is the worst-case rendering that
// still upholds the round-trip property.
func (rc reconstructor) WholeFileDiff(path string, parent, current []string) string {
	var b strings.Builder
	b.WriteString(rc.header(path))

	oldStart := 0
	if len(parent) > 0 {
		oldStart = 1
	}
	newStart := 0
	if len(current) > 0 {
		newStart = 1
	}
	fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", oldStart, len(parent), newStart, len(current))

	for _, line := range parent {
		b.WriteString("-")
		b.WriteString(line)
		b.WriteString("\n")
	}
	for _, line := range current {
		b.WriteString("+")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (rc reconstructor) header(path string) string {
	return fmt.Sprintf("--- a/%s\n+++ b/%s\n", path, path)
}

// computeEdits is the two-pointer walk. On mismatch the deletion lookahead
// is always tried before the insertion lookahead; this tie-break is fixed
// behavior, not an accident.
func (rc reconstructor) computeEdits(parent, current []string) []editRecord {
	var records []editRecord
	i, j := 0, 0

	for i < len(parent) && j < len(current) {
		if parent[i] == current[j] {
			i++
			j++
			continue
		}

		if d := lookAheadMatch(parent, i, current[j], rc.lookahead); d > 0 {
			records = append(records, editRecord{
				parentStart:  i,
				currentStart: j,
				deleted:      copyLines(parent[i : i+d]),
			})
			i += d
			continue
		}

		if d := lookAheadMatch(current, j, parent[i], rc.lookahead); d > 0 {
			records = append(records, editRecord{
				parentStart:  i,
				currentStart: j,
				inserted:     copyLines(current[j : j+d]),
			})
			j += d
			continue
		}

		// 1:1 substitution
		records = append(records, editRecord{
			parentStart:  i,
			currentStart: j,
			deleted:      []string{parent[i]},
			inserted:     []string{current[j]},
		})
		i++
		j++
	}

	if i < len(parent) {
		records = append(records, editRecord{
			parentStart:  i,
			currentStart: j,
			deleted:      copyLines(parent[i:]),
		})
	} else if j < len(current) {
		records = append(records, editRecord{
			parentStart:  i,
			currentStart: j,
			inserted:     copyLines(current[j:]),
		})
	}

	return records
}

// lookAheadMatch searches lines[start+1 .. start+window] for target and
// returns the offset, or 0 when not found within the window.
func lookAheadMatch(lines []string, start int, target string, window int) int {
	for d := 1; d <= window; d++ {
		if start+d >= len(lines) {
			return 0
		}
		if lines[start+d] == target {
			return d
		}
	}
	return 0
}

// isLargeChange reports whether the total changed-line count crosses the
// whole-file-fallback threshold. Tiny files always keep hunk rendering so
// a one-line edit to a three-line file still renders as a normal hunk.
func (rc reconstructor) isLargeChange(records []editRecord, parentLen, currentLen int) bool {
	maxLen := parentLen
	if currentLen > maxLen {
		maxLen = currentLen
	}
	if maxLen < rc.largeMinLines {
		return false
	}

	changed := 0
	for _, rec := range records {
		changed += len(rec.deleted) + len(rec.inserted)
	}
	return float64(changed) >= rc.largeRatio*float64(maxLen)
}

// mergeRecords groups records whose parent line numbers are within
// mergeDistance of each other into one region.
func (rc reconstructor) mergeRecords(records []editRecord) [][]editRecord {
	var regions [][]editRecord
	current := []editRecord{records[0]}

	for _, rec := range records[1:] {
		prev := current[len(current)-1]
		if rec.parentStart-prev.parentEnd() <= rc.mergeDistance {
			current = append(current, rec)
		} else {
			regions = append(regions, current)
			current = []editRecord{rec}
		}
	}
	return append(regions, current)
}

// trailContext computes the trailing context for region idx, clamped so it
// never runs into the next region's hunk.
func (rc reconstructor) trailContext(regions [][]editRecord, idx, parentLen int) int {
	region := regions[idx]
	end := region[len(region)-1].parentEnd()

	trail := rc.contextLines
	if end+trail > parentLen {
		trail = parentLen - end
	}
	if idx+1 < len(regions) {
		if gap := regions[idx+1][0].parentStart - end; trail > gap {
			trail = gap
		}
	}
	return trail
}

// renderRegion emits one unified-diff hunk: leading context, the region's
// records with any unchanged lines between them as inline context, and
// trailing context. prevEnd marks where the previous hunk's coverage
// stopped, so leading context never overlaps it.
func (rc reconstructor) renderRegion(b *strings.Builder, region []editRecord, parent []string, prevEnd, trail int) {
	first := region[0]
	last := region[len(region)-1]

	lead := rc.contextLines
	if first.parentStart-lead < prevEnd {
		lead = first.parentStart - prevEnd
	}

	oldLen := lead + trail
	newLen := lead + trail
	for i, rec := range region {
		if i > 0 {
			gap := rec.parentStart - region[i-1].parentEnd()
			oldLen += gap
			newLen += gap
		}
		oldLen += len(rec.deleted)
		newLen += len(rec.inserted)
	}

	oldStart := first.parentStart - lead + 1
	if oldLen == 0 {
		oldStart = first.parentStart
	}
	newStart := first.currentStart - lead + 1
	if newLen == 0 {
		newStart = first.currentStart
	}
	fmt.Fprintf(b, "@@ -%d,%d +%d,%d @@\n", oldStart, oldLen, newStart, newLen)

	for _, line := range parent[first.parentStart-lead : first.parentStart] {
		writeDiffLine(b, " ", line)
	}
	for i, rec := range region {
		if i > 0 {
			for _, line := range parent[region[i-1].parentEnd():rec.parentStart] {
				writeDiffLine(b, " ", line)
			}
		}
		for _, line := range rec.deleted {
			writeDiffLine(b, "-", line)
		}
		for _, line := range rec.inserted {
			writeDiffLine(b, "+", line)
		}
	}
	for _, line := range parent[last.parentEnd() : last.parentEnd()+trail] {
		writeDiffLine(b, " ", line)
	}
}

func writeDiffLine(b *strings.Builder, prefix, line string) {
	b.WriteString(prefix)
	b.WriteString(line)
	b.WriteString("\n")
}

// splitContentLines splits file content into lines for reconstruction.
// Empty content has zero lines, and a single trailing newline does not
// produce a phantom empty line.
func splitContentLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

func copyLines(lines []string) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}
