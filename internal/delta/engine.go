package delta

import (
	"fmt"
	"sheetDelta/internal/grid"
	"sheetDelta/internal/logger"
	"strings"
)

// DefaultTitle names the delta sheet when Options.Title is empty.
const DefaultTitle = "Delta"

// Options configures a delta computation.
type Options struct {
	// Region is the header location, shared by both snapshots.
	Region Region
	// Title of the produced delta grid.
	Title string
	// Aliases maps a current header key to the key the same column had in
	// the previous snapshot. Keys without an alias are matched as-is.
	Aliases map[string]string
}

// Report summarises how the two snapshots were aligned.
type Report struct {
	Matched     []string
	Unmatched   []string
	Unused      []string
	Expressions int
	Truncated   int
}

// Expression builds the formula subtracting the previous cell from the
// current one.
func Expression(currentTitle string, at grid.Coord, previousTitle string, prevAt grid.Coord) string {
	return fmt.Sprintf("=%s!%s-%s!%s", quoteSheet(currentTitle), at, quoteSheet(previousTitle), prevAt)
}

func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// Compute produces the delta grid of current against previous.
//
// Data cells of every column whose header key exists in both snapshots hold
// an Expression; rows pair by position inside the data region, so only the
// overlapping prefix is diffed. All other cells carry the current value, and
// formatting is copied from current. Neither input grid is modified, and no
// grid is returned on error.
func Compute(current, previous *grid.Grid, opts Options) (*grid.Grid, Report, error) {
	var report Report
	region := opts.Region
	if region.HeaderRows == 0 {
		region.HeaderRows = DefaultHeaderRows
	}
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	currentKeys, err := HeaderKeys(current, region)
	if err != nil {
		return nil, report, fmt.Errorf("current snapshot: %w", err)
	}
	currentColumns, err := DataColumns(current, region)
	if err != nil {
		return nil, report, fmt.Errorf("current snapshot: %w", err)
	}
	previousKeys, err := HeaderKeys(previous, region)
	if err != nil {
		return nil, report, fmt.Errorf("previous snapshot: %w", err)
	}
	previousColumns, err := DataColumns(previous, region)
	if err != nil {
		return nil, report, fmt.Errorf("previous snapshot: %w", err)
	}

	lookup := make(map[string]int, len(previousKeys))
	for i, key := range previousKeys {
		if key == "" {
			continue
		}
		if _, ok := lookup[key]; !ok {
			lookup[key] = i
		}
	}

	exprs := make(map[grid.Coord]string)
	used := make(map[int]bool)
	for i, key := range currentKeys {
		if key == "" {
			continue
		}
		target := key
		if alias, ok := opts.Aliases[key]; ok && alias != "" {
			target = alias
		}
		j, ok := lookup[target]
		if !ok {
			report.Unmatched = append(report.Unmatched, key)
			continue
		}
		used[j] = true
		report.Matched = append(report.Matched, key)

		cur, prev := currentColumns[i], previousColumns[j]
		for row, at := range cur {
			if row >= len(prev) {
				report.Truncated += len(cur) - row
				break
			}
			// Cells hidden under a merged range stay empty in the output.
			if anchor, ok := current.Anchor(at); ok && anchor != at {
				continue
			}
			exprs[at] = Expression(current.Title, at, previous.Title, prev[row])
		}
	}
	for j, key := range previousKeys {
		if key != "" && !used[j] {
			report.Unused = append(report.Unused, key)
		}
	}

	out := grid.New(title)
	current.Each(func(at grid.Coord, c grid.Cell) {
		if expr, ok := exprs[at]; ok {
			out.SetValue(at, expr)
			return
		}
		out.SetValue(at, c.Value)
	})
	report.Expressions = len(exprs)

	if err := grid.CopyGrid(current, out, false); err != nil {
		return nil, Report{}, fmt.Errorf("failed to copy formatting from %q: %w", current.Title, err)
	}

	logger.Info("Computed snapshot delta",
		"current", current.Title,
		"previous", previous.Title,
		"matched", len(report.Matched),
		"unmatched", len(report.Unmatched),
		"unused", len(report.Unused),
		"expressions", report.Expressions,
		"truncated", report.Truncated)
	return out, report, nil
}
