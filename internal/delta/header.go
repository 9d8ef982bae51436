package delta

import (
	"sheetDelta/internal/grid"
	"sheetDelta/internal/logger"
	"strconv"
)

// KeySeparator joins the per-row segments of a header key.
const KeySeparator = "_"

// KeyCounts records how many times each base key has been seen.
type KeyCounts map[string]int

// HeaderKeys builds one key per column of the region, in physical column
// order. Merged header cells contribute their anchor's value. Repeated
// non-empty keys get a "_<n>" suffix, n counting prior occurrences of the
// same base key; empty keys are returned as-is. A suffixed key that still
// equals another key of the table (headers "A", "A", "A_1") is ambiguous:
// every occurrence is blanked so its columns pass through unmatched.
func HeaderKeys(g *grid.Grid, region Region) ([]string, error) {
	if err := region.validate(g); err != nil {
		return nil, err
	}

	counts := KeyCounts{}
	keys := make([]string, 0, g.MaxCol()-region.StartCol)
	for col := region.StartCol; col < g.MaxCol(); col++ {
		var key string
		counts, key = dedupe(counts, baseKey(g, region, col))
		keys = append(keys, key)
	}

	first := make(map[string]int, len(keys))
	collided := make(map[string]bool)
	for i, k := range keys {
		if k == "" {
			continue
		}
		j, ok := first[k]
		if !ok {
			first[k] = i
			continue
		}
		if !collided[k] {
			logger.Warn("Ambiguous header key excluded from matching",
				"sheet", g.Title,
				"key", k,
				"first_column", columnName(region.StartCol+j),
				"column", columnName(region.StartCol+i))
		}
		collided[k] = true
	}
	for i, k := range keys {
		if collided[k] {
			keys[i] = ""
		}
	}
	return keys, nil
}

// baseKey concatenates the resolved header values of one 0-based column.
// The first non-empty segment starts the key; every later segment is
// appended with a separator even when empty.
func baseKey(g *grid.Grid, region Region, col int) string {
	key := ""
	for row := region.StartRow; row < region.DataStartRow(); row++ {
		segment := grid.FormatValue(g.Resolve(grid.At(row+1, col+1)))
		if key == "" {
			key = segment
		} else {
			key = key + KeySeparator + segment
		}
	}
	return key
}

// dedupe returns the key to store for base and the updated counts.
func dedupe(counts KeyCounts, base string) (KeyCounts, string) {
	if base == "" {
		return counts, base
	}
	n := counts[base]
	counts[base] = n + 1
	if n == 0 {
		return counts, base
	}
	return counts, base + KeySeparator + strconv.Itoa(n)
}
