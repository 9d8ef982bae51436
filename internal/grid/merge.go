package grid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMergedRangeConflict is returned when a merged range overlaps one that
// already exists on the grid.
var ErrMergedRangeConflict = errors.New("merged range conflict")

// MergedRange is a rectangular span of cells. Start is the anchor (top-left)
// and holds the value for the whole range.
type MergedRange struct {
	Start Coord
	End   Coord
}

// NewMergedRange normalises two corners into a MergedRange.
func NewMergedRange(a, b Coord) MergedRange {
	r := MergedRange{Start: a, End: b}
	if r.Start.Row > r.End.Row {
		r.Start.Row, r.End.Row = r.End.Row, r.Start.Row
	}
	if r.Start.Col > r.End.Col {
		r.Start.Col, r.End.Col = r.End.Col, r.Start.Col
	}
	return r
}

// ParseRange parses an "A1:C3" reference.
func ParseRange(ref string) (MergedRange, error) {
	parts := strings.Split(ref, ":")
	if len(parts) != 2 {
		return MergedRange{}, fmt.Errorf("invalid range %q", ref)
	}
	a, err := ParseCoord(parts[0])
	if err != nil {
		return MergedRange{}, err
	}
	b, err := ParseCoord(parts[1])
	if err != nil {
		return MergedRange{}, err
	}
	return NewMergedRange(a, b), nil
}

// String returns the "A1:C3" reference of the range.
func (r MergedRange) String() string {
	return r.Start.String() + ":" + r.End.String()
}

// Contains reports whether the coordinate lies within the range.
func (r MergedRange) Contains(at Coord) bool {
	return at.Row >= r.Start.Row && at.Row <= r.End.Row &&
		at.Col >= r.Start.Col && at.Col <= r.End.Col
}

// Overlaps reports whether the two ranges share at least one cell.
func (r MergedRange) Overlaps(o MergedRange) bool {
	return r.Start.Row <= o.End.Row && o.Start.Row <= r.End.Row &&
		r.Start.Col <= o.End.Col && o.Start.Col <= r.End.Col
}

// Merge adds a merged range. Values of non-anchor members are cleared. Any
// overlap with an existing range, identical ones included, fails with
// ErrMergedRangeConflict.
func (g *Grid) Merge(r MergedRange) error {
	r = NewMergedRange(r.Start, r.End)
	if r.Start.Row < 1 || r.Start.Col < 1 {
		return fmt.Errorf("invalid merged range %s", r)
	}
	if existing, ok := g.overlapping(r); ok {
		return fmt.Errorf("%w: %s overlaps %s", ErrMergedRangeConflict, r, existing)
	}

	g.merges = append(g.merges, r)
	for row := r.Start.Row; row <= r.End.Row; row++ {
		for col := r.Start.Col; col <= r.End.Col; col++ {
			at := Coord{Row: row, Col: col}
			g.anchors[at] = r.Start
			if at == r.Start {
				continue
			}
			if c, ok := g.cells[at]; ok {
				c.Value = nil
				g.cells[at] = c
			}
		}
	}
	g.touch(r.End)
	return nil
}

// HasMerge reports whether exactly this range is merged on the grid.
func (g *Grid) HasMerge(r MergedRange) bool {
	r = NewMergedRange(r.Start, r.End)
	for _, m := range g.merges {
		if m == r {
			return true
		}
	}
	return false
}

func (g *Grid) overlapping(r MergedRange) (MergedRange, bool) {
	for _, m := range g.merges {
		if m.Overlaps(r) {
			return m, true
		}
	}
	return MergedRange{}, false
}

// MergedRanges returns the merged ranges in creation order.
func (g *Grid) MergedRanges() []MergedRange {
	out := make([]MergedRange, len(g.merges))
	copy(out, g.merges)
	return out
}

// Anchor returns the anchor of the merged range containing the coordinate.
func (g *Grid) Anchor(at Coord) (Coord, bool) {
	a, ok := g.anchors[at]
	return a, ok
}

// Resolve returns the value at the coordinate, read through the anchor when
// the coordinate belongs to a merged range.
func (g *Grid) Resolve(at Coord) any {
	if a, ok := g.anchors[at]; ok {
		return g.cells[a].Value
	}
	return g.cells[at].Value
}

func (g *Grid) isCovered(at Coord) bool {
	a, ok := g.anchors[at]
	return ok && a != at
}
