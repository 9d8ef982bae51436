package grid

import (
	"fmt"
)

// CopyGrid copies src onto dst cell by cell. Style and comment are always
// copied, the value only when copyValue is set. Row heights, column widths,
// zoom and merged ranges follow.
//
// A merged range that already exists on dst with the same span is left alone;
// a partial overlap fails with ErrMergedRangeConflict before dst is modified.
// Coordinates outside src's rectangle keep their previous contents.
func CopyGrid(src, dst *Grid, copyValue bool) error {
	var pending []MergedRange
	for _, r := range src.merges {
		if dst.HasMerge(r) {
			continue
		}
		if existing, ok := dst.overlapping(r); ok {
			return fmt.Errorf("%w: cannot merge %s on %q, %s is already merged",
				ErrMergedRangeConflict, r, dst.Title, existing)
		}
		pending = append(pending, r)
	}

	type staged struct {
		at   Coord
		cell Cell
	}
	var cells []staged
	var cloneErr error
	src.Each(func(at Coord, c Cell) {
		if cloneErr != nil {
			return
		}
		style, err := c.Style.Clone()
		if err != nil {
			cloneErr = fmt.Errorf("cell %s: %w", at, err)
			return
		}
		next := dst.cells[at]
		if copyValue {
			next.Value = c.Value
		}
		next.Style = style
		next.Comment = nil
		if c.Comment != nil {
			cm := *c.Comment
			next.Comment = &cm
		}
		cells = append(cells, staged{at: at, cell: next})
	})
	if cloneErr != nil {
		return cloneErr
	}

	for _, s := range cells {
		dst.Put(s.at, s.cell)
	}
	for row, h := range src.rowHeights {
		dst.SetRowHeight(row, h)
	}
	for col, w := range src.colWidths {
		dst.SetColWidth(col, w)
	}
	if src.ZoomScale > 0 {
		dst.ZoomScale = src.ZoomScale
	}
	for _, r := range pending {
		if err := dst.Merge(r); err != nil {
			return err
		}
	}
	return nil
}
