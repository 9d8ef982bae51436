// Package grid is an in-memory worksheet model: sparse cells with values,
// style bundles and comments, merged ranges with a precomputed anchor index,
// row/column sizing overrides and occupied bounds.
package grid

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Coord is a 1-based (row, column) cell coordinate.
type Coord struct {
	Row int
	Col int
}

// At builds a Coord from 1-based row and column numbers.
func At(row, col int) Coord {
	return Coord{Row: row, Col: col}
}

// ParseCoord converts an A1-style cell name into a Coord.
func ParseCoord(name string) (Coord, error) {
	col, row, err := excelize.CellNameToCoordinates(name)
	if err != nil {
		return Coord{}, fmt.Errorf("invalid cell name %q: %w", name, err)
	}
	return Coord{Row: row, Col: col}, nil
}

// String returns the A1-style name of the coordinate.
func (c Coord) String() string {
	name, err := excelize.CoordinatesToCellName(c.Col, c.Row)
	if err != nil {
		return "R" + strconv.Itoa(c.Row) + "C" + strconv.Itoa(c.Col)
	}
	return name
}

// Comment is a cell note.
type Comment struct {
	Author string
	Text   string
}

// Cell holds a value, its formatting and an optional comment. A string value
// starting with "=" is an expression.
type Cell struct {
	Value   any
	Style   Style
	Comment *Comment
}

// Grid is a sparse worksheet. The zero value is not usable, use New.
type Grid struct {
	Title string

	// ZoomScale is the sheet view zoom in percent, 0 means unset.
	ZoomScale float64

	cells      map[Coord]Cell
	merges     []MergedRange
	anchors    map[Coord]Coord
	rowHeights map[int]float64
	colWidths  map[int]float64
	maxRow     int
	maxCol     int
}

// New creates an empty grid with the given sheet title.
func New(title string) *Grid {
	return &Grid{
		Title:      title,
		cells:      make(map[Coord]Cell),
		anchors:    make(map[Coord]Coord),
		rowHeights: make(map[int]float64),
		colWidths:  make(map[int]float64),
	}
}

// MaxRow is the furthest row touched by a cell write or merge.
func (g *Grid) MaxRow() int { return g.maxRow }

// MaxCol is the furthest column touched by a cell write or merge.
func (g *Grid) MaxCol() int { return g.maxCol }

func (g *Grid) touch(at Coord) {
	if at.Row > g.maxRow {
		g.maxRow = at.Row
	}
	if at.Col > g.maxCol {
		g.maxCol = at.Col
	}
}

// Extend grows the bounds to include the coordinate without writing a cell.
func (g *Grid) Extend(at Coord) {
	g.touch(at)
}

// Cell returns the cell at the coordinate, or the zero Cell when unset.
func (g *Grid) Cell(at Coord) Cell {
	return g.cells[at]
}

// Has reports whether a cell was ever written at the coordinate.
func (g *Grid) Has(at Coord) bool {
	_, ok := g.cells[at]
	return ok
}

// Put replaces the whole cell at the coordinate. The value is dropped when
// the coordinate is a non-anchor member of a merged range.
func (g *Grid) Put(at Coord, c Cell) {
	if g.isCovered(at) {
		c.Value = nil
	}
	g.cells[at] = c
	g.touch(at)
}

// SetValue sets only the value of a cell. Writes to non-anchor members of a
// merged range are ignored.
func (g *Grid) SetValue(at Coord, v any) {
	c := g.cells[at]
	if !g.isCovered(at) {
		c.Value = v
	}
	g.cells[at] = c
	g.touch(at)
}

// SetStyle sets only the style of a cell.
func (g *Grid) SetStyle(at Coord, s Style) {
	c := g.cells[at]
	c.Style = s
	g.cells[at] = c
	g.touch(at)
}

// SetComment sets or clears (nil) the comment of a cell.
func (g *Grid) SetComment(at Coord, cm *Comment) {
	c := g.cells[at]
	c.Comment = cm
	g.cells[at] = c
	g.touch(at)
}

// Each visits every coordinate of the occupied rectangle
// 1..MaxRow x 1..MaxCol in row-major order, including unset cells.
func (g *Grid) Each(fn func(at Coord, c Cell)) {
	for r := 1; r <= g.maxRow; r++ {
		for col := 1; col <= g.maxCol; col++ {
			at := Coord{Row: r, Col: col}
			fn(at, g.cells[at])
		}
	}
}

// SetRowHeight records a row height override.
func (g *Grid) SetRowHeight(row int, height float64) {
	g.rowHeights[row] = height
}

// RowHeights returns a copy of the row height overrides.
func (g *Grid) RowHeights() map[int]float64 {
	out := make(map[int]float64, len(g.rowHeights))
	for k, v := range g.rowHeights {
		out[k] = v
	}
	return out
}

// SetColWidth records a column width override.
func (g *Grid) SetColWidth(col int, width float64) {
	g.colWidths[col] = width
}

// ColWidths returns a copy of the column width overrides.
func (g *Grid) ColWidths() map[int]float64 {
	out := make(map[int]float64, len(g.colWidths))
	for k, v := range g.colWidths {
		out[k] = v
	}
	return out
}

// FormatValue renders a cell value as text. Integral floats are written
// without a fractional part.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
