// Package delta compares two snapshots of the same table whose column order
// may differ. Columns are aligned by a composite key built from the header
// rows, and every aligned data cell becomes a cross-sheet subtraction formula.
package delta

import (
	"errors"
	"fmt"
	"sheetDelta/internal/grid"

	"github.com/xuri/excelize/v2"
)

// ErrMalformedHeaderRegion is returned when the header region does not fit
// inside the grid.
var ErrMalformedHeaderRegion = errors.New("malformed header region")

// DefaultHeaderRows is the header depth used when none is configured.
const DefaultHeaderRows = 2

// Region locates a table inside a grid. StartRow and StartCol are 0-based
// offsets of the top-left header cell; the table spans every column from
// StartCol to the grid's last column.
type Region struct {
	StartRow   int
	StartCol   int
	HeaderRows int
}

// RegionAt builds a Region from an A1-style start cell such as "B3".
func RegionAt(startCell string, headerRows int) (Region, error) {
	at, err := grid.ParseCoord(startCell)
	if err != nil {
		return Region{}, err
	}
	if headerRows == 0 {
		headerRows = DefaultHeaderRows
	}
	return Region{StartRow: at.Row - 1, StartCol: at.Col - 1, HeaderRows: headerRows}, nil
}

// DataStartRow is the 0-based index of the first row below the header.
func (r Region) DataStartRow() int {
	return r.StartRow + r.HeaderRows
}

func (r Region) validate(g *grid.Grid) error {
	switch {
	case r.StartRow < 0 || r.StartCol < 0:
		return fmt.Errorf("%w: negative start offset (%d, %d)", ErrMalformedHeaderRegion, r.StartRow, r.StartCol)
	case r.HeaderRows < 1:
		return fmt.Errorf("%w: header row count %d", ErrMalformedHeaderRegion, r.HeaderRows)
	case r.StartRow+r.HeaderRows > g.MaxRow():
		return fmt.Errorf("%w: header rows %d-%d exceed last row %d of %q",
			ErrMalformedHeaderRegion, r.StartRow+1, r.StartRow+r.HeaderRows, g.MaxRow(), g.Title)
	case r.StartCol >= g.MaxCol():
		return fmt.Errorf("%w: start column %d exceeds last column %d of %q",
			ErrMalformedHeaderRegion, r.StartCol+1, g.MaxCol(), g.Title)
	}
	return nil
}

// columnName renders a 0-based column offset as letters.
func columnName(col int) string {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return fmt.Sprintf("#%d", col+1)
	}
	return name
}
