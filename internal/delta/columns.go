package delta

import "sheetDelta/internal/grid"

// DataColumn holds the coordinates of one column's data cells, top to bottom.
type DataColumn []grid.Coord

// DataColumns returns, for every column of the region, the cells from the row
// just below the header down to the grid's last row.
func DataColumns(g *grid.Grid, region Region) ([]DataColumn, error) {
	if err := region.validate(g); err != nil {
		return nil, err
	}

	columns := make([]DataColumn, 0, g.MaxCol()-region.StartCol)
	for col := region.StartCol; col < g.MaxCol(); col++ {
		column := make(DataColumn, 0, g.MaxRow()-region.DataStartRow())
		for row := region.DataStartRow(); row < g.MaxRow(); row++ {
			column = append(column, grid.At(row+1, col+1))
		}
		columns = append(columns, column)
	}
	return columns, nil
}
