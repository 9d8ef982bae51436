package excel

import (
	"path/filepath"
	"sheetDelta/internal/grid"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves a workbook whose sheets are filled from rows keyed by
// sheet name. The first sheet replaces the default one.
func writeWorkbook(t *testing.T, path string, sheets []string, rows map[string][][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet))
		} else {
			_, err := f.NewSheet(sheet)
			require.NoError(t, err)
		}
		for r, row := range rows[sheet] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func TestWriteGridReadGridRoundTrip(t *testing.T) {
	g := grid.New("Data")
	g.SetValue(grid.At(1, 1), "Name")
	g.SetValue(grid.At(1, 2), "Count")
	g.SetValue(grid.At(2, 1), "apples")
	g.SetValue(grid.At(2, 2), 12)
	g.SetValue(grid.At(3, 2), 1.5)
	g.SetValue(grid.At(3, 3), true)
	g.SetValue(grid.At(4, 2), "=B2+B3")
	g.SetStyle(grid.At(1, 1), grid.Style{Fill: grid.SolidFill("FF0000")})
	g.SetComment(grid.At(2, 1), &grid.Comment{Author: "qa", Text: "checked"})
	require.NoError(t, g.Merge(grid.NewMergedRange(grid.At(5, 1), grid.At(6, 2))))
	g.SetRowHeight(2, 30)
	g.SetColWidth(2, 20)
	g.ZoomScale = 80

	path := filepath.Join(t.TempDir(), "round.xlsx")
	out := CreateNewFile()
	require.NoError(t, out.WriteGrid("Data", g))
	require.NoError(t, out.SaveAs(path))
	require.NoError(t, out.Close())

	in, err := OpenFile(path)
	require.NoError(t, err)
	defer in.Close()

	back, err := in.ReadGrid("Data")
	require.NoError(t, err)

	assert.Equal(t, 6, back.MaxRow())
	assert.Equal(t, 3, back.MaxCol())
	assert.Equal(t, "Name", back.Cell(grid.At(1, 1)).Value)
	assert.Equal(t, "apples", back.Cell(grid.At(2, 1)).Value)
	assert.Equal(t, int64(12), back.Cell(grid.At(2, 2)).Value)
	assert.Equal(t, 1.5, back.Cell(grid.At(3, 2)).Value)
	assert.Equal(t, true, back.Cell(grid.At(3, 3)).Value)
	assert.Equal(t, "=B2+B3", back.Cell(grid.At(4, 2)).Value)

	fill := back.Cell(grid.At(1, 1)).Style.Fill
	assert.Equal(t, "pattern", fill.Type)
	assert.Equal(t, 1, fill.Pattern)

	comment := back.Cell(grid.At(2, 1)).Comment
	require.NotNil(t, comment)
	assert.Contains(t, comment.Text, "checked")

	assert.Equal(t, []grid.MergedRange{grid.NewMergedRange(grid.At(5, 1), grid.At(6, 2))}, back.MergedRanges())
	assert.Equal(t, 30.0, back.RowHeights()[2])
	assert.Equal(t, 20.0, back.ColWidths()[2])
	assert.Equal(t, 80.0, back.ZoomScale)
}

func TestReadGridEmptySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	writeWorkbook(t, path, []string{"Sheet1"}, nil)

	in, err := OpenFile(path)
	require.NoError(t, err)
	defer in.Close()

	g, err := in.ReadGrid("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, 0, g.MaxRow())
	assert.Equal(t, 0, g.MaxCol())
}

func TestReadGridMissingSheet(t *testing.T) {
	e := CreateNewFile()
	defer e.Close()

	_, err := e.ReadGrid("Nope")
	assert.Error(t, err)
}

func TestParseCellValue(t *testing.T) {
	tests := []struct {
		raw      string
		cellType excelize.CellType
		want     any
	}{
		{"", excelize.CellTypeUnset, nil},
		{"42", excelize.CellTypeUnset, int64(42)},
		{"42", excelize.CellTypeNumber, int64(42)},
		{"2.25", excelize.CellTypeNumber, 2.25},
		{"1", excelize.CellTypeBool, true},
		{"0", excelize.CellTypeBool, false},
		{"42", excelize.CellTypeSharedString, "42"},
		{"#DIV/0!", excelize.CellTypeError, "#DIV/0!"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseCellValue(tt.raw, tt.cellType), "raw %q", tt.raw)
	}
}

func TestUniqueSheetName(t *testing.T) {
	e := CreateNewFile()
	defer e.Close()
	require.NoError(t, e.AddSheet("Data"))

	assert.Equal(t, "Other", e.uniqueSheetName("Other"))
	assert.Equal(t, "Data1", e.uniqueSheetName("Data"))

	long := "abcdefghijklmnopqrstuvwxyz0123456789"
	assert.Equal(t, long[:31], e.uniqueSheetName(long))
	require.NoError(t, e.AddSheet(long[:31]))
	assert.Equal(t, long[:30]+"1", e.uniqueSheetName(long))
}

func TestSaveGrids(t *testing.T) {
	first := grid.New("Sheet1")
	first.SetValue(grid.At(1, 1), "one")
	second := grid.New("Notes")
	second.SetValue(grid.At(2, 2), "two")
	path := filepath.Join(t.TempDir(), "nested", "book.xlsx")

	require.NoError(t, SaveGrids(path, first, second))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Sheet1", "Notes"}, f.GetSheetList())
	v, err := f.GetCellValue("Notes", "B2")
	require.NoError(t, err)
	assert.Equal(t, "two", v)

	assert.Error(t, SaveGrids(path))
}
