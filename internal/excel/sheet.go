package excel

import (
	"encoding/json"
	"fmt"
	"sheetDelta/internal/grid"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadGrid loads a sheet into a grid: values (formulas as "=..."), styles,
// comments, merged ranges, row/column size overrides and zoom.
func (e *Editor) ReadGrid(sheet string) (*grid.Grid, error) {
	if !e.HasSheet(sheet) {
		return nil, fmt.Errorf("sheet %q not found in %s", sheet, e.filepath)
	}

	maxRow, maxCol, err := e.sheetBounds(sheet)
	if err != nil {
		return nil, err
	}

	g := grid.New(sheet)
	styles := make(map[int]grid.Style)
	for row := 1; row <= maxRow; row++ {
		for col := 1; col <= maxCol; col++ {
			at := grid.At(row, col)
			cell, err := e.readCell(sheet, at, styles)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s!%s: %v", sheet, at, err)
			}
			if cell.Value != nil || !cell.Style.IsZero() {
				g.Put(at, cell)
			}
		}
	}
	if maxRow > 0 && maxCol > 0 {
		g.Extend(grid.At(maxRow, maxCol))
	}

	comments, err := e.file.GetComments(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read comments of %s: %v", sheet, err)
	}
	for _, c := range comments {
		at, err := grid.ParseCoord(c.Cell)
		if err != nil {
			continue
		}
		g.SetComment(at, &grid.Comment{Author: c.Author, Text: commentText(c)})
	}

	mergeCells, err := e.file.GetMergeCells(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read merged cells of %s: %v", sheet, err)
	}
	for _, mc := range mergeCells {
		r, err := grid.ParseRange(mc.GetStartAxis() + ":" + mc.GetEndAxis())
		if err != nil {
			return nil, err
		}
		if err := g.Merge(r); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}

	if err := e.readSizing(sheet, g); err != nil {
		return nil, err
	}

	view, err := e.file.GetSheetView(sheet, 0)
	if err == nil && view.ZoomScale != nil && *view.ZoomScale != 100 {
		g.ZoomScale = *view.ZoomScale
	}
	return g, nil
}

// sheetBounds returns the last row and column holding data, taking the
// recorded dimension and merged ranges into account.
func (e *Editor) sheetBounds(sheet string) (int, int, error) {
	maxRow, maxCol := 0, 0
	grow := func(row, col int) {
		if row > maxRow {
			maxRow = row
		}
		if col > maxCol {
			maxCol = col
		}
	}

	dimension, err := e.file.GetSheetDimension(sheet)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read dimension of %s: %v", sheet, err)
	}
	if dimension != "" {
		parts := strings.Split(dimension, ":")
		if col, row, err := excelize.CellNameToCoordinates(parts[len(parts)-1]); err == nil {
			grow(row, col)
		}
	}

	rows, err := e.file.GetRows(sheet)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get rows: %v", err)
	}
	for i, row := range rows {
		if len(row) > 0 {
			grow(i+1, len(row))
		}
	}

	mergeCells, err := e.file.GetMergeCells(sheet)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read merged cells of %s: %v", sheet, err)
	}
	for _, mc := range mergeCells {
		if col, row, err := excelize.CellNameToCoordinates(mc.GetEndAxis()); err == nil {
			grow(row, col)
		}
	}

	// A lone empty A1 is how an untouched sheet reports itself.
	if maxRow == 1 && maxCol == 1 {
		if v, _ := e.file.GetCellValue(sheet, "A1"); v == "" {
			if id, _ := e.file.GetCellStyle(sheet, "A1"); id == 0 {
				return 0, 0, nil
			}
		}
	}
	return maxRow, maxCol, nil
}

func (e *Editor) readCell(sheet string, at grid.Coord, styles map[int]grid.Style) (grid.Cell, error) {
	var cell grid.Cell
	name := at.String()

	formula, err := e.file.GetCellFormula(sheet, name)
	if err != nil {
		return cell, err
	}
	if formula != "" {
		cell.Value = "=" + formula
	} else {
		raw, err := e.file.GetCellValue(sheet, name, excelize.Options{RawCellValue: true})
		if err != nil {
			return cell, err
		}
		cellType, err := e.file.GetCellType(sheet, name)
		if err != nil {
			return cell, err
		}
		cell.Value = parseCellValue(raw, cellType)
	}

	styleID, err := e.file.GetCellStyle(sheet, name)
	if err != nil {
		return cell, err
	}
	if styleID == 0 {
		return cell, nil
	}
	style, ok := styles[styleID]
	if !ok {
		def, err := e.file.GetStyle(styleID)
		if err != nil {
			return cell, err
		}
		style = grid.StyleFromExcel(def)
		styles[styleID] = style
	}
	cell.Style, err = style.Clone()
	return cell, err
}

// parseCellValue converts a raw cell string into a typed value: int64 for
// integers, float64 for other numbers, bool for boolean cells and the string
// itself otherwise. Empty cells yield nil.
func parseCellValue(raw string, cellType excelize.CellType) any {
	if raw == "" {
		return nil
	}
	switch cellType {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError, excelize.CellTypeDate:
		return raw
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func commentText(c excelize.Comment) string {
	if c.Text != "" || len(c.Paragraph) == 0 {
		return c.Text
	}
	var b strings.Builder
	for _, run := range c.Paragraph {
		b.WriteString(run.Text)
	}
	return b.String()
}

// readSizing records every row height and column width that differs from the
// sheet default. The default is read from the first row and column past the
// data, which never carry an override.
func (e *Editor) readSizing(sheet string, g *grid.Grid) error {
	defaultHeight, err := e.file.GetRowHeight(sheet, g.MaxRow()+1)
	if err != nil {
		return fmt.Errorf("failed to read row height of %s: %v", sheet, err)
	}
	for row := 1; row <= g.MaxRow(); row++ {
		h, err := e.file.GetRowHeight(sheet, row)
		if err != nil {
			return fmt.Errorf("failed to read row height of %s: %v", sheet, err)
		}
		if h != defaultHeight {
			g.SetRowHeight(row, h)
		}
	}

	nextCol, err := excelize.ColumnNumberToName(g.MaxCol() + 1)
	if err != nil {
		return err
	}
	defaultWidth, err := e.file.GetColWidth(sheet, nextCol)
	if err != nil {
		return fmt.Errorf("failed to read column width of %s: %v", sheet, err)
	}
	for col := 1; col <= g.MaxCol(); col++ {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		w, err := e.file.GetColWidth(sheet, name)
		if err != nil {
			return fmt.Errorf("failed to read column width of %s: %v", sheet, err)
		}
		if w != defaultWidth {
			g.SetColWidth(col, w)
		}
	}
	return nil
}

// WriteGrid writes a grid into the named sheet, creating it when missing.
// String values starting with "=" are written as formulas.
func (e *Editor) WriteGrid(sheet string, g *grid.Grid) error {
	if !e.HasSheet(sheet) {
		if err := e.AddSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %v", sheet, err)
		}
	}

	styleIDs := make(map[string]int)
	var writeErr error
	g.Each(func(at grid.Coord, c grid.Cell) {
		if writeErr != nil || !g.Has(at) {
			return
		}
		name := at.String()
		if err := e.writeValue(sheet, name, c.Value); err != nil {
			writeErr = fmt.Errorf("failed to set value in cell %s: %v", name, err)
			return
		}
		if !c.Style.IsZero() {
			id, err := e.styleID(c.Style, styleIDs)
			if err != nil {
				writeErr = fmt.Errorf("failed to create style for cell %s: %v", name, err)
				return
			}
			if err := e.file.SetCellStyle(sheet, name, name, id); err != nil {
				writeErr = fmt.Errorf("failed to apply style to cell %s: %v", name, err)
				return
			}
		}
		if c.Comment != nil {
			err := e.file.AddComment(sheet, excelize.Comment{Cell: name, Author: c.Comment.Author, Text: c.Comment.Text})
			if err != nil {
				writeErr = fmt.Errorf("failed to add comment to cell %s: %v", name, err)
			}
		}
	})
	if writeErr != nil {
		return writeErr
	}

	for _, r := range g.MergedRanges() {
		if err := e.file.MergeCell(sheet, r.Start.String(), r.End.String()); err != nil {
			return fmt.Errorf("failed to merge %s: %v", r, err)
		}
	}
	for row, h := range g.RowHeights() {
		if err := e.file.SetRowHeight(sheet, row, h); err != nil {
			return fmt.Errorf("failed to set height of row %d: %v", row, err)
		}
	}
	for col, w := range g.ColWidths() {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		if err := e.file.SetColWidth(sheet, name, name, w); err != nil {
			return fmt.Errorf("failed to set width of column %s: %v", name, err)
		}
	}
	if g.ZoomScale > 0 {
		zoom := g.ZoomScale
		if err := e.file.SetSheetView(sheet, 0, &excelize.ViewOptions{ZoomScale: &zoom}); err != nil {
			return fmt.Errorf("failed to set zoom of %s: %v", sheet, err)
		}
	}
	return nil
}

func (e *Editor) writeValue(sheet, cell string, value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		if strings.HasPrefix(v, "=") && len(v) > 1 {
			return e.file.SetCellFormula(sheet, cell, v[1:])
		}
		return e.file.SetCellValue(sheet, cell, v)
	default:
		return e.file.SetCellValue(sheet, cell, v)
	}
}

// styleID returns the workbook style index for s, creating it once per
// distinct style.
func (e *Editor) styleID(s grid.Style, cache map[string]int) (int, error) {
	def := s.Excel()
	raw, err := json.Marshal(def)
	if err != nil {
		return 0, err
	}
	key := string(raw)
	if id, ok := cache[key]; ok {
		return id, nil
	}
	id, err := e.file.NewStyle(def)
	if err != nil {
		return 0, err
	}
	cache[key] = id
	return id, nil
}
