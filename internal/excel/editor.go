package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"sheetDelta/internal/grid"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// maxSheetNameLength is the longest sheet name a workbook accepts.
const maxSheetNameLength = 31

type Editor struct {
	file     *excelize.File
	filepath string
}

// OpenFile opens an existing Excel file
func OpenFile(filepath string) (*Editor, error) {
	file, err := excelize.OpenFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %v", filepath, err)
	}
	return &Editor{
		file:     file,
		filepath: filepath,
	}, nil
}

// CreateNewFile creates a new Excel file in memory
func CreateNewFile() *Editor {
	file := excelize.NewFile()
	return &Editor{
		file:     file,
		filepath: "",
	}
}

// GetSheetNames returns all sheet names in the workbook
func (e *Editor) GetSheetNames() []string {
	return e.file.GetSheetList()
}

// HasSheet reports whether the workbook contains the sheet
func (e *Editor) HasSheet(sheetName string) bool {
	idx, err := e.file.GetSheetIndex(sheetName)
	return err == nil && idx != -1
}

// AddSheet creates a new sheet
func (e *Editor) AddSheet(sheetName string) error {
	_, err := e.file.NewSheet(sheetName)
	return err
}

// DeleteSheet removes a sheet
func (e *Editor) DeleteSheet(sheetName string) error {
	return e.file.DeleteSheet(sheetName)
}

// SetActiveSheet makes the named sheet the one shown when the file is opened
func (e *Editor) SetActiveSheet(sheetName string) error {
	idx, err := e.file.GetSheetIndex(sheetName)
	if err != nil {
		return err
	}
	if idx == -1 {
		return fmt.Errorf("sheet %q not found", sheetName)
	}
	e.file.SetActiveSheet(idx)
	return nil
}

// SaveAs saves the Excel file with a new name
func (e *Editor) SaveAs(filepath string) error {
	e.filepath = filepath
	return e.file.SaveAs(filepath)
}

// Close closes the Excel file
func (e *Editor) Close() error {
	return e.file.Close()
}

// scratchSheet is the placeholder a generated workbook starts with, so that
// written sheets may use any name including "Sheet1".
const scratchSheet = "__scratch__"

// newScratchWorkbook creates an in-memory workbook whose only sheet is the
// placeholder removed by dropScratchSheet.
func newScratchWorkbook() (*Editor, error) {
	e := CreateNewFile()
	if err := e.file.SetSheetName(e.GetSheetNames()[0], scratchSheet); err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to prepare workbook: %v", err)
	}
	return e, nil
}

// dropScratchSheet deletes the placeholder once another sheet exists.
func (e *Editor) dropScratchSheet() error {
	if !e.HasSheet(scratchSheet) || len(e.GetSheetNames()) < 2 {
		return nil
	}
	return e.DeleteSheet(scratchSheet)
}

// SaveGrids writes each grid into a sheet named after its title and saves
// the new workbook as path, creating parent directories. The first grid's
// sheet is active.
func SaveGrids(path string, grids ...*grid.Grid) error {
	if len(grids) == 0 {
		return fmt.Errorf("no sheets to save")
	}

	out, err := newScratchWorkbook()
	if err != nil {
		return err
	}
	defer out.Close()

	for _, g := range grids {
		if err := out.WriteGrid(g.Title, g); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", g.Title, err)
		}
	}
	if err := out.dropScratchSheet(); err != nil {
		return fmt.Errorf("failed to remove default sheet: %v", err)
	}
	if err := out.SetActiveSheet(grids[0].Title); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %v", err)
		}
	}
	if err := out.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %v", path, err)
	}
	return nil
}

// uniqueSheetName shortens name to the sheet name limit and appends a
// counter while it clashes with an existing sheet.
func (e *Editor) uniqueSheetName(name string) string {
	name = truncateSheetName(name, 0)
	if !e.HasSheet(name) {
		return name
	}
	for i := 1; ; i++ {
		suffix := fmt.Sprintf("%d", i)
		candidate := truncateSheetName(name, len(suffix)) + suffix
		if !e.HasSheet(candidate) {
			return candidate
		}
	}
}

func truncateSheetName(name string, reserve int) string {
	limit := maxSheetNameLength - reserve
	if utf8.RuneCountInString(name) <= limit {
		return name
	}
	runes := []rune(name)
	return string(runes[:limit])
}
