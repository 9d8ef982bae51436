package excel

import (
	"fmt"
	"sheetDelta/internal/delta"
	"sheetDelta/internal/grid"
	"sheetDelta/internal/logger"
	"strings"
)

// Sheet names the copies of the two snapshots receive in the delta workbook.
const (
	CurrentSheetTitle  = "Current"
	PreviousSheetTitle = "Previous"
)

// DeltaJob describes one snapshot comparison between two workbook files.
type DeltaJob struct {
	CurrentFile   string
	CurrentSheet  string
	PreviousFile  string
	PreviousSheet string
	OutputFile    string
	DeltaSheet    string
	StartCell     string
	HeaderRows    int
	Aliases       map[string]string
}

// LoadSnapshots reads both snapshot sheets of the job. The returned grids are
// titled CurrentSheetTitle and PreviousSheetTitle.
func LoadSnapshots(job DeltaJob) (*grid.Grid, *grid.Grid, error) {
	current, err := loadGrid(job.CurrentFile, job.CurrentSheet)
	if err != nil {
		return nil, nil, err
	}
	previous, err := loadGrid(job.PreviousFile, job.PreviousSheet)
	if err != nil {
		return nil, nil, err
	}
	current.Title = CurrentSheetTitle
	previous.Title = PreviousSheetTitle
	return current, previous, nil
}

func loadGrid(path, sheet string) (*grid.Grid, error) {
	editor, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer editor.Close()

	g, err := editor.ReadGrid(sheet)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded sheet", "file", path, "sheet", sheet, "rows", g.MaxRow(), "columns", g.MaxCol())
	return g, nil
}

// RunDelta loads both snapshots, computes the delta and saves a workbook
// holding the current and previous sheets next to the delta sheet, so every
// generated formula resolves inside the file. Nothing is written on error.
func RunDelta(job DeltaJob) (delta.Report, error) {
	logger.Info("Starting delta check",
		"current_file", job.CurrentFile,
		"previous_file", job.PreviousFile,
		"start_cell", job.StartCell,
		"header_rows", job.HeaderRows)

	region, err := delta.RegionAt(job.StartCell, job.HeaderRows)
	if err != nil {
		return delta.Report{}, err
	}
	current, previous, err := LoadSnapshots(job)
	if err != nil {
		return delta.Report{}, err
	}

	sheetName := job.DeltaSheet
	if sheetName == "" {
		sheetName = delta.DefaultTitle
	}
	// Sheet names are case-insensitive inside a workbook.
	if strings.EqualFold(sheetName, CurrentSheetTitle) || strings.EqualFold(sheetName, PreviousSheetTitle) {
		return delta.Report{}, fmt.Errorf("delta sheet name %q is reserved", sheetName)
	}

	result, report, err := delta.Compute(current, previous, delta.Options{
		Region:  region,
		Title:   sheetName,
		Aliases: job.Aliases,
	})
	if err != nil {
		return delta.Report{}, fmt.Errorf("delta check failed: %w", err)
	}

	if err := SaveGrids(job.OutputFile, result, current, previous); err != nil {
		return delta.Report{}, err
	}

	logger.Info("Delta workbook saved", "output_file", job.OutputFile, "sheet", result.Title)
	return report, nil
}
