package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"sheetDelta/internal/logger"
	"strings"
)

// MergeFiles copies every sheet of every input file into one new workbook.
// Sheets are named "<file name>_<sheet>", or just "<file name>" when the
// file has a single sheet.
func MergeFiles(inputFiles []string, outputFile string) error {
	if len(inputFiles) == 0 {
		return fmt.Errorf("no input files to merge")
	}

	out, err := newScratchWorkbook()
	if err != nil {
		return err
	}
	defer out.Close()

	var written []string
	for _, inputFile := range inputFiles {
		names, err := mergeFileInto(out, inputFile)
		if err != nil {
			return err
		}
		written = append(written, names...)
	}

	if err := out.dropScratchSheet(); err != nil {
		return fmt.Errorf("failed to remove default sheet: %v", err)
	}
	if dir := filepath.Dir(outputFile); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %v", err)
		}
	}
	if err := out.SaveAs(outputFile); err != nil {
		return fmt.Errorf("failed to save merged workbook: %v", err)
	}

	logger.Info("Merged workbooks", "input_count", len(inputFiles), "sheet_count", len(written), "output_file", outputFile)
	return nil
}

func mergeFileInto(out *Editor, inputFile string) ([]string, error) {
	src, err := OpenFile(inputFile)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	stem := strings.TrimSuffix(filepath.Base(inputFile), filepath.Ext(inputFile))
	sheets := src.GetSheetNames()

	var written []string
	for _, sheet := range sheets {
		name := stem + "_" + sheet
		if len(sheets) == 1 {
			name = stem
		}
		name, err = copySheet(src, sheet, out, name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", inputFile, err)
		}
		written = append(written, name)
	}
	return written, nil
}

// copySheet copies one sheet with its formatting into dst under name, made
// unique if needed. It returns the name actually used.
func copySheet(src *Editor, sheet string, dst *Editor, name string) (string, error) {
	g, err := src.ReadGrid(sheet)
	if err != nil {
		return "", err
	}
	name = dst.uniqueSheetName(name)
	if err := dst.WriteGrid(name, g); err != nil {
		return "", fmt.Errorf("failed to copy sheet %s: %w", sheet, err)
	}
	logger.Debug("Copied sheet", "from", sheet, "to", name)
	return name, nil
}

// MergeWorkbook copies every sheet of src into dst, keeping sheet names
// where they are free.
func MergeWorkbook(dst, src *Editor) error {
	for _, sheet := range src.GetSheetNames() {
		if _, err := copySheet(src, sheet, dst, sheet); err != nil {
			return err
		}
	}
	return nil
}

// SaveAsXLSM merges src into a macro-enabled template and saves the result
// as resultFile. The template is either an .xlsm workbook, whose VBA project
// is kept, or a raw vbaProject.bin attached to a new workbook.
func SaveAsXLSM(src *Editor, macroTemplate, resultFile string) error {
	if strings.ToLower(filepath.Ext(resultFile)) != ".xlsm" {
		return fmt.Errorf("result file %s must have the .xlsm extension", resultFile)
	}

	var macro *Editor
	if strings.ToLower(filepath.Ext(macroTemplate)) == ".bin" {
		project, err := os.ReadFile(macroTemplate)
		if err != nil {
			return fmt.Errorf("failed to read VBA project: %v", err)
		}
		macro, err = newScratchWorkbook()
		if err != nil {
			return err
		}
		if err := macro.file.AddVBAProject(project); err != nil {
			macro.Close()
			return fmt.Errorf("failed to attach VBA project: %v", err)
		}
	} else {
		var err error
		macro, err = OpenFile(macroTemplate)
		if err != nil {
			return err
		}
	}
	defer macro.Close()

	existing := macro.GetSheetNames()
	if err := MergeWorkbook(macro, src); err != nil {
		return err
	}
	if err := macro.dropScratchSheet(); err != nil {
		return err
	}
	if err := macro.SaveAs(resultFile); err != nil {
		return fmt.Errorf("failed to save macro workbook: %v", err)
	}

	logger.Info("Saved macro workbook", "template", macroTemplate, "template_sheets", len(existing), "output_file", resultFile)
	return nil
}
