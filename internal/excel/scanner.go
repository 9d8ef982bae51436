package excel

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sheetDelta/internal/delta"
	"sheetDelta/internal/logger"
	"sort"
	"strings"
)

// EmptyKeyMarker is written in place of an empty header key.
const EmptyKeyMarker = "<empty>"

// ListXlsxFiles returns every .xlsx file below dir in lexical order. Lock
// files left by an open workbook ("~$name.xlsx") are skipped.
func ListXlsxFiles(dir string) ([]string, error) {
	var xlsxFiles []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || strings.HasPrefix(info.Name(), "~$") {
			return nil
		}
		if strings.ToLower(filepath.Ext(path)) == ".xlsx" {
			xlsxFiles = append(xlsxFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list xlsx files in %s: %v", dir, err)
	}

	sort.Strings(xlsxFiles)
	return xlsxFiles, nil
}

// ScanHeaderKeys reads the header keys of one sheet. When outputFile is not
// empty the keys are also written there, one per line.
func ScanHeaderKeys(filePath, sheet string, region delta.Region, outputFile string) ([]string, error) {
	editor, err := OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer editor.Close()

	g, err := editor.ReadGrid(sheet)
	if err != nil {
		return nil, err
	}
	keys, err := delta.HeaderKeys(g, region)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s!%s: %w", filepath.Base(filePath), sheet, err)
	}

	if outputFile != "" {
		if err := WriteKeysToFile(outputFile, keys); err != nil {
			return nil, err
		}
	}

	logger.Info("Scanned header keys", "file", filePath, "sheet", sheet, "key_count", len(keys), "output_file", outputFile)
	return keys, nil
}

// WriteKeysToFile writes keys to a plain text file, one per line, with empty
// keys written as EmptyKeyMarker.
func WriteKeysToFile(filename string, keys []string) error {
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %v", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %v", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, key := range keys {
		if key == "" {
			key = EmptyKeyMarker
		}
		if _, err := writer.WriteString(key + "\n"); err != nil {
			return fmt.Errorf("failed to write key: %v", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write keys: %v", err)
	}
	return nil
}
