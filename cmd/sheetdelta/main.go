package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sheetDelta/internal/config"
	"sheetDelta/internal/delta"
	"sheetDelta/internal/excel"
	"sheetDelta/internal/grid"
	"sheetDelta/internal/heart"
	"sheetDelta/internal/logger"
	"sheetDelta/internal/mapping"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	command := os.Args[1]

	cfg, err := config.LoadConfig("configs/config.toml")
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init("logs", "sheetdelta", cfg.Level()); err != nil {
		fmt.Printf("Warning: logging to stderr only: %v\n", err)
	}

	args := os.Args[2:]
	switch command {
	case "delta":
		runDelta(cfg, args)
	case "keys":
		runKeys(cfg, args)
	case "align":
		runAlign(cfg, args)
	case "merge":
		runMerge(cfg)
	case "xlsm":
		runXLSM(cfg)
	case "heart":
		runHeart(cfg)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
	}
}

func printUsage() {
	fmt.Println("SheetDelta - Spreadsheet Snapshot Delta Tool")
	fmt.Println("\nUsage:")
	fmt.Println("  sheetdelta delta [current] [previous]  - Write the delta workbook of two snapshots")
	fmt.Println("  sheetdelta keys [file] [sheet]         - List the header keys of a snapshot sheet")
	fmt.Println("  sheetdelta align [--ai] [cur] [prev]   - Pair renamed headers interactively")
	fmt.Println("                                           (cur/prev: key files written by 'keys')")
	fmt.Println("  sheetdelta merge                       - Merge all workbooks of the input directory")
	fmt.Println("  sheetdelta xlsm                        - Save a workbook through the macro template")
	fmt.Println("  sheetdelta heart                       - Draw the heart workbook")
}

func fail(msg string, err error) {
	logger.Error(msg, "error", err)
	fmt.Printf("Error: %s: %v\n", strings.ToLower(msg[:1])+msg[1:], err)
	os.Exit(1)
}

func deltaJob(cfg *config.Config, args []string) excel.DeltaJob {
	job := excel.DeltaJob{
		CurrentFile:   cfg.Delta.CurrentFile,
		CurrentSheet:  cfg.Delta.CurrentSheet,
		PreviousFile:  cfg.Delta.PreviousFile,
		PreviousSheet: cfg.Delta.PreviousSheet,
		OutputFile:    cfg.Delta.OutputFile,
		DeltaSheet:    cfg.Delta.DeltaSheet,
		StartCell:     cfg.Delta.StartCell,
		HeaderRows:    cfg.Delta.HeaderRows,
	}
	if len(args) > 0 {
		job.CurrentFile = args[0]
	}
	if len(args) > 1 {
		job.PreviousFile = args[1]
	}
	return job
}

func runDelta(cfg *config.Config, args []string) {
	job := deltaJob(cfg, args)

	aliases, err := mapping.LoadAliases(cfg.Delta.AliasFile)
	if err != nil {
		fail("Failed to load header aliases", err)
	}
	job.Aliases = aliases

	fmt.Printf("Comparing %s against %s...\n", job.CurrentFile, job.PreviousFile)
	report, err := excel.RunDelta(job)
	if err != nil {
		fail("Delta check failed", err)
	}

	fmt.Println(okStyle.Render(fmt.Sprintf("✓ Delta workbook saved to %s", job.OutputFile)))
	fmt.Printf("  Matched columns: %d (%d aliased)\n", len(report.Matched), len(aliases))
	fmt.Printf("  Expressions:     %d\n", report.Expressions)
	if report.Truncated > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("  %d rows have no previous counterpart and were copied as-is", report.Truncated)))
	}
	if len(report.Unmatched) > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("  Unmatched current keys: %s", strings.Join(report.Unmatched, ", "))))
		fmt.Println(dimStyle.Render("  Run 'sheetdelta align' to pair renamed headers."))
	}
}

func runKeys(cfg *config.Config, args []string) {
	file, sheet := cfg.Delta.CurrentFile, cfg.Delta.CurrentSheet
	if len(args) > 0 {
		file = args[0]
	}
	if len(args) > 1 {
		sheet = args[1]
	}

	region, err := delta.RegionAt(cfg.Delta.StartCell, cfg.Delta.HeaderRows)
	if err != nil {
		fail("Invalid start cell", err)
	}

	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	output := filepath.Join(cfg.Output.Directory, stem+"_keys.txt")
	keys, err := excel.ScanHeaderKeys(file, sheet, region, output)
	if err != nil {
		fail("Key scan failed", err)
	}

	fmt.Println(okStyle.Render(fmt.Sprintf("✓ Found %d header keys in %s!%s", len(keys), filepath.Base(file), sheet)))
	fmt.Printf("✓ Results saved to '%s'\n", output)
}

func runAlign(cfg *config.Config, args []string) {
	useAI := false
	var keyFiles []string
	for _, arg := range args {
		if arg == "--ai" {
			useAI = true
			continue
		}
		keyFiles = append(keyFiles, arg)
	}

	var unmatched, unused []string
	switch len(keyFiles) {
	case 0:
		unmatched, unused = snapshotKeys(cfg)
	case 2:
		current, err := mapping.ReadKeysFromFile(keyFiles[0])
		if err != nil {
			fail("Failed to read current keys", err)
		}
		previous, err := mapping.ReadKeysFromFile(keyFiles[1])
		if err != nil {
			fail("Failed to read previous keys", err)
		}
		unmatched, unused = mapping.UnpairedKeys(current, previous)
		fmt.Printf("Using key files:\n")
		fmt.Printf("   Current:  %s\n", keyFiles[0])
		fmt.Printf("   Previous: %s\n", keyFiles[1])
	default:
		fail("Invalid arguments", fmt.Errorf("align takes no key files or two (current, previous), got %d", len(keyFiles)))
	}

	if len(unmatched) == 0 {
		fmt.Println(okStyle.Render("✓ Every header key matches, nothing to align"))
		return
	}

	fmt.Printf("   Unmatched current keys: %d\n", len(unmatched))
	fmt.Printf("   Unused previous keys:   %d\n", len(unused))
	fmt.Printf("   Aliases:  %s\n", cfg.Delta.AliasFile)
	fmt.Printf("Grid: %dx%d (cols x rows)\n\n", cfg.UI.ColumnsPerRow, cfg.UI.RowsPerPage)

	if useAI {
		suggestAliases(cfg, unmatched, unused)
	}

	saved, err := mapping.RunAliasTUI(unmatched, unused, cfg.Delta.AliasFile, mapping.UIConfig{
		ColumnsPerRow: cfg.UI.ColumnsPerRow,
		RowsPerPage:   cfg.UI.RowsPerPage,
	})
	if err != nil {
		fail("Alias tool failed", err)
	}
	if saved {
		fmt.Println(okStyle.Render(fmt.Sprintf("✓ Header aliases saved to %s", cfg.Delta.AliasFile)))
	} else {
		fmt.Println(dimStyle.Render("Header aliases left unchanged"))
	}
}

// snapshotKeys compares the configured snapshots without aliases and returns
// the keys left unpaired.
func snapshotKeys(cfg *config.Config) ([]string, []string) {
	job := deltaJob(cfg, nil)
	region, err := delta.RegionAt(job.StartCell, job.HeaderRows)
	if err != nil {
		fail("Invalid start cell", err)
	}
	current, previous, err := excel.LoadSnapshots(job)
	if err != nil {
		fail("Failed to load snapshots", err)
	}
	_, report, err := delta.Compute(current, previous, delta.Options{Region: region})
	if err != nil {
		fail("Delta check failed", err)
	}

	fmt.Printf("Using files:\n")
	fmt.Printf("   Current:  %s\n", job.CurrentFile)
	fmt.Printf("   Previous: %s\n", job.PreviousFile)
	return report.Unmatched, report.Unused
}

// suggestAliases stores AI suggestions in the alias file so the TUI shows
// them for review. Failures only cost the suggestions.
func suggestAliases(cfg *config.Config, unmatched, unused []string) {
	if len(unused) == 0 {
		return
	}

	ctx := context.Background()
	ai, err := mapping.NewAIMapper(ctx, mapping.GetGeminiAPIKey(), cfg.AI.Model)
	if err != nil {
		logger.Warn("AI suggestions unavailable", "error", err)
		fmt.Println(warnStyle.Render(fmt.Sprintf("AI suggestions unavailable: %v", err)))
		return
	}
	defer ai.Close()
	ai.DebugDir = cfg.AI.DebugDirectory

	fmt.Println("Asking Gemini for alias suggestions...")
	suggestions, err := ai.SuggestAliases(ctx, unmatched, unused)
	if err != nil {
		logger.Warn("AI suggestion request failed", "error", err)
		fmt.Println(warnStyle.Render(fmt.Sprintf("AI suggestion request failed: %v", err)))
		return
	}

	aliases, err := mapping.LoadFromFile(cfg.Delta.AliasFile)
	if err != nil {
		aliases = &mapping.AliasConfig{}
	}
	added := aliases.AddSuggestions(suggestions)
	if added == 0 {
		fmt.Println(dimStyle.Render("No confident suggestions"))
		return
	}
	if err := aliases.SaveToFile(cfg.Delta.AliasFile); err != nil {
		fail("Failed to save AI suggestions", err)
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("✓ Added %d AI suggestions for review", added)))
}

func runMerge(cfg *config.Config) {
	logger.Info("Starting merge operation", "input_directory", cfg.Merge.InputDirectory)

	files, err := excel.ListXlsxFiles(cfg.Merge.InputDirectory)
	if err != nil {
		fail("Failed to list Excel files", err)
	}
	if len(files) == 0 {
		fmt.Printf("No .xlsx files found in directory: %s\n", cfg.Merge.InputDirectory)
		return
	}

	fmt.Printf("Merging %d workbooks...\n", len(files))
	if err := excel.MergeFiles(files, cfg.Merge.OutputFile); err != nil {
		fail("Merge failed", err)
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("✓ Merged workbook saved to %s", cfg.Merge.OutputFile)))
}

func runXLSM(cfg *config.Config) {
	src, err := excel.OpenFile(cfg.Macro.SourceFile)
	if err != nil {
		fail("Failed to open source workbook", err)
	}
	defer src.Close()

	if err := excel.SaveAsXLSM(src, cfg.Macro.TemplateFile, cfg.Macro.OutputFile); err != nil {
		fail("Macro save failed", err)
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("✓ Macro workbook saved to %s", cfg.Macro.OutputFile)))
}

func runHeart(cfg *config.Config) {
	g := grid.New(cfg.Heart.SheetName)
	if err := heart.Draw(g, cfg.HeartParams()); err != nil {
		fail("Heart drawing failed", err)
	}

	output := filepath.Join(cfg.Output.Directory, cfg.Output.ResultFile)
	if err := excel.SaveGrids(output, g); err != nil {
		fail("Failed to save heart workbook", err)
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("✓ Heart saved to %s", output)))
}
