package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sheetDelta/internal/heart"
	"sheetDelta/internal/logger"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Output OutputConfig `toml:"output"`
	Delta  DeltaConfig  `toml:"delta"`
	Merge  MergeConfig  `toml:"merge"`
	Macro  MacroConfig  `toml:"macro"`
	Heart  HeartConfig  `toml:"heart"`
	UI     UIConfig     `toml:"ui"`
	AI     AIConfig     `toml:"ai"`
}

type OutputConfig struct {
	Directory  string `toml:"directory"`
	ResultFile string `toml:"result_file"`
	LogLevel   string `toml:"log_level"`
}

type DeltaConfig struct {
	CurrentFile   string `toml:"current_file"`
	CurrentSheet  string `toml:"current_sheet"`
	PreviousFile  string `toml:"previous_file"`
	PreviousSheet string `toml:"previous_sheet"`
	OutputFile    string `toml:"output_file"`
	DeltaSheet    string `toml:"delta_sheet"`
	StartCell     string `toml:"start_cell"`
	HeaderRows    int    `toml:"header_rows"`
	AliasFile     string `toml:"alias_file"`
}

type MergeConfig struct {
	InputDirectory string `toml:"input_directory"`
	OutputFile     string `toml:"output_file"`
}

type MacroConfig struct {
	TemplateFile string `toml:"template_file"`
	SourceFile   string `toml:"source_file"`
	OutputFile   string `toml:"output_file"`
}

type HeartConfig struct {
	SheetName   string  `toml:"sheet_name"`
	WithText    bool    `toml:"with_text"`
	Text        string  `toml:"text"`
	Size        int     `toml:"size"`
	XOffset     int     `toml:"x_offset"`
	YOffset     int     `toml:"y_offset"`
	Intensity   int     `toml:"intensity"`
	FontName    string  `toml:"font_name"`
	FontSize    float64 `toml:"font_size"`
	ColumnWidth float64 `toml:"column_width"`
	RowHeight   float64 `toml:"row_height"`
	ZoomScale   float64 `toml:"zoom_scale"`
}

type UIConfig struct {
	ColumnsPerRow int `toml:"columns_per_row"`
	RowsPerPage   int `toml:"rows_per_page"`
}

type AIConfig struct {
	Model          string `toml:"model"`
	DebugDirectory string `toml:"debug_directory"`
}

// Default returns the configuration written when no config file exists.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Directory:  "output",
			ResultFile: "result.xlsx",
			LogLevel:   "info",
		},
		Delta: DeltaConfig{
			CurrentFile:   "data/current.xlsx",
			CurrentSheet:  "Sheet1",
			PreviousFile:  "data/previous.xlsx",
			PreviousSheet: "Sheet1",
			OutputFile:    "output/delta.xlsx",
			DeltaSheet:    "Delta",
			StartCell:     "B1",
			HeaderRows:    2,
			AliasFile:     "data/header_aliases.json",
		},
		Merge: MergeConfig{
			InputDirectory: "data/input",
			OutputFile:     "output/merged.xlsx",
		},
		Macro: MacroConfig{
			TemplateFile: "configs/empty_macro.xlsm",
			SourceFile:   "output/result.xlsx",
			OutputFile:   "output/result.xlsm",
		},
		Heart: HeartConfig{
			SheetName:   "heart",
			WithText:    true,
			Text:        "Happy Valentine's Day :)",
			Size:        100,
			XOffset:     100,
			YOffset:     25,
			Intensity:   20000,
			FontName:    "Calibri (Body)",
			FontSize:    180,
			ColumnWidth: 7,
			RowHeight:   30,
			ZoomScale:   10,
		},
		UI: UIConfig{
			ColumnsPerRow: 4,
			RowsPerPage:   5,
		},
		AI: AIConfig{
			Model:          "gemini-2.0-flash",
			DebugDirectory: "logs/ai_debug",
		},
	}
}

// LoadConfig loads configuration from the specified config file path
func LoadConfig(configPath string) (*Config, error) {
	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Create configs directory if it doesn't exist
		configDir := filepath.Dir(configPath)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %v", err)
		}

		defaultConfig := Default()
		err = SaveConfig(configPath, defaultConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create default config: %v", err)
		}

		logger.Info("Created default config file", "path", configPath)
		return defaultConfig, nil
	}

	// Load existing config
	var config Config
	_, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %v", configPath, err)
	}

	config.applyDefaults()

	logger.Info("Loaded configuration", "path", configPath)
	return &config, nil
}

// applyDefaults fills every zero field that has a non-zero default.
// Booleans are left as decoded.
func (c *Config) applyDefaults() {
	d := Default()

	setString(&c.Output.Directory, d.Output.Directory)
	setString(&c.Output.ResultFile, d.Output.ResultFile)
	setString(&c.Output.LogLevel, d.Output.LogLevel)

	setString(&c.Delta.CurrentSheet, d.Delta.CurrentSheet)
	setString(&c.Delta.PreviousSheet, d.Delta.PreviousSheet)
	setString(&c.Delta.OutputFile, d.Delta.OutputFile)
	setString(&c.Delta.DeltaSheet, d.Delta.DeltaSheet)
	setString(&c.Delta.StartCell, d.Delta.StartCell)
	if c.Delta.HeaderRows == 0 {
		c.Delta.HeaderRows = d.Delta.HeaderRows
	}

	setString(&c.Merge.InputDirectory, d.Merge.InputDirectory)
	setString(&c.Merge.OutputFile, d.Merge.OutputFile)
	setString(&c.Macro.OutputFile, d.Macro.OutputFile)

	setString(&c.Heart.SheetName, d.Heart.SheetName)
	setString(&c.Heart.FontName, d.Heart.FontName)
	if c.Heart.Size == 0 {
		c.Heart.Size = d.Heart.Size
	}
	if c.Heart.Intensity == 0 {
		c.Heart.Intensity = d.Heart.Intensity
	}
	if c.Heart.FontSize == 0 {
		c.Heart.FontSize = d.Heart.FontSize
	}
	if c.Heart.ColumnWidth == 0 {
		c.Heart.ColumnWidth = d.Heart.ColumnWidth
	}
	if c.Heart.RowHeight == 0 {
		c.Heart.RowHeight = d.Heart.RowHeight
	}

	if c.UI.ColumnsPerRow == 0 {
		c.UI.ColumnsPerRow = d.UI.ColumnsPerRow
	}
	if c.UI.RowsPerPage == 0 {
		c.UI.RowsPerPage = d.UI.RowsPerPage
	}

	setString(&c.AI.Model, d.AI.Model)
}

// Level parses the configured log level, falling back to info.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Output.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// HeartParams converts the [heart] section into drawing parameters.
func (c *Config) HeartParams() heart.Params {
	h := c.Heart
	return heart.Params{
		Size:        h.Size,
		XOffset:     h.XOffset,
		YOffset:     h.YOffset,
		Intensity:   h.Intensity,
		WithText:    h.WithText,
		Text:        h.Text,
		FontName:    h.FontName,
		FontSize:    h.FontSize,
		ColumnWidth: h.ColumnWidth,
		RowHeight:   h.RowHeight,
		ZoomScale:   h.ZoomScale,
	}
}

func setString(field *string, fallback string) {
	if *field == "" {
		*field = fallback
	}
}

// SaveConfig saves configuration to the specified config file path
func SaveConfig(configPath string, config *Config) error {
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %v", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	err = encoder.Encode(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %v", err)
	}

	logger.Info("Saved configuration", "path", configPath)
	return nil
}
