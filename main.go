package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sheetDelta/internal/excel"
	"sheetDelta/internal/grid"
	"sheetDelta/internal/heart"
)

func main() {
	outputDir := "output"
	resultFile := filepath.Join(outputDir, "result.xlsx")

	if err := os.RemoveAll(outputDir); err != nil {
		log.Fatal("Error clearing output directory:", err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatal("Error creating output directory:", err)
	}

	g := grid.New("heart")
	if err := heart.Draw(g, heart.DefaultParams()); err != nil {
		log.Fatal("Error drawing heart:", err)
	}
	if err := excel.SaveGrids(resultFile, g); err != nil {
		log.Fatal("Error saving heart:", err)
	}

	fmt.Println("✓ Heart drawn successfully!")
	fmt.Printf("✓ Check '%s' to see the results\n", resultFile)
}
