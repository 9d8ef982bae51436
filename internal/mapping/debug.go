package mapping

import (
	"fmt"
	"os"
	"path/filepath"
	"sheetDelta/internal/logger"
	"time"
)

// writeDebugReport dumps one suggestion request and its outcome into
// DebugDir. Failures are logged and otherwise ignored.
func (ai *AIMapper) writeDebugReport(unmatched, unused []string, suggestions []AliasSuggestion, reqErr error) {
	if ai.DebugDir == "" {
		return
	}
	if err := os.MkdirAll(ai.DebugDir, 0755); err != nil {
		logger.Warn("Failed to create AI debug directory", "dir", ai.DebugDir, "error", err)
		return
	}

	now := time.Now()
	path := filepath.Join(ai.DebugDir, fmt.Sprintf("ai_aliases_%s.txt", now.Format("2006-01-02_15-04-05.000")))
	file, err := os.Create(path)
	if err != nil {
		logger.Warn("Failed to create AI debug report", "path", path, "error", err)
		return
	}
	defer file.Close()

	fmt.Fprintf(file, "AI Alias Debug - %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(file, "===========================================\n\n")

	fmt.Fprintf(file, "UNMATCHED CURRENT KEYS (%d):\n", len(unmatched))
	for i, k := range unmatched {
		fmt.Fprintf(file, "%d. %s\n", i+1, k)
	}

	fmt.Fprintf(file, "\nUNUSED PREVIOUS KEYS (%d):\n", len(unused))
	for i, k := range unused {
		fmt.Fprintf(file, "%d. %s\n", i+1, k)
	}

	fmt.Fprintf(file, "\nAI RESPONSE:\n")
	if reqErr != nil {
		fmt.Fprintf(file, "ERROR: %v\n", reqErr)
	} else if len(suggestions) == 0 {
		fmt.Fprintf(file, "No suggestions (all were NO_MATCH or low confidence)\n")
	} else {
		for i, s := range suggestions {
			fmt.Fprintf(file, "%d. '%s' -> '%s' (%.2f confidence)\n", i+1, s.CurrentKey, s.PreviousKey, s.Confidence)
		}
	}
	fmt.Fprintf(file, "\n===========================================\n")
}
