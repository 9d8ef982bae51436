package mapping

import (
	"context"
	"fmt"
	"os"
	"sheetDelta/internal/logger"
	"strconv"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	// DefaultModel is the Gemini model asked for alias suggestions.
	DefaultModel = "gemini-2.0-flash"
	// MinConfidence is the lowest confidence a suggestion may carry.
	MinConfidence = 0.8

	noMatch        = "NO_MATCH"
	requestTimeout = 60 * time.Second
	chunkSize      = 50
	chunkDelay     = 2 * time.Second
)

// AliasSuggestion is an AI-proposed alias with its confidence.
type AliasSuggestion struct {
	CurrentKey  string  `json:"current_key"`
	PreviousKey string  `json:"previous_key"`
	Confidence  float64 `json:"confidence"`
}

// AIMapper asks Gemini which previous header key a renamed current key
// most likely corresponds to.
type AIMapper struct {
	client *genai.Client
	model  *genai.GenerativeModel

	// DebugDir, when set, receives a text report of every request.
	DebugDir string
}

// NewAIMapper creates a new AI mapper instance
func NewAIMapper(ctx context.Context, apiKey, modelName string) (*AIMapper, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		logger.Error("Failed to create Gemini client", "error", err)
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.1)

	logger.Info("AI mapper initialized", "model", modelName)
	return &AIMapper{client: client, model: model}, nil
}

// Close cleans up the AI mapper resources
func (ai *AIMapper) Close() error {
	if ai.client != nil {
		return ai.client.Close()
	}
	return nil
}

// SuggestAliases proposes a previous key for each unmatched current key.
// Large requests are split into chunks; a failing chunk is logged and
// skipped.
func (ai *AIMapper) SuggestAliases(ctx context.Context, unmatched, unused []string) ([]AliasSuggestion, error) {
	if len(unmatched) == 0 || len(unused) == 0 {
		return nil, fmt.Errorf("both unmatched and unused keys must be provided")
	}

	logger.Info("Requesting alias suggestions", "unmatched_count", len(unmatched), "unused_count", len(unused))

	if len(unmatched) <= chunkSize {
		suggestions, err := ai.suggestBatch(ctx, unmatched, unused)
		ai.writeDebugReport(unmatched, unused, suggestions, err)
		return suggestions, err
	}

	var all []AliasSuggestion
	for start := 0; start < len(unmatched); start += chunkSize {
		end := min(start+chunkSize, len(unmatched))
		suggestions, err := ai.suggestBatch(ctx, unmatched[start:end], unused)
		ai.writeDebugReport(unmatched[start:end], unused, suggestions, err)
		if err != nil {
			logger.Error("Failed to process chunk", "range", fmt.Sprintf("%d-%d", start+1, end), "error", err)
			continue
		}
		all = append(all, suggestions...)

		if end < len(unmatched) {
			select {
			case <-ctx.Done():
				return all, ctx.Err()
			case <-time.After(chunkDelay):
			}
		}
	}
	return all, nil
}

func (ai *AIMapper) suggestBatch(ctx context.Context, unmatched, unused []string) ([]AliasSuggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	prompt := buildAliasPrompt(unmatched, unused)
	logger.Debug("AI prompt", "length", len(prompt), "content", prompt)

	started := time.Now()
	resp, err := ai.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		logger.Error("Gemini API request failed", "error", err, "duration", time.Since(started))
		return nil, fmt.Errorf("failed to generate AI response: %v", err)
	}
	logger.Info("Received response from Gemini API", "duration", time.Since(started))

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	logger.Debug("AI response", "content", text)

	return parseSuggestions(text, unmatched, unused), nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response generated from AI")
	}

	var b strings.Builder
	for i, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		} else {
			logger.Warn("Non-text part in response", "index", i, "type", fmt.Sprintf("%T", part))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no response generated from AI")
	}
	return b.String(), nil
}

// buildAliasPrompt creates the prompt listing both key sets.
func buildAliasPrompt(unmatched, unused []string) string {
	var b strings.Builder
	b.WriteString(`You are comparing two snapshots of the same spreadsheet table. Some column headers were renamed between the snapshots.
Header rows are joined with "_" into one key per column.

TASK: For each CURRENT key, pick the PREVIOUS key that names the same column, or answer "NO_MATCH" if uncertain.

CURRENT KEYS (no match in the previous snapshot):
`)
	for _, k := range unmatched {
		fmt.Fprintf(&b, "- %s\n", k)
	}
	b.WriteString(`
PREVIOUS KEYS (not used by any current column):
`)
	for _, k := range unused {
		fmt.Fprintf(&b, "- %s\n", k)
	}
	b.WriteString(`
INSTRUCTIONS:
1. Only suggest pairs you are confident about (>80% certainty)
2. Use each previous key at most once
3. Keep period or quarter parts aligned: "Sales_Q1" never pairs with "Revenue_Q2"

OUTPUT FORMAT (one line per current key):
CurrentKey|PreviousKey|Confidence

EXAMPLES:
Revenue_Q1|Sales_Q1|0.92
Notes|NO_MATCH|0.00

Now provide the pairs:`)
	return b.String()
}

// parseSuggestions reads "current|previous|confidence" lines. Lines naming
// keys outside the offered sets, NO_MATCH answers, confidences below
// MinConfidence and repeated previous keys are dropped.
func parseSuggestions(response string, unmatched, unused []string) []AliasSuggestion {
	wantCurrent := toSet(unmatched)
	wantPrevious := toSet(unused)
	taken := make(map[string]bool)
	seen := make(map[string]bool)

	var suggestions []AliasSuggestion
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.Trim(strings.TrimSpace(line), "`")
		if line == "" || strings.HasPrefix(line, "CurrentKey|") {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			logger.Debug("Skipping line", "reason", "invalid format", "content", line)
			continue
		}
		current := strings.TrimSpace(parts[0])
		previous := strings.TrimSpace(parts[1])
		confidence, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			confidence = 0
		}

		switch {
		case previous == noMatch:
			continue
		case confidence < MinConfidence:
			logger.Debug("Skipping low confidence", "current", current, "confidence", confidence)
			continue
		case !wantCurrent[current] || !wantPrevious[previous]:
			logger.Debug("Skipping unknown key", "current", current, "previous", previous)
			continue
		case seen[current] || taken[previous]:
			continue
		}

		seen[current] = true
		taken[previous] = true
		suggestions = append(suggestions, AliasSuggestion{
			CurrentKey:  current,
			PreviousKey: previous,
			Confidence:  confidence,
		})
	}

	logger.Info("Parsed alias suggestions", "count", len(suggestions))
	return suggestions
}

func toSet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// GetGeminiAPIKey gets the API key from environment variable
func GetGeminiAPIKey() string {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY environment variable not set")
	}
	return apiKey
}
