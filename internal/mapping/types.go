// Package mapping keeps the header aliases that pair a renamed column of the
// current snapshot with its key in the previous snapshot.
package mapping

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sheetDelta/internal/excel"
	"sort"
	"strings"
)

// HeaderAlias maps a current header key onto a previous one. An ignored
// alias records that the key has no counterpart on purpose.
type HeaderAlias struct {
	CurrentKey  string `json:"current_key"`
	PreviousKey string `json:"previous_key"`
	IsIgnored   bool   `json:"is_ignored"`
}

// AliasConfig holds all header aliases
type AliasConfig struct {
	Aliases []HeaderAlias `json:"aliases"`
}

// SaveToFile saves the alias configuration to a JSON file, ordered by
// current key.
func (ac *AliasConfig) SaveToFile(path string) error {
	sort.SliceStable(ac.Aliases, func(i, j int) bool {
		return ac.Aliases[i].CurrentKey < ac.Aliases[j].CurrentKey
	})

	data, err := json.MarshalIndent(ac, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create alias directory: %v", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// LoadFromFile loads an alias configuration from a JSON file
func LoadFromFile(path string) (*AliasConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config AliasConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse alias file %s: %v", path, err)
	}

	return &config, nil
}

// LoadAliases reads the alias map from path. A missing file yields no
// aliases.
func LoadAliases(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	config, err := LoadFromFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return config.AliasMap(), nil
}

// AliasMap returns the current -> previous key map used by the delta engine.
// Ignored and incomplete entries are left out.
func (ac *AliasConfig) AliasMap() map[string]string {
	out := make(map[string]string, len(ac.Aliases))
	for _, a := range ac.Aliases {
		if a.IsIgnored || a.CurrentKey == "" || a.PreviousKey == "" {
			continue
		}
		out[a.CurrentKey] = a.PreviousKey
	}
	return out
}

// Has reports whether the current key already has an entry.
func (ac *AliasConfig) Has(currentKey string) bool {
	for _, a := range ac.Aliases {
		if a.CurrentKey == currentKey {
			return true
		}
	}
	return false
}

// AddSuggestions appends every suggestion whose current key has no entry
// yet and returns how many were added.
func (ac *AliasConfig) AddSuggestions(suggestions []AliasSuggestion) int {
	added := 0
	for _, s := range suggestions {
		if s.CurrentKey == "" || s.PreviousKey == "" || ac.Has(s.CurrentKey) {
			continue
		}
		ac.Aliases = append(ac.Aliases, HeaderAlias{CurrentKey: s.CurrentKey, PreviousKey: s.PreviousKey})
		added++
	}
	return added
}

// ReadKeysFromFile reads header keys from a text file (one per line), as
// written by the key scan. Blank lines and empty-key markers are skipped.
func ReadKeysFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %v", path, err)
	}
	defer file.Close()

	var keys []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && line != excel.EmptyKeyMarker {
			keys = append(keys, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file %s: %v", path, err)
	}

	return keys, nil
}

// UnpairedKeys returns the current keys absent from previous and the
// previous keys absent from current, each in input order.
func UnpairedKeys(current, previous []string) (unmatched, unused []string) {
	inCurrent := toSet(current)
	inPrevious := toSet(previous)
	for _, k := range current {
		if !inPrevious[k] {
			unmatched = append(unmatched, k)
		}
	}
	for _, k := range previous {
		if !inCurrent[k] {
			unused = append(unused, k)
		}
	}
	return unmatched, unused
}
