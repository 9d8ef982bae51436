package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliasConfigSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "header_aliases.json")
	config := &AliasConfig{Aliases: []HeaderAlias{
		{CurrentKey: "Revenue_Q1", PreviousKey: "Sales_Q1"},
		{CurrentKey: "Notes", IsIgnored: true},
	}}
	require.NoError(t, config.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []HeaderAlias{
		{CurrentKey: "Notes", IsIgnored: true},
		{CurrentKey: "Revenue_Q1", PreviousKey: "Sales_Q1"},
	}, loaded.Aliases)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"current_key": "Revenue_Q1"`)
	assert.Contains(t, string(raw), `"is_ignored": true`)
}

func TestAliasesSkipsIgnoredAndIncomplete(t *testing.T) {
	config := &AliasConfig{Aliases: []HeaderAlias{
		{CurrentKey: "Revenue", PreviousKey: "Sales"},
		{CurrentKey: "Notes", PreviousKey: "Comments", IsIgnored: true},
		{CurrentKey: "Margin"},
	}}
	assert.Equal(t, map[string]string{"Revenue": "Sales"}, config.AliasMap())
}

func TestLoadAliasesMissingFile(t *testing.T) {
	aliases, err := LoadAliases(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, aliases)

	aliases, err = LoadAliases("")
	require.NoError(t, err)
	assert.Empty(t, aliases)
}

func TestLoadAliasesInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := LoadAliases(path)
	assert.Error(t, err)
}

func TestAddSuggestionsKeepsExisting(t *testing.T) {
	config := &AliasConfig{Aliases: []HeaderAlias{{CurrentKey: "Notes", IsIgnored: true}}}

	added := config.AddSuggestions([]AliasSuggestion{
		{CurrentKey: "Notes", PreviousKey: "Comments", Confidence: 0.9},
		{CurrentKey: "Revenue", PreviousKey: "Sales", Confidence: 0.95},
	})
	assert.Equal(t, 1, added)
	assert.Equal(t, map[string]string{"Revenue": "Sales"}, config.AliasMap())
}

func TestReadKeysFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys")
	require.NoError(t, os.WriteFile(path, []byte("<empty>\nSales_Q1\n\n  Cost  \n"), 0644))

	keys, err := ReadKeysFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sales_Q1", "Cost"}, keys)

	_, err = ReadKeysFromFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestUnpairedKeysFromKeyFiles(t *testing.T) {
	dir := t.TempDir()
	currentPath := filepath.Join(dir, "current_keys.txt")
	previousPath := filepath.Join(dir, "previous_keys.txt")
	require.NoError(t, os.WriteFile(currentPath, []byte("<empty>\nRegion_\nRevenue_Q1\nNotes\n"), 0644))
	require.NoError(t, os.WriteFile(previousPath, []byte("<empty>\nSales_Q1\nRegion_\n"), 0644))

	current, err := ReadKeysFromFile(currentPath)
	require.NoError(t, err)
	previous, err := ReadKeysFromFile(previousPath)
	require.NoError(t, err)

	unmatched, unused := UnpairedKeys(current, previous)
	assert.Equal(t, []string{"Revenue_Q1", "Notes"}, unmatched)
	assert.Equal(t, []string{"Sales_Q1"}, unused)

	unmatched, unused = UnpairedKeys(current, current)
	assert.Empty(t, unmatched)
	assert.Empty(t, unused)
}
