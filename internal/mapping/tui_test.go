package mapping

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(model)
		require.True(t, ok)
	}
	return m
}

func TestTUIAliasAndIgnore(t *testing.T) {
	m := newModel([]string{"Revenue", "Notes", "Margin"}, []string{"Sales", "Profit"}, nil, UIConfig{ColumnsPerRow: 2, RowsPerPage: 2})

	m = press(t, m, "enter", "down", "enter")
	assert.Equal(t, map[string]string{"Revenue": "Profit"}, m.aliases)
	assert.Equal(t, 1, m.index(), "cursor moves to the next open key")

	m = press(t, m, "i", "s", "y")
	assert.True(t, m.saved)
	assert.Equal(t, []HeaderAlias{
		{CurrentKey: "Revenue", PreviousKey: "Profit"},
		{CurrentKey: "Notes", IsIgnored: true},
	}, m.config().Aliases)
}

func TestTUIDeclineDoesNotSave(t *testing.T) {
	m := newModel([]string{"Revenue"}, []string{"Sales"}, nil, UIConfig{ColumnsPerRow: 4, RowsPerPage: 5})

	m = press(t, m, "enter", "enter", "s", "n")
	assert.False(t, m.saved)
}

func TestTUIStartsOnFirstOpenKey(t *testing.T) {
	existing := &AliasConfig{Aliases: []HeaderAlias{{CurrentKey: "Revenue", PreviousKey: "Sales"}}}
	m := newModel([]string{"Revenue", "Notes"}, []string{"Sales"}, existing, UIConfig{ColumnsPerRow: 1, RowsPerPage: 1})

	assert.Equal(t, 1, m.index())
	assert.Equal(t, 1, m.page)

	m = press(t, m, "d")
	assert.Equal(t, map[string]string{"Revenue": "Sales"}, m.aliases)
	assert.Contains(t, m.View(), "Header Alias Tool")
}
