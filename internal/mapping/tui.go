package mapping

import (
	"fmt"
	"math"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateSelectCurrent state = iota
	stateSelectPrevious
	stateConfirm
)

// UIConfig sets the layout of the current key grid.
type UIConfig struct {
	ColumnsPerRow int
	RowsPerPage   int
}

type styles struct {
	title    lipgloss.Style
	selected lipgloss.Style
	normal   lipgloss.Style
	help     lipgloss.Style
	progress lipgloss.Style
	aliased  lipgloss.Style
	ignored  lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Align(lipgloss.Center),
		selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		progress: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),
		aliased: lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Padding(0, 1),
		ignored: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true).
			Padding(0, 1),
	}
}

// model pairs unmatched current keys (a paged grid) with unused previous
// keys (a paged list).
type model struct {
	currentKeys  []string
	previousKeys []string
	aliases      map[string]string // current -> previous
	ignored      map[string]bool

	state    state
	selected string
	saved    bool

	page         int
	row          int
	col          int
	colsPerRow   int
	rowsPerPage  int
	itemsPerPage int

	prevCursor  int
	prevPage    int
	prevPerPage int

	width  int
	height int

	styles styles
}

func newModel(currentKeys, previousKeys []string, existing *AliasConfig, ui UIConfig) model {
	if ui.ColumnsPerRow < 1 {
		ui.ColumnsPerRow = 1
	}
	if ui.RowsPerPage < 1 {
		ui.RowsPerPage = 1
	}

	m := model{
		currentKeys:  currentKeys,
		previousKeys: previousKeys,
		aliases:      make(map[string]string),
		ignored:      make(map[string]bool),
		state:        stateSelectCurrent,
		colsPerRow:   ui.ColumnsPerRow,
		rowsPerPage:  ui.RowsPerPage,
		itemsPerPage: ui.ColumnsPerRow * ui.RowsPerPage,
		prevPerPage:  15,
		styles:       defaultStyles(),
	}
	if existing != nil {
		for _, a := range existing.Aliases {
			if a.IsIgnored {
				m.ignored[a.CurrentKey] = true
			} else if a.PreviousKey != "" {
				m.aliases[a.CurrentKey] = a.PreviousKey
			}
		}
	}
	if len(currentKeys) > 0 && m.isDone(currentKeys[0]) {
		m.moveToNextOpen()
	}
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prevPerPage = max(m.height-6, 5)
	case tea.KeyMsg:
		switch m.state {
		case stateSelectCurrent:
			return m.updateSelectCurrent(msg)
		case stateSelectPrevious:
			return m.updateSelectPrevious(msg)
		case stateConfirm:
			return m.updateConfirm(msg)
		}
	}
	return m, nil
}

func (m model) updateSelectCurrent(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.row > 0 {
			m.row--
		}

	case "down", "j":
		if m.row < m.maxRowOnPage() {
			m.row++
		}

	case "left", "h":
		if m.col > 0 {
			m.col--
		} else if m.page > 0 {
			m.page--
			m.col = m.colsPerRow - 1
			m.clampPosition()
		}

	case "right", "l":
		if m.col < m.maxColInRow() {
			m.col++
		} else if m.hasNextPage() {
			m.page++
			m.col = 0
			m.row = 0
		}

	case "enter":
		if idx := m.index(); idx < len(m.currentKeys) && len(m.previousKeys) > 0 {
			m.selected = m.currentKeys[idx]
			m.state = stateSelectPrevious
			m.prevCursor = 0
			m.prevPage = 0
		}

	case "i":
		if idx := m.index(); idx < len(m.currentKeys) {
			key := m.currentKeys[idx]
			if m.ignored[key] {
				delete(m.ignored, key)
			} else {
				m.ignored[key] = true
				delete(m.aliases, key)
			}
		}

	case "d":
		if idx := m.index(); idx < len(m.currentKeys) {
			key := m.currentKeys[idx]
			delete(m.aliases, key)
			delete(m.ignored, key)
		}

	case "n":
		m.moveToNextOpen()

	case "s":
		m.state = stateConfirm
	}
	return m, nil
}

func (m model) updateSelectPrevious(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc":
		m.state = stateSelectCurrent
	case "up", "k":
		if m.prevCursor > 0 {
			m.prevCursor--
		} else if m.prevPage > 0 {
			m.prevPage--
			m.prevCursor = m.prevPerPage - 1
		}
	case "down", "j":
		if m.prevCursor < m.maxPrevCursor() {
			m.prevCursor++
		} else if m.hasNextPrevPage() {
			m.prevPage++
			m.prevCursor = 0
		}
	case "left", "h":
		if m.prevPage > 0 {
			m.prevPage--
		}
	case "right", "l":
		if m.hasNextPrevPage() {
			m.prevPage++
			m.prevCursor = min(m.prevCursor, m.maxPrevCursor())
		}
	case "enter":
		idx := m.prevPage*m.prevPerPage + m.prevCursor
		if idx < len(m.previousKeys) {
			m.aliases[m.selected] = m.previousKeys[idx]
			delete(m.ignored, m.selected)
			m.state = stateSelectCurrent
			m.moveToNextOpen()
		}
	}
	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		m.saved = true
		return m, tea.Quit
	case "ctrl+c", "q", "n":
		return m, tea.Quit
	case "esc":
		m.state = stateSelectCurrent
	}
	return m, nil
}

func (m model) index() int {
	return m.page*m.itemsPerPage + m.row*m.colsPerRow + m.col
}

func (m model) maxRowOnPage() int {
	remaining := len(m.currentKeys) - m.page*m.itemsPerPage
	if remaining <= 0 {
		return 0
	}
	rows := int(math.Ceil(float64(remaining) / float64(m.colsPerRow)))
	return min(rows, m.rowsPerPage) - 1
}

func (m model) maxColInRow() int {
	start := m.page*m.itemsPerPage + m.row*m.colsPerRow
	end := min(start+m.colsPerRow, len(m.currentKeys))
	return end - start - 1
}

func (m model) hasNextPage() bool {
	return (m.page+1)*m.itemsPerPage < len(m.currentKeys)
}

func (m model) hasNextPrevPage() bool {
	return (m.prevPage+1)*m.prevPerPage < len(m.previousKeys)
}

func (m model) maxPrevCursor() int {
	onPage := len(m.previousKeys) - m.prevPage*m.prevPerPage
	return min(onPage, m.prevPerPage) - 1
}

func (m *model) moveTo(idx int) {
	m.page = idx / m.itemsPerPage
	rest := idx % m.itemsPerPage
	m.row = rest / m.colsPerRow
	m.col = rest % m.colsPerRow
}

func (m *model) clampPosition() {
	if len(m.currentKeys) > 0 && m.index() >= len(m.currentKeys) {
		m.moveTo(len(m.currentKeys) - 1)
	}
}

func (m model) isDone(key string) bool {
	_, aliased := m.aliases[key]
	return aliased || m.ignored[key]
}

// moveToNextOpen moves the cursor to the next key that is neither aliased
// nor ignored, wrapping around. The cursor stays put when none is left.
func (m *model) moveToNextOpen() {
	n := len(m.currentKeys)
	cur := m.index()
	for step := 1; step <= n; step++ {
		i := (cur + step) % n
		if !m.isDone(m.currentKeys[i]) {
			m.moveTo(i)
			return
		}
	}
}

// config collects the edited aliases, current keys in grid order.
func (m model) config() *AliasConfig {
	ac := &AliasConfig{}
	for _, key := range m.currentKeys {
		if m.ignored[key] {
			ac.Aliases = append(ac.Aliases, HeaderAlias{CurrentKey: key, IsIgnored: true})
		} else if prev, ok := m.aliases[key]; ok {
			ac.Aliases = append(ac.Aliases, HeaderAlias{CurrentKey: key, PreviousKey: prev})
		}
	}
	return ac
}

func (m model) View() string {
	switch m.state {
	case stateSelectCurrent:
		return m.viewSelectCurrent()
	case stateSelectPrevious:
		return m.viewSelectPrevious()
	case stateConfirm:
		return m.viewConfirm()
	}
	return ""
}

func (m model) viewSelectCurrent() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Width(m.width).Render("Header Alias Tool"))
	b.WriteString("\n\n")

	progress := fmt.Sprintf("Progress: %d/%d aliased (%d ignored)",
		len(m.aliases), len(m.currentKeys), len(m.ignored))
	b.WriteString(m.styles.progress.Render(progress))
	b.WriteString("\n\n")

	totalPages := max(int(math.Ceil(float64(len(m.currentKeys))/float64(m.itemsPerPage))), 1)
	b.WriteString(m.styles.help.Render(fmt.Sprintf("Page %d/%d", m.page+1, totalPages)))
	b.WriteString("\n\n")

	cellWidth := max((m.width-4)/m.colsPerRow, 10)
	for row := 0; row < m.rowsPerPage; row++ {
		var items []string
		for col := 0; col < m.colsPerRow; col++ {
			idx := m.page*m.itemsPerPage + row*m.colsPerRow + col
			if idx >= len(m.currentKeys) {
				break
			}

			key := m.currentKeys[idx]
			style := m.styles.normal
			text := key
			if prev, ok := m.aliases[key]; ok {
				text = fmt.Sprintf("%s → %s", key, prev)
				style = m.styles.aliased
			} else if m.ignored[key] {
				text = fmt.Sprintf("%s (ignored)", key)
				style = m.styles.ignored
			}
			if row == m.row && col == m.col {
				style = m.styles.selected
			}

			items = append(items, style.Render(fitCell(text, cellWidth-2)))
		}
		if len(items) > 0 {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, items...))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("↑↓←→: navigate | Enter: pick previous key | i: ignore | d: clear | n: next open | s: save | q: quit"))
	return b.String()
}

// fitCell pads or shortens text to exactly width runes.
func fitCell(text string, width int) string {
	runes := []rune(text)
	if len(runes) > width {
		return string(runes[:width-3]) + "..."
	}
	return text + strings.Repeat(" ", width-len(runes))
}

func (m model) viewSelectPrevious() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render(fmt.Sprintf("Previous key for '%s':", m.selected)))
	b.WriteString("\n\n")

	totalPages := max(int(math.Ceil(float64(len(m.previousKeys))/float64(m.prevPerPage))), 1)
	b.WriteString(m.styles.help.Render(fmt.Sprintf("Page %d/%d", m.prevPage+1, totalPages)))
	b.WriteString("\n\n")

	start := m.prevPage * m.prevPerPage
	end := min(start+m.prevPerPage, len(m.previousKeys))
	for i := start; i < end; i++ {
		if i-start == m.prevCursor {
			b.WriteString(m.styles.selected.Render("> " + m.previousKeys[i]))
		} else {
			b.WriteString(m.styles.normal.Render("  " + m.previousKeys[i]))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("↑↓: navigate | ←→: prev/next page | Enter: select | Esc: back | q: quit"))
	return b.String()
}

func (m model) viewConfirm() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Save Header Aliases?"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Unmatched keys: %d\n", len(m.currentKeys))
	fmt.Fprintf(&b, "Aliased: %d\n", len(m.aliases))
	fmt.Fprintf(&b, "Ignored: %d\n", len(m.ignored))
	fmt.Fprintf(&b, "Open: %d\n", len(m.currentKeys)-len(m.aliases)-len(m.ignored))
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("y/n to confirm, Esc to go back"))
	return b.String()
}

// RunAliasTUI lets the user pair unmatched current keys with unused previous
// keys. Existing entries of aliasFile are shown and kept; the file is
// rewritten only when the user confirms saving. It reports whether it saved.
func RunAliasTUI(currentKeys, previousKeys []string, aliasFile string, ui UIConfig) (bool, error) {
	existing, err := LoadFromFile(aliasFile)
	if err != nil {
		existing = &AliasConfig{}
	}

	keys := append([]string(nil), currentKeys...)
	for _, a := range existing.Aliases {
		if !slices.Contains(keys, a.CurrentKey) {
			keys = append(keys, a.CurrentKey)
		}
	}
	if len(keys) == 0 {
		return false, fmt.Errorf("no unmatched current keys to alias")
	}

	p := tea.NewProgram(newModel(keys, previousKeys, existing, ui), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("error running TUI: %v", err)
	}

	final := finalModel.(model)
	if !final.saved {
		return false, nil
	}
	if err := final.config().SaveToFile(aliasFile); err != nil {
		return false, fmt.Errorf("failed to save header aliases: %v", err)
	}
	return true, nil
}
