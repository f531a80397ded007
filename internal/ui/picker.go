package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// choiceItem implements the list.Item interface for the picker
type choiceItem struct {
	choice Choice
}

func (c choiceItem) FilterValue() string { return c.choice.Label }
func (c choiceItem) Title() string       { return c.choice.Label }
func (c choiceItem) Description() string { return c.choice.Description }

// choiceDelegate renders a label line and an optional description line
type choiceDelegate struct{}

func (d choiceDelegate) Height() int                               { return 2 }
func (d choiceDelegate) Spacing() int                              { return 0 }
func (d choiceDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d choiceDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(choiceItem)
	if !ok {
		return
	}

	title := "  " + item.choice.Label
	if index == m.Index() {
		title = StyleFocused.Render("▶ " + item.choice.Label)
	} else {
		title = StyleUnselected.Render(title)
	}
	desc := StyleTextDim.Render("  " + item.choice.Description)

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

// fuzzyFilter ranks picker entries against the typed filter text
func fuzzyFilter(term string, targets []string) []list.Rank {
	matches := fuzzy.Find(term, targets)
	ranks := make([]list.Rank, len(matches))
	for i, m := range matches {
		ranks[i] = list.Rank{Index: m.Index, MatchedIndexes: m.MatchedIndexes}
	}
	return ranks
}

// pickerModel is a single-choice list run as its own bubbletea program
type pickerModel struct {
	list      list.Model
	chosen    *Choice
	cancelled bool
	width     int
	height    int
}

func newPickerModel(choices []Choice, placeholder string) pickerModel {
	items := make([]list.Item, len(choices))
	for i, c := range choices {
		items[i] = choiceItem{choice: c}
	}

	l := list.New(items, choiceDelegate{}, 60, 14)
	l.Title = placeholder
	l.Styles.Title = StyleTitle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Filter = fuzzyFilter

	keyMap := list.DefaultKeyMap()
	keyMap.ShowFullHelp = key.NewBinding(
		key.WithKeys("ctrl+h"),
		key.WithHelp("Ctrl+h", "toggle help"),
	)
	keyMap.Quit = key.NewBinding(key.WithDisabled())
	keyMap.ForceQuit = key.NewBinding(key.WithDisabled())
	l.KeyMap = keyMap

	return pickerModel{list: l}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(min(msg.Width-6, 80), min(msg.Height-6, 20))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "esc":
			// Esc first clears an active filter, then dismisses the picker
			if m.list.FilterState() == list.Unfiltered {
				m.cancelled = true
				return m, tea.Quit
			}
		case "enter":
			if m.list.FilterState() != list.Filtering {
				if item, ok := m.list.SelectedItem().(choiceItem); ok {
					c := item.choice
					m.chosen = &c
					return m, tea.Quit
				}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	if m.chosen != nil || m.cancelled {
		return ""
	}

	instructions := CreateHelp("↑/↓: move • /: filter • Enter: select • Esc: cancel")
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.list.View(),
		"",
		instructions,
	)
	return StyleModal.Render(content)
}

// result converts the final picker state into an Answer
func (m pickerModel) result() Answer[Choice] {
	if m.chosen == nil {
		return Cancelled[Choice]()
	}
	return Answered(*m.chosen)
}
