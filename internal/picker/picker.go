// Package picker provides the terminal multi-select used to choose which
// packaged targets to remove.
package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Item is one selectable target
type Item struct {
	ID       string // target path
	Label    string // provider that produced the target
	Note     string // drift state, shown dimmed
	Selected bool
}

// Model is the Bubble Tea model for the target picker
type Model struct {
	title    string
	items    []Item
	cursor   int
	selected map[string]bool
	done     bool
	quitting bool
}

// New creates a picker with the given items
func New(title string, items []Item) Model {
	selected := make(map[string]bool)
	for _, item := range items {
		if item.Selected {
			selected[item.ID] = true
		}
	}

	return Model{
		title:    title,
		items:    items,
		selected: selected,
	}
}

// Selected returns the IDs of selected items in list order
func (m Model) Selected() []string {
	var result []string
	for _, item := range m.items {
		if m.selected[item.ID] {
			result = append(result, item.ID)
		}
	}
	return result
}

// IsQuitting returns true if the user quit without confirming
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(km, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(km, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(km, keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(km, keys.Toggle):
		if len(m.items) > 0 {
			id := m.items[m.cursor].ID
			m.selected[id] = !m.selected[id]
		}

	case key.Matches(km, keys.All):
		all := len(m.Selected()) == len(m.items)
		for _, item := range m.items {
			m.selected[item.ID] = !all
		}

	case key.Matches(km, keys.Confirm):
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	noteStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// View implements tea.Model
func (m Model) View() string {
	if m.done || m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		checked := "[ ]"
		if m.selected[item.ID] {
			checked = selectedStyle.Render("[x]")
		}

		line := fmt.Sprintf("%s%s %s", cursor, checked, item.ID)
		if item.Label != "" && item.Label != item.ID {
			line += helpStyle.Render(" (" + item.Label + ")")
		}
		if item.Note != "" {
			line += " " + noteStyle.Render(item.Note)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space: toggle • a: all/none • enter: remove selected • q: quit"))

	return b.String()
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	All     key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
	Toggle:  key.NewBinding(key.WithKeys(" ")),
	All:     key.NewBinding(key.WithKeys("a")),
	Confirm: key.NewBinding(key.WithKeys("enter")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc")),
}

// Run shows the picker and returns the selected IDs, or nil when the user quits
func Run(title string, items []Item, opts ...tea.ProgramOption) ([]string, error) {
	p := tea.NewProgram(New(title, items), opts...)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	fm := finalModel.(Model)
	if fm.IsQuitting() {
		return nil, nil
	}
	return fm.Selected(), nil
}
