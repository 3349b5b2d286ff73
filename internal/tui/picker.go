// Package tui provides terminal user interface components for ebctl
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gsanchezu/elasticbox-plugin/internal/descriptor"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionSelect
	ActionBack
	ActionQuit
)

// PickerResult holds the result of the picker
type PickerResult struct {
	Action Action
	Option *descriptor.Option
}

// optionItem implements list.Item for option display
type optionItem struct {
	option descriptor.Option
}

func (i optionItem) Title() string {
	return i.option.Name
}

func (i optionItem) Description() string {
	return truncate(i.option.Value, 60)
}

func (i optionItem) FilterValue() string {
	return i.option.Name
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the option picker
type Model struct {
	list     list.Model
	result   PickerResult
	quitting bool
	width    int
	height   int
}

// NewPicker creates a new option picker. Options are shown in the given order.
func NewPicker(title string, options []descriptor.Option) Model {
	items := make([]list.Item, len(options))
	for i, o := range options {
		items[i] = optionItem{option: o}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(items, delegate, 80, 20)
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return Model{list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	if m.result.Action != ActionNone {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// update handles a message without quitting the program, so the wizard can
// drive the picker as one of its steps.
func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.result = PickerResult{Action: ActionQuit}
			return m, nil
		}

		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(optionItem); ok {
				option := item.option
				m.result = PickerResult{Action: ActionSelect, Option: &option}
				return m, nil
			}

		case "esc", "backspace":
			if m.list.FilterState() == list.FilterApplied {
				break
			}
			m.result = PickerResult{Action: ActionBack}
			return m, nil

		case "q":
			m.result = PickerResult{Action: ActionQuit}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("[enter] Select  [esc] Back  [/] Filter  [q] Quit")
	if len(m.list.Items()) == 0 {
		return titleStyle.Render(m.list.Title) + "\n  Nothing to select.\n" + help
	}

	return m.list.View() + "\n" + help
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive option picker
func RunPicker(title string, options []descriptor.Option) (PickerResult, error) {
	if len(options) == 0 {
		return PickerResult{Action: ActionNone}, nil
	}

	m := NewPicker(title, options)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// SimplePicker is a non-interactive picker that just lists options
func SimplePicker(title string, options []descriptor.Option) string {
	var sb strings.Builder

	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(options) == 0 {
		sb.WriteString("Nothing to select.\n")
		return sb.String()
	}

	for i, o := range options {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, o.Name))
		sb.WriteString(fmt.Sprintf("   %s\n", truncate(o.Value, 60)))
	}

	return sb.String()
}
