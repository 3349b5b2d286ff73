package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gsanchezu/elasticbox-plugin/internal/descriptor"
)

// ErrCancelled is returned by RunWizard when the user quits.
var ErrCancelled = errors.New("selection cancelled")

// Step is one selection of a wizard. Load receives the options chosen in the
// previous steps.
type Step struct {
	Title string
	Load  func(ctx context.Context, selected []descriptor.Option) []descriptor.Option
}

// stepLoadedMsg carries the options of a step once loaded.
type stepLoadedMsg struct {
	step    int
	options []descriptor.Option
}

var (
	wizardTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	wizardStepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	wizardActiveStepStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true)

	wizardDoneStepStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42"))

	wizardDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// WizardModel drives a sequence of option pickers. Esc goes back one step.
type WizardModel struct {
	ctx      context.Context
	title    string
	steps    []Step
	current  int
	selected []descriptor.Option
	picker   Model

	loading   bool
	done      bool
	cancelled bool

	width  int
	height int
}

// NewWizard creates a wizard over steps. The first step loads on Init.
func NewWizard(ctx context.Context, title string, steps []Step) WizardModel {
	return WizardModel{
		ctx:     ctx,
		title:   title,
		steps:   steps,
		loading: true,
	}
}

func (w WizardModel) Init() tea.Cmd {
	if len(w.steps) == 0 {
		return tea.Quit
	}
	return w.load(0)
}

func (w WizardModel) load(step int) tea.Cmd {
	ctx, s := w.ctx, w.steps[step]
	selected := append([]descriptor.Option(nil), w.selected...)
	return func() tea.Msg {
		return stepLoadedMsg{step: step, options: s.Load(ctx, selected)}
	}
}

func (w WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepLoadedMsg:
		if msg.step != w.current {
			return w, nil
		}
		w.picker = NewPicker(w.steps[w.current].Title, msg.options)
		if w.width > 0 {
			w.picker.list.SetSize(w.width, w.height-6)
		}
		w.loading = false
		return w, nil

	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		if !w.loading {
			w.picker.list.SetSize(msg.Width, msg.Height-6)
		}
		return w, nil

	case tea.KeyMsg:
		if w.loading {
			if s := msg.String(); s == "ctrl+c" || s == "q" {
				w.cancelled = true
				return w, tea.Quit
			}
			return w, nil
		}
	}

	if w.loading {
		return w, nil
	}

	var cmd tea.Cmd
	w.picker, cmd = w.picker.update(msg)

	switch w.picker.result.Action {
	case ActionSelect:
		w.selected = append(w.selected, *w.picker.result.Option)
		if w.current == len(w.steps)-1 {
			w.done = true
			return w, tea.Quit
		}
		w.current++
		w.loading = true
		return w, w.load(w.current)

	case ActionBack:
		if w.current == 0 {
			w.cancelled = true
			return w, tea.Quit
		}
		w.current--
		w.selected = w.selected[:w.current]
		w.loading = true
		return w, w.load(w.current)

	case ActionQuit:
		w.cancelled = true
		return w, tea.Quit
	}

	return w, cmd
}

func (w WizardModel) View() string {
	if w.done || w.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(wizardTitleStyle.Render(w.title))
	b.WriteString("\n")
	b.WriteString(w.progressBar())
	b.WriteString("\n\n")

	if w.loading {
		b.WriteString(wizardDimStyle.Render("Loading..."))
		return b.String()
	}
	b.WriteString(w.picker.View())
	return b.String()
}

func (w WizardModel) progressBar() string {
	var parts []string
	for i, s := range w.steps {
		label := fmt.Sprintf("%d. %s", i+1, s.Title)
		switch {
		case i < w.current && i < len(w.selected):
			parts = append(parts, wizardDoneStepStyle.Render(label+": "+w.selected[i].Name))
		case i == w.current:
			parts = append(parts, wizardActiveStepStyle.Render(label))
		default:
			parts = append(parts, wizardStepStyle.Render(label))
		}
	}

	return strings.Join(parts, wizardDimStyle.Render(" > "))
}

// Selected returns the options chosen so far, one per completed step.
func (w WizardModel) Selected() []descriptor.Option {
	return append([]descriptor.Option(nil), w.selected...)
}

// Cancelled reports whether the user quit the wizard.
func (w WizardModel) Cancelled() bool {
	return w.cancelled
}

// RunWizard runs the steps interactively and returns one option per step.
func RunWizard(ctx context.Context, title string, steps []Step) ([]descriptor.Option, error) {
	p := tea.NewProgram(NewWizard(ctx, title, steps), tea.WithAltScreen(), tea.WithContext(ctx))

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	w := finalModel.(WizardModel)
	if w.Cancelled() || len(w.Selected()) != len(steps) {
		return nil, ErrCancelled
	}
	return w.Selected(), nil
}
