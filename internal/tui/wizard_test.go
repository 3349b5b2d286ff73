package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gsanchezu/elasticbox-plugin/internal/descriptor"
)

// testSteps returns two steps; the second lists the first choice's value so
// tests can check that earlier selections reach Load.
func testSteps(loads *int) []Step {
	return []Step{
		{Title: "Workspace", Load: func(ctx context.Context, selected []descriptor.Option) []descriptor.Option {
			*loads++
			return []descriptor.Option{{Name: "dev", Value: "w1"}, {Name: "ops", Value: "w2"}}
		}},
		{Title: "Box", Load: func(ctx context.Context, selected []descriptor.Option) []descriptor.Option {
			*loads++
			return []descriptor.Option{{Name: "box in " + selected[0].Value, Value: "b1"}}
		}},
	}
}

// run feeds msg to the wizard and resolves any returned load command.
func run(t *testing.T, w WizardModel, msg tea.Msg) (WizardModel, tea.Cmd) {
	t.Helper()
	m, cmd := w.Update(msg)
	w = m.(WizardModel)
	if w.loading && cmd != nil {
		loaded := cmd()
		m, cmd = w.Update(loaded)
		w = m.(WizardModel)
	}
	return w, cmd
}

func initWizard(t *testing.T, loads *int) WizardModel {
	t.Helper()
	w := NewWizard(context.Background(), "ElasticBox", testSteps(loads))
	cmd := w.Init()
	if cmd == nil {
		t.Fatal("Init() should return a load command")
	}
	m, _ := w.Update(cmd())
	return m.(WizardModel)
}

func TestWizard_CompletesSteps(t *testing.T) {
	var loads int
	w := initWizard(t, &loads)

	if w.loading {
		t.Fatal("first step should be loaded")
	}

	w, _ = run(t, w, tea.KeyMsg{Type: tea.KeyEnter})
	if w.current != 1 {
		t.Fatalf("current = %d, want 1", w.current)
	}
	if !strings.Contains(w.View(), "box in w1") {
		t.Errorf("second step should list options for w1:\n%s", w.View())
	}

	w, cmd := run(t, w, tea.KeyMsg{Type: tea.KeyEnter})
	if !w.done {
		t.Error("wizard should be done after the last step")
	}
	if cmd == nil {
		t.Error("finishing should return tea.Quit")
	}

	selected := w.Selected()
	if len(selected) != 2 || selected[0].Value != "w1" || selected[1].Value != "b1" {
		t.Errorf("Selected() = %+v", selected)
	}
	if loads != 2 {
		t.Errorf("loads = %d, want 2", loads)
	}
}

func TestWizard_BackReloadsPreviousStep(t *testing.T) {
	var loads int
	w := initWizard(t, &loads)

	w, _ = run(t, w, tea.KeyMsg{Type: tea.KeyEnter})
	w, _ = run(t, w, tea.KeyMsg{Type: tea.KeyEsc})

	if w.current != 0 {
		t.Errorf("current = %d, want 0", w.current)
	}
	if len(w.Selected()) != 0 {
		t.Errorf("Selected() = %+v, want none", w.Selected())
	}
	if loads != 3 {
		t.Errorf("loads = %d, want 3", loads)
	}

	w, _ = run(t, w, tea.KeyMsg{Type: tea.KeyEsc})
	if !w.Cancelled() {
		t.Error("esc on the first step should cancel")
	}
}

func TestWizard_Quit(t *testing.T) {
	var loads int
	w := initWizard(t, &loads)

	w, cmd := run(t, w, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !w.Cancelled() {
		t.Error("q should cancel the wizard")
	}
	if cmd == nil {
		t.Error("quitting should return tea.Quit")
	}
	if w.View() != "" {
		t.Error("cancelled view should be empty")
	}
}

func TestWizard_IgnoresStaleLoads(t *testing.T) {
	var loads int
	w := initWizard(t, &loads)

	m, _ := w.Update(stepLoadedMsg{step: 1, options: []descriptor.Option{{Name: "stale"}}})
	w = m.(WizardModel)
	if strings.Contains(w.View(), "stale") {
		t.Error("options for another step should be ignored")
	}
}

func TestWizard_ViewWhileLoading(t *testing.T) {
	var loads int
	w := NewWizard(context.Background(), "ElasticBox", testSteps(&loads))

	view := w.View()
	if !strings.Contains(view, "Loading...") || !strings.Contains(view, "1. Workspace") {
		t.Errorf("loading view = %q", view)
	}
}
