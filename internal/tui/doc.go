// Package tui provides terminal user interface components for ebctl.
//
// This package uses the Bubble Tea framework to create interactive terminal
// interfaces for choosing clouds, workspaces, boxes and versions.
//
// # Option Picker
//
// The picker displays descriptor options in the given order and allows
// selection:
//
//	result, err := tui.RunPicker("Select workspace", options)
//	switch result.Action {
//	case tui.ActionSelect:
//	    // Use result.Option.Value
//	case tui.ActionBack, tui.ActionQuit:
//	    // Exit
//	}
//
// # Wizard
//
// A wizard chains pickers. Each Step loads its options from the choices made
// so far, asynchronously, so a slow API keeps the interface responsive:
//
//	selected, err := tui.RunWizard(ctx, "ElasticBox", []tui.Step{
//	    {Title: "Workspace", Load: loadWorkspaces},
//	    {Title: "Box", Load: loadBoxes},
//	})
//
// Keys: Enter (select), Esc (back), / (filter), q (quit).
//
// # Stack Rendering
//
// RenderStack prints a resolved box stack as an indented tree.
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
