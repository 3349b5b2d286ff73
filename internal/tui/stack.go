package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gsanchezu/elasticbox-plugin/internal/boxstack"
)

var (
	boxHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	scopeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	variableNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))
)

// RenderStack renders a resolved box stack as an indented tree: one header
// per box, nested by scope depth, followed by its variables.
func RenderStack(stack []boxstack.StackBox) string {
	if len(stack) == 0 {
		return scopeStyle.Render("(empty stack)") + "\n"
	}

	var b strings.Builder
	for _, box := range stack {
		indent := strings.Repeat("  ", boxstack.ScopeDepth(box.Scope))

		header := boxHeaderStyle.Render(box.Name)
		if box.Scope != "" {
			header += " " + scopeStyle.Render("("+box.Scope+")")
		}
		b.WriteString(indent + header + "\n")

		for _, v := range box.Variables {
			b.WriteString(fmt.Sprintf("%s  %s = %s\n", indent, variableNameStyle.Render(v.Name), v.Value))
		}
	}
	return b.String()
}
