package tui

import (
	"strings"
	"testing"

	"github.com/gsanchezu/elasticbox-plugin/internal/boxstack"
	"github.com/gsanchezu/elasticbox-plugin/internal/elasticbox"
)

func TestRenderStack(t *testing.T) {
	stack := []boxstack.StackBox{
		{ID: "b1", Name: "web", Variables: []elasticbox.Variable{{Name: "PORT", Value: "80"}}},
		{ID: "b2", Name: "mysql", Scope: "db", Variables: []elasticbox.Variable{{Name: "USER", Value: "root", Scope: "db"}}},
	}

	out := RenderStack(stack)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "web") {
		t.Errorf("root header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "PORT") || !strings.Contains(lines[1], "= 80") {
		t.Errorf("root variable = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "  mysql") || !strings.Contains(lines[2], "(db)") {
		t.Errorf("child header = %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "    ") {
		t.Errorf("child variable should be indented: %q", lines[3])
	}
}

func TestRenderStack_Empty(t *testing.T) {
	if out := RenderStack(nil); !strings.Contains(out, "empty stack") {
		t.Errorf("RenderStack(nil) = %q", out)
	}
}
