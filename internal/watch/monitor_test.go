package watch

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gsanchezu/elasticbox-plugin/internal/audit"
	"github.com/gsanchezu/elasticbox-plugin/internal/config"
	"github.com/gsanchezu/elasticbox-plugin/internal/elasticbox"
	"github.com/gsanchezu/elasticbox-plugin/internal/health"
)

type fakeSource struct {
	clouds  []config.Cloud
	clients map[string]elasticbox.Client
}

func (f *fakeSource) Clouds() []config.Cloud { return f.clouds }

func (f *fakeSource) Client(ctx context.Context, name string) (elasticbox.Client, error) {
	if c, ok := f.clients[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("no token for %s", name)
}

func TestMonitor_New(t *testing.T) {
	m := NewMonitor(30*time.Second, &fakeSource{})
	if m.interval != 30*time.Second {
		t.Errorf("interval = %v, want %v", m.interval, 30*time.Second)
	}
	if m.auditLog != nil {
		t.Error("auditLog should default to nil")
	}

	m = NewMonitor(time.Second, &fakeSource{}, WithAuditLogger(audit.NewLogger(t.TempDir())))
	if m.auditLog == nil {
		t.Error("auditLog should be set")
	}
}

func TestMonitor_CheckAllEmpty(t *testing.T) {
	m := NewMonitor(time.Second, &fakeSource{})

	results := m.checkAll(context.Background())
	if len(results) != 0 {
		t.Errorf("got %d results, want 0 for no clouds", len(results))
	}
}

func TestMonitor_CheckAll(t *testing.T) {
	broken := elasticbox.NewMockClient("https://lab.example.com")
	broken.SetError("GetWorkspaces", &elasticbox.APIError{StatusCode: 403, Status: "403 Forbidden"})

	src := &fakeSource{
		clouds: []config.Cloud{
			{Name: "prod", Endpoint: "https://eb.example.com"},
			{Name: "lab", Endpoint: "https://lab.example.com"},
			{Name: "notoken", Endpoint: "https://x.example.com"},
		},
		clients: map[string]elasticbox.Client{
			"prod": elasticbox.NewMockClient("https://eb.example.com"),
			"lab":  broken,
		},
	}
	auditLogger := audit.NewLogger(t.TempDir())
	m := NewMonitor(time.Second, src, WithAuditLogger(auditLogger))

	results := m.checkAll(context.Background())
	want := map[string]health.Status{
		"prod":    health.StatusReachable,
		"lab":     health.StatusUnauthorized,
		"notoken": health.StatusUnreachable,
	}
	if len(results) != len(want) {
		t.Fatalf("got %d results, want %d", len(results), len(want))
	}
	for _, r := range results {
		if r.Status != want[r.Cloud] {
			t.Errorf("%s: status = %q, want %q", r.Cloud, r.Status, want[r.Cloud])
		}
	}
	if got := m.Results(); len(got) != 3 {
		t.Errorf("Results() = %d entries, want 3", len(got))
	}

	events, err := auditLogger.Events("lab")
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 1 || events[0].Type != audit.EventCheck || events[0].Details != "unauthorized" {
		t.Errorf("lab events = %+v", events)
	}
}

func TestMonitor_RunCancellation(t *testing.T) {
	m := NewMonitor(100*time.Millisecond, &fakeSource{})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- m.Run(ctx)
	}()

	time.Sleep(250 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not stop after context cancellation")
	}
}
