package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/gsanchezu/elasticbox-plugin/internal/audit"
	"github.com/gsanchezu/elasticbox-plugin/internal/boxstack"
	"github.com/gsanchezu/elasticbox-plugin/internal/config"
	"github.com/gsanchezu/elasticbox-plugin/internal/descriptor"
	"github.com/gsanchezu/elasticbox-plugin/internal/elasticbox"
	"github.com/gsanchezu/elasticbox-plugin/internal/errors"
)

type fakeSource struct {
	clients map[string]elasticbox.Client
}

func (f *fakeSource) Clouds() []config.Cloud {
	return []config.Cloud{{Name: "prod", Description: "Production"}}
}

func (f *fakeSource) Client(ctx context.Context, name string) (elasticbox.Client, error) {
	if c, ok := f.clients[name]; ok {
		return c, nil
	}
	return nil, errors.CloudNotFound(name)
}

type recorded struct {
	Type    audit.EventType
	Cloud   string
	Target  string
	Details string
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []recorded
}

func (f *fakeRecorder) Record(eventType audit.EventType, cloud, target, details string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recorded{eventType, cloud, target, details})
}

func newTestHandler(t *testing.T) (*Handler, *elasticbox.MockClient, *fakeRecorder) {
	t.Helper()
	mock := elasticbox.NewMockClient("https://eb.example.com")
	mock.Workspaces = []elasticbox.Workspace{{ID: "w2", Name: "ops"}, {ID: "w1", Name: "dev"}}
	mock.Boxes["w1"] = []elasticbox.Box{{ID: "b1", Name: "agent"}}
	mock.Stacks["b1"] = []elasticbox.Box{
		{ID: "b1", Name: "agent", Variables: []elasticbox.Variable{{Name: "JENKINS_URL"}, {Name: "SLAVE_NAME"}}},
	}
	mock.AddInstance("w1", elasticbox.Instance{ID: "i1", Name: "web", Environment: "prod",
		Service: elasticbox.Service{ID: "s1"}, Boxes: []elasticbox.Box{{ID: "b1"}}})

	rec := &fakeRecorder{}
	h := New(&Config{
		Clouds: &fakeSource{clients: map[string]elasticbox.Client{"prod": mock}},
		Audit:  rec,
	})
	t.Cleanup(h.Close)
	return h, mock, rec
}

func get(t *testing.T, h http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v (body %q)", path, err, w.Body.String())
		}
	}
	return w
}

func TestHandler_Workspaces(t *testing.T) {
	h, _, _ := newTestHandler(t)

	var got []descriptor.Option
	w := get(t, h, "/api/clouds/prod/workspaces", &got)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	want := []descriptor.Option{{Name: "dev", Value: "w1"}, {Name: "ops", Value: "w2"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("workspaces mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_UnknownCloudDegrades(t *testing.T) {
	h, _, rec := newTestHandler(t)

	w := get(t, h, "/api/clouds/nope/workspaces", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if body := w.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty array", body)
	}

	if len(rec.events) != 2 || rec.events[0].Type != audit.EventError || rec.events[1].Type != audit.EventRequest {
		t.Errorf("audit events = %+v", rec.events)
	}
}

func TestHandler_Routes(t *testing.T) {
	h, _, _ := newTestHandler(t)

	tests := []struct {
		path    string
		wantLen int
	}{
		{"/api/clouds", 1},
		{"/api/clouds/prod/workspaces/w1/boxes", 1},
		{"/api/clouds/prod/workspaces/w1/profiles?box=b1", 0},
		{"/api/clouds/prod/workspaces/w1/instances", 1},
		{"/api/clouds/prod/workspaces/w1/instances?box=b9", 0},
		{"/api/clouds/prod/boxes/b1/versions", 1},
		{"/api/clouds/prod/boxes/b1/stack", 1},
		{"/api/clouds/prod/instances/i1/stack", 1},
		{"/api/clouds/prod/instances/i1/variables", 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var got []json.RawMessage
			w := get(t, h, tt.path, &got)
			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", w.Code)
			}
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d (body %s)", len(got), tt.wantLen, w.Body.String())
			}
		})
	}
}

func TestHandler_Instances(t *testing.T) {
	h, _, _ := newTestHandler(t)

	var got []descriptor.Option
	get(t, h, "/api/clouds/prod/workspaces/w1/instances?box=b1", &got)
	want := []descriptor.Option{{Name: "web - prod - s1", Value: "i1"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("instances mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_BoxStack(t *testing.T) {
	h, _, _ := newTestHandler(t)

	var got []boxstack.StackBox
	get(t, h, "/api/clouds/prod/boxes/b1/stack", &got)
	if len(got) != 1 || got[0].Icon != "https://eb.example.com"+boxstack.DefaultIcon {
		t.Errorf("stack = %+v", got)
	}
}

func TestHandler_Checks(t *testing.T) {
	h, mock, rec := newTestHandler(t)

	var v descriptor.Validation
	get(t, h, "/api/clouds/prod/boxes/b1/check", &v)
	if v.Level != descriptor.LevelOK {
		t.Errorf("box check = %+v, want ok", v)
	}

	get(t, h, "/api/clouds/prod/check", &v)
	if v.Level != descriptor.LevelOK {
		t.Errorf("cloud check = %+v, want ok", v)
	}

	mock.SetError("GetWorkspaces", fmt.Errorf("connection refused"))
	get(t, h, "/api/clouds/prod/check", &v)
	if v.Level != descriptor.LevelError {
		t.Errorf("cloud check = %+v, want error", v)
	}

	get(t, h, "/api/clouds/nope/boxes/b1/check", &v)
	if v.Level != descriptor.LevelError || v.Message != "cloud not found: nope" {
		t.Errorf("unknown cloud box check = %+v", v)
	}

	var checks int
	for _, e := range rec.events {
		if e.Type == audit.EventCheck {
			checks++
		}
	}
	if checks != 4 {
		t.Errorf("recorded %d check events, want 4", checks)
	}
}

func TestHandler_Healthz(t *testing.T) {
	h, _, rec := newTestHandler(t)

	var body struct {
		Status string            `json:"status"`
		Clouds []json.RawMessage `json:"clouds"`
	}
	w := get(t, h, "/healthz", &body)
	if w.Code != http.StatusOK || body.Status != "ok" {
		t.Errorf("healthz = %d %+v", w.Code, body)
	}
	if body.Clouds == nil {
		t.Error("clouds should be an empty array, not null")
	}
	if len(rec.events) != 0 {
		t.Errorf("healthz should not be audited, got %+v", rec.events)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/clouds", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestHandler_RateLimiting(t *testing.T) {
	h := New(&Config{
		Clouds:            &fakeSource{},
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
	})
	defer h.Close()

	var codes []int
	for i := 0; i < 3; i++ {
		w := get(t, h, "/api/clouds", nil)
		codes = append(codes, w.Code)
	}
	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	if diff := cmp.Diff(want, codes); diff != "" {
		t.Errorf("status codes mismatch (-want +got):\n%s", diff)
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := newRateLimiter(1, 10*time.Millisecond)
	defer rl.stop()

	if !rl.allow("a") {
		t.Fatal("first request should be allowed")
	}
	time.Sleep(20 * time.Millisecond)
	rl.cleanup()

	rl.mu.Lock()
	n := len(rl.requests)
	rl.mu.Unlock()
	if n != 0 {
		t.Errorf("requests map has %d entries after cleanup, want 0", n)
	}
	if !rl.allow("a") {
		t.Error("request after window should be allowed")
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	h, _, _ := newTestHandler(t)
	srv := NewServer(h.config)
	ts := httptest.NewServer(srv.server.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/clouds/prod/workspaces")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error: %v", err)
	}
}
