package elasticbox

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	eberrors "github.com/gsanchezu/elasticbox-plugin/internal/errors"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/", "secret-token")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, srv
}

func TestNewClient_InvalidEndpoint(t *testing.T) {
	tests := []string{
		"",
		"eb.example.com",
		"ftp://eb.example.com",
		"https://",
	}
	for _, endpoint := range tests {
		if _, err := NewClient(endpoint, "t"); err == nil {
			t.Errorf("NewClient(%q) should fail", endpoint)
		}
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	c, err := NewClient("https://eb.example.com/", "t", WithTimeout(5*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if c.EndpointURL() != "https://eb.example.com" {
		t.Errorf("EndpointURL() = %q", c.EndpointURL())
	}
	if c.httpClient.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", c.httpClient.Timeout)
	}
}

func TestClient_SendsHeaders(t *testing.T) {
	var gotToken, gotRelease string
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(TokenHeader)
		gotRelease = r.Header.Get(ReleaseHeader)
		w.Write([]byte(`[]`))
	})

	if _, err := c.GetWorkspaces(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotToken != "secret-token" {
		t.Errorf("token header = %q", gotToken)
	}
	if gotRelease != Release {
		t.Errorf("release header = %q", gotRelease)
	}
}

func TestClient_Paths(t *testing.T) {
	var gotPath, gotQuery string
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		if r.URL.Path == "/services/instances/i-1" {
			w.Write([]byte(`{"id":"i-1"}`))
			return
		}
		w.Write([]byte(`[]`))
	})
	ctx := context.Background()

	tests := []struct {
		name      string
		call      func() error
		wantPath  string
		wantQuery string
	}{
		{"workspaces", func() error { _, err := c.GetWorkspaces(ctx); return err }, "/services/workspaces", ""},
		{"boxes", func() error { _, err := c.GetBoxes(ctx, "ws1"); return err }, "/services/workspaces/ws1/boxes", ""},
		{"versions", func() error { _, err := c.GetBoxVersions(ctx, "b1"); return err }, "/services/boxes/b1/versions", ""},
		{"profiles", func() error { _, err := c.GetProfiles(ctx, "ws1", "b1"); return err }, "/services/workspaces/ws1/profiles", "box_version=b1"},
		{"stack", func() error { _, err := c.GetBoxStack(ctx, "b1"); return err }, "/services/boxes/b1/stack", ""},
		{"instance", func() error { _, err := c.GetInstance(ctx, "i-1"); return err }, "/services/instances/i-1", ""},
		{"instances", func() error { _, err := c.GetInstances(ctx, "ws1"); return err }, "/services/workspaces/ws1/instances", ""},
		{"instances by id", func() error { _, err := c.GetInstances(ctx, "ws1", "i-1", "i-2"); return err }, "/services/instances", "ids=i-1%2Ci-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); err != nil {
				t.Fatalf("call failed: %v", err)
			}
			if gotPath != tt.wantPath {
				t.Errorf("path = %q, want %q", gotPath, tt.wantPath)
			}
			if gotQuery != tt.wantQuery {
				t.Errorf("query = %q, want %q", gotQuery, tt.wantQuery)
			}
		})
	}
}

func TestClient_DecodesInstance(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "i-1",
			"name":        "web",
			"environment": "prod",
			"operation":   map[string]any{"event": "terminate"},
			"service":     map[string]any{"id": "svc-1"},
			"boxes": []any{
				map[string]any{"id": "b1", "name": "root", "variables": []any{
					map[string]any{"name": "child", "type": "Box", "value": "b2"},
				}},
			},
		})
	})

	instance, err := c.GetInstance(context.Background(), "i-1")
	if err != nil {
		t.Fatal(err)
	}
	if instance.Operation != "terminate" {
		t.Errorf("Operation = %q, want terminate", instance.Operation)
	}
	if !instance.Terminated() {
		t.Error("instance should be terminated")
	}
	if instance.Service.ID != "svc-1" {
		t.Errorf("Service.ID = %q", instance.Service.ID)
	}
	if got := instance.Boxes[0].Variables[0].Kind(); got != KindBox {
		t.Errorf("Kind() = %v, want box", got)
	}
}

func TestClient_APIError(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	})

	_, err := c.GetWorkspaces(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !eberrors.IsTransport(err) {
		t.Errorf("expected transport error, got %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError in chain, got %T", err)
	}
	if !apiErr.Unauthorized() {
		t.Error("401 should be unauthorized")
	}
	if apiErr.Body != "bad token" {
		t.Errorf("Body = %q", apiErr.Body)
	}
}

func TestClient_DecodeError(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	if _, err := c.GetBoxes(context.Background(), "ws"); !eberrors.IsTransport(err) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	c, err := NewClient(endpoint, "t")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetWorkspaces(context.Background()); !eberrors.IsTransport(err) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestVariable_Kind(t *testing.T) {
	tests := []struct {
		name string
		v    Variable
		want VariableKind
	}{
		{"scalar", Variable{Name: "x", Type: "Text", Value: "1"}, KindScalar},
		{"box", Variable{Name: "db", Type: "Box", Value: "b2"}, KindBox},
		{"override", Variable{Name: "x", Type: "Text", Scope: "db"}, KindOverride},
		{"scoped box is override", Variable{Name: "db", Type: "Box", Scope: "app"}, KindOverride},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOperation_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want Operation
	}{
		{`"deploy"`, "deploy"},
		{`{"event":"terminate_service","workspace":"w"}`, "terminate_service"},
		{`null`, ""},
	}
	for _, tt := range tests {
		var op Operation
		if err := json.Unmarshal([]byte(tt.in), &op); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.in, err)
		}
		if op != tt.want {
			t.Errorf("Unmarshal(%s) = %q, want %q", tt.in, op, tt.want)
		}
	}
}

func TestMockClient_ErrorInjection(t *testing.T) {
	m := NewMockClient("https://eb")
	m.SetError("GetBoxes", errors.New("boom"))

	if _, err := m.GetBoxes(context.Background(), "ws"); !eberrors.IsTransport(err) {
		t.Errorf("expected transport error, got %v", err)
	}
	if calls := m.GetCallsFor("GetBoxes"); len(calls) != 1 || calls[0].Args[0] != "ws" {
		t.Errorf("unexpected calls: %+v", calls)
	}
}
