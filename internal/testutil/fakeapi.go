package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gsanchezu/elasticbox-plugin/internal/elasticbox"
)

// FakeToken is the token a FakeAPI accepts unless changed.
const FakeToken = "test-token"

// FakeAPI is an httptest server speaking the subset of the ElasticBox REST
// API used by ebctl, backed by the api.json fixture.
type FakeAPI struct {
	Server *httptest.Server
	Token  string

	mu                 sync.Mutex
	data               *APIData
	instances          map[string]elasticbox.Instance
	workspaceInstances map[string][]string
	failures           map[string]int
	requests           []string
}

// NewFakeAPI starts a fake API serving the default fixture. The server is
// closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	data, err := DefaultAPIData()
	if err != nil {
		t.Fatalf("Failed to load API fixture: %v", err)
	}

	f := &FakeAPI{
		Token:              FakeToken,
		data:               data,
		instances:          make(map[string]elasticbox.Instance),
		workspaceInstances: make(map[string][]string),
		failures:           make(map[string]int),
	}
	for _, wi := range data.Instances {
		f.instances[wi.Instance.ID] = wi.Instance
		f.workspaceInstances[wi.Workspace] = append(f.workspaceInstances[wi.Workspace], wi.Instance.ID)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /services/workspaces", f.handleWorkspaces)
	mux.HandleFunc("GET /services/workspaces/{workspace}/boxes", f.handleBoxes)
	mux.HandleFunc("GET /services/workspaces/{workspace}/profiles", f.handleProfiles)
	mux.HandleFunc("GET /services/workspaces/{workspace}/instances", f.handleWorkspaceInstances)
	mux.HandleFunc("GET /services/boxes/{box}/versions", f.handleVersions)
	mux.HandleFunc("GET /services/boxes/{box}/stack", f.handleStack)
	mux.HandleFunc("GET /services/instances", f.handleInstances)
	mux.HandleFunc("GET /services/instances/{instance}", f.handleInstance)

	f.Server = httptest.NewServer(f.middleware(mux))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL of the server.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// Requests returns the paths requested so far, including the query string.
func (f *FakeAPI) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// Fail makes requests to path answer with status.
func (f *FakeAPI) Fail(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[path] = status
}

// SetInstanceState changes the state of a fixture instance.
func (f *FakeAPI) SetInstanceState(id, state string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if instance, ok := f.instances[id]; ok {
		instance.State = state
		f.instances[id] = instance
	}
}

// AddInstance registers an instance in a workspace.
func (f *FakeAPI) AddInstance(workspace string, instance elasticbox.Instance) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.instances[instance.ID]; !ok {
		f.workspaceInstances[workspace] = append(f.workspaceInstances[workspace], instance.ID)
	}
	f.instances[instance.ID] = instance
}

func (f *FakeAPI) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.URL.RequestURI())
		status := f.failures[r.URL.Path]
		token := f.Token
		f.mu.Unlock()

		if r.Header.Get(elasticbox.TokenHeader) != token {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) handleWorkspaces(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, list(f.data.Workspaces))
}

func (f *FakeAPI) handleBoxes(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, list(f.data.Boxes[r.PathValue("workspace")]))
}

func (f *FakeAPI) handleProfiles(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("workspace") + "/" + r.URL.Query().Get("box_version")
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, list(f.data.Profiles[key]))
}

func (f *FakeAPI) handleVersions(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, list(f.data.Versions[r.PathValue("box")]))
}

func (f *FakeAPI) handleStack(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stack, ok := f.data.Stacks[r.PathValue("box")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, stack)
}

func (f *FakeAPI) handleInstance(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	instance, ok := f.instances[r.PathValue("instance")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, instance)
}

func (f *FakeAPI) handleWorkspaceInstances(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	instances := []elasticbox.Instance{}
	for _, id := range f.workspaceInstances[r.PathValue("workspace")] {
		// Listings carry abbreviated boxes without ids.
		instance := f.instances[id]
		boxes := make([]elasticbox.Box, len(instance.Boxes))
		for i, b := range instance.Boxes {
			boxes[i] = elasticbox.Box{Name: b.Name}
		}
		instance.Boxes = boxes
		instances = append(instances, instance)
	}
	writeJSON(w, instances)
}

func (f *FakeAPI) handleInstances(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	instances := []elasticbox.Instance{}
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if instance, ok := f.instances[id]; ok {
			instances = append(instances, instance)
		}
	}
	writeJSON(w, instances)
}

func list[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
