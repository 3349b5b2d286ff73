package elasticbox

import (
	"context"
	"sync"

	eberrors "github.com/gsanchezu/elasticbox-plugin/internal/errors"
)

// MockClient is an in-memory Client for testing
type MockClient struct {
	mu sync.RWMutex

	Endpoint string

	Workspaces []Workspace

	// Boxes maps workspace id to its boxes
	Boxes map[string][]Box

	// Versions maps box id to its versions
	Versions map[string][]Box

	// Profiles maps "workspace/box" to profiles
	Profiles map[string][]Profile

	// Stacks maps box id to the box stack returned by GetBoxStack
	Stacks map[string][]Box

	// Instances maps instance id to the instance returned by GetInstance
	// and GetInstances with ids
	Instances map[string]*Instance

	// WorkspaceInstances maps workspace id to the plain instance listing
	WorkspaceInstances map[string][]Instance

	// Errors allows injecting errors for specific operations
	Errors map[string]error

	// CallLog records all method calls for verification
	CallLog []MockCall
}

// MockCall represents a recorded method call
type MockCall struct {
	Method string
	Args   []string
}

// NewMockClient creates a new mock client
func NewMockClient(endpoint string) *MockClient {
	return &MockClient{
		Endpoint:           endpoint,
		Boxes:              make(map[string][]Box),
		Versions:           make(map[string][]Box),
		Profiles:           make(map[string][]Profile),
		Stacks:             make(map[string][]Box),
		Instances:          make(map[string]*Instance),
		WorkspaceInstances: make(map[string][]Instance),
		Errors:             make(map[string]error),
	}
}

// SetError sets an error to be returned for a specific method
func (m *MockClient) SetError(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[method] = err
}

// AddInstance registers an instance both by id and in its workspace listing
func (m *MockClient) AddInstance(workspace string, instance Instance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := instance
	m.Instances[instance.ID] = &stored
	m.WorkspaceInstances[workspace] = append(m.WorkspaceInstances[workspace], instance)
}

// GetCallsFor returns all calls for a specific method
func (m *MockClient) GetCallsFor(method string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var calls []MockCall
	for _, c := range m.CallLog {
		if c.Method == method {
			calls = append(calls, c)
		}
	}
	return calls
}

func (m *MockClient) enter(method string, args ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallLog = append(m.CallLog, MockCall{Method: method, Args: args})
	if err := m.Errors[method]; err != nil {
		return eberrors.TransportError(method, err)
	}
	return nil
}

func (m *MockClient) EndpointURL() string {
	return m.Endpoint
}

func (m *MockClient) GetWorkspaces(ctx context.Context) ([]Workspace, error) {
	if err := m.enter("GetWorkspaces"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Workspace(nil), m.Workspaces...), nil
}

func (m *MockClient) GetBoxes(ctx context.Context, workspace string) ([]Box, error) {
	if err := m.enter("GetBoxes", workspace); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Box(nil), m.Boxes[workspace]...), nil
}

func (m *MockClient) GetBoxVersions(ctx context.Context, box string) ([]Box, error) {
	if err := m.enter("GetBoxVersions", box); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Box(nil), m.Versions[box]...), nil
}

func (m *MockClient) GetProfiles(ctx context.Context, workspace, box string) ([]Profile, error) {
	if err := m.enter("GetProfiles", workspace, box); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Profile(nil), m.Profiles[workspace+"/"+box]...), nil
}

func (m *MockClient) GetBoxStack(ctx context.Context, box string) ([]Box, error) {
	if err := m.enter("GetBoxStack", box); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Box(nil), m.Stacks[box]...), nil
}

func (m *MockClient) GetInstance(ctx context.Context, id string) (*Instance, error) {
	if err := m.enter("GetInstance", id); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	instance, ok := m.Instances[id]
	if !ok {
		return nil, eberrors.TransportError("GetInstance", &APIError{StatusCode: 404, Status: "404 Not Found"})
	}
	cp := *instance
	return &cp, nil
}

func (m *MockClient) GetInstances(ctx context.Context, workspace string, ids ...string) ([]Instance, error) {
	if err := m.enter("GetInstances", append([]string{workspace}, ids...)...); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(ids) == 0 {
		return append([]Instance(nil), m.WorkspaceInstances[workspace]...), nil
	}
	var instances []Instance
	for _, id := range ids {
		if instance, ok := m.Instances[id]; ok {
			instances = append(instances, *instance)
		}
	}
	return instances, nil
}
