package testutil

import (
	"embed"
	"encoding/json"

	"github.com/BurntSushi/toml"

	"github.com/gsanchezu/elasticbox-plugin/internal/config"
	"github.com/gsanchezu/elasticbox-plugin/internal/elasticbox"
)

//go:embed fixtures/*.json fixtures/*.toml
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// WorkspaceInstance is an instance together with the workspace that owns it.
type WorkspaceInstance struct {
	Workspace string              `json:"workspace"`
	Instance  elasticbox.Instance `json:"instance"`
}

// APIData is the content served by a FakeAPI.
type APIData struct {
	Workspaces []elasticbox.Workspace          `json:"workspaces"`
	Boxes      map[string][]elasticbox.Box     `json:"boxes"`
	Versions   map[string][]elasticbox.Box     `json:"versions"`
	Profiles   map[string][]elasticbox.Profile `json:"profiles"`
	Stacks     map[string][]elasticbox.Box     `json:"stacks"`
	Instances  []WorkspaceInstance             `json:"instances"`
}

// LoadAPIFixture loads API data from a JSON fixture.
func LoadAPIFixture(name string) (*APIData, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	var api APIData
	if err := json.Unmarshal(data, &api); err != nil {
		return nil, err
	}
	return &api, nil
}

// LoadConfigFixture loads a config.toml fixture.
func LoadConfigFixture(name string) (*config.Config, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	var cfg config.Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultAPIData returns the API fixture used by NewFakeAPI.
func DefaultAPIData() (*APIData, error) {
	return LoadAPIFixture("api.json")
}

// ValidConfig returns the valid config fixture.
func ValidConfig() (*config.Config, error) {
	return LoadConfigFixture("valid_config.toml")
}

// InvalidConfig returns the invalid config fixture.
func InvalidConfig() (*config.Config, error) {
	return LoadConfigFixture("invalid_config.toml")
}

// MockClient returns a mock client populated with the API fixture.
func MockClient(endpoint string) (*elasticbox.MockClient, error) {
	api, err := DefaultAPIData()
	if err != nil {
		return nil, err
	}
	m := elasticbox.NewMockClient(endpoint)
	m.Workspaces = api.Workspaces
	for k, v := range api.Boxes {
		m.Boxes[k] = v
	}
	for k, v := range api.Versions {
		m.Versions[k] = v
	}
	for k, v := range api.Profiles {
		m.Profiles[k] = v
	}
	for k, v := range api.Stacks {
		m.Stacks[k] = v
	}
	for _, wi := range api.Instances {
		m.AddInstance(wi.Workspace, wi.Instance)
	}
	return m, nil
}
