package testutil

import (
	"path/filepath"
	"testing"

	"github.com/gsanchezu/elasticbox-plugin/internal/app"
	"github.com/gsanchezu/elasticbox-plugin/internal/config"
)

// TestCloud is the name of the cloud a TestEnv configures.
const TestCloud = "test"

// TestEnv holds the test environment
type TestEnv struct {
	T      *testing.T
	TmpDir string
	Paths  *config.Paths
	Config *config.Config
	API    *FakeAPI
	App    *app.App
}

// NewTestEnv creates a test environment with a fake API, a config.toml
// pointing at it, and an app installed as app.Default until the test ends.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()
	api := NewFakeAPI(t)

	env := &TestEnv{
		T:      t,
		TmpDir: tmpDir,
		Paths:  config.NewPaths(filepath.Join(tmpDir, "config"), filepath.Join(tmpDir, "state")),
		Config: &config.Config{
			DefaultCloud: TestCloud,
			Clouds: []config.Cloud{{
				Name:        TestCloud,
				Description: "Test Cloud",
				Endpoint:    api.URL(),
				Token:       api.Token,
				Timeout:     "5s",
			}},
		},
		API: api,
	}

	originalDefault := app.Default
	t.Cleanup(func() {
		app.SetDefault(originalDefault)
	})

	env.install()
	return env
}

// AddCloud adds a cloud to config.toml and reinstalls the app.
func (e *TestEnv) AddCloud(cloud config.Cloud) {
	e.T.Helper()
	e.Config.Clouds = append(e.Config.Clouds, cloud)
	e.install()
}

func (e *TestEnv) install() {
	e.T.Helper()

	if err := config.Save(e.Paths.ConfigFile(), e.Config); err != nil {
		e.T.Fatalf("Failed to write config: %v", err)
	}

	// The app reads config.toml itself so the loader is exercised.
	e.App = app.New(app.WithPaths(e.Paths))
	app.SetDefault(e.App)
}
