package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gsanchezu/elasticbox-plugin/internal/app"
	"github.com/gsanchezu/elasticbox-plugin/internal/config"
	"github.com/gsanchezu/elasticbox-plugin/internal/elasticbox"
	"github.com/gsanchezu/elasticbox-plugin/internal/health"
	"github.com/gsanchezu/elasticbox-plugin/internal/watch"
)

// Environment variables that enable tests against a live cloud.
const (
	EnvEndpoint  = "EBCTL_INTEGRATION_ENDPOINT"
	EnvToken     = "EBCTL_INTEGRATION_TOKEN"
	EnvWorkspace = "EBCTL_INTEGRATION_WORKSPACE"

	// CloudName is the name the harness gives the live cloud.
	CloudName = "integration"
)

// TestHarness provides utilities for integration testing against a live
// ElasticBox cloud.
type TestHarness struct {
	t       *testing.T
	tempDir string
	paths   *config.Paths
	cloud   config.Cloud
	app     *app.App
}

// NewHarness creates a new test harness.
// It will skip the test if EBCTL_INTEGRATION_ENDPOINT is not set.
func NewHarness(t *testing.T) *TestHarness {
	t.Helper()

	endpoint := os.Getenv(EnvEndpoint)
	if endpoint == "" {
		t.Skipf("integration tests disabled (set %s and %s to enable)", EnvEndpoint, EnvToken)
	}
	token := os.Getenv(EnvToken)
	if token == "" {
		t.Skipf("%s is set but %s is empty", EnvEndpoint, EnvToken)
	}

	tempDir := t.TempDir()
	paths := config.NewPaths(filepath.Join(tempDir, "config"), filepath.Join(tempDir, "state"))

	cloud := config.Cloud{
		Name:     CloudName,
		Endpoint: endpoint,
		Token:    token,
		Timeout:  "60s",
	}
	cfg := &config.Config{DefaultCloud: CloudName, Clouds: []config.Cloud{cloud}}
	if err := config.Save(paths.ConfigFile(), cfg); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	return &TestHarness{
		t:       t,
		tempDir: tempDir,
		paths:   paths,
		cloud:   cloud,
		app:     app.New(app.WithPaths(paths)),
	}
}

// Paths returns the test paths.
func (h *TestHarness) Paths() *config.Paths {
	return h.paths
}

// Cloud returns the configured live cloud.
func (h *TestHarness) Cloud() config.Cloud {
	return h.cloud
}

// App returns an app configured for the live cloud.
func (h *TestHarness) App() *app.App {
	return h.app
}

// Client returns a client for the live cloud.
func (h *TestHarness) Client() elasticbox.Client {
	h.t.Helper()

	c, err := h.app.Client(context.Background(), CloudName)
	if err != nil {
		h.t.Fatalf("Failed to create client: %v", err)
	}
	return c
}

// Workspace returns the workspace to test with: EBCTL_INTEGRATION_WORKSPACE,
// or the first workspace the token can see.
func (h *TestHarness) Workspace() string {
	h.t.Helper()

	if ws := os.Getenv(EnvWorkspace); ws != "" {
		return ws
	}
	workspaces, err := h.Client().GetWorkspaces(context.Background())
	if err != nil {
		h.t.Fatalf("Failed to list workspaces: %v", err)
	}
	if len(workspaces) == 0 {
		h.t.Skip("token sees no workspaces")
	}
	return workspaces[0].ID
}

// WaitForCloud waits until the cloud answers with the configured token.
func (h *TestHarness) WaitForCloud(timeout time.Duration) error {
	c := h.Client()
	var last health.Result

	ok, err := watch.WaitUntil(context.Background(), func(ctx context.Context) (bool, error) {
		last = health.CheckCloud(ctx, c)
		return last.Status == health.StatusReachable, nil
	}, timeout, time.Second)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("cloud not ready after %v: %s (%s)", timeout, last.Status, last.Error())
	}
	return nil
}

// RequireBoxes skips the test if the workspace has no boxes and returns them.
func (h *TestHarness) RequireBoxes(workspace string) []elasticbox.Box {
	h.t.Helper()

	boxes, err := h.Client().GetBoxes(context.Background(), workspace)
	if err != nil {
		h.t.Fatalf("Failed to list boxes of %s: %v", workspace, err)
	}
	if len(boxes) == 0 {
		h.t.Skipf("workspace %s has no boxes", workspace)
	}
	return boxes
}
