// Package integration provides a test harness for integration tests
// that run against a live ElasticBox cloud.
//
// Integration tests are skipped unless EBCTL_INTEGRATION_ENDPOINT and
// EBCTL_INTEGRATION_TOKEN are set. EBCTL_INTEGRATION_WORKSPACE selects the
// workspace to browse; by default the first visible workspace is used.
// The tests only read from the cloud.
//
// # Test Harness
//
// TestHarness manages test environments:
//
//	func TestMyIntegration(t *testing.T) {
//	    h := integration.NewHarness(t) // Skips if env vars not set
//
//	    if err := h.WaitForCloud(30 * time.Second); err != nil {
//	        t.Fatal(err)
//	    }
//	    boxes := h.RequireBoxes(h.Workspace())
//	    // Resolve stacks, list instances...
//	}
//
// # Harness Features
//
// The harness provides:
//   - Isolated temporary directories for config and audit state
//   - A config.toml and app.App pointing at the live cloud
//   - Cloud readiness waiting (WaitForCloud)
//   - Workspace and box discovery helpers
//
// The workflow tests in this package also run the HTTP server end to end
// against the fake API from testutil, without any live cloud.
//
// # Running Integration Tests
//
//	EBCTL_INTEGRATION_ENDPOINT=https://eb.example.com \
//	EBCTL_INTEGRATION_TOKEN=... go test -v ./internal/integration/...
package integration
