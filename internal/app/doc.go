// Package app provides the application context for ebctl.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Paths     *config.Paths     // File system paths
//	    Config    *config.Config    // Cloud configuration
//	    NewClient ClientFactory     // Builds one client per call
//	    Audit     *audit.Logger     // Per-cloud event journal
//	}
//
// App implements descriptor.CloudSource, so form helpers and the HTTP
// server can resolve a cloud name to a fresh client.
//
// # Creating an App
//
//	// Production usage
//	a := app.New()
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithPaths(testPaths),
//	    app.WithConfig(testConfig),
//	    app.WithClientFactory(func(config.Cloud, string) (elasticbox.Client, error) {
//	        return mock, nil
//	    }),
//	)
package app
