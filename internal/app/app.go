// Package app provides the application context for ebctl.
// It allows dependency injection for testing.
package app

import (
	"context"
	"sync"

	"github.com/gsanchezu/elasticbox-plugin/internal/audit"
	"github.com/gsanchezu/elasticbox-plugin/internal/config"
	"github.com/gsanchezu/elasticbox-plugin/internal/elasticbox"
	"github.com/gsanchezu/elasticbox-plugin/internal/errors"
	"github.com/gsanchezu/elasticbox-plugin/internal/logging"
)

// ClientFactory builds a client for a configured cloud and its token.
type ClientFactory func(cloud config.Cloud, token string) (elasticbox.Client, error)

// App holds the application dependencies
type App struct {
	// Paths holds the configured paths
	Paths *config.Paths

	// Config is the cloud configuration; loaded from Paths on first use
	// when nil
	Config *config.Config

	// NewClient builds API clients; a fresh client is built per call
	NewClient ClientFactory

	// Audit is the per-cloud event journal
	Audit *audit.Logger

	mu sync.Mutex
}

// Option is a function that configures the App
type Option func(*App)

// WithPaths sets custom paths
func WithPaths(paths *config.Paths) Option {
	return func(a *App) {
		a.Paths = paths
	}
}

// WithConfig sets a custom configuration
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithClientFactory sets a custom client factory
func WithClientFactory(f ClientFactory) Option {
	return func(a *App) {
		a.NewClient = f
	}
}

// WithAudit sets a custom audit logger
func WithAudit(l *audit.Logger) Option {
	return func(a *App) {
		a.Audit = l
	}
}

// New creates a new App with the given options.
// The configuration file is not read until it is needed.
func New(opts ...Option) *App {
	app := &App{
		Paths:     config.DefaultPaths(),
		NewClient: HTTPClientFactory,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.Audit == nil {
		app.Audit = audit.NewLogger(app.Paths.AuditDir)
	}

	return app
}

// HTTPClientFactory builds REST clients with the cloud's timeout and a
// logger tagged with the cloud name.
func HTTPClientFactory(cloud config.Cloud, token string) (elasticbox.Client, error) {
	c, err := elasticbox.NewClient(cloud.Endpoint, token,
		elasticbox.WithTimeout(cloud.RequestTimeout()),
		elasticbox.WithLogger(logging.ForCloud(cloud.Name)),
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// LoadConfig returns the configuration, reading config.toml on first use.
func (a *App) LoadConfig() (*config.Config, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.Config != nil {
		return a.Config, nil
	}

	cfg, err := config.Load(a.Paths.ConfigFile())
	if err != nil {
		return nil, errors.ConfigError("failed to load configuration", err)
	}
	a.Config = cfg
	return cfg, nil
}

// Clouds returns the configured clouds. A configuration that cannot be
// loaded gives no clouds.
func (a *App) Clouds() []config.Cloud {
	cfg, err := a.LoadConfig()
	if err != nil {
		logging.Warn("Cannot load configuration", "error", err)
		return nil
	}
	return cfg.Clouds
}

// Cloud returns the named cloud, or the default cloud when name is empty.
func (a *App) Cloud(name string) (*config.Cloud, error) {
	cfg, err := a.LoadConfig()
	if err != nil {
		return nil, err
	}

	cloud, ok := cfg.Find(name)
	if !ok {
		if name == "" {
			return nil, errors.ValidationError("no cloud selected: use --cloud or set default_cloud")
		}
		return nil, errors.CloudNotFound(name)
	}
	return cloud, nil
}

// Client builds a client for the named cloud.
func (a *App) Client(ctx context.Context, name string) (elasticbox.Client, error) {
	cloud, err := a.Cloud(name)
	if err != nil {
		return nil, err
	}

	token, err := cloud.ResolveToken(a.Paths.ConfigDir)
	if err != nil {
		return nil, errors.ConfigError("cannot resolve token", err)
	}

	c, err := a.NewClient(*cloud, token)
	if err != nil {
		return nil, errors.ConfigError("cannot create client for cloud "+cloud.Name, err)
	}
	return c, nil
}

// Record appends an event to the cloud's audit journal. Failures are logged.
func (a *App) Record(eventType audit.EventType, cloud, target, details string) {
	if a.Audit == nil || cloud == "" {
		return
	}
	if err := a.Audit.LogEvent(eventType, cloud, target, details); err != nil {
		logging.Debug("failed to write audit event", logging.KeyCloud, cloud, "error", err)
	}
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
