package cmd

import (
	"context"

	"github.com/gsanchezu/elasticbox-plugin/internal/app"
	"github.com/gsanchezu/elasticbox-plugin/internal/audit"
	"github.com/gsanchezu/elasticbox-plugin/internal/config"
	"github.com/gsanchezu/elasticbox-plugin/internal/elasticbox"
)

// paths returns the paths of the default app.
func paths() *config.Paths {
	return app.Default.Paths
}

// selectedCloud returns the cloud named by --cloud, or the default cloud.
func selectedCloud() (*config.Cloud, error) {
	return app.Default.Cloud(cloudName)
}

// cloudClient builds a client for the selected cloud. The resolved cloud
// name is returned for audit records.
func cloudClient(ctx context.Context) (elasticbox.Client, string, error) {
	cloud, err := selectedCloud()
	if err != nil {
		return nil, "", err
	}

	c, err := app.Default.Client(ctx, cloud.Name)
	if err != nil {
		return nil, cloud.Name, err
	}
	return c, cloud.Name, nil
}

// record appends an event to the audit journal of a cloud.
func record(eventType audit.EventType, cloud, target, details string) {
	app.Default.Record(eventType, cloud, target, details)
}
