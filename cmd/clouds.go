package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gsanchezu/elasticbox-plugin/internal/app"
	"github.com/gsanchezu/elasticbox-plugin/internal/audit"
	"github.com/gsanchezu/elasticbox-plugin/internal/health"
)

var cloudsCmd = &cobra.Command{
	Use:   "clouds",
	Short: "List configured clouds",
	Long: `List the clouds configured in config.toml.

With --check every cloud is probed concurrently and its reachability and
latency are shown.`,
	Args: cobra.NoArgs,
	RunE: runClouds,
}

var (
	cloudsCheck       bool
	cloudsConcurrency int
)

func init() {
	cloudsCmd.Flags().BoolVar(&cloudsCheck, "check", false, "Probe each cloud")
	cloudsCmd.Flags().IntVar(&cloudsConcurrency, "concurrency", 4, "Maximum concurrent probes")
	rootCmd.AddCommand(cloudsCmd)
}

type cloudRow struct {
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Endpoint    string        `json:"endpoint" yaml:"endpoint"`
	Default     bool          `json:"default" yaml:"default"`
	Status      health.Status `json:"status,omitempty" yaml:"status,omitempty"`
	Latency     time.Duration `json:"latency,omitempty" yaml:"latency,omitempty"`
	Error       string        `json:"error,omitempty" yaml:"error,omitempty"`
}

func runClouds(cmd *cobra.Command, args []string) error {
	cfg, err := app.Default.LoadConfig()
	if err != nil {
		return err
	}

	if len(cfg.Clouds) == 0 {
		if structured() {
			return printData(cmd.OutOrStdout(), []cloudRow{}, nil)
		}
		logInfo("No clouds configured. Add a [[cloud]] entry to %s", paths().ConfigFile())
		return nil
	}

	rows := make([]cloudRow, len(cfg.Clouds))
	for i, cloud := range cfg.Clouds {
		rows[i] = cloudRow{
			Name:        cloud.Name,
			Description: cloud.DisplayName(),
			Endpoint:    cloud.Endpoint,
			Default:     cloud.Name == cfg.DefaultCloud,
		}
	}

	if cloudsCheck {
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(max(cloudsConcurrency, 1))
		for i := range rows {
			row := &rows[i]
			g.Go(func() error {
				c, err := app.Default.Client(ctx, row.Name)
				if err != nil {
					row.Status = health.StatusUnreachable
					row.Error = err.Error()
					return nil
				}
				result := health.CheckCloud(ctx, c)
				row.Status = result.Status
				row.Latency = result.Latency
				row.Error = result.Error()
				record(audit.EventCheck, row.Name, row.Endpoint, string(result.Status))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	if err := printData(cmd.OutOrStdout(), rows, func(w *tabwriter.Writer) {
		if cloudsCheck {
			fmt.Fprintln(w, "NAME\tDESCRIPTION\tENDPOINT\tSTATUS\tLATENCY")
			fmt.Fprintln(w, "----\t-----------\t--------\t------\t-------")
		} else {
			fmt.Fprintln(w, "NAME\tDESCRIPTION\tENDPOINT")
			fmt.Fprintln(w, "----\t-----------\t--------")
		}
		for _, row := range rows {
			name := row.Name
			if row.Default {
				name += " *"
			}
			if cloudsCheck {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", name, row.Description, row.Endpoint,
					formatStatus(row.Status), health.FormatLatency(row.Latency))
			} else {
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, row.Description, row.Endpoint)
			}
		}
	}); err != nil {
		return err
	}

	if cloudsCheck && !structured() {
		var failing int
		for _, row := range rows {
			if row.Status != health.StatusReachable {
				failing++
			}
		}
		if failing > 0 {
			logWarning("%d of %d clouds are not usable", failing, len(rows))
		}
	}
	return nil
}

func formatStatus(status health.Status) string {
	switch status {
	case health.StatusReachable:
		return "✓ reachable"
	case health.StatusUnauthorized:
		return "⚠ unauthorized"
	case health.StatusUnreachable:
		return "✗ unreachable"
	default:
		return string(status)
	}
}
