package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gsanchezu/elasticbox-plugin/internal/audit"
	"github.com/gsanchezu/elasticbox-plugin/internal/elasticbox"
	"github.com/gsanchezu/elasticbox-plugin/internal/watch"
)

var waitCmd = &cobra.Command{
	Use:   "wait <instance>",
	Short: "Wait for an instance to finish its current operation",
	Long: `Poll an instance until it leaves the processing state.

Exits with code 7 when the instance is still processing after --timeout,
and with code 1 when it ends up unavailable.`,
	Args: cobra.ExactArgs(1),
	RunE: runWait,
}

var (
	waitTimeout  time.Duration
	waitInterval time.Duration
)

func init() {
	waitCmd.Flags().DurationVar(&waitTimeout, "timeout", watch.DefaultWaitTimeout, "Maximum time to wait")
	waitCmd.Flags().DurationVar(&waitInterval, "interval", watch.DefaultPollInterval, "Polling interval")
	rootCmd.AddCommand(waitCmd)
}

func runWait(cmd *cobra.Command, args []string) error {
	id := args[0]

	c, cloud, err := cloudClient(cmd.Context())
	if err != nil {
		return err
	}

	logInfo("Waiting for instance %s (timeout %s)", id, waitTimeout)
	start := time.Now()
	instance, err := watch.WaitForInstance(cmd.Context(), c, id, waitTimeout, waitInterval)
	if err != nil {
		record(audit.EventWait, cloud, "instances/"+id, err.Error())
		return err
	}

	record(audit.EventWait, cloud, "instances/"+id, instance.State)
	elapsed := time.Since(start).Round(time.Second)
	if instance.State != elasticbox.StateDone {
		logWarning("Instance %s settled as %s after %s", id, instance.State, elapsed)
		return nil
	}
	logSuccess("Instance %s is %s after %s", id, instance.State, elapsed)
	return nil
}
