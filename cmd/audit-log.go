package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gsanchezu/elasticbox-plugin/internal/app"
)

var auditLogCmd = &cobra.Command{
	Use:   "audit-log [cloud]",
	Short: "Display the audit trail for a cloud",
	Long: `Display the requests, checks and waits recorded for a cloud.

Without an argument the cloud selected by --cloud or default_cloud is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuditLog,
}

var (
	auditLogLines int
	auditLogClear bool
)

func init() {
	auditLogCmd.Flags().IntVarP(&auditLogLines, "lines", "n", 0, "Only show the last n events (0 = all)")
	auditLogCmd.Flags().BoolVar(&auditLogClear, "clear", false, "Remove the audit trail instead of showing it")
	rootCmd.AddCommand(auditLogCmd)
}

func runAuditLog(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		cloud, err := selectedCloud()
		if err != nil {
			return err
		}
		name = cloud.Name
	}

	auditLogger := app.Default.Audit
	if auditLogClear {
		if err := auditLogger.Remove(name); err != nil {
			return fmt.Errorf("failed to clear audit log: %w", err)
		}
		logSuccess("Cleared audit trail for cloud %s", name)
		return nil
	}

	events, err := auditLogger.Events(name)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}
	if auditLogLines > 0 && len(events) > auditLogLines {
		events = events[len(events)-auditLogLines:]
	}

	if len(events) == 0 {
		logInfo("No events found for cloud %s", name)
		return nil
	}

	out := cmd.OutOrStdout()
	for _, e := range events {
		if structured() {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to marshal event: %w", err)
			}
			fmt.Fprintln(out, string(data))
		} else {
			ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
			if e.Details != "" {
				fmt.Fprintf(out, "[%s] %-8s %s (%s)\n", ts, e.Type, e.Target, e.Details)
			} else {
				fmt.Fprintf(out, "[%s] %-8s %s\n", ts, e.Type, e.Target)
			}
		}
	}

	return nil
}
