package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gsanchezu/elasticbox-plugin/internal/audit"
	"github.com/gsanchezu/elasticbox-plugin/internal/descriptor"
)

var workspacesCmd = &cobra.Command{
	Use:   "workspaces",
	Short: "List the workspaces of a cloud",
	Args:  cobra.NoArgs,
	RunE:  runWorkspaces,
}

func init() {
	rootCmd.AddCommand(workspacesCmd)
}

func runWorkspaces(cmd *cobra.Command, args []string) error {
	c, cloud, err := cloudClient(cmd.Context())
	if err != nil {
		return err
	}

	options := descriptor.Workspaces(cmd.Context(), c)
	record(audit.EventRequest, cloud, "workspaces", fmt.Sprintf("%d options", len(options)))
	return printOptions(cmd.OutOrStdout(), options, "No workspaces found")
}

// printOptions prints selection options, or an info line when there are none.
func printOptions(w io.Writer, options []descriptor.Option, empty string) error {
	if len(options) == 0 && !structured() {
		logInfo("%s", empty)
		return nil
	}
	return printData(w, options, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "NAME\tID")
		fmt.Fprintln(tw, "----\t--")
		for _, o := range options {
			fmt.Fprintf(tw, "%s\t%s\n", o.Name, o.Value)
		}
	})
}
