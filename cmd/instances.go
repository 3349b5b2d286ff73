package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gsanchezu/elasticbox-plugin/internal/audit"
	"github.com/gsanchezu/elasticbox-plugin/internal/descriptor"
)

var instancesCmd = &cobra.Command{
	Use:   "instances <workspace>",
	Short: "List the live instances of a workspace",
	Long: `List the instances of a workspace that are not terminated.

With --box only instances deployed from that box are shown.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstances,
}

var instancesBox string

func init() {
	instancesCmd.Flags().StringVarP(&instancesBox, "box", "b", descriptor.AnyBox, "Only show instances containing this box")
	rootCmd.AddCommand(instancesCmd)
}

func runInstances(cmd *cobra.Command, args []string) error {
	workspace := args[0]

	c, cloud, err := cloudClient(cmd.Context())
	if err != nil {
		return err
	}

	instances := descriptor.Instances(cmd.Context(), c, workspace, instancesBox)
	record(audit.EventRequest, cloud, "workspaces/"+workspace+"/instances", fmt.Sprintf("box %s: %d instances", instancesBox, len(instances)))

	if len(instances) == 0 && !structured() {
		logInfo("No instances found in workspace %s", workspace)
		return nil
	}

	options := make([]descriptor.Option, len(instances))
	for i, instance := range instances {
		options[i] = descriptor.Option{Name: instance.Name, Value: instance.ID}
	}
	if structured() {
		return printData(cmd.OutOrStdout(), options, nil)
	}

	return printData(cmd.OutOrStdout(), nil, func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "INSTANCE\tID\tSTATE")
		fmt.Fprintln(w, "--------\t--\t-----")
		for _, instance := range instances {
			fmt.Fprintf(w, "%s\t%s\t%s\n", instance.Name, instance.ID, instance.State)
		}
	})
}
