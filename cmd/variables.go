package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gsanchezu/elasticbox-plugin/internal/audit"
	"github.com/gsanchezu/elasticbox-plugin/internal/descriptor"
)

var variablesCmd = &cobra.Command{
	Use:   "variables <instance>",
	Short: "Show the variables of an instance's main box with their current values",
	Args:  cobra.ExactArgs(1),
	RunE:  runVariables,
}

func init() {
	rootCmd.AddCommand(variablesCmd)
}

func runVariables(cmd *cobra.Command, args []string) error {
	instance := args[0]

	c, cloud, err := cloudClient(cmd.Context())
	if err != nil {
		return err
	}

	variables := descriptor.InstanceVariables(cmd.Context(), c, instance)
	record(audit.EventRequest, cloud, "instances/"+instance+"/variables", fmt.Sprintf("%d variables", len(variables)))

	if len(variables) == 0 && !structured() {
		logInfo("No variables found for instance %s", instance)
		return nil
	}

	return printData(cmd.OutOrStdout(), variables, func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "NAME\tTYPE\tVALUE")
		fmt.Fprintln(w, "----\t----\t-----")
		for _, v := range variables {
			fmt.Fprintf(w, "%s\t%s\t%s\n", v.Name, v.Type, v.Value)
		}
	})
}
