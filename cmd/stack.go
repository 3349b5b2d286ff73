package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gsanchezu/elasticbox-plugin/internal/audit"
	"github.com/gsanchezu/elasticbox-plugin/internal/boxstack"
	"github.com/gsanchezu/elasticbox-plugin/internal/descriptor"
	"github.com/gsanchezu/elasticbox-plugin/internal/errors"
	"github.com/gsanchezu/elasticbox-plugin/internal/tui"
)

var stackCmd = &cobra.Command{
	Use:   "stack [box]",
	Short: "Show the resolved box stack of a box or instance",
	Long: `Show the flattened box stack of a box or box version.

Child boxes referenced by Box variables follow their parent, and overrides
declared by ancestors replace the values of the variables they target.
With --instance the stack is resolved from the boxes an instance was
deployed from.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStack,
}

var stackInstance string

func init() {
	stackCmd.Flags().StringVarP(&stackInstance, "instance", "i", "", "Resolve the stack of this instance instead of a box")
	rootCmd.AddCommand(stackCmd)
}

func runStack(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0 && stackInstance == "":
		return errors.ValidationError("a box id or --instance is required")
	case len(args) == 1 && stackInstance != "":
		return errors.ValidationError("a box id and --instance are mutually exclusive")
	}

	c, cloud, err := cloudClient(cmd.Context())
	if err != nil {
		return err
	}

	var stack []boxstack.StackBox
	var target string
	if stackInstance != "" {
		target = "instances/" + stackInstance + "/stack"
		stack = descriptor.InstanceBoxStack(cmd.Context(), c, stackInstance)
	} else {
		target = "boxes/" + args[0] + "/stack"
		stack = descriptor.BoxStack(cmd.Context(), c, args[0])
	}
	record(audit.EventRequest, cloud, target, fmt.Sprintf("%d boxes", len(stack)))

	if structured() {
		return printData(cmd.OutOrStdout(), stack, nil)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), tui.RenderStack(stack))
	return err
}
