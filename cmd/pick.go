package cmd

import (
	"context"
	"fmt"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/gsanchezu/elasticbox-plugin/internal/app"
	"github.com/gsanchezu/elasticbox-plugin/internal/boxstack"
	"github.com/gsanchezu/elasticbox-plugin/internal/descriptor"
	"github.com/gsanchezu/elasticbox-plugin/internal/elasticbox"
	"github.com/gsanchezu/elasticbox-plugin/internal/errors"
	"github.com/gsanchezu/elasticbox-plugin/internal/logging"
	"github.com/gsanchezu/elasticbox-plugin/internal/tui"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactively pick a box version and show its stack",
	Long: `Opens an interactive TUI that walks cloud, workspace, box and version
the way the job configuration form does, then prints the resolved stack
and the equivalent ebctl command.

With --instance the last step lists the live instances of the box instead
of its versions.

Use arrow keys or j/k to navigate, / to filter, Enter to select.
Esc goes back one step, q quits.`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

var pickInstance bool

func init() {
	pickCmd.Flags().BoolVar(&pickInstance, "instance", false, "Pick an instance instead of a box version")
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	logging.Debug("picker mode started", "instance", pickInstance)

	if len(descriptor.Clouds(app.Default)) == 0 {
		logInfo("No clouds configured. Add a [[cloud]] entry to %s", paths().ConfigFile())
		return nil
	}

	selected, err := tui.RunWizard(ctx, "ElasticBox", pickSteps())
	if errors.Is(err, tui.ErrCancelled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("picker error: %w", err)
	}

	cloud, last := selected[0].Value, selected[len(selected)-1].Value
	logging.Debug("picker result", "cloud", cloud, "selection", last)

	c, err := app.Default.Client(ctx, cloud)
	if err != nil {
		return err
	}

	var stack []boxstack.StackBox
	hint := []string{"ebctl", "--cloud", cloud, "stack"}
	if pickInstance {
		stack = descriptor.InstanceBoxStack(ctx, c, last)
		hint = append(hint, "--instance", last)
	} else {
		stack = descriptor.BoxStack(ctx, c, last)
		hint = append(hint, last)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, tui.RenderStack(stack))
	fmt.Fprintln(out, "\nTo show this stack again, run:")
	fmt.Fprintf(out, "  %s\n", shellquote.Join(hint...))
	return nil
}

// pickSteps builds the wizard steps. Every step builds its own client from
// the cloud chosen in the first step.
func pickSteps() []tui.Step {
	withClient := func(load func(ctx context.Context, c elasticbox.Client, selected []descriptor.Option) []descriptor.Option) func(context.Context, []descriptor.Option) []descriptor.Option {
		return func(ctx context.Context, selected []descriptor.Option) []descriptor.Option {
			c, err := app.Default.Client(ctx, selected[0].Value)
			if err != nil {
				logging.Error("Cannot connect to cloud", "cloud", selected[0].Value, "error", err)
				return []descriptor.Option{}
			}
			return load(ctx, c, selected)
		}
	}

	steps := []tui.Step{
		{
			Title: "Cloud",
			Load: func(ctx context.Context, selected []descriptor.Option) []descriptor.Option {
				return descriptor.Clouds(app.Default)
			},
		},
		{
			Title: "Workspace",
			Load: withClient(func(ctx context.Context, c elasticbox.Client, selected []descriptor.Option) []descriptor.Option {
				return descriptor.Workspaces(ctx, c)
			}),
		},
		{
			Title: "Box",
			Load: withClient(func(ctx context.Context, c elasticbox.Client, selected []descriptor.Option) []descriptor.Option {
				return descriptor.Boxes(ctx, c, selected[1].Value)
			}),
		},
	}

	if pickInstance {
		return append(steps, tui.Step{
			Title: "Instance",
			Load: withClient(func(ctx context.Context, c elasticbox.Client, selected []descriptor.Option) []descriptor.Option {
				return descriptor.InstanceOptions(ctx, c, selected[1].Value, selected[2].Value)
			}),
		})
	}
	return append(steps, tui.Step{
		Title: "Version",
		Load: withClient(func(ctx context.Context, c elasticbox.Client, selected []descriptor.Option) []descriptor.Option {
			return descriptor.BoxVersions(ctx, c, selected[2].Value)
		}),
	})
}
