package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gsanchezu/elasticbox-plugin/internal/audit"
	"github.com/gsanchezu/elasticbox-plugin/internal/descriptor"
)

var boxesCmd = &cobra.Command{
	Use:   "boxes <workspace>",
	Short: "List the boxes of a workspace",
	Args:  cobra.ExactArgs(1),
	RunE:  runBoxes,
}

var versionsCmd = &cobra.Command{
	Use:   "versions <box>",
	Short: "List the versions of a box",
	Long: `List the versions of a box, newest first as returned by the cloud.

The first entry, "Latest", selects the box itself rather than a published
version.`,
	Args: cobra.ExactArgs(1),
	RunE: runVersions,
}

var profilesCmd = &cobra.Command{
	Use:   "profiles <workspace> <box>",
	Short: "List the deployment profiles of a box in a workspace",
	Args:  cobra.ExactArgs(2),
	RunE:  runProfiles,
}

func init() {
	rootCmd.AddCommand(boxesCmd)
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(profilesCmd)
}

func runBoxes(cmd *cobra.Command, args []string) error {
	workspace := args[0]

	c, cloud, err := cloudClient(cmd.Context())
	if err != nil {
		return err
	}

	options := descriptor.Boxes(cmd.Context(), c, workspace)
	record(audit.EventRequest, cloud, "workspaces/"+workspace+"/boxes", fmt.Sprintf("%d options", len(options)))
	return printOptions(cmd.OutOrStdout(), options, fmt.Sprintf("No boxes found in workspace %s", workspace))
}

func runVersions(cmd *cobra.Command, args []string) error {
	box := args[0]

	c, cloud, err := cloudClient(cmd.Context())
	if err != nil {
		return err
	}

	options := descriptor.BoxVersions(cmd.Context(), c, box)
	record(audit.EventRequest, cloud, "boxes/"+box+"/versions", fmt.Sprintf("%d options", len(options)))
	return printOptions(cmd.OutOrStdout(), options, fmt.Sprintf("No versions found for box %s", box))
}

func runProfiles(cmd *cobra.Command, args []string) error {
	workspace, box := args[0], args[1]

	c, cloud, err := cloudClient(cmd.Context())
	if err != nil {
		return err
	}

	options := descriptor.Profiles(cmd.Context(), c, workspace, box)
	record(audit.EventRequest, cloud, "workspaces/"+workspace+"/profiles", fmt.Sprintf("box %s: %d options", box, len(options)))
	return printOptions(cmd.OutOrStdout(), options, fmt.Sprintf("No profiles found for box %s in workspace %s", box, workspace))
}
