package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gsanchezu/elasticbox-plugin/internal/app"
	"github.com/gsanchezu/elasticbox-plugin/internal/audit"
	"github.com/gsanchezu/elasticbox-plugin/internal/descriptor"
	"github.com/gsanchezu/elasticbox-plugin/internal/errors"
)

var checkBoxCmd = &cobra.Command{
	Use:   "check-box <box>",
	Short: "Check that a box can run as a build agent",
	Long: `Check that a box or box version declares the variables the CI host sets
when it turns an instance into a build agent (JENKINS_URL, SLAVE_NAME).

Variables found only in a child box give a warning. Missing variables fail
with exit code 5.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckBox,
}

var checkCloudCmd = &cobra.Command{
	Use:   "check-cloud [cloud]",
	Short: "Check that a cloud answers with its configured token",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheckCloud,
}

func init() {
	rootCmd.AddCommand(checkBoxCmd)
	rootCmd.AddCommand(checkCloudCmd)
}

var (
	levelOKStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	levelWarningStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("214"))

	levelErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingLeft(2)
)

func runCheckBox(cmd *cobra.Command, args []string) error {
	box := args[0]

	c, cloud, err := cloudClient(cmd.Context())
	if err != nil {
		return err
	}

	v := descriptor.CheckAgentBox(cmd.Context(), c, box)
	record(audit.EventCheck, cloud, "boxes/"+box, string(v.Level))
	return reportValidation(cmd, "box "+box, v)
}

func runCheckCloud(cmd *cobra.Command, args []string) error {
	name := cloudName
	if len(args) == 1 {
		name = args[0]
	}
	if name == "" {
		if cloud, err := selectedCloud(); err == nil {
			name = cloud.Name
		}
	}

	v := descriptor.CheckCloud(cmd.Context(), app.Default, name)
	if name != "" {
		record(audit.EventCheck, name, "cloud", string(v.Level))
	}
	return reportValidation(cmd, "cloud "+name, v)
}

// reportValidation prints a validation and turns a failed one into a
// validation error.
func reportValidation(cmd *cobra.Command, subject string, v descriptor.Validation) error {
	if structured() {
		if err := printData(cmd.OutOrStdout(), v, nil); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), renderValidation(subject, v))
	}

	if v.IsError() {
		return errors.ValidationError(fmt.Sprintf("%s failed validation", subject))
	}
	return nil
}

func renderValidation(subject string, v descriptor.Validation) string {
	var label string
	switch v.Level {
	case descriptor.LevelWarning:
		label = levelWarningStyle.Render("⚠ " + subject)
	case descriptor.LevelError:
		label = levelErrorStyle.Render("✗ " + subject)
	default:
		label = levelOKStyle.Render("✓ " + subject)
	}
	if v.Message == "" {
		return label
	}
	return label + "\n" + messageStyle.Render(v.Message)
}
