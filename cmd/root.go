package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gsanchezu/elasticbox-plugin/internal/app"
	"github.com/gsanchezu/elasticbox-plugin/internal/config"
	"github.com/gsanchezu/elasticbox-plugin/internal/logging"
)

var (
	verbose      bool
	jsonOutput   bool
	configDir    string
	stateDir     string
	cloudName    string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "ebctl",
	Short: "ElasticBox box stack and descriptor helper CLI",
	Long: `ebctl browses ElasticBox clouds the way a CI job configuration form does.

It lists workspaces, boxes, versions, profiles and instances, resolves the
flattened box stack of a box or instance with all overrides applied, and
validates that a box can run as a build agent.

Clouds are configured in config.toml under the config directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(logging.Options{Verbose: verbose, JSON: jsonOutput, Writer: os.Stderr})
		logging.SetUserOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())

		if err := validateOutputFormat(); err != nil {
			return err
		}

		if configDir != "" || stateDir != "" {
			defaults := config.DefaultPaths()
			if configDir == "" {
				configDir = defaults.ConfigDir
			}
			if stateDir == "" {
				stateDir = defaults.StateDir
			}
			app.SetDefault(app.New(app.WithPaths(config.NewPaths(configDir, stateDir))))
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default $"+config.EnvConfigDir+" or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "State directory for audit journals (default $"+config.EnvStateDir+")")
	rootCmd.PersistentFlags().StringVarP(&cloudName, "cloud", "c", "", "Cloud to use (default: default_cloud from config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", string(formatTable), "Output format: table, json or yaml")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
)
