// Package config provides configuration types and loading for ebctl.
//
// # Configuration File
//
// Clouds are configured in <config dir>/config.toml:
//
//	default_cloud = "prod"
//
//	[[cloud]]
//	name = "prod"
//	description = "ElasticBox Production"
//	endpoint = "https://elasticbox.example.com"
//	token_file = "prod.token"
//	timeout = "30s"
//
// token_file is resolved inside the config directory and may not escape
// it. Exactly one of token and token_file must be set.
//
// # Paths
//
// Paths holds the config directory, the state directory and the audit
// directory below it. DefaultPaths uses EBCTL_CONFIG_DIR and EBCTL_STATE_DIR
// when set, otherwise the user config directory and $XDG_STATE_HOME
// (or ~/.local/state).
//
// # Validation
//
// Config and Cloud implement Validate(). Load validates after parsing and
// rejects unknown keys.
package config
