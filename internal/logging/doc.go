// Package logging provides logging utilities for ebctl.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Setup(logging.Options{Verbose: true, Writer: os.Stderr})
//	logging.FetchFailed("boxes", err, logging.Workspace(ws))
//	logging.ForCloud("prod").Warn("slow response", "latency", d)
//
// Attributes whose key ends in "token" are written as "[redacted]".
//
// # User Output
//
//	logging.UserInfo("No instances found in workspace %s", ws)
//	logging.UserSuccess("Cloud %s is reachable", name)
//	logging.UserWarning("%s", validation.Message)
//	logging.UserError("%s", validation.Message)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// SetUserOutput swaps both streams, which tests use to capture output.
package logging
