// Package errors provides typed errors with exit codes for ebctl.
//
// # Error Types
//
// EBError is the base error type that wraps an error with an exit code:
//
//	type EBError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
//	ExitSuccess       = 0  // Success
//	ExitGeneralError  = 1  // General/unknown errors
//	ExitCloudNotFound = 2  // Cloud is not configured
//	ExitTransport     = 3  // ElasticBox API call failed
//	ExitNotFound      = 4  // Box, instance or workspace does not exist
//	ExitValidation    = 5  // Validation failed (e.g. missing agent variables)
//	ExitConfigError   = 6  // Configuration error
//	ExitTimeout       = 7  // Wait timed out
//
// # Error Constructors
//
//	errors.CloudNotFound("prod")
//	errors.TransportError("get workspaces", err)
//	errors.NotFound("instance", "i-123")
//	errors.ValidationError("missing JENKINS_URL")
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
