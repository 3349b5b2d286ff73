// Package health probes ElasticBox clouds.
//
// A probe lists the cloud's workspaces with the configured token and
// reports one of:
//
//	StatusReachable    - the API answered
//	StatusUnauthorized - the API answered 401 or 403
//	StatusUnreachable  - any other failure
//
// Usage:
//
//	result := health.CheckCloud(ctx, client)
//	fmt.Println(result.Status, health.FormatLatency(result.Latency))
//
// Probes without a context deadline are bounded by DefaultProbeTimeout.
package health
