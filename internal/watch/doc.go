// Package watch polls ElasticBox until something changes.
//
// WaitUntil evaluates a Condition on an interval until it holds or the
// timeout elapses:
//
//	ok, err := watch.WaitUntil(ctx, watch.InstanceDeployed(client, id), 10*time.Minute, 5*time.Second)
//
// WaitForInstance wraps it for the common case and maps the outcome to
// typed errors (Timeout, or a general error for unavailable instances).
//
// Monitor probes every configured cloud on a ticker and keeps the latest
// results for the HTTP server's health endpoint.
package watch
