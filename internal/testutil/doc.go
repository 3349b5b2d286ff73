// Package testutil provides shared test helpers: a fake ElasticBox API
// server, embedded fixtures, and a TestEnv that points app.Default at them.
package testutil
