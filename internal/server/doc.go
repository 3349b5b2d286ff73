// Package server exposes the descriptor helpers over HTTP as JSON.
//
// Every route is scoped to a configured cloud:
//
//	GET /api/clouds
//	GET /api/clouds/{cloud}/check
//	GET /api/clouds/{cloud}/workspaces
//	GET /api/clouds/{cloud}/workspaces/{workspace}/boxes
//	GET /api/clouds/{cloud}/workspaces/{workspace}/profiles?box=
//	GET /api/clouds/{cloud}/workspaces/{workspace}/instances?box=
//	GET /api/clouds/{cloud}/boxes/{box}/versions
//	GET /api/clouds/{cloud}/boxes/{box}/stack
//	GET /api/clouds/{cloud}/boxes/{box}/check
//	GET /api/clouds/{cloud}/instances/{instance}/stack
//	GET /api/clouds/{cloud}/instances/{instance}/variables
//	GET /healthz
//
// List routes always answer 200 with a JSON array; failures give an empty
// array and are logged. Check routes answer a descriptor.Validation object.
// Requests can be rate limited per client address.
package server
