// Package elasticbox provides a client for the ElasticBox REST API.
//
// # Client
//
// Client is the narrow interface the rest of ebctl depends on:
//
//	c, err := elasticbox.NewClient("https://eb.example.com", token,
//	    elasticbox.WithTimeout(10*time.Second))
//	boxes, err := c.GetBoxStack(ctx, boxID)
//
// Every request carries the ElasticBox-Token and ElasticBox-Release headers.
// Failures, including non-2xx responses (*APIError), are returned wrapped in
// an errors.TransportError.
//
// # Variables
//
// Variable.Kind discriminates the three roles a variable plays when a box
// stack is flattened:
//
//	KindOverride  // non-empty scope: value for a descendant box
//	KindBox       // type "Box": value is the id of a child box
//	KindScalar    // everything else
//
// # Testing
//
// MockClient serves canned data from maps and supports per-method error
// injection with SetError.
package elasticbox
