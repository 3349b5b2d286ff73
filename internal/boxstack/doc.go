// Package boxstack flattens nested ElasticBox boxes into a box stack.
//
// A box may declare variables of type "Box" whose value is the id of another
// box. Resolve walks those references depth first and returns one StackBox per
// reachable box, root first:
//
//	stack := boxstack.Resolve(rootID, boxes, client.EndpointURL())
//
// # Scopes and overrides
//
// Every box in the stack has a scope: the dotted path of box variable names
// leading to it from the root ("" for the root, "db", "db.backup", ...). The
// scalar variables of a box are returned tagged with that scope.
//
// A variable with a non-empty scope is an override. It is not returned; its
// value replaces the declared value of the variable with the same name in the
// box at scope currentScope + "." + scope. The first override recorded for a
// (name, scope) pair wins, so values set closer to the root take precedence.
//
// Boxes that cannot be found, including the root, contribute nothing. A box
// already on the current path is not expanded again.
package boxstack
