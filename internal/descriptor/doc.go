// Package descriptor provides the helpers behind cloud, workspace, box and
// instance selection forms.
//
// Every helper takes an explicit elasticbox.Client. Helpers never return an
// error: a nil client or blank input gives an empty result, and API failures
// are logged and also give an empty result. Option lists are sorted by name
// except box versions, which keep the API order after the leading "Latest".
//
//	options := descriptor.Boxes(ctx, client, workspaceID)
//	stack := descriptor.BoxStack(ctx, client, boxID)
//	v := descriptor.CheckAgentBox(ctx, client, boxID)
//	if v.IsError() {
//	    logging.UserError("%s", v.Message)
//	}
//
// # Instances
//
// Instances applies InstanceFilter: terminated instances are dropped, and
// unless the box is AnyBox only instances containing the box are kept.
//
// # Validations
//
// CheckAgentBox and CheckCloud return a Validation with level ok, warning
// or error and a message for the form.
package descriptor
