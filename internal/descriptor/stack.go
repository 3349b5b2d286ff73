package descriptor

import (
	"context"

	"github.com/gsanchezu/elasticbox-plugin/internal/boxstack"
	"github.com/gsanchezu/elasticbox-plugin/internal/elasticbox"
	"github.com/gsanchezu/elasticbox-plugin/internal/logging"
)

// BoxStack resolves the stack of a box or box version.
func BoxStack(ctx context.Context, c elasticbox.Client, box string) []boxstack.StackBox {
	if c == nil || isBlank(box) {
		return []boxstack.StackBox{}
	}

	boxes, err := c.GetBoxStack(ctx, box)
	if err != nil {
		logging.FetchFailed("variables for box", err, logging.Box(box))
		return []boxstack.StackBox{}
	}
	return boxstack.Resolve(box, boxes, c.EndpointURL())
}

// InstanceBoxStack resolves the stack an instance was deployed from, rooted
// at the instance's first box.
func InstanceBoxStack(ctx context.Context, c elasticbox.Client, instanceID string) []boxstack.StackBox {
	if c == nil || isBlank(instanceID) {
		return []boxstack.StackBox{}
	}

	instance, err := c.GetInstance(ctx, instanceID)
	if err != nil {
		logging.FetchFailed("variables for instance", err, logging.Instance(instanceID))
		return []boxstack.StackBox{}
	}
	if len(instance.Boxes) == 0 {
		return []boxstack.StackBox{}
	}
	return boxstack.Resolve(instance.Boxes[0].ID, instance.Boxes, c.EndpointURL())
}

// InstanceVariables returns the variables of an instance's main box with
// the values currently set on the instance.
func InstanceVariables(ctx context.Context, c elasticbox.Client, instanceID string) []elasticbox.Variable {
	if c == nil || isBlank(instanceID) {
		return []elasticbox.Variable{}
	}

	instance, err := c.GetInstance(ctx, instanceID)
	if err != nil {
		logging.FetchFailed("variables for instance", err, logging.Instance(instanceID))
		return []elasticbox.Variable{}
	}
	return MergeInstanceVariables(instance)
}

// MergeInstanceVariables copies the first box's declared variables and applies
// the instance's values in order. Each instance variable sets the first
// declared variable with the same name, so a later instance entry for a name
// replaces an earlier one and repeated declarations after the first keep
// their defaults.
func MergeInstanceVariables(instance *elasticbox.Instance) []elasticbox.Variable {
	if instance == nil || len(instance.Boxes) == 0 {
		return []elasticbox.Variable{}
	}

	merged := append([]elasticbox.Variable{}, instance.Boxes[0].Variables...)
	for _, v := range instance.Variables {
		for i := range merged {
			if merged[i].Name == v.Name {
				merged[i].Value = v.Value
				break
			}
		}
	}
	return merged
}
