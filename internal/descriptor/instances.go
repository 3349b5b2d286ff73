package descriptor

import (
	"context"
	"fmt"
	"sort"

	"github.com/gsanchezu/elasticbox-plugin/internal/boxstack"
	"github.com/gsanchezu/elasticbox-plugin/internal/elasticbox"
	"github.com/gsanchezu/elasticbox-plugin/internal/logging"
)

// AnyBox is the box filter value that matches every instance.
const AnyBox = "AnyBox"

// InstanceFilter selects live instances deployed from a given box.
type InstanceFilter struct {
	BoxID string
}

// Accept reports whether the instance is not terminated and, unless the
// filter matches any box, contains the filter's box.
func (f InstanceFilter) Accept(instance *elasticbox.Instance) bool {
	if instance.Terminated() {
		return false
	}
	if f.BoxID == "" || f.BoxID == AnyBox {
		return true
	}
	return boxstack.FindBox(instance.Boxes, f.BoxID) != nil
}

// DisplayName formats an instance the way selection lists show it.
func DisplayName(instance *elasticbox.Instance) string {
	return fmt.Sprintf("%s - %s - %s", instance.Name, instance.Environment, instance.Service.ID)
}

// Instances lists the live instances of a workspace deployed from box, with
// their names replaced by DisplayName and sorted by it.
func Instances(ctx context.Context, c elasticbox.Client, workspace, box string) []elasticbox.Instance {
	instances := []elasticbox.Instance{}
	if c == nil || isBlank(workspace) || isBlank(box) {
		return instances
	}

	listed, err := c.GetInstances(ctx, workspace)
	if err != nil {
		logging.FetchFailed("instances of workspace", err, logging.Workspace(workspace))
		return instances
	}

	// Some API releases return instances with box references only; fetch
	// the full records so the filter can match on box ids.
	if len(listed) > 0 && len(listed[0].Boxes) > 0 && listed[0].Boxes[0].ID == "" {
		ids := make([]string, len(listed))
		for i := range listed {
			ids[i] = listed[i].ID
		}
		listed, err = c.GetInstances(ctx, workspace, ids...)
		if err != nil {
			logging.FetchFailed("instances of workspace", err, logging.Workspace(workspace))
			return instances
		}
	}

	filter := InstanceFilter{BoxID: box}
	for i := range listed {
		if filter.Accept(&listed[i]) {
			instance := listed[i]
			instance.Name = DisplayName(&instance)
			instances = append(instances, instance)
		}
	}

	sort.SliceStable(instances, func(i, j int) bool {
		return instances[i].Name < instances[j].Name
	})
	return instances
}

// InstanceOptions lists the instances of Instances as selection options.
func InstanceOptions(ctx context.Context, c elasticbox.Client, workspace, box string) []Option {
	instances := Instances(ctx, c, workspace, box)
	options := make([]Option, 0, len(instances))
	for _, instance := range instances {
		options = append(options, Option{Name: instance.Name, Value: instance.ID})
	}
	return options
}
