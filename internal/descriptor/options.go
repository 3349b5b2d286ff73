package descriptor

import (
	"context"
	"sort"
	"strings"

	"github.com/gsanchezu/elasticbox-plugin/internal/elasticbox"
	"github.com/gsanchezu/elasticbox-plugin/internal/logging"
)

// LatestVersion is the display name of the option selecting a box's head.
const LatestVersion = "Latest"

// Option is one entry of a selection list.
type Option struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// SortOptions orders options by display name using byte-wise comparison.
func SortOptions(options []Option) []Option {
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Name < options[j].Name
	})
	return options
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Workspaces lists the workspaces visible to the client.
func Workspaces(ctx context.Context, c elasticbox.Client) []Option {
	options := []Option{}
	if c == nil {
		return options
	}

	workspaces, err := c.GetWorkspaces(ctx)
	if err != nil {
		logging.FetchFailed("workspaces", err)
		return options
	}
	for _, ws := range workspaces {
		options = append(options, Option{Name: ws.Name, Value: ws.ID})
	}
	return SortOptions(options)
}

// Boxes lists the boxes of a workspace.
func Boxes(ctx context.Context, c elasticbox.Client, workspace string) []Option {
	options := []Option{}
	if c == nil || isBlank(workspace) {
		return options
	}

	boxes, err := c.GetBoxes(ctx, workspace)
	if err != nil {
		logging.FetchFailed("boxes", err, logging.Workspace(workspace))
		return options
	}
	for _, box := range boxes {
		options = append(options, Option{Name: box.Name, Value: box.ID})
	}
	return SortOptions(options)
}

// BoxVersions lists the versions of a box, headed by a "Latest" entry that
// selects the box itself. Versions keep the order the API returns them in.
func BoxVersions(ctx context.Context, c elasticbox.Client, box string) []Option {
	options := []Option{}
	if c == nil || isBlank(box) {
		return options
	}

	options = append(options, Option{Name: LatestVersion, Value: box})
	versions, err := c.GetBoxVersions(ctx, box)
	if err != nil {
		logging.FetchFailed("box versions", err, logging.Box(box))
		return options
	}
	for _, v := range versions {
		description := ""
		if v.Version != nil {
			description = v.Version.Description
		}
		options = append(options, Option{Name: description, Value: v.ID})
	}
	return options
}

// Profiles lists the deployment profiles of a box in a workspace.
func Profiles(ctx context.Context, c elasticbox.Client, workspace, box string) []Option {
	options := []Option{}
	if c == nil || isBlank(workspace) || isBlank(box) {
		return options
	}

	profiles, err := c.GetProfiles(ctx, workspace, box)
	if err != nil {
		logging.FetchFailed("profiles", err, logging.Workspace(workspace), logging.Box(box))
		return options
	}
	for _, p := range profiles {
		options = append(options, Option{Name: p.Name, Value: p.ID})
	}
	return SortOptions(options)
}

// Clouds lists the configured clouds, labelled by description when set.
func Clouds(src CloudSource) []Option {
	options := []Option{}
	if src == nil {
		return options
	}
	for _, cloud := range src.Clouds() {
		options = append(options, Option{Name: cloud.DisplayName(), Value: cloud.Name})
	}
	return options
}
