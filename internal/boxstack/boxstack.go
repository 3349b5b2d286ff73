package boxstack

import (
	"strings"

	"github.com/gsanchezu/elasticbox-plugin/internal/elasticbox"
)

// DefaultIcon is served for boxes without an icon of their own.
const DefaultIcon = "/images/platform/box.png"

// StackBox is one entry of a flattened box stack.
type StackBox struct {
	ID        string                `json:"id" yaml:"id"`
	Name      string                `json:"name" yaml:"name"`
	Icon      string                `json:"icon" yaml:"icon"`
	Variables []elasticbox.Variable `json:"variables" yaml:"variables"`

	// Scope is the dotted path of the box variable that pulled this box in.
	Scope string `json:"-" yaml:"-"`
}

// Override is a scoped variable recorded while walking the hierarchy. Scope
// is the full dotted path of the box the value is meant for.
type Override struct {
	Name  string
	Scope string
	Value string
}

// FindBox returns the box with the given id, falling back to a box whose
// version was published from that id. It returns nil when neither matches.
func FindBox(boxes []elasticbox.Box, id string) *elasticbox.Box {
	for i := range boxes {
		if boxes[i].ID == id {
			return &boxes[i]
		}
	}
	for i := range boxes {
		if boxes[i].Version != nil && boxes[i].Version.Box == id {
			return &boxes[i]
		}
	}
	return nil
}

// IconURL resolves a box icon against the deployment endpoint.
func IconURL(endpoint, icon string) string {
	switch {
	case icon == "":
		icon = DefaultIcon
	case icon[0] != '/':
		icon = "/" + icon
	}
	return endpoint + icon
}

// Resolve flattens the hierarchy rooted at rootID into pre-order. Scoped
// variables found on the way replace the values declared by the descendant
// they target. An unknown root yields an empty stack.
func Resolve(rootID string, boxes []elasticbox.Box, endpoint string) []StackBox {
	r := &resolution{
		boxes:    boxes,
		endpoint: endpoint,
		visiting: make(map[string]bool),
	}
	stack := r.walk("", rootID)
	if stack == nil {
		return []StackBox{}
	}
	return stack
}

// resolution carries the state shared by one Resolve call.
type resolution struct {
	boxes     []elasticbox.Box
	endpoint  string
	overrides []Override

	// ids of the boxes on the current path, to cut reference cycles
	visiting map[string]bool
}

func (r *resolution) walk(scope, boxID string) []StackBox {
	box := FindBox(r.boxes, boxID)
	if box == nil || r.visiting[box.ID] {
		return nil
	}
	r.visiting[box.ID] = true
	defer delete(r.visiting, box.ID)

	entry := StackBox{
		ID:        box.ID,
		Name:      box.Name,
		Icon:      IconURL(r.endpoint, box.Icon),
		Variables: []elasticbox.Variable{},
		Scope:     scope,
	}

	var children []elasticbox.Variable
	for _, v := range box.Variables {
		switch v.Kind() {
		case elasticbox.KindOverride:
			full := joinScope(scope, v.Scope)
			if r.findOverride(v.Name, full) == nil {
				r.overrides = append(r.overrides, Override{Name: v.Name, Scope: full, Value: v.Value})
			}
		case elasticbox.KindBox:
			children = append(children, v)
		default:
			resolved := v
			resolved.Scope = scope
			if o := r.findOverride(v.Name, scope); o != nil {
				resolved.Value = o.Value
			}
			entry.Variables = append(entry.Variables, resolved)
		}
	}

	stack := []StackBox{entry}
	for _, child := range children {
		stack = append(stack, r.walk(joinScope(scope, child.Name), child.Value)...)
	}
	return stack
}

func (r *resolution) findOverride(name, scope string) *Override {
	for i := range r.overrides {
		if r.overrides[i].Name == name && r.overrides[i].Scope == scope {
			return &r.overrides[i]
		}
	}
	return nil
}

func joinScope(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}

// HasVariables reports whether the box declares every name in names.
func (b StackBox) HasVariables(names ...string) bool {
	declared := make(map[string]bool, len(b.Variables))
	for _, v := range b.Variables {
		declared[v.Name] = true
	}
	for _, name := range names {
		if !declared[name] {
			return false
		}
	}
	return true
}

// ScopeDepth returns the nesting level of a dotted scope.
func ScopeDepth(scope string) int {
	if scope == "" {
		return 0
	}
	return strings.Count(scope, ".") + 1
}
